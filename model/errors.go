package model

import "fmt"

// UpstreamError reports a failed call to one of the hosted providers.
// Stage names the pipeline step (classify, embed, generate) so the request
// boundary can say which provider broke.
type UpstreamError struct {
	Stage string
	Err   error
}

func NewUpstreamError(stage string, err error) *UpstreamError {
	return &UpstreamError{Stage: stage, Err: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s provider call failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ContractError reports classifier output that does not match the agreed
// response schema.
type ContractError struct {
	Raw string
	Err error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("classifier contract violation: %v", e.Err)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}
