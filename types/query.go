package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

// GenerateParams is the body of POST /bot/generate.
type GenerateParams struct {
	UserID   string `json:"user_id" validate:"required"`
	Question string `json:"question" validate:"required"`
}

func (params *GenerateParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

type GenerateResponse struct {
	Response string `json:"response"`
}

type HistoryResponse struct {
	UserID   string              `json:"user_id"`
	Messages []ConversationEntry `json:"messages"`
}
