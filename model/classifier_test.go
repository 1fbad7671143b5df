package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassificationGreeting(t *testing.T) {
	cls, err := parseClassification(`{"intent":"greeting","reply":"My beloved Parth 🙏"}`)
	require.NoError(t, err)

	assert.Equal(t, IntentGreeting, cls.Intent)
	assert.Equal(t, "My beloved Parth 🙏", cls.Reply)
	assert.True(t, cls.ShortCircuit())
}

func TestParseClassificationQuestion(t *testing.T) {
	cls, err := parseClassification(`{"intent":"question","reply":""}`)
	require.NoError(t, err)

	assert.Equal(t, IntentQuestion, cls.Intent)
	assert.False(t, cls.ShortCircuit())
}

func TestParseClassificationMalformedJSON(t *testing.T) {
	_, err := parseClassification(`Yes - Krishna Response: greetings`)
	require.Error(t, err)

	var contractErr *ContractError
	assert.True(t, errors.As(err, &contractErr))
}

func TestParseClassificationUnknownIntent(t *testing.T) {
	_, err := parseClassification(`{"intent":"insult","reply":"hmpf"}`)

	var contractErr *ContractError
	require.True(t, errors.As(err, &contractErr))
}

func TestParseClassificationGreetingWithoutReply(t *testing.T) {
	_, err := parseClassification(`{"intent":"casual","reply":""}`)

	var contractErr *ContractError
	require.True(t, errors.As(err, &contractErr))
}

func TestUpstreamErrorNamesStage(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamError("embed", cause)

	assert.Contains(t, err.Error(), "embed")
	assert.True(t, errors.Is(err, cause))
}
