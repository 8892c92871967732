package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"input", NewInputError("not UTF-8"), ErrInput},
		{"config", NewConfigError("api_key", "missing"), ErrConfig},
		{"network", NewNetworkError("gpt-4o-mini", Usage{}, cause), ErrNetwork},
		{"schema", NewSchemaError(2, Usage{}, cause), ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.NotEmpty(t, tt.err.Error())

			// Wrapping must not break classification.
			wrapped := fmt.Errorf("pipeline: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
		})
	}
}

func TestNetworkErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := NewNetworkError("claude", Usage{TotalTokens: 12}, cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrNetwork))

	var netErr *NetworkError
	require.True(t, errors.As(error(err), &netErr))
	assert.Equal(t, 12, netErr.Usage.TotalTokens)
}

func TestSchemaErrorReportsAttempts(t *testing.T) {
	err := NewSchemaError(3, Usage{TotalTokens: 90}, errors.New("missing scorecard"))

	assert.Contains(t, err.Error(), "3 attempts")

	var schemaErr *SchemaError
	require.True(t, errors.As(error(err), &schemaErr))
	assert.Equal(t, 3, schemaErr.Attempts)
	assert.Equal(t, 90, schemaErr.Usage.TotalTokens)
}

func TestUsageAdd(t *testing.T) {
	var usage Usage
	usage.Add(Usage{Model: "gpt-4o-mini", PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30})
	usage.Add(Usage{Model: "gpt-4o-mini", PromptTokens: 5, CompletionTokens: 5, TotalTokens: 10})

	assert.Equal(t, "gpt-4o-mini", usage.Model)
	assert.Equal(t, 15, usage.PromptTokens)
	assert.Equal(t, 25, usage.CompletionTokens)
	assert.Equal(t, 40, usage.TotalTokens)
}
