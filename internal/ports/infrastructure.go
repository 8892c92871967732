// Package ports defines the interfaces between the scoring pipeline and the
// infrastructure layer. They enable dependency inversion and keep the engine
// testable without live providers.
package ports

import (
	"context"
	"time"
)

// LLMClient is the contract for reaching a generative-model provider.
// Implementations handle provider-specific authentication, request
// formatting, and response parsing.
type LLMClient interface {
	// Complete sends a completion request and returns the generated text.
	// The options map carries provider-tunable parameters; common keys:
	//   - "temperature": float64
	//   - "max_tokens": int
	//   - "system": string (system prompt)
	//   - "response_format": structured-output request, provider permitting
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// CompleteWithUsage behaves like Complete but also reports the input
	// and output token counts consumed by the request.
	CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (response string, tokensIn, tokensOut int, err error)

	// EstimateTokens approximates the token count of text. Useful for
	// cost estimation before a request is made.
	EstimateTokens(text string) (int, error)

	// GetModel returns the model identifier this client is configured for.
	GetModel() string
}

// MetricsCollector is the contract for recording operational metrics.
// Implementations integrate with observability platforms such as Prometheus.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric by value.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)
}
