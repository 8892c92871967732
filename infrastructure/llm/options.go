package llm

import (
	"fmt"
	"net/url"
	"sync"
	"time"
)

// Bounds for common request parameters, shared across providers.
const (
	// DefaultMaxTokens is the response budget used when callers do not
	// set "max_tokens".
	DefaultMaxTokens = 1024

	// MinTemperature and MaxTemperature bound the sampling temperature.
	// The upper bound is 2.0 to accommodate OpenAI and Gemini.
	MinTemperature = 0.0
	MaxTemperature = 2.0

	// MinTimeout and MaxTimeout bound client-side request timeouts.
	MinTimeout = 1 * time.Second
	MaxTimeout = 10 * time.Minute
)

// RequestOptions is the provider-neutral view of a request's tunable
// parameters, extracted from the generic options map.
type RequestOptions struct {
	// Model overrides the client's configured model for this request.
	Model string

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature controls sampling randomness. Nil keeps the provider
	// default.
	Temperature *float64

	// System is an optional system prompt.
	System string

	// JSONResponse requests structured JSON output from providers that
	// support it. Providers without a JSON mode ignore it.
	JSONResponse bool
}

// ParseRequestOptions extracts standardized parameters from a generic options
// map, falling back to defaultModel and package defaults for anything missing
// or out of range.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		Model:     extractString(opts, "model", defaultModel),
		MaxTokens: extractInt(opts, "max_tokens", DefaultMaxTokens),
		System:    extractString(opts, "system", ""),
	}

	if temp, ok := extractFloat(opts, "temperature"); ok && temp >= MinTemperature && temp <= MaxTemperature {
		options.Temperature = &temp
	}

	if format, ok := opts["response_format"].(string); ok && format == "json_object" {
		options.JSONResponse = true
	}

	return options
}

func extractString(opts map[string]any, key, defaultVal string) string {
	if val, ok := opts[key].(string); ok && val != "" {
		return val
	}
	return defaultVal
}

func extractInt(opts map[string]any, key string, defaultVal int) int {
	switch val := opts[key].(type) {
	case int:
		if val > 0 {
			return val
		}
	case float64:
		if val > 0 {
			return int(val)
		}
	}
	return defaultVal
}

func extractFloat(opts map[string]any, key string) (float64, bool) {
	switch val := opts[key].(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	}
	return 0, false
}

// ClampFloat64 forces val into [min, max].
func ClampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ValidateBaseURL checks that a base URL override is an absolute http or
// https URL and returns it normalized.
func ValidateBaseURL(baseURL string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("base URL is missing a host")
	}
	return parsed.String(), nil
}

// ValidateTimeout clamps a timeout into the supported range.
func ValidateTimeout(timeout time.Duration) time.Duration {
	if timeout < MinTimeout {
		return MinTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}

// TokenCounter estimates token counts when a provider does not report them.
type TokenCounter struct {
	// CharactersPerToken is the assumed average token width. The default
	// of 4 is a reasonable approximation for English text.
	CharactersPerToken float64
}

// NewTokenCounter returns a TokenCounter with the default ratio.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{CharactersPerToken: 4.0}
}

// EstimateTokens approximates the token count of text.
func (tc *TokenCounter) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(len(text)) / tc.CharactersPerToken)
}

// FallbackCount returns the provider-reported count when positive, otherwise
// an estimate derived from text.
func (tc *TokenCounter) FallbackCount(reported int, text string) int {
	if reported > 0 {
		return reported
	}
	return tc.EstimateTokens(text)
}

// BaseProvider supplies thread-safe model bookkeeping common to all
// providers.
type BaseProvider struct {
	mu    sync.RWMutex
	model string
}

// GetModel returns the currently configured model name.
func (b *BaseProvider) GetModel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

// SetModel updates the model used for subsequent requests.
func (b *BaseProvider) SetModel(model string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = model
}
