package llm

import (
	"context"
	"sync"
	"time"
)

// MockCoreLLM is a configurable CoreLLM test double. A script of responses
// can be queued so consecutive calls observe different payloads, which is
// how retry paths are exercised.
type MockCoreLLM struct {
	mu sync.Mutex

	// Responses is consumed one entry per call. When exhausted, the last
	// entry repeats.
	Responses []string

	// Err, when set, is returned by every call instead of a response.
	Err error

	// TokensIn and TokensOut are reported with each response.
	TokensIn  int
	TokensOut int

	// Model is the reported model identifier.
	Model string

	// Delay, when positive, is waited before responding; the wait aborts
	// on context cancellation.
	Delay time.Duration

	// CallCount tracks how many requests were made.
	CallCount int

	// LastPrompt and LastOpts capture the most recent request.
	LastPrompt string
	LastOpts   map[string]any
}

// NewMockCoreLLM returns a mock that answers every call with response.
func NewMockCoreLLM(response string) *MockCoreLLM {
	return &MockCoreLLM{
		Responses: []string{response},
		TokensIn:  10,
		TokensOut: 20,
		Model:     "mock-model",
	}
}

// DoRequest implements CoreLLM.
func (m *MockCoreLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	m.mu.Lock()
	call := m.CallCount
	m.CallCount++
	m.LastPrompt = prompt
	m.LastOpts = opts
	delay := m.Delay
	err := m.Err
	var response string
	if len(m.Responses) > 0 {
		if call >= len(m.Responses) {
			call = len(m.Responses) - 1
		}
		response = m.Responses[call]
	}
	tokensIn, tokensOut := m.TokensIn, m.TokensOut
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", 0, 0, ctx.Err()
		}
	}

	if err != nil {
		return "", 0, 0, err
	}
	return response, tokensIn, tokensOut, nil
}

// GetModel implements CoreLLM.
func (m *MockCoreLLM) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Model
}

// SetModel implements CoreLLM.
func (m *MockCoreLLM) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Model = model
}

// Calls returns the number of requests made so far.
func (m *MockCoreLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
