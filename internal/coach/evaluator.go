package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/promptkit/coach/internal/domain"
	"github.com/promptkit/coach/internal/ports"
)

// modelPayload is the JSON structure the evaluator demands from the model.
// Axis coverage and score ranges are checked separately so partial damage
// can be repaired with a note instead of discarding the whole response.
type modelPayload struct {
	Scorecard    map[string]int `json:"scorecard" validate:"required"`
	Improved     string         `json:"improved" validate:"required"`
	Verification []string       `json:"verification"`
	Notes        []string       `json:"notes"`
}

// Evaluator wraps a single generative-model call that scores, critiques,
// and rewrites a prompt. It is stateless and safe for concurrent use.
type Evaluator struct {
	client ports.LLMClient
	cfg    Config
}

// NewEvaluator creates an Evaluator backed by the given client.
func NewEvaluator(client ports.LLMClient, cfg Config) (*Evaluator, error) {
	if client == nil {
		return nil, domain.NewConfigError("client", "LLM client cannot be nil")
	}
	return &Evaluator{client: client, cfg: cfg}, nil
}

// Evaluate sends the prompt to the model and returns the validated result.
//
// Failure policy: a malformed or structurally invalid payload is retried
// with the same input up to cfg.MaxAttempts total calls, because formatting
// drift from the model, not network flakiness, is the dominant fault mode.
// Transport failures and timeouts abort immediately as a domain.NetworkError
// to avoid retry-storming the provider. Both error types carry whatever
// token usage accrued before the failure.
func (e *Evaluator) Evaluate(ctx context.Context, prompt string) (*domain.ModelResult, error) {
	options := map[string]any{
		"system":          evaluatorSystemPrompt,
		"temperature":     e.cfg.Temperature,
		"max_tokens":      e.cfg.MaxTokens,
		"response_format": "json_object",
	}

	var usage domain.Usage
	var lastErr error

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		response, tokensIn, tokensOut, err := e.client.CompleteWithUsage(ctx, prompt, options)
		usage.Add(domain.Usage{
			Model:            e.client.GetModel(),
			PromptTokens:     tokensIn,
			CompletionTokens: tokensOut,
			TotalTokens:      tokensIn + tokensOut,
		})
		if err != nil {
			return nil, domain.NewNetworkError(e.client.GetModel(), usage, err)
		}

		result, err := e.parseResponse(response)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt, err)
			continue
		}

		result.Usage = usage
		return result, nil
	}

	return nil, domain.NewSchemaError(e.cfg.MaxAttempts, usage, lastErr)
}

// parseResponse extracts, validates, and repairs the model payload. Missing
// or out-of-range axis scores are defaulted or clamped with a note appended,
// never silently dropped.
func (e *Evaluator) parseResponse(response string) (*domain.ModelResult, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON object found in response (%d chars)", len(response))
	}

	var payload modelPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if err := validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("invalid response structure: %w", err)
	}

	notes := append([]string(nil), payload.Notes...)

	scorecard := domain.NewScoreCard()
	for _, axis := range domain.Axes() {
		raw, ok := payload.Scorecard[string(axis)]
		if !ok {
			notes = append(notes, fmt.Sprintf("model omitted %s score; defaulted to 0", axis))
			continue
		}
		clamped := domain.ClampAxisScore(raw)
		if clamped != raw {
			notes = append(notes, fmt.Sprintf("model %s score %d out of range; clamped to %d", axis, raw, clamped))
		}
		scorecard[axis] = clamped
	}

	for key := range payload.Scorecard {
		if !domain.IsValidAxis(domain.Axis(key)) {
			notes = append(notes, fmt.Sprintf("model returned unknown axis %q; ignored", key))
		}
	}

	return &domain.ModelResult{
		Scorecard:    scorecard,
		ModelScore:   domain.RoundScore(scorecard.WeightedMean(domain.RubricWeights)),
		Improved:     payload.Improved,
		Verification: payload.Verification,
		Notes:        notes,
	}, nil
}

// extractJSON pulls a JSON object out of a response that may wrap it in a
// markdown code fence or surrounding prose. Returns "" when no balanced
// object is found.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	if idx := strings.Index(response, "```json"); idx != -1 {
		rest := response[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return response[start : i+1]
				}
			}
		}
	}
	return ""
}
