package domain

import "math"

// RubricWeights are the per-axis proportions used to fold a ScoreCard into a
// single score. They mirror the coaching rubric: clarity, context, and the
// format contract carry the most weight, acceptance criteria the least.
// The weights sum to 1.0.
var RubricWeights = map[Axis]float64{
	AxisClarity:        0.20,
	AxisContext:        0.20,
	AxisConstraints:    0.15,
	AxisFormatContract: 0.20,
	AxisGuardrails:     0.15,
	AxisAcceptance:     0.10,
}

// RoundScore converts a fractional score to the nearest integer, clamped to
// the valid axis range. Rounding is half away from zero, which keeps the
// conversion monotone: a >= b implies RoundScore(a) >= RoundScore(b).
func RoundScore(v float64) int {
	return ClampAxisScore(int(math.Round(v)))
}

// HeuristicResult is the output of the deterministic offline analyzer:
// a per-axis score card plus the derived local score. It is created fresh
// for each scoring call and never mutated after construction.
type HeuristicResult struct {
	// Scorecard holds the six axis scores from pattern evidence alone.
	Scorecard ScoreCard `json:"scorecard"`

	// LocalScore is the rubric-weighted mean of the axis scores, rounded
	// to the nearest integer.
	LocalScore int `json:"local_score"`
}

// Usage captures token consumption metadata from one model evaluation.
type Usage struct {
	// Model identifies the provider model that served the request.
	Model string `json:"model"`

	// PromptTokens counts tokens in the request.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens counts tokens in the response.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the combined request and response token count.
	TotalTokens int `json:"total_tokens"`
}

// Add accumulates another usage record into u, keeping the model identifier
// from the most recent non-empty record. Retried attempts all bill tokens.
func (u *Usage) Add(other Usage) {
	if other.Model != "" {
		u.Model = other.Model
	}
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// ModelResult is the validated output of one generative-model evaluation.
// It is absent entirely when offline mode is active or the provider call
// failed irrecoverably.
type ModelResult struct {
	// Scorecard holds the model's six axis scores, clamped to [0, 100].
	Scorecard ScoreCard `json:"scorecard"`

	// ModelScore is the rubric-weighted mean of the model's axis scores,
	// computed locally rather than trusted from the payload.
	ModelScore int `json:"model_score"`

	// Improved is the prompt rewritten into the canonical six-section
	// structure.
	Improved string `json:"improved"`

	// Verification lists commands the model itself suggested. These are
	// informational; the authoritative list comes from the rule table.
	Verification []string `json:"verification,omitempty"`

	// Notes carries the model's critique plus any validation notes added
	// while clamping or defaulting axis scores.
	Notes []string `json:"notes,omitempty"`

	// Usage records the tokens consumed across all attempts.
	Usage Usage `json:"usage"`
}

// AggregatedResult is the sole externally visible artifact of a scoring
// call. It merges the heuristic and model score cards, carries the rewritten
// prompt and its diff, and explains every degradation through Notes.
// The record is immutable once returned.
type AggregatedResult struct {
	// LocalScore is the heuristic analyzer's weighted score.
	LocalScore int `json:"local_score"`

	// ModelScore is the model evaluator's weighted score. Nil when no
	// model result was available.
	ModelScore *int `json:"model_score,omitempty"`

	// FinalScore is the blended score. With a model result present it is
	// a convex combination of LocalScore and ModelScore; otherwise it
	// equals LocalScore.
	FinalScore int `json:"final_score"`

	// Scorecard holds the merged per-axis scores.
	Scorecard ScoreCard `json:"scorecard"`

	// Improved is the rewritten prompt, or the original text unchanged
	// when no rewrite was produced.
	Improved string `json:"improved"`

	// Diff is the unified diff between the original and improved prompt.
	// Empty when the two are identical.
	Diff string `json:"diff"`

	// Verification lists suggested validation commands in rule-table
	// order, deduplicated. May be empty.
	Verification []string `json:"verification"`

	// Notes describes degradations, risks, and rationale in order of
	// occurrence. May be empty.
	Notes []string `json:"notes"`

	// Usage carries token metadata when a model call was made.
	Usage *Usage `json:"usage,omitempty"`
}
