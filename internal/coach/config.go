// Package coach implements the prompt quality scoring and rewriting engine:
// a deterministic heuristic analyzer, an optional generative-model evaluator,
// a score aggregator, a verification-command inferencer, and a diff
// generator, composed into a single scoring pipeline.
package coach

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/promptkit/coach/internal/domain"
)

// Package-level validator for configuration and response structs.
var validate = validator.New()

// Defaults applied by DefaultConfig.
const (
	// DefaultProvider is the provider used when none is configured.
	DefaultProvider = "openai"

	// DefaultModel is the evaluation model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds each provider request.
	DefaultTimeout = 30 * time.Second

	// DefaultHeuristicWeight and DefaultModelWeight blend the two score
	// cards. They sum to 1.
	DefaultHeuristicWeight = 0.4
	DefaultModelWeight     = 0.6

	// DefaultMaxAttempts is the total number of provider calls allowed
	// while chasing a schema-valid response.
	DefaultMaxAttempts = 2

	// DefaultTemperature keeps evaluation output near-deterministic.
	DefaultTemperature = 0.2

	// DefaultMaxTokens budgets the rewrite plus critique.
	DefaultMaxTokens = 1500
)

// weightTolerance absorbs float error when checking that blend weights sum
// to 1.
const weightTolerance = 1e-9

// EvaluationMode is the pipeline variant resolved once at construction.
type EvaluationMode int

const (
	// ModeHeuristicOnly scores with the offline analyzer alone.
	ModeHeuristicOnly EvaluationMode = iota

	// ModeHeuristicPlusModel blends the analyzer with a model evaluation.
	ModeHeuristicPlusModel
)

// String returns a label for the mode, used in metrics.
func (m EvaluationMode) String() string {
	if m == ModeHeuristicPlusModel {
		return "heuristic+model"
	}
	return "heuristic"
}

// Config is the immutable engine configuration, established once at process
// start and passed into NewEngine. Component logic never reads the process
// environment.
type Config struct {
	// Offline disables the model evaluator entirely.
	Offline bool

	// Provider selects the LLM backend for online evaluation.
	Provider string `validate:"omitempty,oneof=openai anthropic google"`

	// Model overrides the provider's default model.
	Model string

	// APIKey authenticates against the provider. Required when online.
	APIKey string

	// BaseURL overrides the provider endpoint, mainly for testing.
	BaseURL string

	// Timeout bounds each provider request.
	Timeout time.Duration `validate:"min=0"`

	// HeuristicWeight and ModelWeight control the per-axis blend. They
	// must sum to 1.
	HeuristicWeight float64 `validate:"min=0,max=1"`
	ModelWeight     float64 `validate:"min=0,max=1"`

	// MaxAttempts is the total number of provider calls permitted while
	// the response fails structural validation. Transport failures are
	// never retried.
	MaxAttempts int `validate:"min=1,max=5"`

	// Temperature and MaxTokens are passed through to the provider.
	Temperature float64 `validate:"min=0,max=2"`
	MaxTokens   int     `validate:"min=1"`

	// RequestsPerSecond and Burst configure the client-side rate limiter.
	// Zero disables it.
	RequestsPerSecond float64 `validate:"min=0"`
	Burst             int     `validate:"min=0"`
}

// DefaultConfig returns a Config with the documented defaults and offline
// mode disabled. Callers still need to supply an APIKey for online use.
func DefaultConfig() Config {
	return Config{
		Provider:        DefaultProvider,
		Model:           DefaultModel,
		Timeout:         DefaultTimeout,
		HeuristicWeight: DefaultHeuristicWeight,
		ModelWeight:     DefaultModelWeight,
		MaxAttempts:     DefaultMaxAttempts,
		Temperature:     DefaultTemperature,
		MaxTokens:       DefaultMaxTokens,
	}
}

// Mode resolves the evaluation variant from the offline flag.
func (c Config) Mode() EvaluationMode {
	if c.Offline {
		return ModeHeuristicOnly
	}
	return ModeHeuristicPlusModel
}

// Validate checks structural constraints and cross-field invariants.
// Credential presence is checked by NewEngine, which knows whether a client
// was injected.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return domain.NewConfigError("config", err.Error())
	}

	if math.Abs(c.HeuristicWeight+c.ModelWeight-1.0) > weightTolerance {
		return domain.NewConfigError("weights",
			"heuristic and model weights must sum to 1")
	}

	return nil
}
