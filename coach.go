// Package coach scores the quality of an AI prompt, rewrites it into a
// canonical structure, and suggests verification commands.
//
// The pipeline combines a deterministic offline analyzer with an optional
// generative-model evaluation, blends both scorecards into one final score,
// and reports a unified diff between the original and rewritten prompt:
//
//	cfg := coach.DefaultConfig()
//	cfg.APIKey = key
//	engine, err := coach.NewEngine(cfg)
//	result, err := engine.Score(ctx, "write an idempotent ansible playbook")
//
// Offline mode (Config.Offline) skips the model entirely and scores with
// the heuristic analyzer alone.
package coach

import (
	"github.com/promptkit/coach/internal/coach"
	"github.com/promptkit/coach/internal/domain"
)

// Re-exported pipeline types. The implementation lives in internal
// packages; these aliases form the public surface.
type (
	// Engine runs the scoring pipeline. Safe for concurrent use.
	Engine = coach.Engine

	// Config is the immutable engine configuration.
	Config = coach.Config

	// Option customizes engine construction.
	Option = coach.Option

	// EvaluationMode selects heuristic-only or heuristic-plus-model.
	EvaluationMode = coach.EvaluationMode

	// VerificationRule maps trigger keywords to verification commands.
	VerificationRule = coach.VerificationRule

	// Axis is one of the six fixed prompt-quality dimensions.
	Axis = domain.Axis

	// ScoreCard maps each axis to a score in [0, 100].
	ScoreCard = domain.ScoreCard

	// HeuristicResult is the offline analyzer's output.
	HeuristicResult = domain.HeuristicResult

	// AggregatedResult is the pipeline's sole externally visible artifact.
	AggregatedResult = domain.AggregatedResult

	// Usage carries token consumption metadata.
	Usage = domain.Usage
)

// Evaluation modes.
const (
	ModeHeuristicOnly      = coach.ModeHeuristicOnly
	ModeHeuristicPlusModel = coach.ModeHeuristicPlusModel
)

// Sentinel errors for classifying pipeline failures with errors.Is.
var (
	ErrInput   = domain.ErrInput
	ErrConfig  = domain.ErrConfig
	ErrNetwork = domain.ErrNetwork
	ErrSchema  = domain.ErrSchema
)

// NewEngine validates cfg, resolves the evaluation mode, and wires the
// provider client. See coach.Config for the recognized settings.
var NewEngine = coach.NewEngine

// DefaultConfig returns the documented default configuration.
var DefaultConfig = coach.DefaultConfig

// Analyze runs the deterministic heuristic analyzer alone. It is a pure
// function and never fails.
var Analyze = coach.Analyze

// InferVerification applies a rule table to prompt text.
var InferVerification = coach.InferVerification

// DefaultVerificationRules returns the built-in ordered rule table.
var DefaultVerificationRules = coach.DefaultVerificationRules

// RulesFromYAML loads a rule table from a YAML document.
var RulesFromYAML = coach.RulesFromYAML

// UnifiedDiff computes the unified diff between two prompt texts.
var UnifiedDiff = coach.UnifiedDiff

// Engine construction options.
var (
	WithLLMClient         = coach.WithLLMClient
	WithMetrics           = coach.WithMetrics
	WithVerificationRules = coach.WithVerificationRules
)
