package coach

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/promptkit/coach/infrastructure/llm"
	"github.com/promptkit/coach/internal/domain"
	"github.com/promptkit/coach/internal/ports"
)

// Engine runs the scoring pipeline. It holds only read-only configuration
// and stateless collaborators, so concurrent Score calls are independent;
// callers serving many requests should bound their own concurrency to
// respect provider rate limits.
type Engine struct {
	cfg       Config
	mode      EvaluationMode
	evaluator *Evaluator
	rules     []VerificationRule
	metrics   ports.MetricsCollector
	tracer    trace.Tracer
}

// Option customizes engine construction.
type Option func(*engineOptions)

type engineOptions struct {
	client  ports.LLMClient
	metrics ports.MetricsCollector
	rules   []VerificationRule
}

// WithLLMClient injects a pre-built client instead of constructing one from
// configuration. Useful for tests and callers with custom transports.
func WithLLMClient(client ports.LLMClient) Option {
	return func(o *engineOptions) { o.client = client }
}

// WithMetrics attaches a metrics collector to the pipeline and the LLM
// client middleware.
func WithMetrics(collector ports.MetricsCollector) Option {
	return func(o *engineOptions) { o.metrics = collector }
}

// WithVerificationRules replaces the built-in rule table.
func WithVerificationRules(rules []VerificationRule) Option {
	return func(o *engineOptions) { o.rules = rules }
}

// NewEngine validates the configuration, resolves the evaluation mode once,
// and wires the provider client. Online mode without a credential (and
// without an injected client) fails here with a domain.ConfigError, before
// any network attempt is possible.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options engineOptions
	for _, opt := range opts {
		opt(&options)
	}

	engine := &Engine{
		cfg:     cfg,
		mode:    cfg.Mode(),
		rules:   options.rules,
		metrics: options.metrics,
		tracer:  otel.Tracer("promptkit/coach"),
	}
	if engine.rules == nil {
		engine.rules = DefaultVerificationRules()
	}

	if engine.mode == ModeHeuristicPlusModel {
		client := options.client
		if client == nil {
			if cfg.APIKey == "" {
				return nil, domain.NewConfigError("api_key",
					"online evaluation requested without provider credentials")
			}
			built, err := buildClient(cfg, options.metrics)
			if err != nil {
				return nil, err
			}
			client = built
		}

		evaluator, err := NewEvaluator(client, cfg)
		if err != nil {
			return nil, err
		}
		engine.evaluator = evaluator
	}

	return engine, nil
}

// buildClient assembles the provider client with the configured middleware
// chain: timeout innermost of the operational concerns, then rate limiting,
// then metrics outermost.
func buildClient(cfg Config, collector ports.MetricsCollector) (ports.LLMClient, error) {
	var middleware []llm.Middleware
	if collector != nil {
		middleware = append(middleware, llm.MetricsMiddleware(collector))
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		middleware = append(middleware, llm.RateLimitMiddleware(rate.Limit(cfg.RequestsPerSecond), burst))
	}
	if cfg.Timeout > 0 {
		middleware = append(middleware, llm.TimeoutMiddleware(cfg.Timeout))
	}

	provider := cfg.Provider
	if provider == "" {
		provider = DefaultProvider
	}

	client, err := llm.NewClient(provider, llm.ClientConfig{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		Middleware: middleware,
	})
	if err != nil {
		return nil, domain.NewConfigError("provider", err.Error())
	}
	return client, nil
}

// Mode returns the evaluation variant resolved at construction.
func (e *Engine) Mode() EvaluationMode { return e.mode }

// Score runs the full pipeline on one prompt: heuristic analysis, model
// evaluation when online, aggregation, verification inference, and diff
// generation, in that fixed order of dependency.
//
// Only input and configuration problems terminate the pipeline. Transport
// and schema failures degrade to heuristic-only scoring with an explanatory
// note, so callers always receive a usable scorecard.
func (e *Engine) Score(ctx context.Context, prompt string) (*domain.AggregatedResult, error) {
	start := time.Now()

	ctx, span := e.tracer.Start(ctx, "coach.Score",
		trace.WithAttributes(
			attribute.String("coach.mode", e.mode.String()),
			attribute.Int("coach.prompt_chars", len(prompt)),
		),
	)
	defer span.End()

	if !utf8.ValidString(prompt) {
		return nil, domain.NewInputError("prompt text is not valid UTF-8")
	}

	var heuristic domain.HeuristicResult
	var model *domain.ModelResult
	var evalErr error

	if e.mode == ModeHeuristicPlusModel {
		// The heuristic pass is pure CPU; the model call blocks on the
		// network. Run them concurrently, keeping the evaluator failure
		// out of the group error so degradation stays local.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			heuristic = Analyze(prompt)
			return nil
		})
		g.Go(func() error {
			model, evalErr = e.evaluator.Evaluate(gctx, prompt)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		heuristic = Analyze(prompt)
	}

	degradeNote, usage := e.classifyDegradation(evalErr)

	result, err := aggregate(heuristic, model, prompt, degradeNote, e.cfg, e.rules)
	if err != nil {
		return nil, err
	}
	if result.Usage == nil && usage != nil {
		result.Usage = usage
	}

	e.record(start, result, degradeNote)
	span.SetAttributes(attribute.Int("coach.final_score", result.FinalScore))
	return result, nil
}

// classifyDegradation maps an evaluator failure to the note recorded on the
// result, recovering any token usage the failed attempts consumed.
func (e *Engine) classifyDegradation(evalErr error) (string, *domain.Usage) {
	switch {
	case e.mode == ModeHeuristicOnly:
		return "offline mode: model evaluation skipped", nil
	case evalErr == nil:
		return "", nil
	}

	var schemaErr *domain.SchemaError
	if errors.As(evalErr, &schemaErr) {
		usage := schemaErr.Usage
		return fmt.Sprintf("model evaluation failed after %d attempts: response failed validation",
			schemaErr.Attempts), usageOrNil(usage)
	}

	var netErr *domain.NetworkError
	if errors.As(evalErr, &netErr) {
		usage := netErr.Usage
		return "model evaluation failed: provider unreachable", usageOrNil(usage)
	}

	return fmt.Sprintf("model evaluation failed: %v", evalErr), nil
}

func usageOrNil(usage domain.Usage) *domain.Usage {
	if usage.TotalTokens == 0 && usage.Model == "" {
		return nil
	}
	return &usage
}

// record emits pipeline metrics when a collector is attached.
func (e *Engine) record(start time.Time, result *domain.AggregatedResult, degradeNote string) {
	if e.metrics == nil {
		return
	}

	labels := map[string]string{"mode": e.mode.String()}
	e.metrics.RecordLatency("score", time.Since(start), labels)
	e.metrics.RecordCounter("scores_total", 1, labels)
	if degradeNote != "" && e.mode == ModeHeuristicPlusModel {
		e.metrics.RecordCounter("degradations_total", 1, labels)
	}
	e.metrics.RecordGauge("last_final_score", float64(result.FinalScore), labels)
}
