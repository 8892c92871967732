package llm

import (
	"context"
	"time"

	"github.com/promptkit/coach/internal/ports"
)

// metricsLLM records latency, token consumption, and outcomes for every
// provider request through a ports.MetricsCollector.
type metricsLLM struct {
	next      CoreLLM
	collector ports.MetricsCollector
}

// MetricsMiddleware returns middleware that reports request metrics to the
// given collector.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &metricsLLM{next: next, collector: collector}
	}
}

func (m *metricsLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	start := time.Now()
	response, tokensIn, tokensOut, err := m.next.DoRequest(ctx, prompt, opts)

	labels := map[string]string{"model": m.next.GetModel()}
	status := "success"
	if err != nil {
		status = "error"
	}

	m.collector.RecordLatency("llm_request", time.Since(start), labels)
	m.collector.RecordCounter("llm_requests_total", 1, map[string]string{
		"model":  labels["model"],
		"status": status,
	})
	if tokensIn+tokensOut > 0 {
		m.collector.RecordCounter("llm_tokens_total", float64(tokensIn+tokensOut), labels)
	}

	return response, tokensIn, tokensOut, err
}

func (m *metricsLLM) GetModel() string  { return m.next.GetModel() }
func (m *metricsLLM) SetModel(s string) { m.next.SetModel(s) }
