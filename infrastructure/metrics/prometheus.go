// Package metrics provides a Prometheus implementation of the
// ports.MetricsCollector interface used by the scoring engine and the LLM
// client middleware.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/promptkit/coach/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics records scoring-pipeline and provider metrics in a
// Prometheus registry.
type PrometheusMetrics struct {
	latency  *prometheus.HistogramVec
	counters *prometheus.CounterVec
	gauges   *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a collector and registers its metrics with
// the given registerer. Pass prometheus.DefaultRegisterer for the global
// registry.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coach_operation_duration_seconds",
				Help:    "Execution time of scoring pipeline operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "model", "status", "mode", "reason"},
		),
		counters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coach_events_total",
				Help: "Counts of scoring pipeline events such as requests, tokens, and degradations.",
			},
			[]string{"metric", "operation", "model", "status", "mode", "reason"},
		),
		gauges: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coach_state",
				Help: "Point-in-time values observed by the scoring pipeline.",
			},
			[]string{"metric", "operation", "model", "status", "mode", "reason"},
		),
	}
	reg.MustRegister(m.latency, m.counters, m.gauges)
	return m
}

// RecordLatency implements ports.MetricsCollector.
func (m *PrometheusMetrics) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	m.latency.With(promLabels(operation, "", labels)).Observe(duration.Seconds())
}

// RecordCounter implements ports.MetricsCollector.
func (m *PrometheusMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	m.counters.With(promLabels("", metric, labels)).Add(value)
}

// RecordGauge implements ports.MetricsCollector.
func (m *PrometheusMetrics) RecordGauge(metric string, value float64, labels map[string]string) {
	m.gauges.With(promLabels("", metric, labels)).Set(value)
}

// promLabels maps the collector's free-form labels onto the fixed Prometheus
// label set. Unknown keys are dropped rather than causing a panic on With.
func promLabels(operation, metric string, labels map[string]string) prometheus.Labels {
	out := prometheus.Labels{
		"operation": operation,
		"model":     "",
		"status":    "",
		"mode":      "",
		"reason":    "",
	}
	if metric != "" {
		out["metric"] = metric
	}
	for key, val := range labels {
		switch key {
		case "model", "status", "mode", "reason":
			out[key] = val
		case "operation":
			out["operation"] = val
		}
	}
	return out
}
