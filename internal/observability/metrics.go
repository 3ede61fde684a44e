package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects pipeline metrics.
type Metrics interface {
	RecordStage(stage, status string, duration time.Duration)
	RecordCacheHit(hit bool)
	RecordVerdict(verdict string)
}

// PrometheusMetrics implements Metrics on a prometheus registry.
type PrometheusMetrics struct {
	stageTotal   *prometheus.CounterVec
	stageLatency *prometheus.HistogramVec
	cacheTotal   *prometheus.CounterVec
	verdictTotal *prometheus.CounterVec
}

// NewPrometheusMetrics registers and returns the pipeline collectors.
// Registering the same collectors twice on one registry panics, so callers
// construct this once at wiring time.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		stageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalrag",
			Name:      "pipeline_stage_total",
			Help:      "Pipeline stage executions by stage and status.",
		}, []string{"stage", "status"}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "legalrag",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Pipeline stage latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalrag",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups by outcome.",
		}, []string{"outcome"}),
		verdictTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legalrag",
			Name:      "validation_verdict_total",
			Help:      "Validation verdicts by classification.",
		}, []string{"verdict"}),
	}

	reg.MustRegister(m.stageTotal, m.stageLatency, m.cacheTotal, m.verdictTotal)
	return m
}

// RecordStage records one stage execution.
func (m *PrometheusMetrics) RecordStage(stage, status string, duration time.Duration) {
	m.stageTotal.WithLabelValues(stage, status).Inc()
	m.stageLatency.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordCacheHit records an embedding cache lookup outcome.
func (m *PrometheusMetrics) RecordCacheHit(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.cacheTotal.WithLabelValues(outcome).Inc()
}

// RecordVerdict records a validation verdict.
func (m *PrometheusMetrics) RecordVerdict(verdict string) {
	m.verdictTotal.WithLabelValues(verdict).Inc()
}

// NopMetrics discards all observations. Used when metrics are disabled
// and in tests.
type NopMetrics struct{}

func (NopMetrics) RecordStage(string, string, time.Duration) {}
func (NopMetrics) RecordCacheHit(bool)                       {}
func (NopMetrics) RecordVerdict(string)                      {}
