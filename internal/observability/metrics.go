package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mestudy"

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	aggregateOps       *prometheus.CounterVec
	aggregateLatency   *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec
	llmRequests        *prometheus.CounterVec
	llmLatency         *prometheus.HistogramVec
	blobOps            *prometheus.CounterVec
}

// NewMetrics registers every collector on reg. Passing a fresh registry per
// process (or per test) avoids duplicate registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		aggregateOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_operations_total",
			Help:      "Aggregate write operations by name/status.",
		}, []string{"op", "status"}),
		aggregateLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregate_operation_duration_seconds",
			Help:      "Aggregate write latency in seconds by name/status.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}, []string{"op", "status"}),
		aggregateConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_conflicts_total",
			Help:      "Aggregate writes rejected by a constraint or a completed status.",
		}, []string{"op"}),
		aggregateRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_retryable_total",
			Help:      "Aggregate writes that failed with a retryable error.",
		}, []string{"op"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Remote model requests by model/kind/status.",
		}, []string{"model", "kind", "status"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Remote model latency in seconds by model/kind.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"model", "kind"}),
		blobOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_cache_operations_total",
			Help:      "Blob cache operations by op/result.",
		}, []string{"op", "result"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.aggregateOps,
			m.aggregateLatency,
			m.aggregateConflicts,
			m.aggregateRetries,
			m.llmRequests,
			m.llmLatency,
			m.blobOps,
		)
	}
	return m
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	op, status = label(op), label(status)
	m.aggregateOps.WithLabelValues(op, status).Inc()
	if dur > 0 {
		m.aggregateLatency.WithLabelValues(op, status).Observe(dur.Seconds())
	}
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(label(op)).Inc()
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(label(op)).Inc()
}

// ObserveLLMRequest records one generate call. kind is the prompt family
// (lesson_plan, quiz, study_tips); status is "ok" or an error kind.
func (m *Metrics) ObserveLLMRequest(model, kind, status string, dur time.Duration) {
	if m == nil {
		return
	}
	model, kind = label(model), label(kind)
	m.llmRequests.WithLabelValues(model, kind, label(status)).Inc()
	if dur > 0 {
		m.llmLatency.WithLabelValues(model, kind).Observe(dur.Seconds())
	}
}

// IncBlobOp counts cache reads and writes; result is hit, miss, ok or error.
func (m *Metrics) IncBlobOp(op, result string) {
	if m == nil {
		return
	}
	m.blobOps.WithLabelValues(label(op), label(result)).Inc()
}

func label(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
