package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the tutoring daemon.
type Metrics struct {
	registry      *prometheus.Registry
	TaskRequests  *prometheus.CounterVec
	TaskDuration  *prometheus.HistogramVec
	ModelUsage    *prometheus.CounterVec
	ModelFailures *prometheus.CounterVec
	Fallbacks     *prometheus.CounterVec
	ActiveStreams *prometheus.GaugeVec
	TransportErrs *prometheus.CounterVec
}

// NewMetrics constructs a metrics registry with task collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	reqs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "techguru_task_requests_total",
		Help: "Total task requests by task and outcome",
	}, []string{"task", "outcome"})

	durs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "techguru_task_duration_seconds",
		Help:    "Task duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	usage := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "techguru_model_usage_total",
		Help: "Successful model invocations by task and model",
	}, []string{"task", "model"})

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "techguru_model_failures_total",
		Help: "Failed model attempts by model and failure class",
	}, []string{"model", "class"})

	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "techguru_model_fallbacks_total",
		Help: "Candidate-model advances after exhaustion or unavailability",
	}, []string{"task"})

	active := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "techguru_transport_active_streams",
		Help: "Active streaming sessions by transport",
	}, []string{"transport"})

	trErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "techguru_transport_errors_total",
		Help: "Transport-level errors by transport and reason",
	}, []string{"transport", "reason"})

	reg.MustRegister(reqs, durs, usage, failures, fallbacks, active, trErrors)

	return &Metrics{
		registry:      reg,
		TaskRequests:  reqs,
		TaskDuration:  durs,
		ModelUsage:    usage,
		ModelFailures: failures,
		Fallbacks:     fallbacks,
		ActiveStreams: active,
		TransportErrs: trErrors,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordTask records one completed task with its outcome and duration.
func (m *Metrics) RecordTask(task, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.TaskRequests.WithLabelValues(task, outcome).Inc()
	m.TaskDuration.WithLabelValues(task).Observe(duration.Seconds())
}

// RecordModelUsage counts one successful invocation of a model.
func (m *Metrics) RecordModelUsage(task, model string) {
	if m == nil {
		return
	}
	m.ModelUsage.WithLabelValues(task, model).Inc()
}

// RecordModelFailure counts one failed attempt by failure class.
func (m *Metrics) RecordModelFailure(model, class string) {
	if m == nil {
		return
	}
	if class == "" {
		class = "unknown"
	}
	m.ModelFailures.WithLabelValues(model, class).Inc()
}

// RecordFallback counts one advance to the next candidate model.
func (m *Metrics) RecordFallback(task string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(task).Inc()
}

// IncActiveStreams increments the active stream gauge.
func (m *Metrics) IncActiveStreams(transport string) {
	if m == nil {
		return
	}
	m.ActiveStreams.WithLabelValues(transport).Inc()
}

// DecActiveStreams decrements the active stream gauge.
func (m *Metrics) DecActiveStreams(transport string) {
	if m == nil {
		return
	}
	m.ActiveStreams.WithLabelValues(transport).Dec()
}

// RecordTransportError records a transport-level error.
func (m *Metrics) RecordTransportError(transport, reason string) {
	if m == nil {
		return
	}
	if transport == "" {
		transport = "unknown"
	}
	if reason == "" {
		reason = "unknown"
	}
	m.TransportErrs.WithLabelValues(transport, reason).Inc()
}
