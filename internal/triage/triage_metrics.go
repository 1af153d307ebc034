package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the dispatch subsystem.
type Metrics struct {
	DispatchesTotal   *prometheus.CounterVec
	DispatchDuration  *prometheus.HistogramVec
	ModelCallsTotal   *prometheus.CounterVec
	ModelCallDuration *prometheus.HistogramVec
	ToolCallsTotal    *prometheus.CounterVec
}

// NewMetrics registers and returns dispatch metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DispatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_dispatches_total",
			Help: "Total dispatch requests by outcome.",
		}, []string{"outcome"}),
		DispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triage_dispatch_duration_seconds",
			Help:    "Duration of dispatch requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s .. ~64s
		}, []string{"outcome"}),
		ModelCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_model_calls_total",
			Help: "Total candidate model calls by model and status.",
		}, []string{"model", "status"}),
		ModelCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "triage_model_call_duration_seconds",
			Help:    "Duration of individual model calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s .. ~32s
		}, []string{"model"}),
		ToolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_tool_calls_total",
			Help: "Total tool executions by tool name and status.",
		}, []string{"tool", "status"}),
	}

	reg.MustRegister(
		m.DispatchesTotal,
		m.DispatchDuration,
		m.ModelCallsTotal,
		m.ModelCallDuration,
		m.ToolCallsTotal,
	)

	return m
}

// Hooks returns an EngineHooks that increments the corresponding metrics.
func (m *Metrics) Hooks() EngineHooks {
	return EngineHooks{
		OnModelCall: func(model string, duration float64, failed bool) {
			status := "success"
			if failed {
				status = "error"
			}
			m.ModelCallsTotal.WithLabelValues(model, status).Inc()
			m.ModelCallDuration.WithLabelValues(model).Observe(duration)
		},
		OnToolCall: func(tool string, failed bool) {
			status := "success"
			if failed {
				status = "error"
			}
			m.ToolCallsTotal.WithLabelValues(tool, status).Inc()
		},
		OnDispatch: func(outcome string, duration float64) {
			m.DispatchesTotal.WithLabelValues(outcome).Inc()
			m.DispatchDuration.WithLabelValues(outcome).Observe(duration)
		},
	}
}
