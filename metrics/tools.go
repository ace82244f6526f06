package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cumulo-ai/cumulo-go/tools"
)

// ToolsCollector records tool executions as Prometheus metrics. Install it
// with tools.WithMetrics:
//
//	collector := metrics.NewToolsCollector(metrics.Config{}, registry)
//	registry.Register(myTool, tools.WithMetrics(collector))
//
// Labels carry the tool name and outcome only; arguments and results never
// reach the metrics.
type ToolsCollector struct {
	callsTotal   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

var _ tools.MetricsCollector = (*ToolsCollector)(nil)

// NewToolsCollector creates a ToolsCollector and registers its metrics with
// registry. A nil registry gets a fresh private one.
func NewToolsCollector(cfg Config, registry *prometheus.Registry) *ToolsCollector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "cumulo"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "tools"
	}
	if len(cfg.DurationBuckets) == 0 {
		// Tool calls range from in-process lookups to remote API round trips.
		cfg.DurationBuckets = []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60}
	}

	c := &ToolsCollector{
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "calls_total",
				Help:      "Tool executions by tool name and outcome.",
			},
			[]string{"tool", "outcome"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "call_duration_seconds",
				Help:      "Tool execution duration by tool name.",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"tool"},
		),
	}

	registry.MustRegister(c.callsTotal, c.callDuration)
	return c
}

// RecordCall implements tools.MetricsCollector.
func (c *ToolsCollector) RecordCall(toolName string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.callsTotal.WithLabelValues(toolName, outcome).Inc()
	c.callDuration.WithLabelValues(toolName).Observe(duration.Seconds())
}
