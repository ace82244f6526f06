// Package metrics exposes client request telemetry as Prometheus metrics.
//
// Hook implements core.TelemetryHook; install it with cumulo.WithTelemetry:
//
//	registry := prometheus.NewRegistry()
//	client, err := cumulo.NewClient(key,
//		cumulo.WithTelemetry(metrics.NewHook(metrics.Config{}, registry)),
//	)
//
// Endpoints are collapsed to their leading path segment (the resource
// family: /chat, /files, /sandboxes, ...) to keep label cardinality bounded
// even though endpoints embed resource IDs. The hook observes transport
// events only; no prompts, completions, or keys reach the metrics.
package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cumulo-ai/cumulo-go/core"
)

// Config customizes metric names and buckets. The zero value is usable.
type Config struct {
	// Namespace prefixes every metric name. Defaults to "cumulo".
	Namespace string

	// Subsystem sits between namespace and name. Defaults to "client".
	Subsystem string

	// DurationBuckets are the request duration histogram buckets in
	// seconds. Defaults cover interactive inference latencies.
	DurationBuckets []float64
}

// Hook records request lifecycle events as Prometheus metrics.
type Hook struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	inFlight        prometheus.Gauge
}

var _ core.TelemetryHook = (*Hook)(nil)

// NewHook creates a Hook and registers its metrics with registry. A nil
// registry gets a fresh private one, useful in tests; production callers
// pass their own.
func NewHook(cfg Config, registry *prometheus.Registry) *Hook {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "cumulo"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "client"
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}
	}

	h := &Hook{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "API requests by resource, method, and status code (code 0: no response).",
			},
			[]string{"resource", "method", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "End-to-end request duration including retries and backoff.",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"resource", "method"},
		),
		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retries_total",
				Help:      "Extra attempts beyond the first, by resource and method.",
			},
			[]string{"resource", "method"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_in_flight",
				Help:      "Requests currently being dispatched.",
			},
		),
	}

	registry.MustRegister(h.requestsTotal, h.requestDuration, h.retriesTotal, h.inFlight)
	return h
}

// OnRequestStart implements core.TelemetryHook.
func (h *Hook) OnRequestStart(e core.RequestStartEvent) {
	h.inFlight.Inc()
}

// OnRequestEnd implements core.TelemetryHook.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	h.inFlight.Dec()

	resource := resourceFamily(e.Endpoint)
	h.requestsTotal.WithLabelValues(resource, e.Method, strconv.Itoa(e.Status)).Inc()
	h.requestDuration.WithLabelValues(resource, e.Method).Observe(e.Duration().Seconds())
	if e.Attempts > 1 {
		h.retriesTotal.WithLabelValues(resource, e.Method).Add(float64(e.Attempts - 1))
	}
}

// resourceFamily reduces an endpoint to its leading path segment so label
// cardinality stays bounded regardless of embedded resource IDs.
func resourceFamily(endpoint string) string {
	path := endpoint
	if i := strings.Index(path, "://"); i >= 0 {
		rest := path[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			path = rest[j:]
		} else {
			path = "/"
		}
	}
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	return "/" + path
}
