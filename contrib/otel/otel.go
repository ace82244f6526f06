// Package otel provides OpenTelemetry tracing for Cumulo API requests.
//
// The integration point is the HTTP transport rather than the telemetry
// hook: a RoundTripper sees the request context, so spans nest under
// whatever span the caller already has, and each retry attempt gets its
// own span.
//
//	client, err := cumulo.NewClient(apiKey, cumulootel.WithTracing())
//
// Spans carry only operational metadata (method, path, host, status);
// request and response bodies are never recorded. Responses that stream
// end their span when the headers arrive, not when the body is drained.
package otel

import (
	"fmt"
	"net/http"

	otelapi "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	cumulo "github.com/cumulo-ai/cumulo-go"
)

// tracerName identifies this instrumentation library in exported spans.
const tracerName = "github.com/cumulo-ai/cumulo-go/contrib/otel"

// Option configures the tracing transport.
type Option func(*Transport)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Transport) {
		t.tracer = tp.Tracer(tracerName)
	}
}

// WithBase sets the underlying transport. Defaults to http.DefaultTransport.
func WithBase(rt http.RoundTripper) Option {
	return func(t *Transport) {
		t.base = rt
	}
}

// Transport is an http.RoundTripper that records one client span per HTTP
// attempt made through it.
type Transport struct {
	base   http.RoundTripper
	tracer trace.Tracer
}

// NewTransport builds a tracing RoundTripper.
func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		base:   http.DefaultTransport,
		tracer: otelapi.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), req.Method+" "+req.URL.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
			attribute.String("server.address", req.URL.Host),
		),
	)
	defer span.End()

	resp, err := t.base.RoundTrip(req.WithContext(ctx))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return resp, nil
}

// NewHTTPClient returns an *http.Client that traces every request.
func NewHTTPClient(opts ...Option) *http.Client {
	return &http.Client{Transport: NewTransport(opts...)}
}

// WithTracing returns a client option that installs the tracing transport.
func WithTracing(opts ...Option) cumulo.Option {
	return cumulo.WithHTTPClient(NewHTTPClient(opts...))
}
