package core

import "time"

// TelemetryHook receives notifications about request lifecycle events.
// Implementations can use this for logging, metrics, or tracing.
//
// # Security Considerations
//
// Event types are designed to NEVER include sensitive data:
//   - API keys are NEVER included (held separately as core.Secret)
//   - Request bodies (prompts, file contents) are NEVER included
//   - Response bodies (model outputs) are NEVER included
//   - Only operational metadata is exposed (method, endpoint, status, timing)
//
// This makes telemetry data safe to log to disk, ship to monitoring systems,
// and retain long-term. If extending these types, keep those properties:
// never add fields that could carry credentials, prompts, or model output.
type TelemetryHook interface {
	// OnRequestStart is called when a dispatch begins, before the first attempt.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called once per dispatch, after the final attempt.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting request.
type RequestStartEvent struct {
	Method   string    // HTTP method
	Endpoint string    // endpoint path as given to the dispatcher
	Start    time.Time // when the dispatch started
}

// RequestEndEvent contains metadata about a completed request.
//
// Err carries the classified error, not raw response text; the raw body lives
// on APIError for callers that opt in to inspecting it.
type RequestEndEvent struct {
	Method   string    // HTTP method
	Endpoint string    // endpoint path as given to the dispatcher
	Status   int       // final HTTP status, 0 when no response was received
	Attempts int       // attempts made, 1 when the first try succeeded
	Start    time.Time // when the dispatch started
	End      time.Time // when the dispatch completed
	Err      error     // classified error, nil on success
}

// Duration returns the elapsed time for the request including retries.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
// Used as the default when no telemetry is configured.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// Compile-time check that NoopTelemetryHook implements TelemetryHook.
var _ TelemetryHook = NoopTelemetryHook{}
