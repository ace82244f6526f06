package core

import (
	"errors"
	"fmt"
)

// APIError represents a failed request to the Cumulo API with full context.
//
// Classification is carried by the wrapped sentinel, so callers use errors.Is
// to branch on the failure mode and errors.As to recover the struct:
//
//	var apiErr *core.APIError
//	if errors.As(err, &apiErr) {
//	    log.Printf("status=%d body=%s", apiErr.Status, apiErr.Body)
//	}
//	if errors.Is(err, core.ErrRateLimited) {
//	    // back off harder
//	}
type APIError struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	// RequestID is the X-Request-ID echoed by the API, if any.
	RequestID string

	// Message is a short human-readable description of the failure.
	Message string

	// Body is the raw response body, kept for error reporting. Empty when
	// the failure happened before a response arrived.
	Body string

	// Err is the sentinel (or underlying cause) this error wraps.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Status == 0:
		return "cumulo: " + e.Message
	case e.RequestID != "":
		return fmt.Sprintf("cumulo: %s (status=%d, request_id=%s)", e.Message, e.Status, e.RequestID)
	default:
		return fmt.Sprintf("cumulo: %s (status=%d)", e.Message, e.Status)
	}
}

// Unwrap returns the wrapped sentinel or cause for error chaining.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Sentinel errors for classification.
var (
	// ErrAuthentication indicates the API rejected the credentials (HTTP 401).
	// Authentication failures are never retried.
	ErrAuthentication = errors.New("authentication failed")

	// ErrRateLimited indicates the API throttled the request (HTTP 429) and
	// retries were exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrBadRequest indicates the API rejected the request as malformed
	// (4xx other than 401 and 429). Bad requests are never retried.
	ErrBadRequest = errors.New("bad request")

	// ErrServer indicates a server-side failure (5xx), either immediately for
	// non-transient codes or after retries were exhausted for 502/503/504.
	ErrServer = errors.New("server error")

	// ErrConnection indicates the request never produced an HTTP response
	// (DNS, dial, TLS, or mid-body transport failure) and retries were
	// exhausted.
	ErrConnection = errors.New("connection failed")

	// ErrStreaming indicates a failure while consuming an active event stream.
	ErrStreaming = errors.New("streaming failed")

	// ErrTransport is the catch-all for responses that fit no other class.
	ErrTransport = errors.New("transport error")

	// ErrInvalidResponse indicates the API returned a payload that cannot be
	// interpreted as a chat completion.
	ErrInvalidResponse = errors.New("invalid response")
)

// Validation errors with actionable guidance.
var (
	ErrAPIKeyRequired = errors.New("api key required: set CUMULO_API_KEY or pass a key to cumulo.NewClient")
	ErrInvalidBaseURL = errors.New("invalid base url: must start with http:// or https://")
)
