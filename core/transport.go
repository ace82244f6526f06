package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestSpec describes one logical API call. It is immutable once handed to
// the Dispatcher; retries re-send the same spec.
type RequestSpec struct {
	// Method is the HTTP method.
	Method string

	// Endpoint is a path joined onto the configured base URL, or a full
	// http(s) URL used verbatim.
	Endpoint string

	// Body is JSON-encoded into the request body when non-nil.
	Body any

	// Upload carries a pre-encoded payload (multipart form, raw bytes) with
	// its own content type. Takes precedence over Body.
	Upload *UploadPayload

	// Header holds per-call overrides, applied after all config headers.
	Header http.Header

	// Stream marks the call as expecting an event-stream body. Bodies are
	// always returned unread, so this only informs logging.
	Stream bool
}

// UploadPayload is a fully-encoded request body with an explicit content
// type, kept as bytes so retries can re-send it.
type UploadPayload struct {
	Data        []byte
	ContentType string
}

// RawResponse exposes a successful HTTP response with its body unread.
// Exactly one of Bytes/Text or direct Body consumption should be used, by a
// single goroutine. Closing the body releases the resources of the attempt
// that produced it; abandoning a response without closing it leaves no
// timers behind.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser

	data []byte
	read bool
}

// Bytes reads the whole body, closes it, and caches the result. Subsequent
// calls return the cached bytes.
func (r *RawResponse) Bytes() ([]byte, error) {
	if !r.read {
		defer r.Body.Close()
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, &APIError{Message: "read response body: " + err.Error(), Err: ErrConnection}
		}
		r.data = data
		r.read = true
	}
	return r.data, nil
}

// Text reads the whole body as a string. See Bytes.
func (r *RawResponse) Text() (string, error) {
	data, err := r.Bytes()
	return string(data), err
}

// Close releases the response without reading it.
func (r *RawResponse) Close() error {
	return r.Body.Close()
}

// Dispatcher sends requests to the Cumulo API, classifying failures and
// retrying transient ones with exponential backoff. One Dispatcher is shared
// by all resource services of a client; it is safe for concurrent use.
type Dispatcher struct {
	cfg ClientConfig

	// sleep waits between attempts; swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDispatcher validates cfg, fills defaults, and returns a ready
// Dispatcher.
func NewDispatcher(cfg ClientConfig) (*Dispatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Dispatcher{cfg: cfg.withDefaults(), sleep: sleepContext}, nil
}

// Config returns a copy of the effective configuration, defaults applied.
func (d *Dispatcher) Config() ClientConfig {
	return d.cfg
}

// Send issues the request described by spec, retrying per the retry policy:
//
//   - 2xx returns the raw response with its body unread.
//   - 401 fails immediately with ErrAuthentication.
//   - 429 waits Retry-After seconds (or 2^attempt when absent/unparsable),
//     then retries; exhaustion fails with ErrRateLimited.
//   - 502/503/504 retry after 2^attempt seconds; exhaustion fails with
//     ErrServer.
//   - Other 4xx fail immediately with ErrBadRequest; other 5xx with
//     ErrServer; anything else non-2xx with ErrTransport.
//   - Network failures retry after 2^attempt seconds; exhaustion fails with
//     ErrConnection.
//
// Each attempt is bounded by the configured timeout; the timer is disarmed
// the moment a response or error is obtained, so streamed bodies can be read
// past it. Cancelling ctx aborts in-flight attempts and backoff waits.
func (d *Dispatcher) Send(ctx context.Context, spec *RequestSpec) (*RawResponse, error) {
	start := time.Now()
	d.cfg.Telemetry.OnRequestStart(RequestStartEvent{
		Method:   spec.Method,
		Endpoint: spec.Endpoint,
		Start:    start,
	})

	resp, status, attempts, err := d.dispatch(ctx, spec)

	d.cfg.Telemetry.OnRequestEnd(RequestEndEvent{
		Method:   spec.Method,
		Endpoint: spec.Endpoint,
		Status:   status,
		Attempts: attempts,
		Start:    start,
		End:      time.Now(),
		Err:      err,
	})
	return resp, err
}

func (d *Dispatcher) dispatch(ctx context.Context, spec *RequestSpec) (*RawResponse, int, int, error) {
	target := d.resolveURL(spec.Endpoint)
	headers := d.buildHeaders(spec)
	reqID := headers.Get("X-Request-ID")

	var payload []byte
	switch {
	case spec.Upload != nil:
		payload = spec.Upload.Data
	case spec.Body != nil:
		var err error
		payload, err = json.Marshal(spec.Body)
		if err != nil {
			return nil, 0, 0, &APIError{Message: "encode request body: " + err.Error(), Err: ErrTransport}
		}
	}

	// Catch malformed methods and URLs once, before burning retries on a
	// request that can never be built.
	if _, err := http.NewRequest(spec.Method, target, nil); err != nil {
		return nil, 0, 0, &APIError{Message: "invalid request: " + err.Error(), Err: ErrTransport}
	}

	attempts := 0
	for attempt := 0; attempt <= d.cfg.MaxRetries; attempt++ {
		attempts = attempt + 1

		resp, release, err := d.attempt(ctx, spec.Method, target, headers, payload)
		if err != nil {
			if attempt == d.cfg.MaxRetries {
				d.cfg.Logger.Warn("request failed, retries exhausted",
					"method", spec.Method, "endpoint", spec.Endpoint, "attempts", attempts, "error", err)
				return nil, 0, attempts, &APIError{Message: err.Error(), Err: ErrConnection}
			}
			delay := backoffDelay(attempt)
			d.cfg.Logger.Debug("retrying after connection failure",
				"method", spec.Method, "endpoint", spec.Endpoint, "attempt", attempt, "delay", delay, "error", err)
			if serr := d.sleep(ctx, delay); serr != nil {
				return nil, 0, attempts, serr
			}
			continue
		}

		status := resp.StatusCode
		if respID := resp.Header.Get("X-Request-ID"); respID != "" {
			reqID = respID
		}

		switch {
		case status >= 200 && status < 300:
			return &RawResponse{
				StatusCode: status,
				Header:     resp.Header,
				Body:       &releaseReader{rc: resp.Body, release: release},
			}, status, attempts, nil

		case status == http.StatusUnauthorized:
			drainBody(resp, release)
			return nil, status, attempts, &APIError{
				Status: status, RequestID: reqID,
				Message: "authentication failed", Err: ErrAuthentication,
			}

		case status == http.StatusTooManyRequests:
			body := drainBody(resp, release)
			// The wait happens even when this was the last attempt.
			delay := retryAfterDelay(resp.Header.Get("Retry-After"), attempt)
			d.cfg.Logger.Debug("rate limited",
				"method", spec.Method, "endpoint", spec.Endpoint, "attempt", attempt, "delay", delay)
			if serr := d.sleep(ctx, delay); serr != nil {
				return nil, status, attempts, serr
			}
			if attempt < d.cfg.MaxRetries {
				continue
			}
			d.cfg.Logger.Warn("rate limited, retries exhausted",
				"method", spec.Method, "endpoint", spec.Endpoint, "attempts", attempts)
			return nil, status, attempts, &APIError{
				Status: status, RequestID: reqID,
				Message: "rate limit exceeded", Body: body, Err: ErrRateLimited,
			}

		case status == http.StatusBadGateway ||
			status == http.StatusServiceUnavailable ||
			status == http.StatusGatewayTimeout:
			body := drainBody(resp, release)
			if attempt < d.cfg.MaxRetries {
				delay := backoffDelay(attempt)
				d.cfg.Logger.Debug("retrying after server error",
					"method", spec.Method, "endpoint", spec.Endpoint, "status", status, "attempt", attempt, "delay", delay)
				if serr := d.sleep(ctx, delay); serr != nil {
					return nil, status, attempts, serr
				}
				continue
			}
			d.cfg.Logger.Warn("server error, retries exhausted",
				"method", spec.Method, "endpoint", spec.Endpoint, "status", status, "attempts", attempts)
			return nil, status, attempts, &APIError{
				Status: status, RequestID: reqID,
				Message: "server error", Body: body, Err: ErrServer,
			}

		case status >= 400 && status < 500:
			body := drainBody(resp, release)
			return nil, status, attempts, &APIError{
				Status: status, RequestID: reqID,
				Message: "request rejected", Body: body, Err: ErrBadRequest,
			}

		case status >= 500 && status < 600:
			body := drainBody(resp, release)
			return nil, status, attempts, &APIError{
				Status: status, RequestID: reqID,
				Message: "server error", Body: body, Err: ErrServer,
			}

		default:
			drainBody(resp, release)
			return nil, status, attempts, &APIError{
				Status: status, RequestID: reqID,
				Message: fmt.Sprintf("unexpected status %d %s", status, http.StatusText(status)),
				Err:     ErrTransport,
			}
		}
	}

	// Unreachable: every branch above returns or continues.
	return nil, 0, attempts, &APIError{Message: "request failed", Err: ErrTransport}
}

// attempt issues one HTTP request bounded by the configured timeout. The
// timer is stopped as soon as Do returns; the returned release func frees
// the attempt's context and must be called when the response body is done.
func (d *Dispatcher) attempt(ctx context.Context, method, target string, header http.Header, payload []byte) (*http.Response, context.CancelFunc, error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	timer := time.AfterFunc(d.cfg.Timeout, cancel)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, target, body)
	if err != nil {
		timer.Stop()
		cancel()
		return nil, nil, err
	}
	req.Header = header.Clone()

	resp, err := d.cfg.HTTPClient.Do(req)
	timer.Stop()
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return resp, cancel, nil
}

// resolveURL joins endpoint onto the base URL, passing absolute URLs
// through verbatim.
func (d *Dispatcher) resolveURL(endpoint string) string {
	if isHTTPURL(endpoint) {
		return endpoint
	}
	return strings.TrimRight(d.cfg.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// buildHeaders merges headers in precedence order: auth and identity from
// config, then client-wide defaults, then per-call overrides. A request ID
// is stamped when no layer provided one.
func (d *Dispatcher) buildHeaders(spec *RequestSpec) http.Header {
	h := make(http.Header)
	h.Set("Authorization", "Bearer "+d.cfg.APIKey.Expose())
	h.Set("User-Agent", d.cfg.UserAgent)
	if d.cfg.Organization != "" {
		h.Set("Cumulo-Organization", d.cfg.Organization)
	}
	if d.cfg.Project != "" {
		h.Set("Cumulo-Project", d.cfg.Project)
	}
	if spec.Body != nil && spec.Upload == nil {
		h.Set("Content-Type", "application/json")
	}

	mergeHeaders(h, d.cfg.DefaultHeaders)
	mergeHeaders(h, spec.Header)

	// Multipart payloads carry their own boundary; nothing may override it.
	if spec.Upload != nil {
		h.Set("Content-Type", spec.Upload.ContentType)
	}
	if h.Get("X-Request-ID") == "" {
		h.Set("X-Request-ID", uuid.NewString())
	}
	return h
}

func mergeHeaders(dst, src http.Header) {
	for key, values := range src {
		dst.Del(key)
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// backoffDelay computes the exponential backoff for the given attempt
// index: 1s, 2s, 4s, 8s, ...
func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// retryAfterDelay honors a Retry-After header given in whole seconds,
// falling back to exponential backoff when absent or unparsable.
func retryAfterDelay(header string, attempt int) time.Duration {
	if header != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return backoffDelay(attempt)
}

func drainBody(resp *http.Response, release context.CancelFunc) string {
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	release()
	return string(data)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// releaseReader frees the owning attempt's context when the body is closed.
type releaseReader struct {
	rc      io.ReadCloser
	release context.CancelFunc
}

func (r *releaseReader) Read(p []byte) (int, error) {
	return r.rc.Read(p)
}

func (r *releaseReader) Close() error {
	err := r.rc.Close()
	r.release()
	return err
}
