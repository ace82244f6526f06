package core

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Version is the SDK version reported in the default User-Agent header.
const Version = "0.4.1"

// Defaults applied by NewDispatcher for fields left at their zero value.
const (
	DefaultBaseURL    = "https://api.cumulo.ai/v1"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3
	DefaultUserAgent  = "cumulo-go/" + Version
)

// ClientConfig holds everything a Dispatcher needs to talk to the Cumulo API.
// It is read once at construction and never mutated afterwards, so a single
// client is safe for concurrent use.
type ClientConfig struct {
	// APIKey is the Cumulo API key (required).
	APIKey Secret

	// BaseURL is the API base URL. Defaults to https://api.cumulo.ai/v1.
	BaseURL string

	// Timeout bounds each HTTP attempt; the timer is disarmed once response
	// headers arrive, so streamed bodies can be read past it. Retried
	// attempts each get a fresh window. Values <= 0 mean DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is the number of retries after the initial attempt.
	// 0 disables retrying; negative values mean DefaultMaxRetries.
	MaxRetries int

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Organization is sent as the Cumulo-Organization header when set.
	Organization string

	// Project is sent as the Cumulo-Project header when set.
	Project string

	// DefaultHeaders are extra headers included in every request. Per-call
	// headers take precedence over these.
	DefaultHeaders http.Header

	// HTTPClient is the HTTP client to use. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger receives debug/warn records for retries and stream decoding.
	// Defaults to a discarding logger.
	Logger *slog.Logger

	// Telemetry observes request lifecycle events. Defaults to
	// NoopTelemetryHook.
	Telemetry TelemetryHook
}

// Validate checks the config for errors that would make every request fail.
func (c *ClientConfig) Validate() error {
	if c.APIKey.IsEmpty() {
		return ErrAPIKeyRequired
	}
	if c.BaseURL != "" && !isHTTPURL(c.BaseURL) {
		return ErrInvalidBaseURL
	}
	return nil
}

// withDefaults returns a copy with zero-valued fields filled in.
// MaxRetries 0 is preserved: it is the documented way to disable retries.
func (c ClientConfig) withDefaults() ClientConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.Telemetry == nil {
		c.Telemetry = NoopTelemetryHook{}
	}
	return c
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
