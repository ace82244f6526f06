package cumulo

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cumulo-ai/cumulo-go/core"
)

// Option configures a Client at construction time.
type Option func(*core.ClientConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *core.ClientConfig) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *core.ClientConfig) {
		c.HTTPClient = client
	}
}

// WithTimeout bounds each HTTP attempt. Streamed response bodies remain
// readable past the timeout once headers have arrived.
func WithTimeout(d time.Duration) Option {
	return func(c *core.ClientConfig) {
		c.Timeout = d
	}
}

// WithMaxRetries sets how many times transient failures are retried.
// Zero disables retrying.
func WithMaxRetries(n int) Option {
	return func(c *core.ClientConfig) {
		c.MaxRetries = n
	}
}

// WithHeader adds a header to every request. Per-call headers still win.
func WithHeader(key, value string) Option {
	return func(c *core.ClientConfig) {
		if c.DefaultHeaders == nil {
			c.DefaultHeaders = make(http.Header)
		}
		c.DefaultHeaders.Set(key, value)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *core.ClientConfig) {
		c.UserAgent = ua
	}
}

// WithOrganization sets the Cumulo-Organization header.
func WithOrganization(org string) Option {
	return func(c *core.ClientConfig) {
		c.Organization = org
	}
}

// WithProject sets the Cumulo-Project header.
func WithProject(project string) Option {
	return func(c *core.ClientConfig) {
		c.Project = project
	}
}

// WithLogger sets the logger used for retry and stream diagnostics.
// The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *core.ClientConfig) {
		c.Logger = logger
	}
}

// WithTelemetry installs a hook observing request lifecycle events.
func WithTelemetry(hook core.TelemetryHook) Option {
	return func(c *core.ClientConfig) {
		c.Telemetry = hook
	}
}
