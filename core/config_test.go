package core

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ClientConfig
		wantErr error
	}{
		{
			name:    "missing api key",
			cfg:     ClientConfig{},
			wantErr: ErrAPIKeyRequired,
		},
		{
			name:    "bad scheme",
			cfg:     ClientConfig{APIKey: NewSecret("cmk_test_1"), BaseURL: "ftp://api.cumulo.ai"},
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "scheme-less url",
			cfg:     ClientConfig{APIKey: NewSecret("cmk_test_1"), BaseURL: "api.cumulo.ai/v1"},
			wantErr: ErrInvalidBaseURL,
		},
		{
			name: "valid",
			cfg:  ClientConfig{APIKey: NewSecret("cmk_test_1"), BaseURL: "https://api.cumulo.ai/v1"},
		},
		{
			name: "valid http",
			cfg:  ClientConfig{APIKey: NewSecret("cmk_test_1"), BaseURL: "http://localhost:8080"},
		},
		{
			name: "empty base url falls back to default",
			cfg:  ClientConfig{APIKey: NewSecret("cmk_test_1")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientConfigDefaults(t *testing.T) {
	cfg := ClientConfig{APIKey: NewSecret("cmk_test_1")}.withDefaults()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", cfg.MaxRetries, DefaultMaxRetries)
	}
	if cfg.UserAgent != "cumulo-go/"+Version {
		t.Errorf("UserAgent = %q, want %q", cfg.UserAgent, "cumulo-go/"+Version)
	}
	if cfg.HTTPClient != http.DefaultClient {
		t.Error("HTTPClient should default to http.DefaultClient")
	}
	if cfg.Logger == nil {
		t.Error("Logger should default to a discarding logger, not nil")
	}
	if _, ok := cfg.Telemetry.(NoopTelemetryHook); !ok {
		t.Errorf("Telemetry = %T, want NoopTelemetryHook", cfg.Telemetry)
	}
}

func TestClientConfigDefaultsPreserveExplicitValues(t *testing.T) {
	custom := &http.Client{Timeout: time.Minute}
	cfg := ClientConfig{
		APIKey:     NewSecret("cmk_test_1"),
		BaseURL:    "http://localhost:9999",
		Timeout:    5 * time.Second,
		MaxRetries: 0, // explicitly disabled
		UserAgent:  "custom-agent/1.0",
		HTTPClient: custom,
	}.withDefaults()

	if cfg.BaseURL != "http://localhost:9999" {
		t.Errorf("BaseURL = %q, want explicit value preserved", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0 (disabled, not re-defaulted)", cfg.MaxRetries)
	}
	if cfg.UserAgent != "custom-agent/1.0" {
		t.Errorf("UserAgent = %q, want custom value preserved", cfg.UserAgent)
	}
	if cfg.HTTPClient != custom {
		t.Error("HTTPClient should preserve the explicit client")
	}
}

func TestClientConfigNegativeRetriesRedefaulted(t *testing.T) {
	cfg := ClientConfig{APIKey: NewSecret("cmk_test_1"), MaxRetries: -1}.withDefaults()
	if cfg.MaxRetries != DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", cfg.MaxRetries, DefaultMaxRetries)
	}
}
