// Package config handles CLI configuration loading and management.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration stored in config.yaml.
type Config struct {
	// DefaultModel is used when --model is not given.
	DefaultModel string `yaml:"default_model"`

	// BaseURL overrides the production API endpoint.
	BaseURL string `yaml:"base_url,omitempty"`

	// TimeoutSeconds bounds each HTTP attempt. Zero uses the SDK default.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// MaxRetries caps transient-failure retries. Nil uses the SDK default;
	// zero disables retrying.
	MaxRetries *int `yaml:"max_retries,omitempty"`
}

// DefaultConfigPath returns the default configuration file path.
//   - macOS/Linux: ~/.cumulo/config.yaml
//   - Windows: %USERPROFILE%\.cumulo\config.yaml
func DefaultConfigPath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "config.yaml"
	}

	return filepath.Join(homeDir, ".cumulo", "config.yaml")
}

// LoadConfig loads configuration from the specified path. A missing file is
// not an error; it yields the zero config so the CLI works out of the box.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed. The file is user-readable only since it may name private
// endpoints.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
