package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cumulo-ai/cumulo-go/cli/config"
)

func TestStarterConfig(t *testing.T) {
	tests := []struct {
		name      string
		modelID   string
		wantModel string
	}{
		{"default model", "", "cumulo-large-1"},
		{"explicit model", "cumulo-small-1", "cumulo-small-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := starterConfig(tt.modelID)
			if c.DefaultModel != tt.wantModel {
				t.Errorf("DefaultModel = %q, want %q", c.DefaultModel, tt.wantModel)
			}
			if c.TimeoutSeconds != 60 {
				t.Errorf("TimeoutSeconds = %d, want 60", c.TimeoutSeconds)
			}
		})
	}
}

func TestInitWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfgFile = path
	t.Cleanup(resetInitFlags)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if loaded.DefaultModel != "cumulo-large-1" {
		t.Errorf("DefaultModel = %q, want 'cumulo-large-1'", loaded.DefaultModel)
	}
	if loaded.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", loaded.TimeoutSeconds)
	}
}

func TestInitUsesModelFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfgFile = path
	model = "cumulo-code-1"
	t.Cleanup(resetInitFlags)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if loaded.DefaultModel != "cumulo-code-1" {
		t.Errorf("DefaultModel = %q, want 'cumulo-code-1'", loaded.DefaultModel)
	}
}

func TestInitRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_model: keep-me\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfgFile = path
	t.Cleanup(resetInitFlags)

	err := runInit(initCmd, nil)
	if err == nil {
		t.Fatal("runInit() should refuse to overwrite an existing file")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error should mention 'already exists', got: %v", err)
	}

	// Existing content untouched
	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.DefaultModel != "keep-me" {
		t.Errorf("DefaultModel = %q, want 'keep-me'", loaded.DefaultModel)
	}
}

func TestInitForceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_model: old\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfgFile = path
	initForce = true
	t.Cleanup(resetInitFlags)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.DefaultModel != "cumulo-large-1" {
		t.Errorf("DefaultModel = %q, want 'cumulo-large-1'", loaded.DefaultModel)
	}
}

func resetInitFlags() {
	cfgFile = ""
	model = ""
	initForce = false
}
