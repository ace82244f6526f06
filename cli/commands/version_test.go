package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestVersionVariables(t *testing.T) {
	// Verify default values are set
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestVersionCommandOutput(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	if !strings.Contains(out, "cumulo "+Version) {
		t.Errorf("output should contain 'cumulo %s', got: %q", Version, out)
	}
	if !strings.Contains(out, "go version:") {
		t.Errorf("output should contain the Go version, got: %q", out)
	}
	if !strings.Contains(out, "platform:") {
		t.Errorf("output should contain the platform, got: %q", out)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)

	var parsed map[string]string
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if parsed["version"] != Version {
		t.Errorf("version = %q, want %q", parsed["version"], Version)
	}
	if parsed["commit"] != Commit {
		t.Errorf("commit = %q, want %q", parsed["commit"], Commit)
	}
	if !strings.Contains(parsed["platform"], "/") {
		t.Errorf("platform = %q, want os/arch format", parsed["platform"])
	}
}
