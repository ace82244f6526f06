package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSecretString(t *testing.T) {
	secret := NewSecret("cmk_live_4f9a8b2c")
	got := secret.String()
	want := "[REDACTED]"
	if got != want {
		t.Errorf("Secret.String() = %q, want %q", got, want)
	}
}

func TestSecretGoString(t *testing.T) {
	secret := NewSecret("cmk_live_4f9a8b2c")
	got := secret.GoString()
	want := "core.Secret{[REDACTED]}"
	if got != want {
		t.Errorf("Secret.GoString() = %q, want %q", got, want)
	}
}

func TestSecretExpose(t *testing.T) {
	value := "cmk_live_4f9a8b2c"
	secret := NewSecret(value)
	if got := secret.Expose(); got != value {
		t.Errorf("Secret.Expose() = %q, want %q", got, value)
	}
}

func TestSecretIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"empty string", "", true},
		{"non-empty string", "cmk_test_1", false},
		{"whitespace only", "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSecret(tt.value).IsEmpty(); got != tt.want {
				t.Errorf("Secret.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSecretNeverLeaksThroughFormatting(t *testing.T) {
	value := "cmk_live_super_secret"
	secret := NewSecret(value)

	for _, format := range []string{"%v", "%s", "%+v", "%#v"} {
		t.Run(format, func(t *testing.T) {
			got := fmt.Sprintf(format, secret)
			if strings.Contains(got, value) {
				t.Errorf("fmt.Sprintf(%q, secret) exposed the value: %s", format, got)
			}
			if !strings.Contains(got, "REDACTED") {
				t.Errorf("fmt.Sprintf(%q, secret) = %q, want redacted placeholder", format, got)
			}
		})
	}
}

func TestSecretNeverLeaksThroughStructFormatting(t *testing.T) {
	cfg := ClientConfig{APIKey: NewSecret("cmk_live_super_secret")}

	for _, format := range []string{"%v", "%+v", "%#v"} {
		got := fmt.Sprintf(format, cfg)
		if strings.Contains(got, "cmk_live_super_secret") {
			t.Errorf("fmt.Sprintf(%q, config) exposed the value: %s", format, got)
		}
	}
}

func TestSecretMarshalJSON(t *testing.T) {
	type payload struct {
		Name   string `json:"name"`
		APIKey Secret `json:"api_key"`
	}

	data, err := json.Marshal(payload{Name: "prod", APIKey: NewSecret("cmk_live_4f9a")})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	got := string(data)
	want := `{"name":"prod","api_key":"[REDACTED]"}`
	if got != want {
		t.Errorf("json.Marshal() = %s, want %s", got, want)
	}
}

func TestSecretMarshalText(t *testing.T) {
	secret := NewSecret("cmk_live_4f9a")
	got, err := secret.MarshalText()
	if err != nil {
		t.Fatalf("Secret.MarshalText() error = %v", err)
	}
	if string(got) != "[REDACTED]" {
		t.Errorf("Secret.MarshalText() = %s, want [REDACTED]", got)
	}
}
