package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func strptr(s string) *string { return &s }

func TestChatCompletionText(t *testing.T) {
	tests := []struct {
		name string
		c    *ChatCompletion
		want string
	}{
		{"nil completion", nil, ""},
		{"no choices", &ChatCompletion{}, ""},
		{"nil message", &ChatCompletion{Choices: []Choice{{}}}, ""},
		{"null content", &ChatCompletion{Choices: []Choice{{Message: &Message{Role: RoleAssistant}}}}, ""},
		{"content", &ChatCompletion{Choices: []Choice{{Message: &Message{Role: RoleAssistant, Content: strptr("hello")}}}}, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChatCompletionDeltaText(t *testing.T) {
	chunk := &ChatCompletion{Choices: []Choice{{Delta: &Delta{Content: strptr("wor")}}}}
	if got := chunk.DeltaText(); got != "wor" {
		t.Errorf("DeltaText() = %q, want %q", got, "wor")
	}

	empty := &ChatCompletion{Choices: []Choice{{Delta: &Delta{}}}}
	if got := empty.DeltaText(); got != "" {
		t.Errorf("DeltaText() with nil content = %q, want empty", got)
	}
}

func TestChatCompletionFinishReason(t *testing.T) {
	done := &ChatCompletion{Choices: []Choice{{FinishReason: strptr("stop")}}}
	if got := done.FinishReason(); got != "stop" {
		t.Errorf("FinishReason() = %q, want %q", got, "stop")
	}

	inProgress := &ChatCompletion{Choices: []Choice{{}}}
	if got := inProgress.FinishReason(); got != "" {
		t.Errorf("FinishReason() mid-stream = %q, want empty", got)
	}
}

func TestChatCompletionToolCalls(t *testing.T) {
	withCalls := &ChatCompletion{Choices: []Choice{{Message: &Message{
		Role: RoleAssistant,
		ToolCalls: []ToolCall{
			{ID: "call_1", Type: "function", Function: FunctionCall{Name: "get_weather", Arguments: `{"location":"SF"}`}},
		},
	}}}}
	calls := withCalls.ToolCalls()
	if len(calls) != 1 || calls[0].Function.Name != "get_weather" {
		t.Errorf("ToolCalls() = %+v, want one get_weather call", calls)
	}

	textOnly := &ChatCompletion{Choices: []Choice{{Message: &Message{Role: RoleAssistant, Content: strptr("hi")}}}}
	if got := textOnly.ToolCalls(); got != nil {
		t.Errorf("ToolCalls() on text response = %+v, want nil", got)
	}

	var nilCompletion *ChatCompletion
	if got := nilCompletion.ToolCalls(); got != nil {
		t.Errorf("ToolCalls() on nil = %+v, want nil", got)
	}
}

func TestMessageContentMarshalsNullVersusEmpty(t *testing.T) {
	// null and "" are distinct on the wire: tool-call-only messages carry
	// null content, streaming synthesis carries "".
	withNull, err := json.Marshal(Message{Role: RoleAssistant})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.Contains(string(withNull), `"content":null`) {
		t.Errorf("nil content marshaled as %s, want null", withNull)
	}

	withEmpty, err := json.Marshal(Message{Role: RoleAssistant, Content: strptr("")})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.Contains(string(withEmpty), `"content":""`) {
		t.Errorf("empty content marshaled as %s, want \"\"", withEmpty)
	}
}
