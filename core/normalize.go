package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Normalize converts a raw API payload into the canonical ChatCompletion
// shape, filling defaults for every missing or type-mismatched field.
// streaming selects chunk semantics: choices are read from "delta" (falling
// back to "message"), synthesized message content defaults to "" instead of
// null, and Object is stamped accordingly.
//
// Normalize is pure: same input, same output (modulo timestamp defaults for
// payloads missing id/created). It never mutates its input.
//
// The payload must be a JSON object, or a bare JSON string which is treated
// as the content of a single synthesized choice. Anything else (null,
// numbers, arrays, malformed JSON) yields ErrInvalidResponse.
func Normalize(data []byte, streaming bool) (*ChatCompletion, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidResponse)
	}

	// json.Unmarshal accepts null as a no-op, so reject it explicitly.
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: null payload", ErrInvalidResponse)
	}

	switch trimmed[0] {
	case '"':
		var content string
		if err := json.Unmarshal(trimmed, &content); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		return synthesized(content, streaming), nil
	case '{':
		var env rawEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		return normalizeEnvelope(&env, streaming), nil
	default:
		return nil, fmt.Errorf("%w: payload is not an object", ErrInvalidResponse)
	}
}

// rawEnvelope defers all field decoding so that type mismatches degrade to
// defaults instead of failing the whole payload.
type rawEnvelope struct {
	ID      json.RawMessage `json:"id"`
	Created json.RawMessage `json:"created"`
	Model   json.RawMessage `json:"model"`
	Choices json.RawMessage `json:"choices"`
	Usage   json.RawMessage `json:"usage"`
	Content json.RawMessage `json:"content"`
}

type rawChoice struct {
	Index        json.RawMessage `json:"index"`
	FinishReason json.RawMessage `json:"finish_reason"`
	Message      json.RawMessage `json:"message"`
	Delta        json.RawMessage `json:"delta"`
}

type rawChatMessage struct {
	Role       json.RawMessage `json:"role"`
	Content    json.RawMessage `json:"content"`
	ToolCalls  json.RawMessage `json:"tool_calls"`
	ToolCallID json.RawMessage `json:"tool_call_id"`
}

type rawToolCall struct {
	ID       json.RawMessage `json:"id"`
	Type     json.RawMessage `json:"type"`
	Function json.RawMessage `json:"function"`
}

type rawFunction struct {
	Name      json.RawMessage `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func normalizeEnvelope(env *rawEnvelope, streaming bool) *ChatCompletion {
	now := time.Now().Unix()

	out := &ChatCompletion{
		Object:  objectFor(streaming),
		Created: now,
		Model:   "unknown",
	}

	if id, ok := stringValue(env.ID); ok {
		out.ID = id
	} else {
		out.ID = "chatcmpl-" + strconv.FormatInt(now, 10)
	}
	if created, ok := intValue(env.Created); ok {
		out.Created = created
	}
	if model, ok := stringValue(env.Model); ok {
		out.Model = model
	}

	var entries []json.RawMessage
	_ = json.Unmarshal(env.Choices, &entries)
	for _, entry := range entries {
		if !isObject(entry) {
			continue
		}
		var rc rawChoice
		if err := json.Unmarshal(entry, &rc); err != nil {
			continue
		}
		out.Choices = append(out.Choices, normalizeChoice(&rc, streaming))
	}

	// A response with no usable choices still yields exactly one, so callers
	// never index into an empty slice.
	if len(out.Choices) == 0 {
		content, _ := stringValue(env.Content)
		out.Choices = []Choice{synthChoice(content, streaming)}
	}

	if isObject(env.Usage) {
		var ru struct {
			PromptTokens     json.RawMessage `json:"prompt_tokens"`
			CompletionTokens json.RawMessage `json:"completion_tokens"`
			TotalTokens      json.RawMessage `json:"total_tokens"`
		}
		_ = json.Unmarshal(env.Usage, &ru)
		usage := &Usage{}
		if v, ok := intValue(ru.PromptTokens); ok {
			usage.PromptTokens = int(v)
		}
		if v, ok := intValue(ru.CompletionTokens); ok {
			usage.CompletionTokens = int(v)
		}
		if v, ok := intValue(ru.TotalTokens); ok {
			usage.TotalTokens = int(v)
		}
		out.Usage = usage
	}

	return out
}

func normalizeChoice(rc *rawChoice, streaming bool) Choice {
	choice := Choice{}
	if idx, ok := intValue(rc.Index); ok {
		choice.Index = int(idx)
	}
	if fr, ok := stringValue(rc.FinishReason); ok {
		choice.FinishReason = &fr
	}

	if streaming {
		// Chunks carry deltas; some backends send a full message instead, so
		// fall back rather than drop the content.
		src := rc.Delta
		if !isObject(src) {
			src = rc.Message
		}
		var rm rawChatMessage
		if isObject(src) {
			_ = json.Unmarshal(src, &rm)
		}

		role, _ := stringValue(rm.Role)
		content, hasContent := stringValue(rm.Content)
		toolCalls := normalizeToolCalls(rm.ToolCalls)

		delta := &Delta{Role: role, ToolCalls: toolCalls}
		if hasContent {
			delta.Content = &content
		}
		choice.Delta = delta

		msgRole := role
		if msgRole == "" {
			msgRole = RoleAssistant
		}
		msgContent := content // "" when absent or null
		choice.Message = &Message{
			Role:      msgRole,
			Content:   &msgContent,
			ToolCalls: toolCalls,
		}
		return choice
	}

	var rm rawChatMessage
	if isObject(rc.Message) {
		_ = json.Unmarshal(rc.Message, &rm)
	}

	msg := &Message{Role: RoleAssistant}
	if role, ok := stringValue(rm.Role); ok && role != "" {
		msg.Role = role
	}
	if content, ok := stringValue(rm.Content); ok {
		msg.Content = &content
	}
	if id, ok := stringValue(rm.ToolCallID); ok {
		msg.ToolCallID = id
	}
	msg.ToolCalls = normalizeToolCalls(rm.ToolCalls)
	choice.Message = msg
	return choice
}

func normalizeToolCalls(raw json.RawMessage) []ToolCall {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	var out []ToolCall
	for _, entry := range entries {
		if !isObject(entry) {
			continue
		}
		var rtc rawToolCall
		if err := json.Unmarshal(entry, &rtc); err != nil {
			continue
		}

		tc := ToolCall{
			Type:     "function",
			Function: FunctionCall{Arguments: "{}"},
		}
		if id, ok := stringValue(rtc.ID); ok {
			tc.ID = id
		}
		if typ, ok := stringValue(rtc.Type); ok && typ != "" {
			tc.Type = typ
		}
		if isObject(rtc.Function) {
			var rf rawFunction
			_ = json.Unmarshal(rtc.Function, &rf)
			if name, ok := stringValue(rf.Name); ok {
				tc.Function.Name = name
			}
			if args, ok := stringValue(rf.Arguments); ok {
				tc.Function.Arguments = args
			}
		}
		out = append(out, tc)
	}
	return out
}

// synthesized builds the single-choice completion for bare string payloads.
func synthesized(content string, streaming bool) *ChatCompletion {
	now := time.Now().Unix()
	return &ChatCompletion{
		ID:      "chatcmpl-" + strconv.FormatInt(now, 10),
		Object:  objectFor(streaming),
		Created: now,
		Model:   "unknown",
		Choices: []Choice{synthChoice(content, streaming)},
	}
}

func synthChoice(content string, streaming bool) Choice {
	if streaming {
		deltaContent := content
		msgContent := content
		return Choice{
			Delta:   &Delta{Role: RoleAssistant, Content: &deltaContent},
			Message: &Message{Role: RoleAssistant, Content: &msgContent},
		}
	}
	msgContent := content
	stop := "stop"
	return Choice{
		Message:      &Message{Role: RoleAssistant, Content: &msgContent},
		FinishReason: &stop,
	}
}

func objectFor(streaming bool) string {
	if streaming {
		return ObjectChatCompletionChunk
	}
	return ObjectChatCompletion
}

// stringValue decodes raw as a JSON string, reporting false for absent,
// null, or mismatched types.
func stringValue(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// intValue decodes raw as an integer, tolerating float encodings.
func intValue(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int64(f), true
	}
	return 0, false
}

// isObject reports whether raw starts a JSON object.
func isObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
