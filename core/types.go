package core

// Role constants for chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Object values stamped by the normalizer.
const (
	ObjectChatCompletion      = "chat.completion"
	ObjectChatCompletionChunk = "chat.completion.chunk"
)

// ChatCompletion is the canonical, fully-defaulted form of a chat completion
// payload. Both complete responses and streaming chunks normalize into this
// shape; Object distinguishes the two ([ObjectChatCompletion] vs
// [ObjectChatCompletionChunk]).
type ChatCompletion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice is one completion alternative. Streaming chunks carry both the raw
// Delta and a Message view synthesized from it; complete responses carry only
// the Message.
type Choice struct {
	Index        int      `json:"index"`
	Message      *Message `json:"message,omitempty"`
	Delta        *Delta   `json:"delta,omitempty"`
	FinishReason *string  `json:"finish_reason"`
}

// Message is an assistant message. Content is a pointer so that JSON null
// (tool-call-only responses) stays distinct from an empty string (streaming
// chunks that carry no text yet).
type Message struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Delta is the incremental payload of one streaming chunk.
type Delta struct {
	Role      string     `json:"role,omitempty"`
	Content   *string    `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the function and carries its arguments as a raw JSON
// string. Arguments is normalized to "{}" when absent so it always parses.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Usage tracks token consumption for a request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Text returns the message content of the first choice, or "" when there is
// no choice, no message, or null content.
func (c *ChatCompletion) Text() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	msg := c.Choices[0].Message
	if msg == nil || msg.Content == nil {
		return ""
	}
	return *msg.Content
}

// DeltaText returns the delta content of the first choice of a streaming
// chunk, or "" when there is none.
func (c *ChatCompletion) DeltaText() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	d := c.Choices[0].Delta
	if d == nil || d.Content == nil {
		return ""
	}
	return *d.Content
}

// FinishReason returns the finish reason of the first choice, or "" while
// generation is still in progress.
func (c *ChatCompletion) FinishReason() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	fr := c.Choices[0].FinishReason
	if fr == nil {
		return ""
	}
	return *fr
}

// ToolCalls returns the tool calls requested by the first choice, or nil
// when the model did not call any tools.
func (c *ChatCompletion) ToolCalls() []ToolCall {
	if c == nil || len(c.Choices) == 0 {
		return nil
	}
	msg := c.Choices[0].Message
	if msg == nil {
		return nil
	}
	return msg.ToolCalls
}
