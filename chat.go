package cumulo

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cumulo-ai/cumulo-go/core"
)

// ChatService creates chat completions.
type ChatService struct {
	dispatcher *core.Dispatcher
	logger     *slog.Logger
}

// ChatMessage is one turn of a conversation as sent to the API.
type ChatMessage struct {
	Role       string          `json:"role"`
	Content    string          `json:"content"`
	Name       string          `json:"name,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	ToolCalls  []core.ToolCall `json:"tool_calls,omitempty"`
}

// Tool declares a function the model may call.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction describes a callable function with a JSON Schema for its
// arguments.
type ToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ChatRequest is the request body for chat completions. Fields are passed
// through to the API as-is; the stream flag is managed by the service.
type ChatRequest struct {
	Model            string        `json:"model"`
	Messages         []ChatMessage `json:"messages"`
	Temperature      *float64      `json:"temperature,omitempty"`
	TopP             *float64      `json:"top_p,omitempty"`
	MaxTokens        *int          `json:"max_tokens,omitempty"`
	Stop             []string      `json:"stop,omitempty"`
	N                *int          `json:"n,omitempty"`
	PresencePenalty  *float64      `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float64      `json:"frequency_penalty,omitempty"`
	User             string        `json:"user,omitempty"`
	Tools            []Tool        `json:"tools,omitempty"`
	ToolChoice       any           `json:"tool_choice,omitempty"`
}

// chatWire adds the stream flag the service controls.
type chatWire struct {
	*ChatRequest
	Stream bool `json:"stream"`
}

// Create requests a complete (non-streamed) chat completion. The response is
// normalized: missing fields carry documented defaults, and Text() returns
// the first choice's content.
func (s *ChatService) Create(ctx context.Context, req *ChatRequest) (*core.ChatCompletion, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodPost,
		Endpoint: "/chat/completions",
		Body:     chatWire{ChatRequest: req, Stream: false},
	})
	if err != nil {
		return nil, err
	}
	data, err := resp.Bytes()
	if err != nil {
		return nil, err
	}
	return core.Normalize(data, false)
}

// CreateStream requests a streamed chat completion. The returned stream
// yields normalized chunks from Recv until io.EOF; Close releases the
// connection and may be called at any point.
func (s *ChatService) CreateStream(ctx context.Context, req *ChatRequest) (*core.ChatCompletionStream, error) {
	resp, err := s.dispatcher.Send(ctx, &core.RequestSpec{
		Method:   http.MethodPost,
		Endpoint: "/chat/completions",
		Body:     chatWire{ChatRequest: req, Stream: true},
		Stream:   true,
	})
	if err != nil {
		return nil, err
	}
	stream, err := core.NewChatCompletionStream(resp.Body, s.logger)
	if err != nil {
		resp.Close()
		return nil, err
	}
	return stream, nil
}
