package cumulo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cumulo-ai/cumulo-go/core"
)

func TestChatCreate(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			t.Errorf("request = %s %s, want POST /chat/completions", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "cumulo-large-1",
			"choices": [{"message": {"role": "assistant", "content": "Hi there."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 4, "completion_tokens": 3, "total_tokens": 7}
		}`))
	}))

	temp := 0.2
	completion, err := client.Chat.Create(context.Background(), &ChatRequest{
		Model:       "cumulo-large-1",
		Messages:    []ChatMessage{{Role: "user", Content: "Hello"}},
		Temperature: &temp,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if completion.Text() != "Hi there." {
		t.Errorf("Text() = %q, want %q", completion.Text(), "Hi there.")
	}
	if completion.Object != core.ObjectChatCompletion {
		t.Errorf("Object = %q, want %q", completion.Object, core.ObjectChatCompletion)
	}
	if completion.Usage == nil || completion.Usage.TotalTokens != 7 {
		t.Errorf("Usage = %+v, want total 7", completion.Usage)
	}

	if gotBody["stream"] != false {
		t.Errorf(`request "stream" = %v, want false`, gotBody["stream"])
	}
	if gotBody["model"] != "cumulo-large-1" {
		t.Errorf(`request "model" = %v, want cumulo-large-1`, gotBody["model"])
	}
	if gotBody["temperature"] != 0.2 {
		t.Errorf(`request "temperature" = %v, want 0.2`, gotBody["temperature"])
	}
}

func TestChatCreateNormalizesSparseResponse(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))

	completion, err := client.Chat.Create(context.Background(), &ChatRequest{
		Model:    "cumulo-large-1",
		Messages: []ChatMessage{{Role: "user", Content: "Hello"}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(completion.Choices) != 1 {
		t.Fatalf("Choices = %d, want 1 synthesized", len(completion.Choices))
	}
	choice := completion.Choices[0]
	if choice.FinishReason == nil || *choice.FinishReason != "stop" {
		t.Errorf("FinishReason = %v, want stop", choice.FinishReason)
	}
	if choice.Message == nil || choice.Message.Content == nil || *choice.Message.Content != "" {
		t.Errorf("Message = %+v, want assistant message with empty content", choice.Message)
	}
}

func TestChatCreatePropagatesAPIErrors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unknown model"}`))
	}))

	_, err := client.Chat.Create(context.Background(), &ChatRequest{
		Model:    "nope",
		Messages: []ChatMessage{{Role: "user", Content: "Hello"}},
	})
	if !errors.Is(err, core.ErrBadRequest) {
		t.Fatalf("Create() error = %v, want ErrBadRequest", err)
	}

	var apiErr *core.APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("error should be a *core.APIError")
	}
	if apiErr.Body != `{"error":"unknown model"}` {
		t.Errorf("Body = %q, want raw error body", apiErr.Body)
	}
}

func TestChatCreateStream(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\",\"content\":\"Hel\"}}]}\n\n")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
		io.WriteString(w, "data: [DONE]\n\n")
	}))

	stream, err := client.Chat.CreateStream(context.Background(), &ChatRequest{
		Model:    "cumulo-large-1",
		Messages: []ChatMessage{{Role: "user", Content: "Hello"}},
	})
	if err != nil {
		t.Fatalf("CreateStream() error = %v", err)
	}
	defer stream.Close()

	var text strings.Builder
	var chunks int
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv() error = %v", err)
		}
		chunks++
		if chunk.Object != core.ObjectChatCompletionChunk {
			t.Errorf("chunk Object = %q, want %q", chunk.Object, core.ObjectChatCompletionChunk)
		}
		text.WriteString(chunk.DeltaText())
	}

	if text.String() != "Hello" {
		t.Errorf("concatenated deltas = %q, want %q", text.String(), "Hello")
	}
	if chunks != 3 {
		t.Errorf("chunks = %d, want 3", chunks)
	}
	if gotBody["stream"] != true {
		t.Errorf(`request "stream" = %v, want true`, gotBody["stream"])
	}
}

// A streamed completion, collected, must carry the same content as the
// non-streamed rendering of the same response.
func TestChatStreamCollectMatchesCreate(t *testing.T) {
	const want = "The quick brown fox."

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["stream"] == true {
			io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\",\"content\":\"The quick \"}}]}\n\n")
			io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"brown fox.\"},\"finish_reason\":\"stop\"}]}\n\n")
			io.WriteString(w, "data: [DONE]\n\n")
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"The quick brown fox."},"finish_reason":"stop"}]}`))
	}))

	req := &ChatRequest{Model: "cumulo-large-1", Messages: []ChatMessage{{Role: "user", Content: "Go"}}}

	direct, err := client.Chat.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stream, err := client.Chat.CreateStream(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateStream() error = %v", err)
	}
	collected, err := stream.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if direct.Text() != want || collected.Text() != want {
		t.Errorf("Text() = %q (direct), %q (collected), want both %q", direct.Text(), collected.Text(), want)
	}
	if direct.FinishReason() != collected.FinishReason() {
		t.Errorf("FinishReason() = %q (direct) vs %q (collected)", direct.FinishReason(), collected.FinishReason())
	}
	if collected.Object != core.ObjectChatCompletion {
		t.Errorf("collected Object = %q, want %q", collected.Object, core.ObjectChatCompletion)
	}
}

func TestChatCreateStreamPropagatesAPIErrors(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.Chat.CreateStream(context.Background(), &ChatRequest{
		Model:    "cumulo-large-1",
		Messages: []ChatMessage{{Role: "user", Content: "Hello"}},
	})
	if !errors.Is(err, core.ErrAuthentication) {
		t.Errorf("CreateStream() error = %v, want ErrAuthentication", err)
	}
}

func TestChatRequestToolsMarshal(t *testing.T) {
	var gotBody struct {
		Tools []Tool `json:"tools"`
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{"choices":[]}`))
	}))

	_, err := client.Chat.Create(context.Background(), &ChatRequest{
		Model:    "cumulo-large-1",
		Messages: []ChatMessage{{Role: "user", Content: "weather?"}},
		Tools: []Tool{{
			Type: "function",
			Function: ToolFunction{
				Name:       "get_weather",
				Parameters: json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}}}`),
			},
		}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(gotBody.Tools) != 1 || gotBody.Tools[0].Function.Name != "get_weather" {
		t.Errorf("request tools = %+v, want get_weather passthrough", gotBody.Tools)
	}
}
