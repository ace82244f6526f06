package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	cumulo "github.com/cumulo-ai/cumulo-go"
	"github.com/cumulo-ai/cumulo-go/core"
)

// ErrDuplicateTool is returned when attempting to register a tool with a name
// that is already registered.
var ErrDuplicateTool = errors.New("tool already registered")

// Registry manages a collection of tools indexed by name.
// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry, wrapping it with any middleware
// given. Returns ErrDuplicateTool if a tool with the same name is already
// registered.
func (r *Registry) Register(t Tool, middlewares ...Middleware) error {
	if t == nil {
		return errors.New("tool cannot be nil")
	}

	name := t.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return ErrDuplicateTool
	}

	r.tools[name] = ApplyMiddleware(t, middlewares...)
	return nil
}

// Get retrieves a tool by name.
// Returns the tool and true if found, or nil and false if not found.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools.
// The returned slice is a copy and safe to modify.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		result = append(result, t)
	}
	return result
}

// Declarations returns the registered tools as ChatRequest tool declarations.
func (r *Registry) Declarations() []cumulo.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]cumulo.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		result = append(result, cumulo.Tool{
			Type: "function",
			Function: cumulo.ToolFunction{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Schema().JSONSchema,
			},
		})
	}
	return result
}

// Execute finds a tool by name and calls it with the given arguments.
// Returns an error if the tool is not found or if execution fails.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (any, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("tool %q not found", name)
	}
	return tool.Call(ctx, args)
}

// ExecuteCall runs the tool a model requested and packages the result as the
// tool message to append to the conversation. The result is JSON-encoded and
// carries the tool call ID so the model can match it to its request.
func (r *Registry) ExecuteCall(ctx context.Context, call core.ToolCall) (cumulo.ChatMessage, error) {
	name := call.Function.Name

	result, err := r.Execute(ctx, name, json.RawMessage(call.Function.Arguments))
	if err != nil {
		return cumulo.ChatMessage{}, fmt.Errorf("tool %q: %w", name, err)
	}

	content, err := json.Marshal(result)
	if err != nil {
		return cumulo.ChatMessage{}, fmt.Errorf("tool %q: encode result: %w", name, err)
	}

	return cumulo.ChatMessage{
		Role:       "tool",
		Content:    string(content),
		ToolCallID: call.ID,
	}, nil
}
