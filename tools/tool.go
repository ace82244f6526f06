// Package tools provides a registry and middleware for executing the tool
// calls a model requests during chat completions.
//
// A Tool pairs a JSON Schema declaration with a Go implementation. The
// registry turns registered tools into ChatRequest declarations and
// dispatches the ToolCalls that come back:
//
//	reg := tools.NewRegistry()
//	reg.Register(&weatherTool{})
//
//	req := &cumulo.ChatRequest{
//	    Model:    "cumulo-large-1",
//	    Messages: messages,
//	    Tools:    reg.Declarations(),
//	}
//	resp, _ := client.Chat.Create(ctx, req)
//
//	for _, call := range resp.ToolCalls() {
//	    msg, err := reg.ExecuteCall(ctx, call)
//	    if err != nil {
//	        return err
//	    }
//	    messages = append(messages, msg)
//	}
package tools

import (
	"context"
	"encoding/json"
)

// Tool defines the interface for model-callable tools.
// Tools provide a schema for argument validation and a Call method for execution.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool does.
	// This is provided to the model to help it decide when to use the tool.
	Description() string

	// Schema returns the JSON Schema that describes the tool's parameters.
	Schema() ToolSchema

	// Call executes the tool with the given arguments.
	// The args parameter contains the raw JSON arguments from the model.
	// Returns the tool's result or an error if execution fails.
	Call(ctx context.Context, args json.RawMessage) (any, error)
}

// ToolSchema describes the parameters a tool accepts.
// JSONSchema must be a valid JSON Schema object.
type ToolSchema struct {
	// JSONSchema is a valid JSON Schema object describing the tool's parameters.
	// Example: {"type": "object", "properties": {"location": {"type": "string"}}}
	JSONSchema json.RawMessage `json:"json_schema"`
}
