package tools

import (
	"context"
	"encoding/json"
)

// ToolCallFunc is the function signature for tool execution.
// Middleware wraps this function to add behavior.
type ToolCallFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Middleware wraps a ToolCallFunc to add behavior before and/or after execution.
// Middleware functions receive the next handler in the chain and return a new handler.
type Middleware func(next ToolCallFunc) ToolCallFunc

// ToolContext provides metadata about the current tool call to middleware.
// It's stored in the context and accessible via ToolContextFromContext.
type ToolContext struct {
	// ToolName is the name of the tool being called.
	ToolName string

	// CallID is a unique identifier for this invocation (if available).
	CallID string

	// Metadata allows middleware to share data with each other. ApplyMiddleware
	// seeds it with the tool's schema under the "schema" key.
	Metadata map[string]any
}

// toolContextKey is the context key for ToolContext.
type toolContextKey struct{}

// ContextWithToolContext adds ToolContext to a context.
func ContextWithToolContext(ctx context.Context, tc *ToolContext) context.Context {
	return context.WithValue(ctx, toolContextKey{}, tc)
}

// ToolContextFromContext retrieves ToolContext from a context.
// Returns nil if not present.
func ToolContextFromContext(ctx context.Context) *ToolContext {
	tc, _ := ctx.Value(toolContextKey{}).(*ToolContext)
	return tc
}

// Chain combines multiple middleware into a single middleware.
// Middleware are executed in the order provided (first middleware is outermost).
func Chain(middlewares ...Middleware) Middleware {
	return func(next ToolCallFunc) ToolCallFunc {
		// Apply in reverse order so first middleware is outermost
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// ApplyMiddleware wraps a tool with middleware.
// Returns a new tool that executes middleware around the original.
func ApplyMiddleware(tool Tool, middlewares ...Middleware) Tool {
	if len(middlewares) == 0 {
		return tool
	}

	chain := Chain(middlewares...)
	wrapped := chain(tool.Call)

	return &wrappedTool{
		tool:    tool,
		wrapped: wrapped,
	}
}

// wrappedTool is a tool with middleware applied.
type wrappedTool struct {
	tool    Tool
	wrapped ToolCallFunc
}

func (w *wrappedTool) Name() string        { return w.tool.Name() }
func (w *wrappedTool) Description() string { return w.tool.Description() }
func (w *wrappedTool) Schema() ToolSchema  { return w.tool.Schema() }

func (w *wrappedTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	// Ensure ToolContext exists and carries the tool's identity and schema.
	tc := ToolContextFromContext(ctx)
	if tc == nil {
		tc = &ToolContext{
			ToolName: w.tool.Name(),
			Metadata: make(map[string]any),
		}
		ctx = ContextWithToolContext(ctx, tc)
	} else if tc.ToolName == "" {
		tc.ToolName = w.tool.Name()
	}
	if tc.Metadata == nil {
		tc.Metadata = make(map[string]any)
	}
	if _, ok := tc.Metadata["schema"]; !ok {
		tc.Metadata["schema"] = w.tool.Schema().JSONSchema
	}

	return w.wrapped(ctx, args)
}
