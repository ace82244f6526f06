package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// WithLogging creates middleware that logs tool calls. Arguments and results
// are never logged; use WithDetailedLogging in development when they are
// needed.
func WithLogging(logger *slog.Logger) Middleware {
	return func(next ToolCallFunc) ToolCallFunc {
		return func(ctx context.Context, args json.RawMessage) (any, error) {
			toolName := toolNameFromContext(ctx)

			logger.Debug("tool call start", "tool", toolName)
			start := time.Now()

			result, err := next(ctx, args)

			duration := time.Since(start)
			if err != nil {
				logger.Error("tool call failed", "tool", toolName, "duration", duration, "error", err)
			} else {
				logger.Debug("tool call done", "tool", toolName, "duration", duration)
			}

			return result, err
		}
	}
}

// WithDetailedLogging creates middleware that logs tool calls with arguments
// and results. May log sensitive data; use only in development.
func WithDetailedLogging(logger *slog.Logger) Middleware {
	return func(next ToolCallFunc) ToolCallFunc {
		return func(ctx context.Context, args json.RawMessage) (any, error) {
			toolName := toolNameFromContext(ctx)

			logger.Debug("tool call", "tool", toolName, "args", string(args))
			start := time.Now()

			result, err := next(ctx, args)

			duration := time.Since(start)
			if err != nil {
				logger.Error("tool call failed", "tool", toolName, "duration", duration, "error", err)
			} else {
				resultJSON, _ := json.Marshal(result)
				logger.Debug("tool result", "tool", toolName, "duration", duration, "result", string(resultJSON))
			}

			return result, err
		}
	}
}

func toolNameFromContext(ctx context.Context) string {
	if tc := ToolContextFromContext(ctx); tc != nil {
		return tc.ToolName
	}
	return "unknown"
}
