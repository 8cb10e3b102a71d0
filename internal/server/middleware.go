package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxArgLogLen is the maximum length for logged arguments before truncation.
const maxArgLogLen = 200

// slowRequestThreshold is the duration above which requests are logged at
// WARN level. Vault scans dominate request time, so a slow request usually
// means a scope that should be narrowed.
const slowRequestThreshold = 500 * time.Millisecond

// LoggingMiddleware returns middleware that logs all requests with timing.
// Arguments are truncated to 200 characters.
func LoggingMiddleware(logger *slog.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()

			result, err := next(ctx, method, req)

			duration := time.Since(start)

			attrs := []any{
				"method", method,
				"duration_ms", duration.Milliseconds(),
			}

			if params := formatParams(req); params != "" {
				attrs = append(attrs, "params", truncate(params, maxArgLogLen))
			}

			if err != nil {
				attrs = append(attrs, "error", err.Error())
				logger.Error("request failed", attrs...)
			} else if duration > slowRequestThreshold {
				logger.Warn("slow request", attrs...)
			} else {
				logger.Debug("request completed", attrs...)
			}

			return result, err
		}
	}
}

// formatParams extracts and formats request parameters for logging.
func formatParams(req mcp.Request) string {
	params := req.GetParams()
	if params == nil {
		return ""
	}
	return fmt.Sprintf("%+v", params)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
