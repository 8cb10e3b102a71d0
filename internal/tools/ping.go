package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PingInput defines the input schema for the ping tool.
type PingInput struct {
	Echo string `json:"echo,omitempty" jsonschema:"Text to echo back"`
}

// NewPingHandler creates a ping tool handler with injected dependencies.
// A bare ping doubles as a health check, reporting which vault is served;
// with an echo argument it echoes the input back.
func NewPingHandler(deps *Dependencies) mcp.ToolHandlerFor[PingInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input PingInput) (*mcp.CallToolResult, any, error) {
		if deps != nil && deps.Logger != nil {
			deps.Logger.Debug("ping tool called", "echo", input.Echo)
		}

		if input.Echo != "" {
			return TextResult(input.Echo), nil, nil
		}
		if deps != nil && deps.Scanner != nil {
			return TextResult(fmt.Sprintf("pong (vault: %s)", deps.Scanner.Root())), nil, nil
		}
		return TextResult("pong"), nil, nil
	}
}
