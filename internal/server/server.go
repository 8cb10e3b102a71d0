// Package server provides the MCP server wrapper with lifecycle management.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with dependencies and lifecycle management.
type Server struct {
	mcp       *mcp.Server
	vaultRoot string
	logger    *slog.Logger
}

// New creates a new MCP server bound to the vault at vaultRoot.
func New(version, vaultRoot string, logger *slog.Logger) *Server {
	impl := &mcp.Implementation{
		Name:    "vaultmap",
		Version: version,
	}

	opts := &mcp.ServerOptions{
		Instructions: fmt.Sprintf(
			"vaultmap analyzes the markdown vault at %s: related_notes ranks notes "+
				"by shared properties, tags, links and folder proximity; find_duplicates "+
				"groups likely-duplicate notes; export_canvas writes the note graph as a "+
				"JSON Canvas file. Paths in tool arguments are vault-relative.",
			vaultRoot),
	}

	return &Server{
		mcp:       mcp.NewServer(impl, opts),
		vaultRoot: vaultRoot,
		logger:    logger,
	}
}

// Run starts the server on stdio transport and blocks until disconnect or context cancellation.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server", "transport", "stdio", "vault", s.vaultRoot)
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server for tool registration.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Setup adds middleware to the server (logging, error handling).
func (s *Server) Setup() {
	s.mcp.AddReceivingMiddleware(LoggingMiddleware(s.logger))
}
