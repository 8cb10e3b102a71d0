package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Ping tool - test/placeholder
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Test tool - responds with pong or echoes input",
	}, NewPingHandler(deps))

	// Related tool - weighted affinity scoring against one target note
	mcp.AddTool(server, &mcp.Tool{
		Name:        "related_notes",
		Description: "Rank notes related to a target note via shared properties, tags, links and folder proximity",
	}, NewRelatedHandler(deps))

	// Duplicates tool - two-tier duplicate grouping
	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_duplicates",
		Description: "Partition notes into likely-duplicate groups by title and tag/folder matching",
	}, NewDuplicatesHandler(deps))

	// Canvas tool - grid layout export
	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_canvas",
		Description: "Lay out the note relationship graph and write it as a JSON Canvas file",
	}, NewCanvasHandler(deps))
}
