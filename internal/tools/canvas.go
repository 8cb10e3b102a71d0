package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/vaultmap-go/internal/canvas"
	"github.com/raphaelgruber/vaultmap-go/internal/metrics"
	"github.com/raphaelgruber/vaultmap-go/internal/service"
)

// CanvasInput defines the input schema for the export_canvas tool.
type CanvasInput struct {
	Scope    string `json:"scope,omitempty" jsonschema:"Vault-relative directory bounding the export"`
	MaxNodes int    `json:"max_nodes,omitempty" jsonschema:"Top-level node budget 1-500 (default 50)"`
	Output   string `json:"output,omitempty" jsonschema:"Output path (default <vault>/vaultmap.canvas)"`
}

// CanvasResult is the response from the export_canvas tool.
type CanvasResult struct {
	Status    string `json:"status"`
	Scope     string `json:"scope"`
	MaxNodes  int    `json:"max_nodes"`
	Output    string `json:"output"`
	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`
	Clustered bool   `json:"clustered"`
}

// NewCanvasHandler creates the export_canvas tool handler.
// Lays out the note graph and writes a JSON Canvas file.
func NewCanvasHandler(deps *Dependencies) mcp.ToolHandlerFor[CanvasInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CanvasInput) (
		*mcp.CallToolResult, any, error,
	) {
		maxNodes := input.MaxNodes
		if maxNodes <= 0 {
			maxNodes = service.DefaultMaxNodes
		}
		if maxNodes > 500 {
			return ErrorResult("max_nodes must be between 1 and 500", "Reduce max_nodes value"), nil, nil
		}

		output := input.Output
		if output == "" {
			output = filepath.Join(deps.Scanner.Root(), "vaultmap.canvas")
		}

		start := time.Now()
		notes, err := deps.Scanner.Scan(input.Scope)
		if err != nil {
			deps.Logger.Error("export_canvas scan failed", "scope", input.Scope, "error", err)
			return ErrorResult("Scan failed: "+err.Error(), "Check the scope path"), nil, nil
		}
		deps.Metrics.RecordItems(metrics.OpScan, time.Since(start), int64(len(notes)))

		start = time.Now()
		layout := service.NewLayoutService(deps.Logger).Layout(notes, maxNodes)
		graph := canvas.BuildGraph(layout)
		deps.Metrics.RecordItems(metrics.OpLayout, time.Since(start), int64(len(graph.Nodes)))

		start = time.Now()
		written, err := canvas.Write(deps.FS, output, graph)
		if err != nil {
			deps.Logger.Error("export_canvas write failed", "output", output, "error", err)
			return ErrorResult("Write failed: "+err.Error(), "Check the output path is writable"), nil, nil
		}
		deps.Metrics.RecordTiming(metrics.OpWrite, time.Since(start))

		result := CanvasResult{
			Status:    "ok",
			Scope:     input.Scope,
			MaxNodes:  maxNodes,
			Output:    written,
			Nodes:     len(graph.Nodes),
			Edges:     len(graph.Edges),
			Clustered: layout.Clustered,
		}
		jsonBytes, _ := json.MarshalIndent(result, "", "  ")
		deps.Logger.Info("export_canvas completed", "output", written, "nodes", result.Nodes, "edges", result.Edges)
		return TextResult(string(jsonBytes)), nil, nil
	}
}
