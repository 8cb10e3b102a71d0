package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/vaultmap-go/internal/metrics"
	"github.com/raphaelgruber/vaultmap-go/internal/models"
	"github.com/raphaelgruber/vaultmap-go/internal/service"
)

// DuplicatesInput defines the input schema for the find_duplicates tool.
type DuplicatesInput struct {
	Scope         string  `json:"scope,omitempty" jsonschema:"Vault-relative directory bounding the search"`
	MinSimilarity float64 `json:"min_similarity,omitempty" jsonschema:"Tier-2 title similarity threshold 1-100 (default 80)"`
	MaxGroups     int     `json:"max_groups,omitempty" jsonschema:"Max groups reported 1-100 (default 20)"`
}

// DuplicatesResult is the response from the find_duplicates tool.
type DuplicatesResult struct {
	Status        string                  `json:"status"`
	Scope         string                  `json:"scope"`
	MinSimilarity float64                 `json:"min_similarity"`
	MaxGroups     int                     `json:"max_groups"`
	Truncated     bool                    `json:"truncated,omitempty"`
	Groups        []models.DuplicateGroup `json:"groups"`
}

// NewDuplicatesHandler creates the find_duplicates tool handler.
// Partitions the notes in scope into likely-duplicate groups.
func NewDuplicatesHandler(deps *Dependencies) mcp.ToolHandlerFor[DuplicatesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DuplicatesInput) (
		*mcp.CallToolResult, any, error,
	) {
		minSimilarity := input.MinSimilarity
		if minSimilarity <= 0 {
			minSimilarity = service.DefaultMinSimilarity
		}
		if minSimilarity > 100 {
			return ErrorResult("min_similarity must be between 1 and 100", "Reduce min_similarity value"), nil, nil
		}

		maxGroups := input.MaxGroups
		if maxGroups <= 0 {
			maxGroups = service.DefaultMaxGroups
		}
		if maxGroups > 100 {
			return ErrorResult("max_groups must be between 1 and 100", "Reduce max_groups value"), nil, nil
		}

		start := time.Now()
		notes, err := deps.Scanner.Scan(input.Scope)
		if err != nil {
			deps.Logger.Error("find_duplicates scan failed", "scope", input.Scope, "error", err)
			return ErrorResult("Scan failed: "+err.Error(), "Check the scope path"), nil, nil
		}
		deps.Metrics.RecordItems(metrics.OpScan, time.Since(start), int64(len(notes)))

		start = time.Now()
		groups, truncated := service.NewDuplicateService(deps.Logger).Detect(notes, minSimilarity, maxGroups)
		deps.Metrics.RecordItems(metrics.OpDetect, time.Since(start), int64(len(groups)))

		result := DuplicatesResult{
			Status:        "ok",
			Scope:         input.Scope,
			MinSimilarity: minSimilarity,
			MaxGroups:     maxGroups,
			Truncated:     truncated,
			Groups:        groups,
		}
		jsonBytes, _ := json.MarshalIndent(result, "", "  ")
		deps.Logger.Info("find_duplicates completed", "scope", input.Scope, "groups", len(groups))
		return TextResult(string(jsonBytes)), nil, nil
	}
}
