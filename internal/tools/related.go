package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/raphaelgruber/vaultmap-go/internal/metrics"
	"github.com/raphaelgruber/vaultmap-go/internal/models"
	"github.com/raphaelgruber/vaultmap-go/internal/service"
)

// RelatedInput defines the input schema for the related_notes tool.
type RelatedInput struct {
	Note  string `json:"note" jsonschema:"required,Vault-relative path of the target note"`
	Scope string `json:"scope,omitempty" jsonschema:"Vault-relative directory bounding the search"`
	Top   int    `json:"top,omitempty" jsonschema:"Max results 1-50 (default 10)"`
}

// RelatedResult is the response from the related_notes tool.
type RelatedResult struct {
	Status  string                   `json:"status"`
	Scope   string                   `json:"scope"`
	Note    string                   `json:"note"`
	Top     int                      `json:"top"`
	Related []models.ScoredCandidate `json:"related"`
}

// NewRelatedHandler creates the related_notes tool handler.
// Scores one note against every note in scope and ranks the matches.
func NewRelatedHandler(deps *Dependencies) mcp.ToolHandlerFor[RelatedInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RelatedInput) (
		*mcp.CallToolResult, any, error,
	) {
		if input.Note == "" {
			return ErrorResult("note cannot be empty", "Provide a vault-relative note path"), nil, nil
		}

		top := input.Top
		if top <= 0 {
			top = service.DefaultTopN
		}
		if top > 50 {
			return ErrorResult("top must be between 1 and 50", "Reduce top value"), nil, nil
		}

		start := time.Now()
		notes, err := deps.Scanner.Scan(input.Scope)
		if err != nil {
			deps.Logger.Error("related_notes scan failed", "scope", input.Scope, "error", err)
			return ErrorResult("Scan failed: "+err.Error(), "Check the scope path"), nil, nil
		}
		deps.Metrics.RecordItems(metrics.OpScan, time.Since(start), int64(len(notes)))

		target, ok := matchNote(notes, input.Note)
		if !ok {
			return ErrorResult(
				fmt.Sprintf("Note not found in scope: %s", input.Note),
				"Check the path relative to the vault root",
			), nil, nil
		}

		start = time.Now()
		related := service.NewRelateService(deps.Logger).Related(target, notes, top)
		deps.Metrics.RecordItems(metrics.OpScore, time.Since(start), int64(len(notes)))

		result := RelatedResult{
			Status:  "ok",
			Scope:   input.Scope,
			Note:    target.Path,
			Top:     top,
			Related: related,
		}
		jsonBytes, _ := json.MarshalIndent(result, "", "  ")
		deps.Logger.Info("related_notes completed", "note", target.Path, "results", len(related))
		return TextResult(string(jsonBytes)), nil, nil
	}
}

// matchNote resolves a note argument against the snapshot by path or stem.
func matchNote(notes []models.Note, arg string) (models.Note, bool) {
	want := strings.ToLower(strings.TrimPrefix(arg, "./"))
	for _, n := range notes {
		p := strings.ToLower(n.Path)
		if p == want || strings.TrimSuffix(p, ".md") == want {
			return n, true
		}
	}
	stem := models.NormalizeLinkTarget(arg)
	for _, n := range notes {
		if models.Stem(n.Path) == stem {
			return n, true
		}
	}
	return models.Note{}, false
}
