package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/vaultmap-go/internal/metrics"
	"github.com/raphaelgruber/vaultmap-go/internal/models"
	"github.com/raphaelgruber/vaultmap-go/internal/service"
)

var relatedTop int

var relatedCmd = &cobra.Command{
	Use:   "related <note>",
	Short: "Rank notes related to one target note",
	Long: `Score every note in scope against a target note using weighted
heuristics (shared properties, tags, links, folder proximity) and print the
strongest matches with their reasons.

The note argument is a vault-relative path; the .md extension is optional.

Examples:
  vaultmap related "Projects/Auth Service.md"
  vaultmap related "auth service" --scope Projects --top 5
  vaultmap related note.md --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

func init() {
	relatedCmd.Flags().IntVarP(&relatedTop, "top", "n", service.DefaultTopN, "max results")
}

// relatedResult is the structured envelope for the related operation.
type relatedResult struct {
	Status  string                   `json:"status"`
	Scope   string                   `json:"scope"`
	Note    string                   `json:"note"`
	Top     int                      `json:"top"`
	Related []models.ScoredCandidate `json:"related"`
}

func runRelated(cmd *cobra.Command, args []string) error {
	result := relatedResult{
		Status: StatusDryRun,
		Scope:  scopeFlag,
		Note:   args[0],
		Top:    relatedTop,
	}

	if dryRun {
		if jsonOutput {
			return printJSON(result)
		}
		fmt.Printf("Would score %q against scope %q, top %d.\n", args[0], displayScope(scopeFlag), relatedTop)
		return nil
	}

	scanner := newScanner()
	start := time.Now()
	notes, err := scanWithProgress(scanner, scopeFlag)
	if err != nil {
		return reportError(err)
	}
	collector.RecordItems(metrics.OpScan, time.Since(start), int64(len(notes)))

	target, ok := findNote(notes, args[0])
	if !ok {
		return reportError(fmt.Errorf("note not found in scope: %s", args[0]))
	}
	result.Note = target.Path

	start = time.Now()
	result.Related = service.NewRelateService(logger).Related(target, notes, relatedTop)
	collector.RecordItems(metrics.OpScore, time.Since(start), int64(len(notes)))
	result.Status = StatusOK

	if jsonOutput {
		return printJSON(result)
	}

	if len(result.Related) == 0 {
		fmt.Println("No related notes found.")
		return nil
	}

	fmt.Printf("Notes related to %s:\n\n", styleTitle.Render(target.Path))
	for i, r := range result.Related {
		fmt.Printf("%d. %s  %s\n", i+1, styleTitle.Render(r.Title), styleScore.Render(fmt.Sprintf("%d", r.Score)))
		fmt.Printf("   %s\n", styleDim.Render(r.Path))
		for _, reason := range r.Reasons {
			fmt.Printf("   +%-3d %s\n", reason.Weight, styleDim.Render(reason.Detail))
		}
		fmt.Println()
	}
	return nil
}

// findNote locates the target by vault-relative path, with or without the
// .md extension, falling back to a stem match.
func findNote(notes []models.Note, arg string) (models.Note, bool) {
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

func displayScope(scope string) string {
	if scope == "" {
		return "whole vault"
	}
	return scope
}
