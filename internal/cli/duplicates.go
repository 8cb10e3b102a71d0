package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/vaultmap-go/internal/metrics"
	"github.com/raphaelgruber/vaultmap-go/internal/models"
	"github.com/raphaelgruber/vaultmap-go/internal/service"
)

var (
	dupMinSimilarity float64
	dupMaxGroups     int
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Find likely-duplicate notes",
	Long: `Partition the notes in scope into likely-duplicate groups.

Tier 1 groups notes whose titles are identical after normalization. Tier 2
flags pairs with similar titles or identical tag sets within one folder,
then merges overlapping pairs into connected components.

Tier 2 compares every pair of notes, so cost grows quadratically; keep a
scope to roughly 2,000 notes for comfortable runs.

Examples:
  vaultmap duplicates
  vaultmap duplicates --scope Projects --min-similarity 90
  vaultmap duplicates --max-groups 5 --json`,
	Args: cobra.NoArgs,
	RunE: runDuplicates,
}

func init() {
	duplicatesCmd.Flags().Float64Var(&dupMinSimilarity, "min-similarity", service.DefaultMinSimilarity, "tier-2 title similarity threshold (0-100)")
	duplicatesCmd.Flags().IntVar(&dupMaxGroups, "max-groups", service.DefaultMaxGroups, "max groups reported")
}

// duplicatesResult is the structured envelope for the duplicates operation.
type duplicatesResult struct {
	Status        string                  `json:"status"`
	Scope         string                  `json:"scope"`
	MinSimilarity float64                 `json:"min_similarity"`
	MaxGroups     int                     `json:"max_groups"`
	Truncated     bool                    `json:"truncated,omitempty"`
	Groups        []models.DuplicateGroup `json:"groups"`
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	result := duplicatesResult{
		Status:        StatusDryRun,
		Scope:         scopeFlag,
		MinSimilarity: dupMinSimilarity,
		MaxGroups:     dupMaxGroups,
	}

	if dryRun {
		if jsonOutput {
			return printJSON(result)
		}
		fmt.Printf("Would detect duplicates in scope %q, min similarity %.0f, max groups %d.\n",
			displayScope(scopeFlag), dupMinSimilarity, dupMaxGroups)
		return nil
	}

	scanner := newScanner()
	start := time.Now()
	notes, err := scanWithProgress(scanner, scopeFlag)
	if err != nil {
		return reportError(err)
	}
	collector.RecordItems(metrics.OpScan, time.Since(start), int64(len(notes)))

	start = time.Now()
	groups, truncated := service.NewDuplicateService(logger).Detect(notes, dupMinSimilarity, dupMaxGroups)
	collector.RecordItems(metrics.OpDetect, time.Since(start), int64(len(groups)))

	result.Status = StatusOK
	result.Groups = groups
	result.Truncated = truncated

	if jsonOutput {
		return printJSON(result)
	}

	if len(groups) == 0 {
		fmt.Println("No duplicate groups found.")
		return nil
	}

	fmt.Printf("Found %d duplicate groups:\n\n", len(groups))
	for i, g := range groups {
		fmt.Printf("%d. %s  %s\n", i+1,
			styleTitle.Render(fmt.Sprintf("tier %d / %s", g.Tier, g.Reason)),
			styleScore.Render(fmt.Sprintf("%.1f%%", g.Similarity)))
		for _, n := range g.Notes {
			fmt.Printf("   - %s %s\n", n.Title, styleDim.Render("("+n.Path+")"))
		}
		fmt.Println()
	}
	if truncated {
		fmt.Println(styleWarning.Render(fmt.Sprintf("More groups exist; raise --max-groups above %d to see them.", dupMaxGroups)))
	}
	return nil
}
