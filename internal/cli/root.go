// Package cli provides the command-line interface for vaultmap.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/vaultmap-go/internal/config"
	"github.com/raphaelgruber/vaultmap-go/internal/metrics"
	"github.com/raphaelgruber/vaultmap-go/internal/vault"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	vaultPath  string
	scopeFlag  string
	jsonOutput bool
	dryRun     bool
	verbose    bool

	// Global config, logger and stats, established in PersistentPreRunE
	cfg       config.Config
	logger    *slog.Logger
	logsClose func() error
	collector = metrics.NewCollector()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vaultmap",
	Short: "Relationship and layout engine for markdown vaults",
	Long: `Vaultmap analyzes an Obsidian-style markdown vault: it scores pairwise
affinity between notes, detects likely duplicates, and projects the note
graph onto a JSON Canvas layout.

All analysis runs over a fresh in-memory snapshot of the vault; nothing is
indexed or persisted between invocations.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if vaultPath != "" {
			cfg.VaultPath = vaultPath
		}
		if cfg.VaultPath == "" {
			return fmt.Errorf("no vault: pass --vault or set VAULTMAP_VAULT")
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, logsClose = config.SetupLogger(cfg.LogFile, level)

		info, err := os.Stat(cfg.VaultPath)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("vault root is not a directory: %s", cfg.VaultPath)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if verbose && logger != nil {
			snap := collector.Snapshot()
			logger.Debug("run statistics",
				"scan", snap.Scan,
				"score", snap.Score,
				"detect", snap.Detect,
				"layout", snap.Layout,
				"write", snap.Write,
			)
		}
		if logsClose != nil {
			if err := logsClose(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// newScanner builds the vault scanner over the OS filesystem.
func newScanner() *vault.Scanner {
	return vault.NewScanner(afero.NewOsFs(), cfg.VaultPath, cfg.SkipDirs, logger)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "vault root directory (or VAULTMAP_VAULT)")
	rootCmd.PersistentFlags().StringVar(&scopeFlag, "scope", "", "vault-relative directory bounding the operation")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "report resolved parameters without scanning")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(duplicatesCmd)
	rootCmd.AddCommand(canvasCmd)
}
