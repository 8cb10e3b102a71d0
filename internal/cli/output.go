package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Status values used in result envelopes.
const (
	StatusOK     = "ok"
	StatusDryRun = "dry-run"
	StatusError  = "error"
)

// errorResult is the structured failure envelope for --json mode.
type errorResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true)
	styleScore   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
)

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// reportError surfaces a failure as a structured result in JSON mode and
// also returns it so the caller exits non-zero.
func reportError(err error) error {
	if jsonOutput {
		_ = printJSON(errorResult{Status: StatusError, Message: err.Error()})
	}
	return err
}

// isTTY reports whether stdout is a terminal.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
