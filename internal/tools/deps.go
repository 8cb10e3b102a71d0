// Package tools provides MCP tool handlers and registration.
package tools

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/raphaelgruber/vaultmap-go/internal/metrics"
	"github.com/raphaelgruber/vaultmap-go/internal/vault"
)

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Scanner *vault.Scanner
	FS      afero.Fs
	Metrics *metrics.Collector
	Logger  *slog.Logger
}
