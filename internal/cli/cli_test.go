package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/vaultmap-go/internal/metrics"
	"github.com/raphaelgruber/vaultmap-go/internal/service"
)

// resetFlags restores the package globals cobra binds flags to. Flag values
// persist across Execute calls, so every test starts from defaults.
func resetFlags() {
	vaultPath = ""
	scopeFlag = ""
	jsonOutput = false
	dryRun = false
	verbose = false
	relatedTop = service.DefaultTopN
	dupMinSimilarity = service.DefaultMinSimilarity
	dupMaxGroups = service.DefaultMaxGroups
	canvasMaxNodes = service.DefaultMaxNodes
	canvasOutput = ""
}

// runCommand executes the root command with the given args, capturing stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Setenv("VAULTMAP_VAULT", "")
	t.Setenv("VAULTMAP_LOG_FILE", filepath.Join(t.TempDir(), "vaultmap.log"))

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()

	require.NoError(t, w.Close())
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

// scanCount reads the number of recorded vault scans.
func scanCount(c *metrics.Collector) int64 {
	snap := c.Snapshot()
	if snap.Scan == nil {
		return 0
	}
	return snap.Scan.Count
}

func TestDryRunSkipsVaultScan(t *testing.T) {
	vault := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"related", []string{"related", "Projects/Auth Service", "--vault", vault, "--dry-run", "--json"}},
		{"duplicates", []string{"duplicates", "--vault", vault, "--dry-run", "--json"}},
		{"canvas", []string{"canvas", "--vault", vault, "--dry-run", "--json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := scanCount(collector)
			out, err := runCommand(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, before, scanCount(collector), "dry run must not scan the vault")
			assert.Contains(t, out, `"status": "dry-run"`)
		})
	}
}

func TestRelatedDryRunEchoesParameters(t *testing.T) {
	vault := t.TempDir()

	out, err := runCommand(t, "related", "Projects/Auth Service.md",
		"--vault", vault, "--scope", "Projects", "--top", "5", "--dry-run", "--json")
	require.NoError(t, err)

	var result relatedResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, StatusDryRun, result.Status)
	assert.Equal(t, "Projects/Auth Service.md", result.Note)
	assert.Equal(t, "Projects", result.Scope)
	assert.Equal(t, 5, result.Top)
	assert.Empty(t, result.Related)
}

func TestDuplicatesDryRunEchoesParameters(t *testing.T) {
	vault := t.TempDir()

	out, err := runCommand(t, "duplicates",
		"--vault", vault, "--min-similarity", "90", "--max-groups", "5", "--dry-run", "--json")
	require.NoError(t, err)

	var result duplicatesResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, StatusDryRun, result.Status)
	assert.Equal(t, 90.0, result.MinSimilarity)
	assert.Equal(t, 5, result.MaxGroups)
	assert.Empty(t, result.Groups)
}

func TestCanvasDryRunWritesNothing(t *testing.T) {
	vault := t.TempDir()

	out, err := runCommand(t, "canvas", "--vault", vault, "--dry-run", "--json")
	require.NoError(t, err)

	var result canvasResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, StatusDryRun, result.Status)
	assert.Equal(t, filepath.Join(vault, "vaultmap.canvas"), result.Output)

	_, statErr := os.Stat(result.Output)
	assert.True(t, os.IsNotExist(statErr), "dry run must not write the canvas file")
}

func TestDryRunHumanOutput(t *testing.T) {
	vault := t.TempDir()

	out, err := runCommand(t, "related", "note.md", "--vault", vault, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would score")
	assert.Contains(t, out, "whole vault")
}

func TestMissingVaultIsAnError(t *testing.T) {
	_, err := runCommand(t, "related", "note.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no vault")
}

func TestVaultMustBeADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := runCommand(t, "duplicates", "--vault", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
