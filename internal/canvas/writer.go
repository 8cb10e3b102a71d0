package canvas

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// maxSuffixAttempts bounds the disambiguation retry loop.
const maxSuffixAttempts = 100

// Write marshals the graph and writes it without overwriting: if the target
// path exists, a numeric suffix is appended before the extension and the
// write retried. Returns the path actually written.
func Write(fs afero.Fs, path string, g *Graph) (string, error) {
	data, err := json.MarshalIndent(g, "", "\t")
	if err != nil {
		return "", fmt.Errorf("marshal canvas: %w", err)
	}

	target := path
	for attempt := 1; ; attempt++ {
		exists, err := afero.Exists(fs, target)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", target, err)
		}
		if !exists {
			break
		}
		if attempt > maxSuffixAttempts {
			return "", fmt.Errorf("no free path after %d attempts for %s", maxSuffixAttempts, path)
		}
		target = suffixed(path, attempt)
	}

	if dir := filepath.Dir(target); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := afero.WriteFile(fs, target, data, 0644); err != nil {
		return "", fmt.Errorf("write canvas: %w", err)
	}
	return target, nil
}

func suffixed(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), n, ext)
}
