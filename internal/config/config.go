package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds all configuration values.
type Config struct {
	// Vault
	VaultPath string
	SkipDirs  []string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// defaultSkipDirs are directory names never scanned, compared
// case-insensitively against each path segment.
var defaultSkipDirs = []string{".obsidian", ".trash", ".git", "node_modules", "templates"}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		VaultPath: getEnv("VAULTMAP_VAULT", ""),
		SkipDirs:  parseSkipDirs(getEnv("VAULTMAP_SKIP_DIRS", "")),

		LogFile:  getEnv("VAULTMAP_LOG_FILE", "/tmp/vaultmap.log"),
		LogLevel: parseLogLevel(getEnv("VAULTMAP_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// parseSkipDirs splits a comma-separated override list, falling back to the
// built-in system/template directory names when unset.
func parseSkipDirs(s string) []string {
	if s == "" {
		return defaultSkipDirs
	}
	parts := strings.Split(s, ",")
	dirs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			dirs = append(dirs, strings.ToLower(p))
		}
	}
	if len(dirs) == 0 {
		return defaultSkipDirs
	}
	return dirs
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
