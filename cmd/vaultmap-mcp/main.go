// Package main provides the entry point for the vaultmap MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/raphaelgruber/vaultmap-go/internal/config"
	"github.com/raphaelgruber/vaultmap-go/internal/metrics"
	"github.com/raphaelgruber/vaultmap-go/internal/server"
	"github.com/raphaelgruber/vaultmap-go/internal/tools"
	"github.com/raphaelgruber/vaultmap-go/internal/vault"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("vaultmap-mcp starting",
		"version", version,
		"vault", cfg.VaultPath,
	)

	if cfg.VaultPath == "" {
		logger.Error("no vault configured, set VAULTMAP_VAULT")
		os.Exit(1)
	}
	info, err := os.Stat(cfg.VaultPath)
	if err != nil || !info.IsDir() {
		logger.Error("vault root is not a directory", "vault", cfg.VaultPath, "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	fs := afero.NewOsFs()

	// Create and setup server
	srv := server.New(version, cfg.VaultPath, logger)
	srv.Setup()

	// Register tools
	deps := &tools.Dependencies{
		Scanner: vault.NewScanner(fs, cfg.VaultPath, cfg.SkipDirs, logger),
		FS:      fs,
		Metrics: metrics.NewCollector(),
		Logger:  logger,
	}
	tools.RegisterAll(srv.MCPServer(), deps)
	logger.Info("tools registered", "count", 4)

	logger.Info("server ready, awaiting connections")

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
