// Package main provides the entry point for the vaultmap CLI.
package main

import (
	"os"

	"github.com/raphaelgruber/vaultmap-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
