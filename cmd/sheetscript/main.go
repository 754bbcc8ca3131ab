// Package main provides the sheetscript CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/sheetscript/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
