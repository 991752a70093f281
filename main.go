// =============================================================================
// RapidHarness to E3.series Importer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the importer CLI. It initializes the
// Cobra CLI framework and delegates command execution to the cmd package.
//
// USAGE:
//   rh2e3 convert       - Convert a RapidHarness export to a From-To List
//   rh2e3 version       - Display the application version
//
// ARCHITECTURE:
//   cmd/        : CLI command definitions (Cobra)
//   internal/   : core pipeline (lookup tables, parser, converter, writer)
//
// =============================================================================

package main

import (
	"github.com/k4kfh/rapidharness-to-e3series-importer/cmd"
)

func main() {
	cmd.Execute()
}
