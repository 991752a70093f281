// =============================================================================
// RapidHarness to E3.series Importer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base that the other commands ('convert', 'version') are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (rh2e3)
//   ├── convertCmd (rh2e3 convert)
//   └── versionCmd (rh2e3 version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// layoutFile optionally overrides the RapidHarness sheet/column layout.
// Empty means the built-in defaults for the current export format.
var layoutFile string

// verbose enables debug-level logging when set to true.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rh2e3",
	Short: "Convert RapidHarness exports to E3.series From-To Lists",
	Long: `rh2e3 converts wire harness designs exported from RapidHarness into the
From-To List spreadsheet format that Zuken E3.series imports.

Wire and device identifiers are rewritten through two user-maintained lookup
tables. Problem rows are reported, not fatal: a run always finishes and tells
you how many connections converted cleanly, how many were omitted, and why.

Example Usage:
  rh2e3 convert -i harness.xlsx -o fromto.xlsx -w wires.csv -d devices.csv
  rh2e3 convert ... --issue-log issues.csv   # also export the diagnostics
  rh2e3 version`,

	Run: func(cmd *cobra.Command, args []string) {
		// No subcommand: print the help message.
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&layoutFile,
		"layout",
		"",
		"Path to a YAML file overriding the input sheet/column layout",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// Logging goes to stderr so stdout stays clean for the summary.
	cobra.OnInitialize(func() {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	})
}
