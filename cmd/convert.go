// =============================================================================
// RapidHarness to E3.series Importer - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which runs the full conversion
// pipeline for one export file.
//
// COMMAND USAGE:
//   rh2e3 convert -i <export.xlsx> -o <fromto.xlsx> -w <wires.csv> -d <devices.csv>
//
// EXIT CODES:
//   0  conversion completed with no ERROR entries
//   1  fatal error (bad lookup table, missing sheet, unwritable output);
//      no output file is written
//   2  conversion completed but some records were omitted (degraded output)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/config"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/converter"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/issuelog"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/lookup"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputFile     string
	outputFile    string
	wireMapFile   string
	deviceMapFile string
	issueLogFile  string
)

// =============================================================================
// CONSOLE STYLES
// =============================================================================

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14")) // Cyan

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")) // Green

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")) // Yellow

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")) // Red

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a RapidHarness export to an E3.series From-To List",
	Long: `The convert command reads the Connections sheet of a RapidHarness Excel
export, rewrites wire and device identifiers through the two lookup tables,
and writes an E3.series From-To List workbook.

Problem rows do not abort the run:
  - A structurally defective row is skipped with a warning
  - A wire missing from the wire table omits that record with an error
  - A device missing from the device table keeps its original part number
    (device identifiers are globally unique and may already exist in E3)

The run always finishes and prints a summary of what happened. Pass
--issue-log to save every warning and error to a CSV file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&inputFile, "input", "i", "",
		"Path to the RapidHarness Excel export file")
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"Path for the output E3.series From-To List file")
	convertCmd.Flags().StringVarP(&wireMapFile, "wire-map", "w", "",
		"Path to the wire lookup table CSV file")
	convertCmd.Flags().StringVarP(&deviceMapFile, "device-map", "d", "",
		"Path to the device/connector lookup table CSV file")
	convertCmd.Flags().StringVarP(&issueLogFile, "issue-log", "e", "",
		"Optional: path to save a CSV file of all issues encountered")

	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")
	convertCmd.MarkFlagRequired("wire-map")
	convertCmd.MarkFlagRequired("device-map")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert loads the lookup tables, runs the pipeline, exports the issue
// log when requested, and prints the summary.
func runConvert(cmd *cobra.Command) error {
	// Flag errors already print usage; everything past this point is a real
	// runtime failure and usage text would only bury the message.
	cmd.SilenceUsage = true

	layout := config.Default()
	if layoutFile != "" {
		var err error
		if layout, err = config.Load(layoutFile); err != nil {
			return err
		}
	}

	wires, err := lookup.LoadWireTable(wireMapFile)
	if err != nil {
		return fmt.Errorf("wire lookup table: %w", err)
	}
	devices, err := lookup.LoadDeviceTable(deviceMapFile)
	if err != nil {
		return fmt.Errorf("device lookup table: %w", err)
	}
	fmt.Printf("Loaded %d wire mapping(s), %d device mapping(s)\n", wires.Len(), devices.Len())

	log := issuelog.New()
	conv := converter.New(inputFile, outputFile, layout, wires, devices, log)
	result, err := conv.Run()
	if err != nil {
		return err
	}

	if issueLogFile != "" {
		if log.Len() > 0 {
			if err := log.Export(issueLogFile); err != nil {
				return err
			}
			fmt.Println(okStyle.Render(fmt.Sprintf("Issue log saved to: %s", issueLogFile)))
		} else {
			fmt.Println(okStyle.Render("No issues encountered - no issue log created"))
		}
	}

	printSummary(result, log)

	// Degraded output: records were omitted. The file is usable but
	// incomplete, and scripted callers need to see that in the exit code.
	if log.Count(issuelog.SeverityError) > 0 {
		os.Exit(2)
	}
	return nil
}

// printSummary renders the end-of-run report on stdout.
func printSummary(result converter.Result, log *issuelog.Log) {
	rule := headerStyle.Render("==================================================")
	errorCount := log.Count(issuelog.SeverityError)
	warningCount := log.Count(issuelog.SeverityWarning)

	fmt.Println()
	fmt.Println(rule)
	fmt.Println(headerStyle.Render("Conversion Summary"))
	fmt.Println(rule)
	fmt.Printf("Rows read:        %d\n", result.Stats.RowsRead)
	fmt.Printf("Written:          %d\n", result.Stats.Written)

	if errorCount > 0 {
		fmt.Printf("Omitted (errors): %s\n", errStyle.Render(fmt.Sprintf("%d", result.Stats.Omitted)))
	}
	if warningCount > 0 {
		fmt.Printf("Skipped rows:     %s\n", warnStyle.Render(fmt.Sprintf("%d", result.Stats.Skipped)))
	}
	if errorCount == 0 && warningCount == 0 {
		fmt.Printf("Status:           %s\n", okStyle.Render("No issues"))
	} else if issueLogFile == "" {
		fmt.Println(hintStyle.Render("Use --issue-log to save detailed issue information"))
	}

	fmt.Println(rule)
	fmt.Printf("Output saved to: %s\n", result.OutputFile)
}
