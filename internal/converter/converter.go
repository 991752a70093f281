// =============================================================================
// RapidHarness to E3.series Importer - Conversion Pipeline
// =============================================================================
//
// This module orchestrates the conversion of one RapidHarness export into an
// E3.series From-To List:
//
//   1. Stream connection rows out of the Connections sheet
//   2. Resolve wire and device identifiers through the lookup tables
//   3. Write the resolved records to the output workbook
//
// The pipeline is a single-threaded batch: input sizes are bounded by
// realistic harness designs (hundreds to low thousands of connections) and
// the dominant cost is spreadsheet I/O. Per-record problems are collected in
// the issue log and the batch always runs to completion; only a missing
// sheet, an unreadable input, or an unwritable output aborts the run.
//
// Every data row lands in exactly one of three buckets, so
// Written + Omitted + Skipped always equals the number of data rows read.
//
// =============================================================================

package converter

import (
	"log/slog"
	"time"

	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/config"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/e3writer"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/issuelog"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/lookup"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/model"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/rapidharness"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Stats describes how the rows of one run were dispositioned.
type Stats struct {
	// RowsRead is the number of data rows in the input sheet.
	RowsRead int

	// Written is the number of records rendered into the output workbook.
	Written int

	// Omitted is the number of records excluded because wire resolution
	// failed. Each omission has a matching ERROR entry in the issue log.
	Omitted int

	// Skipped is the number of structurally defective rows that never
	// reached conversion. Each skip has a matching WARNING entry.
	Skipped int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Result is the outcome of a completed run.
type Result struct {
	// OutputFile is the path of the written From-To List.
	OutputFile string

	Stats Stats
}

// =============================================================================
// CONVERTER
// =============================================================================

// Converter runs the conversion pipeline for a single export file.
type Converter struct {
	inputPath  string
	outputPath string
	layout     config.Layout
	wires      *lookup.WireTable
	devices    *lookup.DeviceTable
	log        *issuelog.Log
}

// New creates a Converter. The lookup tables must already be loaded; a table
// load failure is fatal before a Converter ever exists.
func New(inputPath, outputPath string, layout config.Layout, wires *lookup.WireTable, devices *lookup.DeviceTable, log *issuelog.Log) *Converter {
	return &Converter{
		inputPath:  inputPath,
		outputPath: outputPath,
		layout:     layout,
		wires:      wires,
		devices:    devices,
		log:        log,
	}
}

// Run executes the pipeline. Fatal errors (unreadable input, missing sheet,
// unwritable output) are returned; per-record problems end up in the issue
// log and never abort the batch. No output file is left behind on a fatal
// error.
func (c *Converter) Run() (Result, error) {
	start := time.Now()
	result := Result{}

	parser, err := rapidharness.Open(c.inputPath, c.layout, c.log)
	if err != nil {
		return result, err
	}
	defer parser.Close()

	resolver := NewResolver(c.wires, c.devices, c.log)

	var records []*model.ConnectionRecord
	for parser.Next() {
		rec := parser.Record()
		resolver.Resolve(rec)
		records = append(records, rec)

		switch rec.State {
		case model.StateResolved:
			result.Stats.Written++
		case model.StateOmitted:
			result.Stats.Omitted++
		}
	}
	if err := parser.Err(); err != nil {
		return result, err
	}

	result.Stats.Skipped = parser.Skipped()
	result.Stats.RowsRead = len(records) + result.Stats.Skipped
	slog.Debug("parsed RapidHarness export",
		"rows", result.Stats.RowsRead,
		"skipped", result.Stats.Skipped,
		"omitted", result.Stats.Omitted)

	if err := e3writer.Write(records, c.outputPath); err != nil {
		return result, err
	}

	result.OutputFile = c.outputPath
	result.Stats.Duration = time.Since(start)
	slog.Debug("wrote From-To List",
		"path", c.outputPath,
		"records", result.Stats.Written,
		"duration", result.Stats.Duration)

	return result, nil
}
