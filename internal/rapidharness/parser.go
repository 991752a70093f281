// =============================================================================
// RapidHarness to E3.series Importer - RapidHarness Parser
// =============================================================================
//
// This module reads the "Connections" sheet of a RapidHarness Excel export
// and produces connection records one at a time. It is a single forward pass
// over the sheet: the iterator is finite and not restartable without
// re-opening the source file.
//
// FAULT TOLERANCE:
//   A row with a structurally missing required cell (FROM device, TO device,
//   or wire part number) is skipped and logged as a ROW_SKIPPED warning. A
//   defective row never aborts the batch; only a missing Connections sheet
//   is fatal.
//
// ROW NUMBERING:
//   Row numbers in diagnostics are the 1-based spreadsheet rows, including
//   the header offset, so an error message maps directly back to the row the
//   user sees in their export.
//
// =============================================================================

package rapidharness

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/config"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/issuelog"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/model"
)

// wireIndexPattern extracts the conductor number from labels like "W19.Black".
var wireIndexPattern = regexp.MustCompile(`\d+`)

// =============================================================================
// ERRORS
// =============================================================================

// SheetNotFoundError means the export has no sheet with the configured name.
// This is fatal: without the Connections sheet there is nothing to convert.
type SheetNotFoundError struct {
	Path  string
	Sheet string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("missing %q sheet in RapidHarness export %s", e.Sheet, e.Path)
}

// =============================================================================
// PARSER
// =============================================================================

// Parser iterates over the data rows of a RapidHarness export.
//
// USAGE:
//
//	p, err := rapidharness.Open(path, layout, log)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	for p.Next() {
//	    rec := p.Record()
//	    // process the record...
//	}
//	if err := p.Err(); err != nil {
//	    return err
//	}
type Parser struct {
	file    *excelize.File
	rows    *excelize.Rows
	layout  config.Layout
	log     *issuelog.Log
	row     int // current 1-based spreadsheet row
	current *model.ConnectionRecord
	skipped int
	err     error
}

// Open opens a RapidHarness export and positions the parser before the first
// data row. Returns a *SheetNotFoundError if the configured sheet is absent.
func Open(path string, layout config.Layout, log *issuelog.Log) (*Parser, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	index, err := file.GetSheetIndex(layout.SheetName)
	if err != nil || index < 0 {
		file.Close()
		return nil, &SheetNotFoundError{Path: path, Sheet: layout.SheetName}
	}

	rows, err := file.Rows(layout.SheetName)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read sheet %q: %w", layout.SheetName, err)
	}

	return &Parser{
		file:   file,
		rows:   rows,
		layout: layout,
		log:    log,
	}, nil
}

// Next advances to the next parseable record. Structurally defective rows are
// logged and skipped transparently. Returns false at end of sheet or on a
// read error (check Err).
func (p *Parser) Next() bool {
	if p.err != nil {
		return false
	}

	for p.rows.Next() {
		p.row++
		if p.row < p.layout.DataStartRow {
			continue
		}

		cells, err := p.rows.Columns()
		if err != nil {
			p.err = fmt.Errorf("failed to read row %d: %w", p.row, err)
			return false
		}

		rec, ok := p.buildRecord(cells)
		if !ok {
			p.skipped++
			continue
		}

		p.current = rec
		return true
	}

	if err := p.rows.Error(); err != nil {
		p.err = fmt.Errorf("failed to iterate sheet %q: %w", p.layout.SheetName, err)
	}
	return false
}

// Record returns the record produced by the last successful Next call.
func (p *Parser) Record() *model.ConnectionRecord {
	return p.current
}

// Err returns the first read error encountered, if any.
func (p *Parser) Err() error {
	return p.err
}

// Skipped returns the number of rows skipped so far for structural defects.
func (p *Parser) Skipped() int {
	return p.skipped
}

// Close releases the underlying workbook handle.
func (p *Parser) Close() error {
	if err := p.rows.Close(); err != nil {
		p.file.Close()
		return err
	}
	return p.file.Close()
}

// =============================================================================
// ROW ASSEMBLY
// =============================================================================

// buildRecord assembles a ConnectionRecord from one data row. The second
// return value is false when the row is structurally defective; the defect
// has then already been logged.
func (p *Parser) buildRecord(cells []string) (*model.ConnectionRecord, bool) {
	from := model.Endpoint{Raw: cell(cells, p.layout.FromEndpointCol)}
	to := model.Endpoint{Raw: cell(cells, p.layout.ToEndpointCol)}
	wirePN := cell(cells, p.layout.WirePartNumberCol)

	// Required cells. Missing any of them means the row cannot describe a
	// point-to-point connection.
	if missing, value := p.checkRequired(from, to, wirePN); missing != "" {
		p.log.Record(issuelog.SeverityWarning, issuelog.KindRowSkipped, p.row, missing, value,
			fmt.Sprintf("row %d skipped: %s cell is empty", p.row, missing))
		return nil, false
	}

	rec := &model.ConnectionRecord{
		FromDevice:     from.Device(),
		FromPartNumber: cell(cells, p.layout.FromPartNumberCol),
		FromPin:        from.Pin(),
		ToDevice:       to.Device(),
		ToPartNumber:   cell(cells, p.layout.ToPartNumberCol),
		ToPin:          to.Pin(),
		WirePartNumber: wirePN,
		SignalName:     cell(cells, p.layout.SignalNameCol),
		Row:            p.row,
		State:          model.StateParsed,
	}

	// Conductor number, e.g. 19 from "W19.Black". Best effort: a label
	// without digits leaves the index at zero.
	if match := wireIndexPattern.FindString(cell(cells, p.layout.ConductorCol)); match != "" {
		if n, err := strconv.Atoi(match); err == nil {
			rec.WireIndex = n
		}
	}

	return rec, true
}

// checkRequired returns the name and raw value of the first missing required
// cell, or "" when the row is structurally complete.
func (p *Parser) checkRequired(from, to model.Endpoint, wirePN string) (string, string) {
	switch {
	case from.Device() == "":
		return "FROM Device", from.Raw
	case to.Device() == "":
		return "TO Device", to.Raw
	case wirePN == "":
		return "Wire", wirePN
	}
	return "", ""
}

// cell returns the trimmed value of a 1-based column, or "" when the row is
// shorter than the requested column.
func cell(cells []string, col int) string {
	if col < 1 || col > len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col-1])
}
