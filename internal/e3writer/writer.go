// =============================================================================
// RapidHarness to E3.series Importer - From-To List Writer
// =============================================================================
//
// This module renders resolved connection records into the workbook layout
// the E3.series From-To List importer expects: a "From-To List" sheet with a
// fixed 17-column header row. Column labels and positions are not
// negotiable; E3 matches them by name on import.
//
// Records whose wire resolution failed are excluded entirely. A record is
// never partially written.
//
// COMMIT DISCIPLINE:
//   The whole workbook is built in memory, saved to a uniquely named temp
//   file next to the destination, and renamed into place. A write failure
//   (e.g. the destination open in E3 or Excel) therefore never leaves a
//   half-written file at the destination path.
//
// =============================================================================

package e3writer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/model"
)

// SheetName is the worksheet E3 reads the From-To List from.
const SheetName = "From-To List"

// Headers is the fixed column layout of the E3.series From-To List import.
var Headers = []string{
	"From Assignment",
	"From Location",
	"From Device Name",
	"From Device Part #",
	"From Pin",
	"From Pin Part #",
	"To Assignment",
	"To Location",
	"To Device Name",
	"To Device Part #",
	"To Pin",
	"To Pin Part #",
	"Wire/Conductor Number",
	"Signal",
	"Wire Type",
	"Wire Color",
	"Wire Gauge",
}

// Column positions within Headers (0-based slice indices).
const (
	colFromDeviceName = 2
	colFromDevicePN   = 3
	colFromPin        = 4
	colToDeviceName   = 8
	colToDevicePN     = 9
	colToPin          = 10
	colWireNumber     = 12
	colSignalName     = 13
	colWireType       = 14
	colWireColor      = 15
	colWireGauge      = 16
)

// Write renders the resolved records into a From-To List workbook at path.
// Unresolved records are skipped. Returns a *model.WriteError when the
// destination cannot be created or overwritten.
func Write(records []*model.ConnectionRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	rowIdx := 2
	for _, rec := range records {
		if !rec.Resolved() {
			continue
		}
		row := buildRow(rec)
		cellRef, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", rowIdx, err)
		}
		if err := f.SetSheetRow(SheetName, cellRef, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowIdx, err)
		}
		rowIdx++
	}

	return commit(f, path)
}

// buildRow lays out one record in the From-To List column order. The E3 wire
// group goes into the "Wire Type" column and the E3 wire type designator into
// "Wire Gauge"; that crossing matches what E3's importer reads from each
// column.
func buildRow(rec *model.ConnectionRecord) []interface{} {
	row := make([]interface{}, len(Headers))

	row[colFromDeviceName] = rec.FromDevice
	row[colFromDevicePN] = rec.FromPartNumber
	row[colFromPin] = rec.FromPin
	row[colToDeviceName] = rec.ToDevice
	row[colToDevicePN] = rec.ToPartNumber
	row[colToPin] = rec.ToPin
	if rec.WireIndex > 0 {
		row[colWireNumber] = rec.WireIndex
	}
	row[colSignalName] = rec.SignalName
	row[colWireType] = rec.Wire.Group
	row[colWireColor] = rec.Wire.Color
	row[colWireGauge] = rec.Wire.E3Type

	return row
}

// commit saves the workbook to a temp file beside the destination and renames
// it into place.
func commit(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".fromto-%s.xlsx", uuid.New().String()))

	if err := f.SaveAs(tmpPath); err != nil {
		os.Remove(tmpPath)
		return &model.WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &model.WriteError{Path: path, Err: err}
	}
	return nil
}
