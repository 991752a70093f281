// =============================================================================
// RapidHarness to E3.series Importer - Shared Types
// =============================================================================
//
// This package contains the in-memory representation of a harness connection
// as it moves through the conversion pipeline, plus the small shared types
// used across multiple modules to avoid import cycles:
//   - rapidharness (parser) creates ConnectionRecords
//   - converter resolves wire and device identifiers in place
//   - e3writer renders the resolved records into the From-To List
//
// =============================================================================

package model

import (
	"fmt"
	"strings"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// WireSpec describes a single wire type in the E3.series component database,
// for example 14AWG Red TXL. Entries are built once by the wire lookup table
// loader and never mutated afterwards.
type WireSpec struct {
	// Group is the E3 wire group, for example "TXL".
	Group string

	// E3Type is the E3 wire type designator, for example "14-AWG-RED".
	E3Type string

	// GaugeAWG is the wire cross-section in AWG, for example 14.
	GaugeAWG int

	// Color is the wire color. E3 prefers short color codes like "RED", "BRN".
	Color string
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Endpoint is one end of a connection as RapidHarness exports it: a reference
// designator in "Device" or "Device.Pin" form.
type Endpoint struct {
	// Raw is the designator exactly as it appears in the export.
	Raw string
}

// Device returns the device/connector portion of the designator.
func (e Endpoint) Device() string {
	if e.Raw == "" {
		return ""
	}
	return strings.SplitN(e.Raw, ".", 2)[0]
}

// Pin returns the pin portion of the designator, or "" for pinless devices
// (no dot separator present).
func (e Endpoint) Pin() string {
	parts := strings.Split(e.Raw, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// =============================================================================
// CONNECTION RECORDS
// =============================================================================

// RecordState is the terminal disposition of a record in the pipeline.
type RecordState int

const (
	// StateParsed means the record came out of the parser and has not been
	// through identifier conversion yet.
	StateParsed RecordState = iota

	// StateResolved means wire and device resolution succeeded and the record
	// will be written to the output.
	StateResolved

	// StateOmitted means wire resolution failed; the record is excluded from
	// the output and an ERROR entry exists in the issue log.
	StateOmitted
)

// ConnectionRecord is one physical endpoint-to-endpoint wire link. Records are
// created one-per-source-row by the parser, mutated in place by the converter,
// and consumed exactly once by the output writer.
type ConnectionRecord struct {
	// FROM end.
	FromDevice     string // device designator, e.g. "J1" or "S3"
	FromPartNumber string // connector part number, rewritten by the converter
	FromPin        string

	// TO end.
	ToDevice     string
	ToPartNumber string
	ToPin        string

	// WirePartNumber is the wire identifier as exported, e.g.
	// "Generic 14AWG TXL Red". Resolved into Wire by the converter.
	WirePartNumber string

	// Wire holds the resolved E3 wire attributes. Nil until resolution, and
	// still nil after a failed resolution (State is then StateOmitted).
	Wire *WireSpec

	// WireIndex is the conductor number extracted from the Conductor column
	// (e.g. 19 from "W19.Black"). Zero when the column held no number.
	WireIndex int

	// SignalName is an optional passthrough label.
	SignalName string

	// Row is the 1-based row number in the originating sheet, including the
	// header offset, so diagnostics map directly back to the user's file.
	Row int

	// State is the record's position in the pipeline state machine.
	State RecordState
}

// Resolved reports whether the record survived identifier conversion and is
// eligible for output.
func (r *ConnectionRecord) Resolved() bool {
	return r.State == StateResolved && r.Wire != nil
}

// =============================================================================
// WRITE ERRORS
// =============================================================================

// WriteError indicates that an output artifact (the From-To List workbook or
// the issue log CSV) could not be created or committed at its destination
// path. Common cause: the file is open in another application.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
