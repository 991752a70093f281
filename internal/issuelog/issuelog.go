// =============================================================================
// RapidHarness to E3.series Importer - Issue Log
// =============================================================================
//
// This module accumulates structured diagnostics during parsing and
// conversion without interrupting the batch. Entries are append-only and
// never mutated after insertion; their order is the processing order of the
// source rows.
//
// ERROR HANDLING STRATEGY:
//   - Per-record problems are collected here, not thrown mid-batch
//   - ERROR entries mean data loss (the record is excluded from the output)
//   - WARNING entries mean a non-critical defect (e.g. a skipped row)
//   - The whole log is drained at the end for the console summary and the
//     optional CSV export
//
// =============================================================================

package issuelog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/model"
)

// =============================================================================
// SEVERITIES AND KINDS
// =============================================================================

// Severity classifies an entry as data loss or a non-critical defect.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Kind categorizes what went wrong.
type Kind string

const (
	// KindWireNotFound: a wire part number had no entry in the wire lookup
	// table. The affected record is omitted from the output.
	KindWireNotFound Kind = "WIRE_NOT_FOUND"

	// KindRowSkipped: a source row was structurally defective (a required
	// cell was empty) and never reached conversion.
	KindRowSkipped Kind = "ROW_SKIPPED"
)

// =============================================================================
// ENTRIES
// =============================================================================

// Entry is a single diagnostic. Entries are immutable once recorded.
type Entry struct {
	// Severity is SeverityError or SeverityWarning.
	Severity Severity

	// Kind is the category of the problem.
	Kind Kind

	// Row is the 1-based source row number, including the header offset.
	Row int

	// Entity names what was being processed, e.g. "Wire", "FROM Device".
	Entity string

	// Value is the offending value.
	Value string

	// Message is the human-readable description.
	Message string

	// Timestamp is when the entry was recorded.
	Timestamp time.Time
}

// =============================================================================
// LOG
// =============================================================================

// Log is an append-only ordered collection of entries. The pipeline runs
// strictly sequentially, so no locking discipline is needed beyond ordinary
// append.
type Log struct {
	entries []Entry

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

// New creates an empty issue log.
func New() *Log {
	return &Log{now: time.Now}
}

// Record appends an entry. It always succeeds; there is no failure mode.
func (l *Log) Record(severity Severity, kind Kind, row int, entity, value, message string) {
	l.entries = append(l.entries, Entry{
		Severity:  severity,
		Kind:      kind,
		Row:       row,
		Entity:    entity,
		Value:     value,
		Message:   message,
		Timestamp: l.now(),
	})
}

// Count returns the number of entries with the given severity.
func (l *Log) Count(severity Severity) int {
	n := 0
	for _, e := range l.entries {
		if e.Severity == severity {
			n++
		}
	}
	return n
}

// Len returns the total number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns the entries in insertion order. The returned slice is the
// log's backing store; callers must not modify it.
func (l *Log) Entries() []Entry {
	return l.entries
}

// =============================================================================
// CSV EXPORT
// =============================================================================

// exportHeader is the fixed column order of the exported issue log.
var exportHeader = []string{"severity", "kind", "row", "entity", "value", "message", "timestamp"}

// Export serializes all entries to a CSV file at the given path. The file is
// built fully before being moved into place, so a failed export never leaves
// a half-written log behind. Returns a *model.WriteError if the destination
// is not writable.
func (l *Log) Export(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".issuelog-*.csv")
	if err != nil {
		return &model.WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.Write(exportHeader); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &model.WriteError{Path: path, Err: err}
	}
	for _, e := range l.entries {
		rec := []string{
			string(e.Severity),
			string(e.Kind),
			strconv.Itoa(e.Row),
			e.Entity,
			e.Value,
			e.Message,
			e.Timestamp.Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return &model.WriteError{Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &model.WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &model.WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &model.WriteError{Path: path, Err: err}
	}
	return nil
}
