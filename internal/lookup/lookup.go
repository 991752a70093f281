// =============================================================================
// RapidHarness to E3.series Importer - Lookup Table Loader
// =============================================================================
//
// This module loads the two user-maintained CSV mapping tables into memory:
//
//   Wire table   : RapidHarness_Name,Wire_Group,E3_Wire_Type,AWG_Gauge,Color
//   Device table : RapidHarness_PartNumber,E3_Device_Name
//
// Both tables are built once at startup and are immutable afterwards. Header
// names are matched exactly (case-sensitive). A malformed table fails the
// whole load with a *LoadError naming the file, column, and row at fault --
// the run never starts with a partially loaded table.
//
// Duplicate keys are last-row-wins, matching the source system's behavior.
// This is a documented edge case, not validated.
//
// =============================================================================

package lookup

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/model"
)

// Required column headers, matched exactly.
const (
	wireKeyColumn   = "RapidHarness_Name"
	wireGroupColumn = "Wire_Group"
	wireTypeColumn  = "E3_Wire_Type"
	wireGaugeColumn = "AWG_Gauge"
	wireColorColumn = "Color"

	deviceKeyColumn  = "RapidHarness_PartNumber"
	deviceNameColumn = "E3_Device_Name"
)

// =============================================================================
// LOAD ERRORS
// =============================================================================

// LoadError is a fatal lookup-table fault: file not found, a required column
// missing, or a cell failing type coercion. It aborts the run before any
// processing happens.
type LoadError struct {
	// Path is the lookup table file.
	Path string

	// Column is the column at fault, when known.
	Column string

	// Row is the 1-based row at fault (0 when the fault is not row-specific).
	Row int

	Err error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lookup table %s", e.Path)
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, ", row %d", e.Row)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// =============================================================================
// TABLES
// =============================================================================

// WireTable maps exact RapidHarness wire names to E3 wire attributes.
// Read-only after construction.
type WireTable struct {
	wires map[string]model.WireSpec
}

// Lookup returns the wire spec for an exact, case-sensitive wire name.
func (t *WireTable) Lookup(name string) (model.WireSpec, bool) {
	spec, ok := t.wires[name]
	return spec, ok
}

// Len returns the number of mappings in the table.
func (t *WireTable) Len() int {
	return len(t.wires)
}

// DeviceTable maps exact RapidHarness part numbers to E3 device names.
// Read-only after construction. A missing key is not an error: device part
// numbers are globally unique and may already exist in the target system, so
// the converter falls back to the original identifier.
type DeviceTable struct {
	devices map[string]string
}

// Lookup returns the E3 device name for an exact part number.
func (t *DeviceTable) Lookup(partNumber string) (string, bool) {
	name, ok := t.devices[partNumber]
	return name, ok
}

// Len returns the number of mappings in the table.
func (t *DeviceTable) Len() int {
	return len(t.devices)
}

// =============================================================================
// LOADERS
// =============================================================================

// LoadWireTable reads the wire lookup table from a CSV file.
func LoadWireTable(path string) (*WireTable, error) {
	rows, header, err := readTable(path, []string{
		wireKeyColumn, wireGroupColumn, wireTypeColumn, wireGaugeColumn, wireColorColumn,
	})
	if err != nil {
		return nil, err
	}

	wires := make(map[string]model.WireSpec, len(rows))
	for _, row := range rows {
		gaugeRaw := row.get(header[wireGaugeColumn])
		gauge, err := strconv.Atoi(strings.TrimSpace(gaugeRaw))
		if err != nil {
			return nil, &LoadError{
				Path:   path,
				Column: wireGaugeColumn,
				Row:    row.number,
				Err:    fmt.Errorf("invalid integer %q", gaugeRaw),
			}
		}

		// Last-row-wins on duplicate keys.
		wires[row.get(header[wireKeyColumn])] = model.WireSpec{
			Group:    row.get(header[wireGroupColumn]),
			E3Type:   row.get(header[wireTypeColumn]),
			GaugeAWG: gauge,
			Color:    row.get(header[wireColorColumn]),
		}
	}

	return &WireTable{wires: wires}, nil
}

// LoadDeviceTable reads the device/connector lookup table from a CSV file.
func LoadDeviceTable(path string) (*DeviceTable, error) {
	rows, header, err := readTable(path, []string{deviceKeyColumn, deviceNameColumn})
	if err != nil {
		return nil, err
	}

	devices := make(map[string]string, len(rows))
	for _, row := range rows {
		devices[row.get(header[deviceKeyColumn])] = row.get(header[deviceNameColumn])
	}

	return &DeviceTable{devices: devices}, nil
}

// =============================================================================
// CSV PLUMBING
// =============================================================================

// tableRow is one data row plus its 1-based position in the file, retained
// for error reporting.
type tableRow struct {
	number int
	cells  []string
}

// get returns the cell at the given column index, or "" when the row is
// shorter than the header.
func (r tableRow) get(index int) string {
	if index < 0 || index >= len(r.cells) {
		return ""
	}
	return r.cells[index]
}

// readTable opens a CSV file, verifies that every required header is present
// exactly, and returns the data rows along with a header-name -> column-index
// map. Blank rows are skipped.
func readTable(path string, required []string) ([]tableRow, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, nil, &LoadError{Path: path, Err: fmt.Errorf("file is empty")}
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := header[name]; !ok {
			return nil, nil, &LoadError{Path: path, Column: name, Err: fmt.Errorf("required column missing")}
		}
	}

	rows := make([]tableRow, 0, len(records)-1)
	for i, cells := range records[1:] {
		if isBlank(cells) {
			continue
		}
		rows = append(rows, tableRow{number: i + 2, cells: cells})
	}
	return rows, header, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
