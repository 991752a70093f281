// =============================================================================
// RapidHarness to E3.series Importer - Layout Configuration
// =============================================================================
//
// This module describes where the parser finds its data inside a RapidHarness
// export. The export format is a versioned, externally-defined schema: sheet
// name, data start row, and column positions are fixed for a given
// RapidHarness release but have moved between releases, so they can be
// overridden from a small YAML file instead of a code change.
//
// Defaults match the current export format:
//
//   sheet "Connections", data from row 11
//   B: FROM designation (Device.Pin)    C: TO designation (Device.Pin)
//   D: conductor (e.g. W19.Black)       E: wire part number
//   K: FROM connector part number       M: TO connector part number
//   O: signal name
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout holds the sheet name, row offset, and 1-based column positions of
// the RapidHarness Connections sheet.
type Layout struct {
	// SheetName is the worksheet holding the connection rows.
	SheetName string `yaml:"sheet_name"`

	// DataStartRow is the 1-based spreadsheet row where data begins. Rows
	// above it are headers and are never parsed, but they count toward the
	// row numbers reported in diagnostics.
	DataStartRow int `yaml:"data_start_row"`

	// Column positions, 1-based (A=1).
	FromEndpointCol   int `yaml:"from_endpoint_col"`
	ToEndpointCol     int `yaml:"to_endpoint_col"`
	ConductorCol      int `yaml:"conductor_col"`
	WirePartNumberCol int `yaml:"wire_part_number_col"`
	FromPartNumberCol int `yaml:"from_part_number_col"`
	ToPartNumberCol   int `yaml:"to_part_number_col"`
	SignalNameCol     int `yaml:"signal_name_col"`
}

// Default returns the layout of the current RapidHarness export format.
func Default() Layout {
	return Layout{
		SheetName:         "Connections",
		DataStartRow:      11,
		FromEndpointCol:   2,  // B
		ToEndpointCol:     3,  // C
		ConductorCol:      4,  // D
		WirePartNumberCol: 5,  // E
		FromPartNumberCol: 11, // K
		ToPartNumberCol:   13, // M
		SignalNameCol:     15, // O
	}
}

// Load reads a layout override file. Unset fields keep their defaults, so an
// override file only needs to name what changed.
func Load(path string) (Layout, error) {
	layout := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return layout, fmt.Errorf("failed to read layout file: %w", err)
	}
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return layout, fmt.Errorf("failed to parse layout file: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return layout, fmt.Errorf("invalid layout in %s: %w", path, err)
	}
	return layout, nil
}

// Validate checks that the layout is internally consistent.
func (l Layout) Validate() error {
	if l.SheetName == "" {
		return fmt.Errorf("sheet_name must not be empty")
	}
	if l.DataStartRow < 1 {
		return fmt.Errorf("data_start_row must be at least 1")
	}
	cols := map[string]int{
		"from_endpoint_col":    l.FromEndpointCol,
		"to_endpoint_col":      l.ToEndpointCol,
		"conductor_col":        l.ConductorCol,
		"wire_part_number_col": l.WirePartNumberCol,
		"from_part_number_col": l.FromPartNumberCol,
		"to_part_number_col":   l.ToPartNumberCol,
		"signal_name_col":      l.SignalNameCol,
	}
	for name, col := range cols {
		if col < 1 {
			return fmt.Errorf("%s must be a 1-based column number, got %d", name, col)
		}
	}
	return nil
}
