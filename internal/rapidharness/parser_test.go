package rapidharness

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/config"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/issuelog"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/model"
)

// writeExport builds a minimal RapidHarness export with the given cells set
// on the Connections sheet.
func writeExport(t *testing.T, cells map[string]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Connections"))
	for ref, value := range cells {
		require.NoError(t, f.SetCellValue("Connections", ref, value))
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func parseAll(t *testing.T, path string, log *issuelog.Log) ([]*model.ConnectionRecord, *Parser) {
	t.Helper()

	p, err := Open(path, config.Default(), log)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	var records []*model.ConnectionRecord
	for p.Next() {
		records = append(records, p.Record())
	}
	require.NoError(t, p.Err())
	return records, p
}

func TestParse_Fields(t *testing.T) {
	path := writeExport(t, map[string]interface{}{
		"B11": "J1.1",
		"C11": "P2.3",
		"D11": "W19.Black",
		"E11": "Generic 14AWG TXL Red",
		"K11": "AT06-3S-SR01GRY",
		"M11": "DT04-2P",
		"O11": "PWR_MAIN",
	})

	log := issuelog.New()
	records, _ := parseAll(t, path, log)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "J1", rec.FromDevice)
	assert.Equal(t, "1", rec.FromPin)
	assert.Equal(t, "AT06-3S-SR01GRY", rec.FromPartNumber)
	assert.Equal(t, "P2", rec.ToDevice)
	assert.Equal(t, "3", rec.ToPin)
	assert.Equal(t, "DT04-2P", rec.ToPartNumber)
	assert.Equal(t, "Generic 14AWG TXL Red", rec.WirePartNumber)
	assert.Equal(t, 19, rec.WireIndex)
	assert.Equal(t, "PWR_MAIN", rec.SignalName)
	assert.Equal(t, 11, rec.Row)
	assert.Equal(t, model.StateParsed, rec.State)
	assert.Equal(t, 0, log.Len())
}

func TestParse_SheetNotFound(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))

	_, err := Open(path, config.Default(), issuelog.New())
	require.Error(t, err)

	var sheetErr *SheetNotFoundError
	require.True(t, errors.As(err, &sheetErr))
	assert.Equal(t, "Connections", sheetErr.Sheet)
}

func TestParse_SkipsDefectiveRows(t *testing.T) {
	path := writeExport(t, map[string]interface{}{
		// Row 11: complete.
		"B11": "J1.1", "C11": "P2.3", "E11": "Wire-A",
		// Row 12: wire part number missing.
		"B12": "J1.2", "C12": "P2.4",
		// Row 13: FROM endpoint missing.
		"C13": "P2.5", "E13": "Wire-A",
	})

	log := issuelog.New()
	records, p := parseAll(t, path, log)

	require.Len(t, records, 1)
	assert.Equal(t, 11, records[0].Row)
	assert.Equal(t, 2, p.Skipped())

	entries := log.Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, issuelog.SeverityWarning, e.Severity)
		assert.Equal(t, issuelog.KindRowSkipped, e.Kind)
	}
	assert.Equal(t, 12, entries[0].Row)
	assert.Equal(t, "Wire", entries[0].Entity)
	assert.Equal(t, 13, entries[1].Row)
	assert.Equal(t, "FROM Device", entries[1].Entity)
}

func TestParse_RowNumberingSurvivesGaps(t *testing.T) {
	path := writeExport(t, map[string]interface{}{
		"B11": "J1.1", "C11": "P2.1", "E11": "Wire-A",
		// Row 12 left entirely blank.
		"B13": "J1.2", "C13": "P2.2", "E13": "Wire-A",
	})

	log := issuelog.New()
	records, p := parseAll(t, path, log)

	require.Len(t, records, 2)
	assert.Equal(t, 11, records[0].Row)
	assert.Equal(t, 13, records[1].Row)
	// The blank row counts as skipped so row accounting stays closed.
	assert.Equal(t, 1, p.Skipped())
}

func TestParse_PinlessDevice(t *testing.T) {
	path := writeExport(t, map[string]interface{}{
		"B11": "GND_LUG", "C11": "P2.1", "E11": "Wire-A",
	})

	records, _ := parseAll(t, path, issuelog.New())
	require.Len(t, records, 1)
	assert.Equal(t, "GND_LUG", records[0].FromDevice)
	assert.Equal(t, "", records[0].FromPin)
}

func TestParse_HeaderRowsNeverParsed(t *testing.T) {
	path := writeExport(t, map[string]interface{}{
		// Header area content must not produce records.
		"B5":  "FROM",
		"C5":  "TO",
		"E5":  "Wire Part Number",
		"B11": "J1.1", "C11": "P2.1", "E11": "Wire-A",
	})

	log := issuelog.New()
	records, p := parseAll(t, path, log)

	require.Len(t, records, 1)
	assert.Equal(t, 11, records[0].Row)
	assert.Equal(t, 0, p.Skipped())
	assert.Equal(t, 0, log.Len())
}
