package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/issuelog"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/lookup"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/model"
)

func loadTables(t *testing.T, wireCSV, deviceCSV string) (*lookup.WireTable, *lookup.DeviceTable) {
	t.Helper()
	dir := t.TempDir()

	wirePath := filepath.Join(dir, "wires.csv")
	require.NoError(t, os.WriteFile(wirePath, []byte(wireCSV), 0o644))
	wires, err := lookup.LoadWireTable(wirePath)
	require.NoError(t, err)

	devicePath := filepath.Join(dir, "devices.csv")
	require.NoError(t, os.WriteFile(devicePath, []byte(deviceCSV), 0o644))
	devices, err := lookup.LoadDeviceTable(devicePath)
	require.NoError(t, err)

	return wires, devices
}

func standardTables(t *testing.T) (*lookup.WireTable, *lookup.DeviceTable) {
	return loadTables(t,
		`RapidHarness_Name,Wire_Group,E3_Wire_Type,AWG_Gauge,Color
Generic 14AWG TXL Red,TXL,14-AWG-RED,14,RED
`,
		`RapidHarness_PartNumber,E3_Device_Name
AT06-3S-SR01GRY,DT06-3S-E008
`)
}

func TestResolve_WireFound(t *testing.T) {
	wires, devices := standardTables(t)
	log := issuelog.New()
	r := NewResolver(wires, devices, log)

	rec := &model.ConnectionRecord{
		WirePartNumber: "Generic 14AWG TXL Red",
		Row:            11,
	}
	r.Resolve(rec)

	assert.Equal(t, model.StateResolved, rec.State)
	require.NotNil(t, rec.Wire)
	assert.Equal(t, "TXL", rec.Wire.Group)
	assert.Equal(t, "14-AWG-RED", rec.Wire.E3Type)
	assert.Equal(t, 14, rec.Wire.GaugeAWG)
	assert.Equal(t, "RED", rec.Wire.Color)
	assert.Equal(t, 0, log.Len(), "a wire present in the table never logs WIRE_NOT_FOUND")
}

func TestResolve_WireNotFound(t *testing.T) {
	wires, devices := standardTables(t)
	log := issuelog.New()
	r := NewResolver(wires, devices, log)

	rec := &model.ConnectionRecord{
		WirePartNumber: "Unknown-Wire-99",
		Row:            14,
	}
	r.Resolve(rec)

	assert.Equal(t, model.StateOmitted, rec.State)
	assert.Nil(t, rec.Wire)
	assert.False(t, rec.Resolved())

	entries := log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, issuelog.SeverityError, entries[0].Severity)
	assert.Equal(t, issuelog.KindWireNotFound, entries[0].Kind)
	assert.Equal(t, 14, entries[0].Row)
	assert.Equal(t, "Unknown-Wire-99", entries[0].Value)
}

func TestResolve_DeviceMapped(t *testing.T) {
	wires, devices := standardTables(t)
	log := issuelog.New()
	r := NewResolver(wires, devices, log)

	rec := &model.ConnectionRecord{
		FromDevice:     "J1",
		FromPartNumber: "AT06-3S-SR01GRY",
		ToDevice:       "P2",
		ToPartNumber:   "AT06-3S-SR01GRY",
		WirePartNumber: "Generic 14AWG TXL Red",
	}
	r.Resolve(rec)

	assert.Equal(t, "DT06-3S-E008", rec.FromPartNumber)
	assert.Equal(t, "DT06-3S-E008", rec.ToPartNumber)
}

func TestResolve_DeviceFallbackIsSilent(t *testing.T) {
	wires, devices := standardTables(t)
	log := issuelog.New()
	r := NewResolver(wires, devices, log)

	rec := &model.ConnectionRecord{
		FromDevice:     "J9",
		FromPartNumber: "XYZ-UNMAPPED",
		ToDevice:       "P2",
		ToPartNumber:   "AT06-3S-SR01GRY",
		WirePartNumber: "Generic 14AWG TXL Red",
	}
	r.Resolve(rec)

	// The original identifier is used verbatim and no issue is logged.
	assert.Equal(t, "XYZ-UNMAPPED", rec.FromPartNumber)
	assert.Equal(t, 0, log.Len())
}

func TestResolve_SpliceOverridesLookup(t *testing.T) {
	// "S3" is deliberately also a device table key; the splice rule must win.
	wires, devices := loadTables(t,
		`RapidHarness_Name,Wire_Group,E3_Wire_Type,AWG_Gauge,Color
Generic 14AWG TXL Red,TXL,14-AWG-RED,14,RED
`,
		`RapidHarness_PartNumber,E3_Device_Name
S3,NOT-A-SPLICE
SPLICE-PN,ALSO-NOT-A-SPLICE
`)
	log := issuelog.New()
	r := NewResolver(wires, devices, log)

	rec := &model.ConnectionRecord{
		FromDevice:     "S3",
		FromPartNumber: "SPLICE-PN",
		ToDevice:       "P2",
		ToPartNumber:   "S3",
		WirePartNumber: "Generic 14AWG TXL Red",
	}
	r.Resolve(rec)

	assert.Equal(t, SpliceName, rec.FromPartNumber)
	// The TO end is not a splice designator; its part number goes through
	// the lookup like any other.
	assert.Equal(t, "NOT-A-SPLICE", rec.ToPartNumber)
	assert.Equal(t, 0, log.Len())
}

func TestIsSplice(t *testing.T) {
	splices := []string{"S1", "S23", "S999"}
	for _, d := range splices {
		assert.True(t, IsSplice(d), "%q should be a splice", d)
	}

	notSplices := []string{"", "S", "S1A", "PS1", "s1", "J12", "SPLICE"}
	for _, d := range notSplices {
		assert.False(t, IsSplice(d), "%q should not be a splice", d)
	}
}
