// =============================================================================
// RapidHarness to E3.series Importer - Identifier Resolution
// =============================================================================
//
// This module rewrites RapidHarness identifiers into their E3.series
// equivalents:
//
//   Wire part numbers : exact-match lookup in the wire table. A miss is a
//                       per-record ERROR; the output format cannot represent
//                       an unknown wire electrically, so the record is
//                       excluded from the output.
//
//   Device part numbers : exact-match lookup in the device table. A miss is
//                       NOT an issue: device part numbers are globally unique
//                       and may already exist in E3, so the original
//                       identifier is used verbatim. This silence is a
//                       deliberate product decision.
//
//   Splices           : a device designator of the form S1, S23, ... marks a
//                       non-connectorized junction. Its part number is forced
//                       to the literal SPLICE, checked before the device
//                       lookup so a stray lookup entry can never shadow it.
//
// =============================================================================

package converter

import (
	"fmt"
	"regexp"

	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/issuelog"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/lookup"
	"github.com/k4kfh/rapidharness-to-e3series-importer/internal/model"
)

// SpliceName is the device name E3 expects for splice junctions.
const SpliceName = "SPLICE"

// splicePattern matches splice designators: "S" followed by digits.
var splicePattern = regexp.MustCompile(`^S[0-9]+$`)

// Resolver rewrites the identifiers of one record at a time. It holds
// references to the immutable lookup tables and appends to the shared issue
// log; it never fails per-record.
type Resolver struct {
	wires   *lookup.WireTable
	devices *lookup.DeviceTable
	log     *issuelog.Log
}

// NewResolver creates a resolver over the given lookup tables.
func NewResolver(wires *lookup.WireTable, devices *lookup.DeviceTable, log *issuelog.Log) *Resolver {
	return &Resolver{wires: wires, devices: devices, log: log}
}

// Resolve rewrites the record's wire and device identifiers in place and
// advances its state to StateResolved or StateOmitted.
func (r *Resolver) Resolve(rec *model.ConnectionRecord) {
	if spec, ok := r.wires.Lookup(rec.WirePartNumber); ok {
		wire := spec
		rec.Wire = &wire
		rec.State = model.StateResolved
	} else {
		r.log.Record(issuelog.SeverityError, issuelog.KindWireNotFound, rec.Row,
			"Wire", rec.WirePartNumber,
			fmt.Sprintf("wire %q not found in lookup table", rec.WirePartNumber))
		rec.State = model.StateOmitted
	}

	rec.FromPartNumber = r.resolveDevice(rec.FromDevice, rec.FromPartNumber)
	rec.ToPartNumber = r.resolveDevice(rec.ToDevice, rec.ToPartNumber)
}

// resolveDevice maps one device part number. The splice check runs first and
// wins unconditionally, even when the designator or part number also appears
// in the device table.
func (r *Resolver) resolveDevice(designator, partNumber string) string {
	if IsSplice(designator) {
		return SpliceName
	}
	if name, ok := r.devices.Lookup(partNumber); ok {
		return name
	}
	// Fallback: keep the RapidHarness identifier verbatim, no issue logged.
	return partNumber
}

// IsSplice reports whether a device designator names a splice junction.
func IsSplice(designator string) bool {
	return splicePattern.MatchString(designator)
}
