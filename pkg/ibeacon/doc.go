// Package ibeacon decodes Apple iBeacon manufacturer data.
//
// An iBeacon advertisement carries a manufacturer-specific data field with
// the Apple company identifier (0x004C, little endian) followed by:
//
//	0x02 0x15 | proximity UUID (16) | major (2, BE) | minor (2, BE) | measured power (1)
//
// Parse returns ErrNotIBeacon for any other manufacturer data so callers can
// drop non-beacon traffic from a mixed advertisement stream without treating
// it as a failure.
package ibeacon
