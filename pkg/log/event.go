package log

import (
	"strings"
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// Event is one tracker lifecycle event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Kind is the lifecycle transition.
	Kind tracker.EventKind `cbor:"2,keyasint"`

	// ID is the unique id or group id of the identity.
	ID string `cbor:"3,keyasint"`

	// Regime tells whether ID is keyed by address.
	Regime Regime `cbor:"4,keyasint"`

	// Name is the display name, set on new identities.
	Name string `cbor:"5,keyasint,omitempty"`

	// Beacon holds the advertisement fields. Nil for unavailable events.
	Beacon *BeaconData `cbor:"6,keyasint,omitempty"`
}

// Regime is the tracking regime of an identity.
type Regime uint8

const (
	// RegimeFixed identities are keyed by group and address.
	RegimeFixed Regime = 1
	// RegimeRandom identities are keyed by group only.
	RegimeRandom Regime = 2
)

// String returns the regime name.
func (r Regime) String() string {
	switch r {
	case RegimeFixed:
		return "FIXED"
	case RegimeRandom:
		return "RANDOM"
	default:
		return "UNKNOWN"
	}
}

// BeaconData contains the advertisement fields of an event.
type BeaconData struct {
	UUID    string `cbor:"1,keyasint"`
	Major   uint16 `cbor:"2,keyasint"`
	Minor   uint16 `cbor:"3,keyasint"`
	Power   int8   `cbor:"4,keyasint"`
	RSSI    int    `cbor:"5,keyasint"`
	Address string `cbor:"6,keyasint,omitempty"`

	// Distance is the estimated distance in meters, zero when unknown.
	Distance float64 `cbor:"7,keyasint,omitempty"`
}

// RegimeOf derives the regime from an identity: unique ids carry the
// address as a fourth component.
func RegimeOf(id string) Regime {
	if strings.Count(id, "_") >= 3 {
		return RegimeFixed
	}
	return RegimeRandom
}

// FromTracker converts a tracker event observed at the given time.
func FromTracker(ev tracker.Event, at time.Time) Event {
	out := Event{
		Timestamp: at,
		Kind:      ev.Kind,
		ID:        ev.ID,
		Regime:    RegimeOf(ev.ID),
		Name:      ev.Name,
	}
	if ev.Kind == tracker.EventUnavailable {
		return out
	}

	adv := ev.Advertisement
	out.Beacon = &BeaconData{
		UUID:    adv.UUID.String(),
		Major:   adv.Major,
		Minor:   adv.Minor,
		Power:   adv.Power,
		RSSI:    adv.RSSI,
		Address: adv.Source,
	}
	if d, ok := adv.Distance(); ok {
		out.Beacon.Distance = d
	}
	return out
}
