package tracker

import "github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"

// CancelFunc releases a watch. Calling it more than once is harmless.
type CancelFunc func()

// AdvertisementSource delivers observations and liveness for addresses.
//
// Implementations must not call back into the Tracker while holding their
// own locks, and TrackUnavailable must not invoke fn synchronously.
type AdvertisementSource interface {
	// LastObservation returns the latest observation for address.
	LastObservation(address string) (Observation, bool)

	// Observations returns the latest observation of every known address.
	Observations() []Observation

	// TrackUnavailable calls fn once when address has not been observed for
	// the source's unavailability timeout.
	TrackUnavailable(address string, fn func(address string)) CancelFunc
}

// Registry persists device identities and the ignore list.
type Registry interface {
	// PersistedIdentifiers lists the unique ids and group ids of every
	// persisted device.
	PersistedIdentifiers() ([]string, error)

	// Purge removes the persisted records of ids.
	Purge(ids []string) error

	// PersistIgnoreList replaces the persisted ignore list.
	PersistIgnoreList(addresses []string) error
}

// Parser extracts iBeacon fields from an observation.
type Parser interface {
	Parse(obs Observation) (ibeacon.Advertisement, bool)
}

// IBeaconParser decodes the manufacturer data with package ibeacon.
type IBeaconParser struct{}

// Parse returns the decoded advertisement with the receive context filled in.
func (IBeaconParser) Parse(obs Observation) (ibeacon.Advertisement, bool) {
	adv, err := ibeacon.Parse(obs.ManufacturerData)
	if err != nil {
		return ibeacon.Advertisement{}, false
	}
	adv.RSSI = obs.RSSI
	adv.Source = obs.Address
	adv.Name = obs.Name
	if adv.Name == "" {
		adv.Name = obs.Address
	}
	return adv, true
}

// Compile-time interface satisfaction check.
var _ Parser = IBeaconParser{}
