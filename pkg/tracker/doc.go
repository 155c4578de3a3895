// Package tracker resolves iBeacon advertisements into a stable set of logical
// beacon devices.
//
// A Tracker consumes Observations from an AdvertisementSource and classifies
// each one as a new device, a device seen again, or noise. Two addressing
// regimes are supported:
//
// # Fixed MAC
//
// A beacon with a stable address is identified by its unique id
// "uuid_major_minor_address". The tracker asks the source to watch each such
// address and announces every unique id of the address as unavailable when
// the watch fires.
//
// # Random MAC
//
// When one beacon configuration (group id "uuid_major_minor") has been seen
// from MaxIDs different addresses, the beacon is rotating its address. The
// group is moved to the random regime: its fixed entities are purged from the
// Registry and it is tracked by group id alone. The periodic Sweep marks such
// groups unavailable once they have been silent for the unavailability
// timeout.
//
// # Noise
//
// Some devices broadcast sensor readings in the major/minor fields. An address
// that has produced MaxIDs different group ids is added to the ignore list,
// which is persisted through the Registry, and all of its entities are purged.
//
// Example usage:
//
//	cfg := tracker.DefaultConfig()
//	t, err := tracker.New(cfg, scanner, store, tracker.IBeaconParser{})
//	t.OnEvent(func(ev tracker.Event) { ... })
//	t.Start(ctx)
//	defer t.Stop()
package tracker
