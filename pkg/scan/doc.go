// Package scan turns Bluetooth LE advertisements into tracker observations.
//
// A Scanner keeps the latest observation per address and runs one-shot
// unavailability watches for the tracker. Advertisements arrive either from
// a radio through HandleAdvertisement, which accepts any
// github.com/currantlabs/ble advertisement, or directly through Ingest.
//
// Usage:
//
//	sc := scan.New(scan.DefaultConfig())
//	sc.OnObservation(tr.Process)
//	go sc.Run(ctx)
//	dev.Scan(ctx, true, sc.HandleFiltered)
package scan
