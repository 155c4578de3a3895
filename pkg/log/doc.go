// Package log provides a structured event log for the iBeacon tracker.
//
// This package defines the Logger interface and the Event type that record
// every lifecycle event the tracker emits. It is separate from operational
// logging (slog): the event log is a complete machine-readable history of
// which beacons arrived, were seen and left.
//
// # Basic Usage
//
// The daemon feeds tracker events to a Logger:
//
//	// For development: log to console via slog
//	events := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	events, _ := log.NewFileLogger("/var/log/ibeacon/events.blog")
//
//	// Both: use MultiLogger
//	events := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
//	tr.OnEvent(func(ev tracker.Event) {
//	    events.Log(log.FromTracker(ev, time.Now()))
//	})
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys. The
// ibeacon-log CLI tool provides viewing, filtering and statistics.
package log
