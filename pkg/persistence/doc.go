// Package persistence provides the device registry of the tracker.
//
// The registry remembers every identity the tracker has announced and the
// addresses it ignores, so that a restarted tracker keeps rotating groups on
// group-id tracking and keeps dropping garbage addresses. Store keeps the
// registry in a JSON state file; package sqlitestore keeps it in SQLite.
package persistence
