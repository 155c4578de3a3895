// Package entity presents tracker identities as presence entities.
//
// A Manager consumes tracker events. A new identity creates an entity and a
// device record in the registry, seen events mark it home, and unavailable
// events mark it not_home.
package entity
