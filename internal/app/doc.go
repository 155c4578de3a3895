// Package app wires the tracker components into a runnable unit.
//
// An App owns the registry, the scanner, the identity tracker and the entity
// manager. The daemon feeds it from a Bluetooth adapter and the console feeds
// it synthetic advertisements; both share the wiring here.
package app
