// Package clock provides a testable abstraction over wall-clock time and
// tickers.
//
// Components that sweep for stale state (the tracker's liveness sweeper and
// the scanner's unavailability watches) take a Clock in their config. In
// production this is Real; tests use a Mock and advance it by hand, which
// fires any ticker whose period has elapsed.
package clock
