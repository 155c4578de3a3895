package log

import (
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// Logger receives tracker events. Log is called from the tracker's dispatch
// path, so implementations must be safe for concurrent use and must not
// block.
type Logger interface {
	Log(event Event)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(Event)

// Log calls f.
func (f LoggerFunc) Log(event Event) { f(event) }

// NoopLogger discards events.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

// Recorder returns a tracker event handler that stamps each event with now
// and passes it to l.
func Recorder(l Logger, now func() time.Time) func(tracker.Event) {
	return func(ev tracker.Event) {
		l.Log(FromTracker(ev, now()))
	}
}

var (
	_ Logger = NoopLogger{}
	_ Logger = LoggerFunc(nil)
)
