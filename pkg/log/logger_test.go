package log

import (
	"testing"
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

func TestNoopLoggerIsZeroValue(t *testing.T) {
	// NoopLogger should be usable as zero value
	var logger NoopLogger
	logger.Log(Event{})
	logger.Log(FromTracker(testTrackerEvent(tracker.EventNew, testFixedID), testTime))
}

func TestMultiLoggerCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}

	multi := NewMultiLogger(mock1, nil, mock2)
	multi.Log(FromTracker(testTrackerEvent(tracker.EventSeen, testFixedID), testTime))

	for i, mock := range []*mockLogger{mock1, mock2} {
		if len(mock.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(mock.events))
			continue
		}
		if mock.events[0].ID != testFixedID {
			t.Errorf("logger %d: ID = %q, want %q", i, mock.events[0].ID, testFixedID)
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	// Should not panic with empty logger list
	NewMultiLogger().Log(Event{})
}

func TestLoggerFunc(t *testing.T) {
	var got []string
	logger := LoggerFunc(func(e Event) { got = append(got, e.ID) })

	Recorder(logger, func() time.Time { return testTime })(testTrackerEvent(tracker.EventNew, testGroupID))

	if len(got) != 1 || got[0] != testGroupID {
		t.Errorf("got %v, want [%s]", got, testGroupID)
	}
}
