package log

import (
	"time"

	"github.com/google/uuid"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

var (
	testTime    = time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	testGroupID = "e2c56db5-dffb-48d2-b060-d0f5a71096e0_1_2"
	testFixedID = testGroupID + "_AA:BB:CC:DD:EE:01"
)

// mockLogger records events for testing
type mockLogger struct {
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func testTrackerEvent(kind tracker.EventKind, id string) tracker.Event {
	ev := tracker.Event{Kind: kind, ID: id}
	if kind == tracker.EventUnavailable {
		return ev
	}
	ev.Advertisement = ibeacon.Advertisement{
		UUID:   uuid.MustParse("e2c56db5-dffb-48d2-b060-d0f5a71096e0"),
		Major:  1,
		Minor:  2,
		Power:  -59,
		RSSI:   -59,
		Source: "AA:BB:CC:DD:EE:01",
		Name:   "AA:BB:CC:DD:EE:01",
	}
	if kind == tracker.EventNew {
		ev.Name = "Tag EE01"
	}
	return ev
}
