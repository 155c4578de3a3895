package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/log"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

var (
	baseTime = time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	groupID  = "e2c56db5-dffb-48d2-b060-d0f5a71096e0_1_2"
	fixedID  = groupID + "_AA:BB:CC:DD:EE:01"
)

func trackerEvent(kind tracker.EventKind, id string, rssi int) tracker.Event {
	ev := tracker.Event{Kind: kind, ID: id}
	if kind == tracker.EventUnavailable {
		return ev
	}
	ev.Advertisement = ibeacon.Advertisement{
		UUID:   uuid.MustParse("e2c56db5-dffb-48d2-b060-d0f5a71096e0"),
		Major:  1,
		Minor:  2,
		Power:  -59,
		RSSI:   rssi,
		Source: "AA:BB:CC:DD:EE:01",
	}
	if kind == tracker.EventNew {
		ev.Name = "Tag EE01"
	}
	return ev
}

// writeTestLog writes a short history: a fixed device that comes, is seen
// and leaves, and a random group that arrives later.
func writeTestLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.blog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	defer logger.Close()

	events := []tracker.Event{
		trackerEvent(tracker.EventNew, fixedID, -60),
		trackerEvent(tracker.EventSeen, fixedID, -75),
		trackerEvent(tracker.EventUnavailable, fixedID, 0),
		trackerEvent(tracker.EventNew, groupID, -59),
	}
	for i, ev := range events {
		logger.Log(log.FromTracker(ev, baseTime.Add(time.Duration(i)*time.Minute)))
	}
	return path
}
