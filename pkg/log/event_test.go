package log

import (
	"math"
	"testing"
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

func TestRegimeString(t *testing.T) {
	tests := []struct {
		regime Regime
		want   string
	}{
		{RegimeFixed, "FIXED"},
		{RegimeRandom, "RANDOM"},
		{Regime(0), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.regime.String(); got != tt.want {
			t.Errorf("Regime(%d).String() = %q, want %q", tt.regime, got, tt.want)
		}
	}
}

func TestRegimeOf(t *testing.T) {
	if got := RegimeOf(testFixedID); got != RegimeFixed {
		t.Errorf("RegimeOf(%q) = %v, want FIXED", testFixedID, got)
	}
	if got := RegimeOf(testGroupID); got != RegimeRandom {
		t.Errorf("RegimeOf(%q) = %v, want RANDOM", testGroupID, got)
	}
}

func TestFromTrackerNew(t *testing.T) {
	event := FromTracker(testTrackerEvent(tracker.EventNew, testFixedID), testTime)

	if !event.Timestamp.Equal(testTime) {
		t.Errorf("Timestamp = %v, want %v", event.Timestamp, testTime)
	}
	if event.Kind != tracker.EventNew {
		t.Errorf("Kind = %v, want NEW", event.Kind)
	}
	if event.Regime != RegimeFixed {
		t.Errorf("Regime = %v, want FIXED", event.Regime)
	}
	if event.Name != "Tag EE01" {
		t.Errorf("Name = %q, want %q", event.Name, "Tag EE01")
	}
	if event.Beacon == nil {
		t.Fatal("Beacon is nil")
	}
	if event.Beacon.UUID != "e2c56db5-dffb-48d2-b060-d0f5a71096e0" {
		t.Errorf("UUID = %q", event.Beacon.UUID)
	}
	if event.Beacon.Major != 1 || event.Beacon.Minor != 2 {
		t.Errorf("Major.Minor = %d.%d, want 1.2", event.Beacon.Major, event.Beacon.Minor)
	}
	if event.Beacon.Address != "AA:BB:CC:DD:EE:01" {
		t.Errorf("Address = %q", event.Beacon.Address)
	}
	if math.Abs(event.Beacon.Distance-1.01076) > 1e-5 {
		t.Errorf("Distance = %f, want about 1.01076", event.Beacon.Distance)
	}
}

func TestFromTrackerUnavailable(t *testing.T) {
	event := FromTracker(testTrackerEvent(tracker.EventUnavailable, testGroupID), testTime)

	if event.Beacon != nil {
		t.Errorf("Beacon = %+v, want nil", event.Beacon)
	}
	if event.Regime != RegimeRandom {
		t.Errorf("Regime = %v, want RANDOM", event.Regime)
	}
}

func TestRecorder(t *testing.T) {
	mock := &mockLogger{}
	record := Recorder(mock, func() time.Time { return testTime })

	record(testTrackerEvent(tracker.EventSeen, testFixedID))

	if len(mock.events) != 1 {
		t.Fatalf("got %d events, want 1", len(mock.events))
	}
	if mock.events[0].Kind != tracker.EventSeen {
		t.Errorf("Kind = %v, want SEEN", mock.events[0].Kind)
	}
	if mock.events[0].Name != "" {
		t.Errorf("Name = %q, seen events carry no name", mock.events[0].Name)
	}
}
