package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/log"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

func TestFormatNewEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, log.FromTracker(trackerEvent(tracker.EventNew, fixedID, -59), baseTime))
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.123456Z",
		"NEW",
		"FIXED",
		fixedID,
		"Name: Tag EE01",
		"e2c56db5-dffb-48d2-b060-d0f5a71096e0 1.2",
		"RSSI: -59 dBm",
		"Distance: 1.01 m",
		"Address: AA:BB:CC:DD:EE:01",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFormatUnavailableEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, log.FromTracker(trackerEvent(tracker.EventUnavailable, groupID, 0), baseTime))
	output := buf.String()

	if !strings.Contains(output, "UNAVAILABLE") || !strings.Contains(output, "RANDOM") {
		t.Errorf("unexpected header: %s", output)
	}
	if strings.Contains(output, "RSSI") {
		t.Errorf("unavailable event printed beacon details: %s", output)
	}
}

func TestBuildFilter(t *testing.T) {
	filter, err := BuildFilter(FilterOptions{
		Kind:   "Seen",
		ID:     fixedID,
		Regime: "fixed",
		Since:  "2026-01-28T10:00:00Z",
		Until:  "2026-01-28T11:00:00Z",
	})
	if err != nil {
		t.Fatalf("BuildFilter failed: %v", err)
	}
	if filter.Kind == nil || *filter.Kind != tracker.EventSeen {
		t.Errorf("Kind = %v, want SEEN", filter.Kind)
	}
	if filter.Regime == nil || *filter.Regime != log.RegimeFixed {
		t.Errorf("Regime = %v, want FIXED", filter.Regime)
	}
	if filter.TimeStart == nil || filter.TimeEnd == nil {
		t.Error("time range not set")
	}

	for _, opts := range []FilterOptions{
		{Kind: "gone"},
		{Regime: "rotating"},
		{Since: "yesterday"},
		{Until: "tomorrow"},
	} {
		if _, err := BuildFilter(opts); err == nil {
			t.Errorf("BuildFilter(%+v) expected error", opts)
		}
	}
}

func TestRunViewFiltered(t *testing.T) {
	path := writeTestLog(t)
	filter, _ := BuildFilter(FilterOptions{Kind: "new"})

	var buf bytes.Buffer
	if err := RunView(path, filter, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	if got := strings.Count(buf.String(), "NEW"); got != 2 {
		t.Errorf("got %d NEW events, want 2:\n%s", got, buf.String())
	}
	if strings.Contains(buf.String(), "SEEN") {
		t.Errorf("filtered view contains SEEN events")
	}
}

func TestRunExportJSONL(t *testing.T) {
	path := writeTestLog(t)

	var buf bytes.Buffer
	if err := RunExport(path, log.Filter{}, "jsonl", &buf); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if first["kind"] != "NEW" || first["regime"] != "FIXED" {
		t.Errorf("first event = %v", first)
	}
	if _, ok := first["beacon"]; !ok {
		t.Error("beacon missing from new event")
	}
}

func TestRunExportCSV(t *testing.T) {
	path := writeTestLog(t)

	var buf bytes.Buffer
	if err := RunExport(path, log.Filter{}, "csv", &buf); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want header plus 4", len(records))
	}
	if records[0][0] != "timestamp" {
		t.Errorf("header = %v", records[0])
	}
	if records[2][8] != "-75" {
		t.Errorf("rssi of seen event = %q, want -75", records[2][8])
	}
	if records[3][5] != "" {
		t.Errorf("unavailable event has uuid %q", records[3][5])
	}
}

func TestRunExportUnknownFormat(t *testing.T) {
	path := writeTestLog(t)
	if err := RunExport(path, log.Filter{}, "xml", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunFilter(t *testing.T) {
	path := writeTestLog(t)
	output := filepath.Join(t.TempDir(), "fixed.blog")
	filter, _ := BuildFilter(FilterOptions{ID: fixedID})

	count, err := RunFilter(path, filter, output)
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	stats, err := CollectStats(output, log.Filter{})
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}
	if stats.TotalEvents != 3 || len(stats.Identities) != 1 {
		t.Errorf("filtered file has %d events for %d identities", stats.TotalEvents, len(stats.Identities))
	}
}

func TestCollectStats(t *testing.T) {
	stats, err := CollectStats(writeTestLog(t), log.Filter{})
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if stats.TotalEvents != 4 {
		t.Errorf("TotalEvents = %d, want 4", stats.TotalEvents)
	}
	if stats.EventsByKind[tracker.EventNew] != 2 {
		t.Errorf("NEW = %d, want 2", stats.EventsByKind[tracker.EventNew])
	}
	if stats.EventsByRegime[log.RegimeRandom] != 1 {
		t.Errorf("RANDOM = %d, want 1", stats.EventsByRegime[log.RegimeRandom])
	}

	fixed := stats.Identities[fixedID]
	if fixed == nil {
		t.Fatal("fixed identity missing")
	}
	if fixed.Events != 3 || fixed.Departures != 1 {
		t.Errorf("fixed: %d events, %d departures", fixed.Events, fixed.Departures)
	}
	if fixed.MinRSSI != -75 || fixed.MaxRSSI != -60 {
		t.Errorf("fixed RSSI range = %d..%d, want -75..-60", fixed.MinRSSI, fixed.MaxRSSI)
	}
	if fixed.Name != "Tag EE01" {
		t.Errorf("fixed name = %q", fixed.Name)
	}
}

func TestRunStatsOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := RunStats(writeTestLog(t), log.Filter{}, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 4",
		"NEW:",
		"Identities: 2",
		"RSSI: -75 to -60 dBm",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestRunStatsMissingFile(t *testing.T) {
	if err := RunStats(filepath.Join(t.TempDir(), "missing.blog"), log.Filter{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}
}
