package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/log"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents    int
	EventsByKind   map[tracker.EventKind]int
	EventsByRegime map[log.Regime]int
	Identities     map[string]*IdentityStats
	TimeRange      struct {
		Start time.Time
		End   time.Time
	}
}

// IdentityStats holds statistics for a single identity.
type IdentityStats struct {
	Name         string
	FirstSeen    time.Time
	LastSeen     time.Time
	Events       int
	Departures   int
	MinRSSI      int
	MaxRSSI      int
	rssiObserved bool
}

// CollectStats reads the events of path matching filter.
func CollectStats(path string, filter log.Filter) (*Stats, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind:   make(map[tracker.EventKind]int),
		EventsByRegime: make(map[log.Regime]int),
		Identities:     make(map[string]*IdentityStats),
	}

	for event, err := range reader.Events() {
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++
		stats.EventsByRegime[event.Regime]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		id, ok := stats.Identities[event.ID]
		if !ok {
			id = &IdentityStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			stats.Identities[event.ID] = id
		}
		id.Events++
		if event.Timestamp.After(id.LastSeen) {
			id.LastSeen = event.Timestamp
		}
		if event.Name != "" {
			id.Name = event.Name
		}
		if event.Kind == tracker.EventUnavailable {
			id.Departures++
		}
		if b := event.Beacon; b != nil {
			if !id.rssiObserved || b.RSSI < id.MinRSSI {
				id.MinRSSI = b.RSSI
			}
			if !id.rssiObserved || b.RSSI > id.MaxRSSI {
				id.MaxRSSI = b.RSSI
			}
			id.rssiObserved = true
		}
	}

	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, filter log.Filter, w io.Writer) error {
	stats, err := CollectStats(path, filter)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== iBeacon Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Kind:")
	for _, kind := range []tracker.EventKind{tracker.EventNew, tracker.EventSeen, tracker.EventUnavailable} {
		if count := stats.EventsByKind[kind]; count > 0 {
			fmt.Fprintf(w, "  %-13s %d\n", kind.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Regime:")
	for _, regime := range []log.Regime{log.RegimeFixed, log.RegimeRandom} {
		if count := stats.EventsByRegime[regime]; count > 0 {
			fmt.Fprintf(w, "  %-13s %d\n", regime.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Identities: %d\n", len(stats.Identities))
	if len(stats.Identities) == 0 {
		return
	}

	// Sort by first seen time
	type idInfo struct {
		id    string
		stats *IdentityStats
	}
	ids := make([]idInfo, 0, len(stats.Identities))
	for id, s := range stats.Identities {
		ids = append(ids, idInfo{id, s})
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].stats.FirstSeen.Equal(ids[j].stats.FirstSeen) {
			return ids[i].id < ids[j].id
		}
		return ids[i].stats.FirstSeen.Before(ids[j].stats.FirstSeen)
	})

	fmt.Fprintln(w)
	for _, i := range ids {
		fmt.Fprintf(w, "  %s\n", i.id)
		if i.stats.Name != "" {
			fmt.Fprintf(w, "           Name: %s\n", i.stats.Name)
		}
		fmt.Fprintf(w, "           %d events, %d departures, span %s\n",
			i.stats.Events, i.stats.Departures, i.stats.LastSeen.Sub(i.stats.FirstSeen).Round(time.Second))
		if i.stats.rssiObserved {
			fmt.Fprintf(w, "           RSSI: %d to %d dBm\n", i.stats.MinRSSI, i.stats.MaxRSSI)
		}
	}
}
