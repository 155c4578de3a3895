// Package commands implements the ibeacon-log CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/log"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp KIND REGIME id
	ts := event.Timestamp.UTC().Format(timestampLayout)
	fmt.Fprintf(w, "%s %-11s %-6s %s\n", ts, event.Kind.String(), event.Regime.String(), event.ID)

	if event.Name != "" {
		fmt.Fprintf(w, "  Name: %s\n", event.Name)
	}
	if b := event.Beacon; b != nil {
		fmt.Fprintf(w, "  Beacon: %s %d.%d  Power: %d dBm\n", b.UUID, b.Major, b.Minor, b.Power)
		fmt.Fprintf(w, "  RSSI: %d dBm", b.RSSI)
		if b.Distance > 0 {
			fmt.Fprintf(w, "  Distance: %.2f m", b.Distance)
		}
		if b.Address != "" {
			fmt.Fprintf(w, "  Address: %s", b.Address)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w) // Blank line between events
}

// RunView prints the events of path matching filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
