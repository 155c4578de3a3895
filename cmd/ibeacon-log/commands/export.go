package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/log"
)

// RunExport writes the events of path matching filter to w in the given
// format.
func RunExport(path string, filter log.Filter, format string, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

// jsonEvent is the JSON export shape.
type jsonEvent struct {
	Timestamp string          `json:"timestamp"`
	Kind      string          `json:"kind"`
	ID        string          `json:"id"`
	Regime    string          `json:"regime"`
	Name      string          `json:"name,omitempty"`
	Beacon    *log.BeaconData `json:"beacon,omitempty"`
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		out := jsonEvent{
			Timestamp: event.Timestamp.UTC().Format(timestampLayout),
			Kind:      event.Kind.String(),
			ID:        event.ID,
			Regime:    event.Regime.String(),
			Name:      event.Name,
			Beacon:    event.Beacon,
		}
		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "kind", "id", "regime", "name", "uuid", "major", "minor", "rssi", "distance"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		row := []string{
			event.Timestamp.UTC().Format(timestampLayout),
			event.Kind.String(),
			event.ID,
			event.Regime.String(),
			event.Name,
			"", "", "", "", "",
		}
		if b := event.Beacon; b != nil {
			row[5] = b.UUID
			row[6] = strconv.Itoa(int(b.Major))
			row[7] = strconv.Itoa(int(b.Minor))
			row[8] = strconv.Itoa(b.RSSI)
			if b.Distance > 0 {
				row[9] = strconv.FormatFloat(b.Distance, 'f', 2, 64)
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return cw.Error()
}
