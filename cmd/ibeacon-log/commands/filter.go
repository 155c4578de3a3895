package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/log"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// FilterOptions holds the filter flags shared by all commands.
type FilterOptions struct {
	Kind   string
	ID     string
	Regime string
	Since  string
	Until  string
}

// BuildFilter converts the flag values into a log.Filter.
func BuildFilter(opts FilterOptions) (log.Filter, error) {
	filter := log.Filter{ID: opts.ID}

	if opts.Kind != "" {
		k, err := parseKind(opts.Kind)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Kind = &k
	}

	if opts.Regime != "" {
		r, err := parseRegime(opts.Regime)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Regime = &r
	}

	if opts.Since != "" {
		t, err := time.Parse(time.RFC3339, opts.Since)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid since format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.Until != "" {
		t, err := time.Parse(time.RFC3339, opts.Until)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid until format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// parseKind parses an event kind (case-insensitive).
func parseKind(s string) (tracker.EventKind, error) {
	switch strings.ToLower(s) {
	case "new":
		return tracker.EventNew, nil
	case "seen":
		return tracker.EventSeen, nil
	case "unavailable":
		return tracker.EventUnavailable, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (must be new, seen, or unavailable)", s)
	}
}

// parseRegime parses a tracking regime (case-insensitive).
func parseRegime(s string) (log.Regime, error) {
	switch strings.ToLower(s) {
	case "fixed":
		return log.RegimeFixed, nil
	case "random":
		return log.RegimeRandom, nil
	default:
		return 0, fmt.Errorf("invalid regime: %s (must be fixed or random)", s)
	}
}

// RunFilter writes the events of path matching filter to a new log file.
// It returns the number of events written.
func RunFilter(path string, filter log.Filter, output string) (int, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}

	for event, err := range reader.Events() {
		if err != nil {
			logger.Close()
			return logger.Written(), fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
	}
	if err := logger.Close(); err != nil {
		return logger.Written(), fmt.Errorf("failed to write output: %w", err)
	}
	return logger.Written(), nil
}
