package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger.
// Useful for development when you want to see tracker events in console.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter that logs at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("kind", event.Kind.String()),
		slog.String("id", event.ID),
		slog.String("regime", event.Regime.String()),
	}
	if event.Name != "" {
		attrs = append(attrs, slog.String("name", event.Name))
	}
	if b := event.Beacon; b != nil {
		attrs = append(attrs,
			slog.String("uuid", b.UUID),
			slog.Int("major", int(b.Major)),
			slog.Int("minor", int(b.Minor)),
			slog.Int("rssi", b.RSSI),
		)
		if b.Address != "" {
			attrs = append(attrs, slog.String("address", b.Address))
		}
		if b.Distance > 0 {
			attrs = append(attrs, slog.Float64("distance", b.Distance))
		}
	}

	a.logger.LogAttrs(context.Background(), a.level, "beacon", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
