package log

import (
	"errors"
	"io"
	"iter"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// Filter selects events. Zero fields match everything.
type Filter struct {
	// ID matches one identity exactly.
	ID string

	Kind   *tracker.EventKind
	Regime *Regime

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time
}

// Matches reports whether event passes every criterion of f.
func (f *Filter) Matches(event Event) bool {
	switch {
	case f.ID != "" && event.ID != f.ID:
		return false
	case f.Kind != nil && event.Kind != *f.Kind:
		return false
	case f.Regime != nil && event.Regime != *f.Regime:
		return false
	case f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart):
		return false
	case f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	}
	return true
}

// Reader streams events from an event log file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens path and reads every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens path and reads the events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, decoder: NewDecoder(f), filter: filter}, nil
}

// Next returns the next matching event, or io.EOF at the end of the file.
// A truncated last record, as left by a crashed tracker, also ends the log.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		err := r.decoder.Decode(&event)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Event{}, io.EOF
		}
		if err != nil {
			return Event{}, err
		}
		if err := normalize(&event); err != nil {
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Events iterates over the remaining matching events. Iteration stops after
// the first error, which is yielded with a zero event.
func (r *Reader) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			event, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(event, err) || err != nil {
				return
			}
		}
	}
}

// Close closes the file.
func (r *Reader) Close() error {
	return r.file.Close()
}
