package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// ErrInvalidEvent is returned when a decoded record is not a tracker event.
var ErrInvalidEvent = errors.New("invalid event")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Canonical key order keeps identical events byte-identical on disk.
	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: CBOR encoder mode: %v", err))
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an event with integer keys.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes and checks a single event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, normalize(&event)
}

// normalize rejects records without an identity or with an unknown kind and
// derives a missing regime from the identity.
func normalize(event *Event) error {
	if event.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidEvent)
	}
	switch event.Kind {
	case tracker.EventNew, tracker.EventSeen, tracker.EventUnavailable:
	default:
		return fmt.Errorf("%w: unknown kind %d for %s", ErrInvalidEvent, event.Kind, event.ID)
	}
	if event.Regime == 0 {
		event.Regime = RegimeOf(event.ID)
	}
	return nil
}

// NewEncoder returns a streaming event encoder writing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a streaming decoder reading from r. Events read with it
// are not normalized; Reader does that.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
