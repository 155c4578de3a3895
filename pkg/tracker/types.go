package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/clock"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"
)

// Tracker constants.
const (
	// MaxIDs is the anomaly threshold in both directions: the number of group
	// ids one address may produce before it is ignored, and the number of
	// addresses one group id may use before it is tracked as a random MAC.
	MaxIDs = 10

	// DefaultMinRSSI drops observations weaker than this.
	DefaultMinRSSI = -85

	// DefaultUnavailableTimeout is how long a random-MAC group may be silent.
	DefaultUnavailableTimeout = 180 * time.Second

	// DefaultUpdateInterval is the sweep period.
	DefaultUpdateInterval = 60 * time.Second
)

// Tracker errors.
var (
	ErrAlreadyStarted  = errors.New("tracker already started")
	ErrAlreadyRestored = errors.New("tracker state already restored")
	ErrInvalidConfig   = errors.New("invalid tracker configuration")
)

// Observation is a single advertisement as delivered by the source.
type Observation struct {
	// Address is the advertiser's Bluetooth address.
	Address string

	// RSSI is the received signal strength in dBm.
	RSSI int

	// Name is the advertised local name. Empty when none was sent.
	Name string

	// ManufacturerData is the raw manufacturer-specific data field.
	ManufacturerData []byte

	// ObservedAt is the receive time.
	ObservedAt time.Time
}

// EventKind classifies tracker events.
type EventKind uint8

const (
	// EventNew announces an identity seen for the first time.
	EventNew EventKind = iota + 1

	// EventSeen announces a known identity seen again.
	EventSeen

	// EventUnavailable announces an identity that has gone silent.
	EventUnavailable
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case EventNew:
		return "NEW"
	case EventSeen:
		return "SEEN"
	case EventUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// Event is emitted to handlers registered with OnEvent.
type Event struct {
	Kind EventKind

	// ID is a unique id in the fixed regime and a group id in the random regime.
	ID string

	// Name is the display name. Only set on EventNew.
	Name string

	// Advertisement holds the parsed fields. Zero on EventUnavailable.
	Advertisement ibeacon.Advertisement
}

// Config configures a Tracker.
type Config struct {
	// MinRSSI drops weaker observations. Zero selects DefaultMinRSSI.
	MinRSSI int

	// IgnoreAddresses seeds the ignore list, typically from the registry.
	IgnoreAddresses []string

	// UnavailableTimeout applies to random-MAC groups.
	UnavailableTimeout time.Duration

	// UpdateInterval is the sweep period.
	UpdateInterval time.Duration

	// Clock defaults to clock.Real.
	Clock clock.Clock

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with the default thresholds.
func DefaultConfig() Config {
	return Config{
		MinRSSI:            DefaultMinRSSI,
		UnavailableTimeout: DefaultUnavailableTimeout,
		UpdateInterval:     DefaultUpdateInterval,
	}
}

// Validate checks the configuration. Zero values are accepted and replaced
// by defaults in New.
func (c *Config) Validate() error {
	if c.UnavailableTimeout < 0 {
		return fmt.Errorf("%w: negative unavailable timeout %v", ErrInvalidConfig, c.UnavailableTimeout)
	}
	if c.UpdateInterval < 0 {
		return fmt.Errorf("%w: negative update interval %v", ErrInvalidConfig, c.UpdateInterval)
	}
	if c.MinRSSI > 0 {
		return fmt.Errorf("%w: min rssi must be negative, got %d", ErrInvalidConfig, c.MinRSSI)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.MinRSSI == 0 {
		c.MinRSSI = DefaultMinRSSI
	}
	if c.UnavailableTimeout == 0 {
		c.UnavailableTimeout = DefaultUnavailableTimeout
	}
	if c.UpdateInterval == 0 {
		c.UpdateInterval = DefaultUpdateInterval
	}
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
}
