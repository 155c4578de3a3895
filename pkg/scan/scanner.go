package scan

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/currantlabs/ble"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/clock"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// Default timing.
const (
	DefaultUnavailableTimeout = tracker.DefaultUnavailableTimeout
	DefaultCheckInterval      = 10 * time.Second
)

// Config configures a Scanner.
type Config struct {
	// UnavailableTimeout is how long an address may be silent before its
	// watches fire. Observations older than this are forgotten.
	UnavailableTimeout time.Duration

	// CheckInterval is the period of Run.
	CheckInterval time.Duration

	// Clock defaults to clock.Real.
	Clock clock.Clock

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns the default scanner configuration.
func DefaultConfig() Config {
	return Config{
		UnavailableTimeout: DefaultUnavailableTimeout,
		CheckInterval:      DefaultCheckInterval,
	}
}

type watch struct {
	id      uint64
	address string
	since   time.Time
	fn      func(address string)
}

// Scanner is a tracker.AdvertisementSource fed by BLE advertisements.
type Scanner struct {
	clock    clock.Clock
	logger   *slog.Logger
	timeout  time.Duration
	interval time.Duration

	mu      sync.Mutex
	last    map[string]tracker.Observation
	watches map[uint64]*watch
	nextID  uint64

	handlersMu sync.RWMutex
	handlers   []func(tracker.Observation)
}

// New creates a Scanner. Zero config values select the defaults.
func New(cfg Config) *Scanner {
	if cfg.UnavailableTimeout <= 0 {
		cfg.UnavailableTimeout = DefaultUnavailableTimeout
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	return &Scanner{
		clock:    cfg.Clock,
		logger:   cfg.Logger,
		timeout:  cfg.UnavailableTimeout,
		interval: cfg.CheckInterval,
		last:     make(map[string]tracker.Observation),
		watches:  make(map[uint64]*watch),
	}
}

// OnObservation registers a handler called for every ingested observation.
func (s *Scanner) OnObservation(fn func(tracker.Observation)) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, fn)
}

// Ingest stores obs as the latest observation of its address and passes it
// to the handlers.
func (s *Scanner) Ingest(obs tracker.Observation) {
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = s.clock.Now()
	}

	s.mu.Lock()
	s.last[obs.Address] = obs
	s.mu.Unlock()

	s.handlersMu.RLock()
	handlers := slices.Clone(s.handlers)
	s.handlersMu.RUnlock()
	for _, h := range handlers {
		h(obs)
	}
}

// Filter reports whether a carries iBeacon manufacturer data.
func Filter(a ble.Advertisement) bool {
	return ibeacon.HasPrefix(a.ManufacturerData())
}

// HandleAdvertisement converts a radio advertisement and ingests it.
func (s *Scanner) HandleAdvertisement(a ble.Advertisement) {
	s.Ingest(FromAdvertisement(a, s.clock.Now()))
}

// HandleFiltered ingests a only when it passes Filter. It has the shape of
// ble.AdvHandler.
func (s *Scanner) HandleFiltered(a ble.Advertisement) {
	if !Filter(a) {
		return
	}
	s.HandleAdvertisement(a)
}

// FromAdvertisement converts a radio advertisement to an observation.
// Addresses are upper-cased so that both radio back ends agree.
func FromAdvertisement(a ble.Advertisement, at time.Time) tracker.Observation {
	return tracker.Observation{
		Address:          strings.ToUpper(a.Address().String()),
		RSSI:             a.RSSI(),
		Name:             a.LocalName(),
		ManufacturerData: slices.Clone(a.ManufacturerData()),
		ObservedAt:       at,
	}
}

// LastObservation returns the latest observation for address.
func (s *Scanner) LastObservation(address string) (tracker.Observation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obs, ok := s.last[address]
	return obs, ok
}

// Observations returns the latest observation of every known address,
// sorted by address.
func (s *Scanner) Observations() []tracker.Observation {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]tracker.Observation, 0, len(s.last))
	for _, address := range slices.Sorted(maps.Keys(s.last)) {
		all = append(all, s.last[address])
	}
	return all
}

// TrackUnavailable calls fn once from CheckUnavailable when address has been
// silent for the unavailability timeout. The silence is measured from the
// later of the last observation and the registration. After cancel returns,
// fn is not called unless CheckUnavailable had already picked the watch.
func (s *Scanner) TrackUnavailable(address string, fn func(address string)) tracker.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	w := &watch{id: s.nextID, address: address, since: s.clock.Now(), fn: fn}
	s.watches[w.id] = w
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watches, w.id)
	}
}

// CheckUnavailable fires expired watches and forgets stale observations.
func (s *Scanner) CheckUnavailable() {
	now := s.clock.Now()

	s.mu.Lock()
	var due []*watch
	for id, w := range s.watches {
		seen := w.since
		if obs, ok := s.last[w.address]; ok && obs.ObservedAt.After(seen) {
			seen = obs.ObservedAt
		}
		if now.Sub(seen) > s.timeout {
			due = append(due, w)
			delete(s.watches, id)
		}
	}
	var forgotten []string
	for address, obs := range s.last {
		if now.Sub(obs.ObservedAt) > s.timeout {
			delete(s.last, address)
			forgotten = append(forgotten, address)
		}
	}
	s.mu.Unlock()

	if len(forgotten) > 0 {
		slices.Sort(forgotten)
		s.debugLog("forgot stale observations", "addresses", forgotten)
	}

	slices.SortFunc(due, func(a, b *watch) int { return cmp.Compare(a.id, b.id) })
	for _, w := range due {
		s.debugLog("address unavailable", "address", w.address)
		w.fn(w.address)
	}
}

// Run calls CheckUnavailable every check interval until ctx is done.
func (s *Scanner) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.CheckUnavailable()
		}
	}
}

func (s *Scanner) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

var _ tracker.AdvertisementSource = (*Scanner)(nil)
