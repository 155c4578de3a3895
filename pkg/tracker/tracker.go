package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/clock"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"
)

type stringSet map[string]struct{}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s stringSet) sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

func addTo(m map[string]stringSet, key, value string) {
	set, ok := m[key]
	if !ok {
		set = make(stringSet)
		m[key] = set
	}
	set[value] = struct{}{}
}

func removeFrom(m map[string]stringSet, key, value string) {
	set, ok := m[key]
	if !ok {
		return
	}
	delete(set, value)
	if len(set) == 0 {
		delete(m, key)
	}
}

// watch is an unavailability watch registered with the source for one address.
type watch struct {
	address string
	cancel  CancelFunc
}

// Tracker resolves observations into beacon identities.
// All state is guarded by a single mutex; event handlers run after it is
// released, in emission order.
type Tracker struct {
	source   AdvertisementSource
	registry Registry
	parser   Parser
	clock    clock.Clock
	logger   *slog.Logger

	unavailableTimeout time.Duration
	updateInterval     time.Duration

	mu       sync.Mutex
	minRSSI  int
	restored bool
	started  bool
	stopped  bool
	stopCh   chan struct{}
	done     chan struct{}

	// Devices that do not follow the iBeacon format and broadcast custom
	// data in the major and minor fields.
	ignored stringSet

	// iBeacons with fixed MAC addresses
	lastRSSI           map[string]int
	groupsByAddress    map[string]stringSet
	uniqueIDsByAddress map[string]stringSet
	uniqueIDsByGroup   map[string]stringSet
	addressesByGroup   map[string]stringSet
	watches            map[string]*watch

	// iBeacons with random MAC addresses
	randomGroups      stringSet
	lastSeenByGroup   map[string]Observation
	unavailableGroups stringSet

	handlersMu sync.RWMutex
	handlers   []func(Event)
}

// New creates a Tracker. A nil parser selects IBeaconParser.
func New(cfg Config, source AdvertisementSource, registry Registry, parser Parser) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil || registry == nil {
		return nil, fmt.Errorf("%w: source and registry are required", ErrInvalidConfig)
	}
	if parser == nil {
		parser = IBeaconParser{}
	}
	cfg.applyDefaults()

	t := &Tracker{
		source:             source,
		registry:           registry,
		parser:             parser,
		clock:              cfg.Clock,
		logger:             cfg.Logger,
		unavailableTimeout: cfg.UnavailableTimeout,
		updateInterval:     cfg.UpdateInterval,
		minRSSI:            cfg.MinRSSI,
		ignored:            make(stringSet),
		lastRSSI:           make(map[string]int),
		groupsByAddress:    make(map[string]stringSet),
		uniqueIDsByAddress: make(map[string]stringSet),
		uniqueIDsByGroup:   make(map[string]stringSet),
		addressesByGroup:   make(map[string]stringSet),
		watches:            make(map[string]*watch),
		randomGroups:       make(stringSet),
		lastSeenByGroup:    make(map[string]Observation),
		unavailableGroups:  make(stringSet),
	}
	for _, address := range cfg.IgnoreAddresses {
		t.ignored[address] = struct{}{}
	}
	return t, nil
}

// OnEvent registers a handler for tracker events.
func (t *Tracker) OnEvent(fn func(Event)) {
	t.handlersMu.Lock()
	defer t.handlersMu.Unlock()
	t.handlers = append(t.handlers, fn)
}

func (t *Tracker) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	t.handlersMu.RLock()
	handlers := slices.Clone(t.handlers)
	t.handlersMu.RUnlock()

	for _, ev := range events {
		for _, h := range handlers {
			h(ev)
		}
	}
}

// locked runs fn under the state lock. The deferred unlock keeps the lock
// consistent when fn panics on an invariant violation.
func (t *Tracker) locked(fn func() []Event) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn()
}

// Start restores state from the registry, replays the source's current
// observations and starts the sweeper.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	t.started = true
	t.mu.Unlock()

	ids, err := t.registry.PersistedIdentifiers()
	if err != nil {
		t.mu.Lock()
		t.started = false
		t.mu.Unlock()
		return fmt.Errorf("load persisted identifiers: %w", err)
	}
	if err := t.Restore(ids); err != nil {
		t.mu.Lock()
		t.started = false
		t.mu.Unlock()
		return err
	}

	for _, obs := range t.source.Observations() {
		t.Process(obs)
	}

	ticker := t.clock.NewTicker(t.updateInterval)
	t.mu.Lock()
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})
	stopCh, done := t.stopCh, t.done
	t.mu.Unlock()

	go t.runSweeper(ctx, ticker, stopCh, done)
	return nil
}

// Stop cancels every unavailability watch and stops the sweeper. Later
// observations are dropped so that no watch outlives Stop.
func (t *Tracker) Stop() {
	t.mu.Lock()
	t.stopped = true
	for address, w := range t.watches {
		w.cancel()
		delete(t.watches, address)
	}
	stopCh, done := t.stopCh, t.done
	t.stopCh = nil
	t.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done
}

// SetMinRSSI updates the signal threshold. Zero selects DefaultMinRSSI.
func (t *Tracker) SetMinRSSI(rssi int) {
	if rssi == 0 {
		rssi = DefaultMinRSSI
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.minRSSI = rssi
}

// Restore seeds the tracking maps from persisted identifiers without
// emitting events. It must run once before the first observation.
//
// Identifiers of the form "uuid_major_minor" are random-MAC groups and
// "uuid_major_minor_address" are fixed-MAC devices. A group persisted in both
// forms is restored as random.
func (t *Tracker) Restore(ids []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.restored {
		return ErrAlreadyRestored
	}
	t.restored = true

	var fixed [][]string
	for _, id := range ids {
		parts := strings.Split(id, "_")
		switch len(parts) {
		case 3:
			t.randomGroups[id] = struct{}{}
		case 4:
			fixed = append(fixed, parts)
		default:
			t.debugLog("skipping unrecognised identifier", "id", id)
		}
	}

	restored := 0
	for _, parts := range fixed {
		groupID := strings.Join(parts[:3], "_")
		address := parts[3]
		if t.randomGroups.has(groupID) || t.ignored.has(address) {
			continue
		}
		t.trackUniqueAddress(address, groupID, UniqueID(groupID, address))
		restored++
	}

	t.debugLog("restored tracker state",
		"fixed", restored,
		"random_groups", len(t.randomGroups))
	return nil
}

// Process classifies one observation and emits the resulting events before
// returning.
func (t *Tracker) Process(obs Observation) {
	t.dispatch(t.locked(func() []Event { return t.process(obs) }))
}

func (t *Tracker) process(obs Observation) []Event {
	if !t.restored {
		t.warnLog("observation before restore dropped", "address", obs.Address)
		return nil
	}
	if t.stopped {
		return nil
	}
	if t.ignored.has(obs.Address) {
		return nil
	}
	if obs.RSSI < t.minRSSI {
		return nil
	}
	adv, ok := t.parser.Parse(obs)
	if !ok {
		return nil
	}
	groupID := GroupID(adv)

	if t.randomGroups.has(groupID) {
		return t.updateWithRandomMAC(groupID, obs, adv)
	}
	return t.updateWithUniqueAddress(groupID, obs, adv)
}

func (t *Tracker) updateWithRandomMAC(groupID string, obs Observation, adv ibeacon.Advertisement) []Event {
	_, seen := t.lastSeenByGroup[groupID]
	t.lastSeenByGroup[groupID] = obs
	delete(t.unavailableGroups, groupID)
	return []Event{updateEvent(groupID, obs, adv, !seen, false)}
}

// updateWithUniqueAddress handles an iBeacon with a fixed MAC address and
// detects whether the address is garbage or the group is rotating its MAC.
func (t *Tracker) updateWithUniqueAddress(groupID string, obs Observation, adv ibeacon.Advertisement) []Event {
	address := obs.Address
	uniqueID := UniqueID(groupID, address)
	_, seen := t.lastRSSI[uniqueID]
	t.lastRSSI[uniqueID] = obs.RSSI
	t.trackUniqueAddress(address, groupID, uniqueID)
	if _, ok := t.watches[address]; !ok {
		t.startWatch(address)
	}

	// Some manufacturers violate the iBeacon format and flood us with random data
	// (sometimes temperature readings) in major/minor.
	if len(t.groupsByAddress[address]) >= MaxIDs {
		t.ignoreAddress(address)
		return nil
	}

	// The same group from this many addresses means the MAC is rotating.
	if len(t.addressesByGroup[groupID]) >= MaxIDs {
		return t.convertToRandomMAC(groupID, obs, adv)
	}

	return []Event{updateEvent(uniqueID, obs, adv, !seen, true)}
}

func updateEvent(id string, obs Observation, adv ibeacon.Advertisement, isNew, uniqueAddress bool) Event {
	if isNew {
		return Event{
			Kind:          EventNew,
			ID:            id,
			Name:          DisplayName(obs.Address, obs.Name, adv, uniqueAddress),
			Advertisement: adv,
		}
	}
	return Event{Kind: EventSeen, ID: id, Advertisement: adv}
}

func (t *Tracker) trackUniqueAddress(address, groupID, uniqueID string) {
	addTo(t.uniqueIDsByAddress, address, uniqueID)
	addTo(t.groupsByAddress, address, groupID)
	addTo(t.uniqueIDsByGroup, groupID, uniqueID)
	addTo(t.addressesByGroup, groupID, address)
}

func (t *Tracker) startWatch(address string) {
	w := &watch{address: address}
	w.cancel = t.source.TrackUnavailable(address, func(string) {
		t.watchExpired(w)
	})
	t.watches[address] = w
}

// watchExpired handles a callback from the source. Callbacks from watches
// that were replaced or cancelled while the callback was in flight are
// dropped.
func (t *Tracker) watchExpired(w *watch) {
	t.dispatch(t.locked(func() []Event {
		if t.watches[w.address] != w {
			return nil
		}
		return t.handleUnavailable(w.address)
	}))
}

// HandleUnavailable cancels the watch of address and announces each of its
// unique ids as unavailable. The address must be watched.
func (t *Tracker) HandleUnavailable(address string) {
	t.dispatch(t.locked(func() []Event { return t.handleUnavailable(address) }))
}

func (t *Tracker) handleUnavailable(address string) []Event {
	t.cancelWatch(address)
	uniqueIDs, ok := t.uniqueIDsByAddress[address]
	if !ok {
		panic(fmt.Sprintf("tracker: watched address %s has no unique ids", address))
	}
	events := make([]Event, 0, len(uniqueIDs))
	for _, id := range uniqueIDs.sorted() {
		events = append(events, Event{Kind: EventUnavailable, ID: id})
	}
	return events
}

func (t *Tracker) cancelWatch(address string) {
	w, ok := t.watches[address]
	if !ok {
		panic(fmt.Sprintf("tracker: no unavailability watch for %s", address))
	}
	delete(t.watches, address)
	w.cancel()
}

// ignoreAddress drops an address that does not follow the iBeacon format together with
// every entity created from it.
func (t *Tracker) ignoreAddress(address string) {
	t.ignored[address] = struct{}{}
	t.cancelWatch(address)
	t.persistIgnoreList()

	uniqueIDs, ok := t.uniqueIDsByAddress[address]
	if !ok {
		panic(fmt.Sprintf("tracker: ignored address %s has no unique ids", address))
	}
	t.purgeUntrackable(uniqueIDs)

	for groupID := range t.groupsByAddress[address] {
		removeFrom(t.uniqueIDsByGroup, groupID, UniqueID(groupID, address))
		removeFrom(t.addressesByGroup, groupID, address)
	}
	delete(t.groupsByAddress, address)
	delete(t.uniqueIDsByAddress, address)

	t.infoLog("ignoring address that does not follow the iBeacon format",
		"address", address,
		"purged", len(uniqueIDs))
}

// convertToRandomMAC switches a group that rotates its MAC address to
// group-id tracking and replays the current observation on the random path.
func (t *Tracker) convertToRandomMAC(groupID string, obs Observation, adv ibeacon.Advertisement) []Event {
	t.randomGroups[groupID] = struct{}{}

	uniqueIDs, ok := t.uniqueIDsByGroup[groupID]
	if !ok {
		panic(fmt.Sprintf("tracker: converted group %s has no unique ids", groupID))
	}
	t.purgeUntrackable(uniqueIDs)

	for address := range t.addressesByGroup[groupID] {
		removeFrom(t.uniqueIDsByAddress, address, UniqueID(groupID, address))
		removeFrom(t.groupsByAddress, address, groupID)
		if _, tracked := t.uniqueIDsByAddress[address]; !tracked {
			// Restored addresses never had a watch.
			if w, watched := t.watches[address]; watched {
				delete(t.watches, address)
				w.cancel()
			}
		}
	}
	delete(t.uniqueIDsByGroup, groupID)
	delete(t.addressesByGroup, groupID)

	t.infoLog("group is rotating its MAC address, tracking by group id",
		"group_id", groupID,
		"purged", len(uniqueIDs))

	return t.updateWithRandomMAC(groupID, obs, adv)
}

// purgeUntrackable removes entities that can no longer be tracked.
func (t *Tracker) purgeUntrackable(uniqueIDs stringSet) {
	ids := uniqueIDs.sorted()
	for _, id := range ids {
		delete(t.lastRSSI, id)
	}
	if err := t.registry.Purge(ids); err != nil {
		t.warnLog("purge registry records failed", "ids", ids, "error", err)
	}
}

func (t *Tracker) persistIgnoreList() {
	if err := t.registry.PersistIgnoreList(t.ignored.sorted()); err != nil {
		t.warnLog("persist ignore list failed", "error", err)
	}
}

// Snapshot is a point-in-time copy of the tracking state.
type Snapshot struct {
	MinRSSI int

	// Ignored lists ignored addresses.
	Ignored []string

	// UniqueIDs lists the fixed-MAC identities.
	UniqueIDs []string

	// AddressesByGroup maps fixed-MAC groups to their addresses.
	AddressesByGroup map[string][]string

	// Watched lists addresses with an active unavailability watch.
	Watched []string

	RandomGroups      []string
	UnavailableGroups []string
}

// Snapshot returns a copy of the current tracking state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	var uniqueIDs []string
	for _, ids := range t.uniqueIDsByAddress {
		uniqueIDs = append(uniqueIDs, ids.sorted()...)
	}
	slices.Sort(uniqueIDs)

	byGroup := make(map[string][]string, len(t.addressesByGroup))
	for groupID, addresses := range t.addressesByGroup {
		byGroup[groupID] = addresses.sorted()
	}

	return Snapshot{
		MinRSSI:           t.minRSSI,
		Ignored:           t.ignored.sorted(),
		UniqueIDs:         uniqueIDs,
		AddressesByGroup:  byGroup,
		Watched:           slices.Sorted(maps.Keys(t.watches)),
		RandomGroups:      t.randomGroups.sorted(),
		UnavailableGroups: t.unavailableGroups.sorted(),
	}
}

func (t *Tracker) debugLog(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Debug(msg, args...)
	}
}

func (t *Tracker) infoLog(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Info(msg, args...)
	}
}

func (t *Tracker) warnLog(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}
