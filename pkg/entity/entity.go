package entity

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/clock"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/persistence"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// Presence states.
const (
	StateHome    = "home"
	StateNotHome = "not_home"
)

// SourceType is the tracker source type of every entity.
const SourceType = "bluetooth_le"

// DeviceStore records devices so that a restarted tracker can restore them.
type DeviceStore interface {
	Upsert(rec persistence.DeviceRecord) error
}

// Entity is the presence view of one identity.
type Entity struct {
	UniqueID      string
	Name          string
	Advertisement ibeacon.Advertisement
	Active        bool
	LastChanged   time.Time
}

// State returns StateHome while the identity is active.
func (e Entity) State() string {
	if e.Active {
		return StateHome
	}
	return StateNotHome
}

// Icon returns the icon name matching the state.
func (e Entity) Icon() string {
	if e.Active {
		return "mdi:bluetooth-connect"
	}
	return "mdi:bluetooth-off"
}

// Distance estimates the distance in meters from the last advertisement.
func (e Entity) Distance() (float64, bool) {
	return e.Advertisement.Distance()
}

// Attributes returns the state attributes of the entity.
func (e Entity) Attributes() map[string]any {
	adv := e.Advertisement
	attrs := map[string]any{
		"uuid":        adv.UUID.String(),
		"major":       adv.Major,
		"minor":       adv.Minor,
		"power":       adv.Power,
		"rssi":        adv.RSSI,
		"source":      adv.Source,
		"source_type": SourceType,
	}
	if d, ok := e.Distance(); ok {
		attrs["distance"] = d
	}
	return attrs
}

// Config configures a Manager.
type Config struct {
	// Store receives a record for each new identity. Optional.
	Store DeviceStore

	// Clock defaults to clock.Real.
	Clock clock.Clock

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Manager keeps one Entity per identity announced by the tracker.
type Manager struct {
	store  DeviceStore
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.RWMutex
	entities map[string]*Entity

	handlersMu sync.RWMutex
	handlers   []func(Entity)
}

// NewManager creates a Manager.
func NewManager(cfg Config) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	return &Manager{
		store:    cfg.Store,
		clock:    cfg.Clock,
		logger:   cfg.Logger,
		entities: make(map[string]*Entity),
	}
}

// OnChange registers a handler called with the entity after every update.
func (m *Manager) OnChange(fn func(Entity)) {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()
	m.handlers = append(m.handlers, fn)
}

// HandleEvent applies a tracker event. It has the shape expected by
// tracker.Tracker.OnEvent.
func (m *Manager) HandleEvent(ev tracker.Event) {
	var changed Entity
	var ok bool

	switch ev.Kind {
	case tracker.EventNew:
		changed = m.create(ev)
		ok = true
		m.record(changed)
	case tracker.EventSeen:
		changed, ok = m.update(ev.ID, func(e *Entity) {
			e.Active = true
			e.Advertisement = ev.Advertisement
		})
	case tracker.EventUnavailable:
		changed, ok = m.update(ev.ID, func(e *Entity) {
			e.Active = false
		})
	}
	if !ok {
		m.debugLog("event for unknown entity", "kind", ev.Kind.String(), "unique_id", ev.ID)
		return
	}

	m.handlersMu.RLock()
	handlers := slices.Clone(m.handlers)
	m.handlersMu.RUnlock()
	for _, h := range handlers {
		h(changed)
	}
}

func (m *Manager) create(ev tracker.Event) Entity {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.entities[ev.ID]
	if !exists {
		e = &Entity{UniqueID: ev.ID}
		m.entities[ev.ID] = e
	}
	e.Name = ev.Name
	e.Advertisement = ev.Advertisement
	e.Active = true
	e.LastChanged = m.clock.Now()
	return *e
}

func (m *Manager) update(id string, fn func(*Entity)) (Entity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entities[id]
	if !ok {
		return Entity{}, false
	}
	fn(e)
	e.LastChanged = m.clock.Now()
	return *e, true
}

func (m *Manager) record(e Entity) {
	if m.store == nil {
		return
	}
	rec := persistence.DeviceRecord{UniqueID: e.UniqueID, Name: e.Name}
	if err := m.store.Upsert(rec); err != nil {
		m.warnLog("record device failed", "unique_id", e.UniqueID, "error", err)
	}
}

// Remove tears down the entities of ids, typically identities the tracker
// purged after an address was ignored or a group started rotating its MAC.
// Unknown ids are skipped. It returns the number of entities removed.
func (m *Manager) Remove(ids []string) int {
	m.mu.Lock()
	var removed []string
	for _, id := range ids {
		if _, ok := m.entities[id]; ok {
			delete(m.entities, id)
			removed = append(removed, id)
		}
	}
	m.mu.Unlock()

	if len(removed) > 0 {
		m.debugLog("entities removed", "unique_ids", removed)
	}
	return len(removed)
}

// Entity returns the entity with the given unique id.
func (m *Manager) Entity(id string) (Entity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entities[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Entities returns all entities sorted by unique id.
func (m *Manager) Entities() []Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entity, 0, len(m.entities))
	for _, id := range slices.Sorted(maps.Keys(m.entities)) {
		out = append(out, *m.entities[id])
	}
	return out
}

func (m *Manager) debugLog(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func (m *Manager) warnLog(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
