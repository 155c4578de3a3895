package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// RegistryState is the persisted registry: the devices created by the
// tracker and the addresses it decided to ignore.
type RegistryState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Devices contains one record per tracked identity.
	Devices []DeviceRecord `json:"devices,omitempty"`

	// IgnoreAddresses lists addresses that produce too many group ids.
	IgnoreAddresses []string `json:"ignore_addresses,omitempty"`
}

// DeviceRecord is a persisted identity.
type DeviceRecord struct {
	// UniqueID is the fixed-MAC unique id or the random-MAC group id.
	UniqueID string `json:"unique_id"`

	// Name is the display name assigned when the identity was first seen.
	Name string `json:"name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store manages persistence of the registry to a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore creates a new registry store.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Save persists the registry state to disk.
func (s *Store) Save(state *RegistryState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(state)
}

func (s *Store) save(state *RegistryState) error {
	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	state.SavedAt = s.now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the registry state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *Store) Load() (*RegistryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*RegistryState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &RegistryState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}

	return state, nil
}

// update loads the state, applies fn and saves the result.
func (s *Store) update(fn func(state *RegistryState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if state == nil {
		state = &RegistryState{}
	}
	fn(state)
	return s.save(state)
}

// PersistedIdentifiers returns the ids of all persisted devices.
func (s *Store) PersistedIdentifiers() ([]string, error) {
	devices, err := s.Devices()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(devices))
	for i, d := range devices {
		ids[i] = d.UniqueID
	}
	return ids, nil
}

// Purge removes the devices with the given ids.
func (s *Store) Purge(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.update(func(state *RegistryState) {
		state.Devices = slices.DeleteFunc(state.Devices, func(d DeviceRecord) bool {
			return slices.Contains(ids, d.UniqueID)
		})
	})
}

// PersistIgnoreList replaces the persisted ignore list.
func (s *Store) PersistIgnoreList(addresses []string) error {
	sorted := slices.Clone(addresses)
	slices.Sort(sorted)
	return s.update(func(state *RegistryState) {
		state.IgnoreAddresses = slices.Compact(sorted)
	})
}

// Upsert creates or updates a device record. CreatedAt is kept from the
// existing record.
func (s *Store) Upsert(rec DeviceRecord) error {
	return s.update(func(state *RegistryState) {
		now := s.now()
		rec.UpdatedAt = now
		for i, d := range state.Devices {
			if d.UniqueID == rec.UniqueID {
				rec.CreatedAt = d.CreatedAt
				state.Devices[i] = rec
				return
			}
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		state.Devices = append(state.Devices, rec)
	})
}

// Devices returns all device records sorted by id.
func (s *Store) Devices() ([]DeviceRecord, error) {
	state, err := s.Load()
	if err != nil || state == nil {
		return nil, err
	}
	devices := slices.Clone(state.Devices)
	slices.SortFunc(devices, func(a, b DeviceRecord) int {
		return strings.Compare(a.UniqueID, b.UniqueID)
	})
	return devices, nil
}

// IgnoredAddresses returns the persisted ignore list.
func (s *Store) IgnoredAddresses() ([]string, error) {
	state, err := s.Load()
	if err != nil || state == nil {
		return nil, err
	}
	return state.IgnoreAddresses, nil
}

// Clear removes the state file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

var _ tracker.Registry = (*Store)(nil)
