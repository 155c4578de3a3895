// Package sqlitestore keeps the device registry in a SQLite database.
package sqlitestore

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/persistence"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

const schema = `
	CREATE TABLE IF NOT EXISTS devices (
		unique_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS ignored_addresses (
		address TEXT PRIMARY KEY
	);
`

// Store is a registry backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers; a single connection also keeps ":memory:"
	// databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PersistedIdentifiers returns the ids of all persisted devices.
func (s *Store) PersistedIdentifiers() ([]string, error) {
	rows, err := s.db.Query("SELECT unique_id FROM devices ORDER BY unique_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Purge removes the devices with the given ids.
func (s *Store) Purge(ids []string) error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, id := range ids {
			if _, err := tx.Exec("DELETE FROM devices WHERE unique_id = ?", id); err != nil {
				return err
			}
		}
		return nil
	})
}

// PersistIgnoreList replaces the persisted ignore list.
func (s *Store) PersistIgnoreList(addresses []string) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM ignored_addresses"); err != nil {
			return err
		}
		for _, address := range addresses {
			if _, err := tx.Exec("INSERT OR IGNORE INTO ignored_addresses (address) VALUES (?)", address); err != nil {
				return err
			}
		}
		return nil
	})
}

// Upsert creates or updates a device record. CreatedAt is kept from the
// existing row.
func (s *Store) Upsert(rec persistence.DeviceRecord) error {
	now := s.now().UTC()
	created := rec.CreatedAt
	if created.IsZero() {
		created = now
	}
	_, err := s.db.Exec(`
		INSERT INTO devices (unique_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(unique_id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at`,
		rec.UniqueID, rec.Name, formatTime(created), formatTime(now))
	return err
}

// Devices returns all device records sorted by id.
func (s *Store) Devices() ([]persistence.DeviceRecord, error) {
	rows, err := s.db.Query("SELECT unique_id, name, created_at, updated_at FROM devices ORDER BY unique_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []persistence.DeviceRecord
	for rows.Next() {
		var rec persistence.DeviceRecord
		var created, updated string
		if err := rows.Scan(&rec.UniqueID, &rec.Name, &created, &updated); err != nil {
			return nil, err
		}
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if rec.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		devices = append(devices, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}

// IgnoredAddresses returns the persisted ignore list.
func (s *Store) IgnoredAddresses() ([]string, error) {
	rows, err := s.db.Query("SELECT address FROM ignored_addresses ORDER BY address")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []string
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return addresses, nil
}

// Clear removes all devices and ignored addresses.
func (s *Store) Clear() error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM devices"); err != nil {
			return err
		}
		_, err := tx.Exec("DELETE FROM ignored_addresses")
		return err
	})
}

func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

var _ tracker.Registry = (*Store)(nil)
