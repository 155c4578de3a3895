package app

import (
	"fmt"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/config"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/entity"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/persistence"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/persistence/sqlitestore"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// Registry is the device registry as used by the application.
type Registry interface {
	tracker.Registry
	entity.DeviceStore

	Devices() ([]persistence.DeviceRecord, error)
	IgnoredAddresses() ([]string, error)
}

// OpenRegistry opens the registry selected by cfg. The returned close
// function is never nil.
func OpenRegistry(cfg config.RegistryConfig) (Registry, func() error, error) {
	switch cfg.Driver {
	case config.DriverJSON, "":
		return persistence.NewStore(cfg.Path), func() error { return nil }, nil
	case config.DriverSQLite:
		store, err := sqlitestore.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown registry driver %q", config.ErrInvalid, cfg.Driver)
	}
}

// purgingRegistry removes the entities of purged identities along with
// their records.
type purgingRegistry struct {
	Registry
	entities *entity.Manager
}

func (r purgingRegistry) Purge(ids []string) error {
	err := r.Registry.Purge(ids)
	r.entities.Remove(ids)
	return err
}

var (
	_ Registry = purgingRegistry{}
	_ Registry = (*persistence.Store)(nil)
	_ Registry = (*sqlitestore.Store)(nil)
)
