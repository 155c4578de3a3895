package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(Flags{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
min_rssi: -70
unavailable_timeout: 5m
registry:
  driver: json
  path: /tmp/file.json
log_level: warn
`), 0644))

	cfg, err := loadConfig(Flags{
		ConfigFile: path,
		Registry:   "/tmp/flag.db",
		Driver:     config.DriverSQLite,
		MinRSSI:    -90,
	})
	require.NoError(t, err)

	assert.Equal(t, -90, cfg.MinRSSI)
	assert.Equal(t, 5*time.Minute, cfg.UnavailableTimeout)
	assert.Equal(t, config.DriverSQLite, cfg.Registry.Driver)
	assert.Equal(t, "/tmp/flag.db", cfg.Registry.Path)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigRejectsInvalidFlags(t *testing.T) {
	_, err := loadConfig(Flags{Driver: "csv"})
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = loadConfig(Flags{LogLevel: "loud"})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(Flags{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	var loadErr *config.LoadError
	assert.ErrorAs(t, err, &loadErr)
}
