package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/clock"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/config"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/entity"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/log"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

var beaconUUID = uuid.MustParse("426c7565-4368-6172-6d42-6561636f6e73")

type captureLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (c *captureLogger) Log(ev log.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *captureLogger) kinds() []tracker.EventKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]tracker.EventKind, len(c.events))
	for i, ev := range c.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func testConfig(t *testing.T, driver string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Registry.Driver = driver
	cfg.Registry.Path = filepath.Join(t.TempDir(), "registry."+driver)
	return cfg
}

func startApp(t *testing.T, cfg config.Config, clk clock.Clock) (*App, *captureLogger) {
	t.Helper()
	events := &captureLogger{}
	a, err := New(cfg, Options{Clock: clk, EventLogger: events})
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))
	return a, events
}

func shutdown(t *testing.T, a *App) {
	t.Helper()
	require.NoError(t, a.Stop())
	require.NoError(t, a.Close())
}

func beacon(address string, rssi int, major, minor uint16) tracker.Observation {
	return tracker.Observation{
		Address:          address,
		RSSI:             rssi,
		ManufacturerData: ibeacon.Encode(beaconUUID, major, minor, -59),
	}
}

func TestAppEndToEnd(t *testing.T) {
	for _, driver := range []string{config.DriverJSON, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			clk := clock.NewMock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
			a, events := startApp(t, cfg, clk)

			a.Scanner.Ingest(beacon("AA:BB:CC:DD:EE:01", -60, 1, 2))
			a.Scanner.Ingest(beacon("AA:BB:CC:DD:EE:01", -61, 1, 2))

			id := tracker.UniqueID(tracker.GroupID(ibeacon.Advertisement{UUID: beaconUUID, Major: 1, Minor: 2}), "AA:BB:CC:DD:EE:01")
			ent, ok := a.Entities.Entity(id)
			require.True(t, ok)
			assert.Equal(t, entity.StateHome, ent.State())
			assert.Equal(t, []tracker.EventKind{tracker.EventNew, tracker.EventSeen}, events.kinds())

			devices, err := a.Registry.Devices()
			require.NoError(t, err)
			require.Len(t, devices, 1)
			assert.Equal(t, id, devices[0].UniqueID)

			// The address goes silent past the timeout.
			clk.Set(clk.Now().Add(cfg.UnavailableTimeout + time.Second))
			a.Scanner.CheckUnavailable()

			ent, _ = a.Entities.Entity(id)
			assert.Equal(t, entity.StateNotHome, ent.State())
			assert.Equal(t, tracker.EventUnavailable, events.kinds()[2])

			shutdown(t, a)

			// A restarted app restores the device from the registry.
			b, _ := startApp(t, cfg, clk)
			defer shutdown(t, b)
			assert.Equal(t, []string{id}, b.Tracker.Snapshot().UniqueIDs)
		})
	}
}

func TestAppIgnoreListSurvivesRestart(t *testing.T) {
	cfg := testConfig(t, config.DriverJSON)
	clk := clock.NewMock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	a, _ := startApp(t, cfg, clk)

	const garbage = "AA:BB:CC:DD:EE:FF"
	for minor := range uint16(tracker.MaxIDs) {
		a.Scanner.Ingest(beacon(garbage, -60, 1, minor))
	}
	assert.Equal(t, []string{garbage}, a.Tracker.Snapshot().Ignored)
	shutdown(t, a)

	b, _ := startApp(t, cfg, clk)
	defer shutdown(t, b)
	assert.Equal(t, []string{garbage}, b.Tracker.Snapshot().Ignored)
	assert.Empty(t, b.Tracker.Snapshot().UniqueIDs)
}

func TestAppConfiguredIgnoreAddresses(t *testing.T) {
	cfg := testConfig(t, config.DriverJSON)
	cfg.IgnoreAddresses = []string{"AA:BB:CC:DD:EE:01"}
	a, events := startApp(t, cfg, clock.NewMock(time.Now()))
	defer shutdown(t, a)

	a.Scanner.Ingest(beacon("AA:BB:CC:DD:EE:01", -60, 1, 2))
	assert.Empty(t, events.kinds())
	assert.Empty(t, a.Entities.Entities())
}

func TestAppEventLogFile(t *testing.T) {
	cfg := testConfig(t, config.DriverJSON)
	cfg.EventLog = filepath.Join(t.TempDir(), "logs", "events.cbor")
	a, _ := startApp(t, cfg, clock.NewMock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)))

	a.Scanner.Ingest(beacon("AA:BB:CC:DD:EE:01", -60, 1, 2))
	shutdown(t, a)

	reader, err := log.NewReader(cfg.EventLog)
	require.NoError(t, err)
	defer reader.Close()

	ev, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, tracker.EventNew, ev.Kind)
	assert.Equal(t, log.RegimeFixed, ev.Regime)
}

func TestAppStopBeforeStart(t *testing.T) {
	a, err := New(testConfig(t, config.DriverJSON), Options{})
	require.NoError(t, err)
	defer a.Close()
	assert.ErrorIs(t, a.Stop(), ErrNotStarted)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, config.DriverJSON)
	cfg.Registry.Driver = "csv"
	_, err := New(cfg, Options{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestAppRotatingGroupDropsFixedEntities(t *testing.T) {
	cfg := testConfig(t, config.DriverJSON)
	clk := clock.NewMock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	a, _ := startApp(t, cfg, clk)
	defer shutdown(t, a)

	for i := range tracker.MaxIDs {
		a.Scanner.Ingest(beacon(fmt.Sprintf("AA:BB:CC:DD:EE:%02X", i), -60, 1, 1))
	}

	groupID := tracker.GroupID(ibeacon.Advertisement{UUID: beaconUUID, Major: 1, Minor: 1})
	entities := a.Entities.Entities()
	require.Len(t, entities, 1)
	assert.Equal(t, groupID, entities[0].UniqueID)

	devices, err := a.Registry.Devices()
	require.NoError(t, err)
	for _, d := range devices {
		assert.Equal(t, groupID, d.UniqueID)
	}

	clk.Set(clk.Now().Add(time.Hour))
	a.Scanner.CheckUnavailable()
	a.Tracker.Sweep()

	entities = a.Entities.Entities()
	require.Len(t, entities, 1)
	assert.Equal(t, entity.StateNotHome, entities[0].State())
}

func TestAppIgnoredAddressDropsEntities(t *testing.T) {
	cfg := testConfig(t, config.DriverJSON)
	clk := clock.NewMock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	a, _ := startApp(t, cfg, clk)
	defer shutdown(t, a)

	const garbage = "AA:BB:CC:DD:EE:FF"
	for minor := range uint16(tracker.MaxIDs) {
		a.Scanner.Ingest(beacon(garbage, -60, 1, minor))
	}

	assert.Empty(t, a.Entities.Entities())
	devices, err := a.Registry.Devices()
	require.NoError(t, err)
	assert.Empty(t, devices)

	clk.Set(clk.Now().Add(time.Hour))
	a.Scanner.CheckUnavailable()
	a.Tracker.Sweep()
	assert.Empty(t, a.Entities.Entities())
}
