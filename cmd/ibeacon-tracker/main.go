// Command ibeacon-tracker tracks iBeacon identities seen by a local
// Bluetooth adapter.
//
// The tracker restores known identities from the registry, scans for iBeacon
// advertisements and keeps one presence entity per identity. Beacons that
// rotate their MAC address are tracked by their group id, addresses that
// announce too many groups are ignored.
//
// Usage:
//
//	ibeacon-tracker [flags]
//
// Flags:
//
//	-config string      Configuration file path
//	-registry string    Registry path (overrides the configuration file)
//	-driver string      Registry driver: json, sqlite
//	-event-log string   CBOR event log path
//	-log-level string   Log level: debug, info, warn, error
//	-min-rssi int       Minimum RSSI in dBm
//
// Examples:
//
//	# Track with the defaults and a JSON registry in the working directory
//	sudo ibeacon-tracker
//
//	# Track with a SQLite registry and an event log
//	sudo ibeacon-tracker -driver sqlite -registry /var/lib/ibeacon/registry.db -event-log /var/log/ibeacon/events.cbor
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ibeacon-tracker/ibeacon-go/internal/app"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/config"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/entity"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/scan"
)

// Flags holds the command line overrides.
type Flags struct {
	ConfigFile string
	Registry   string
	Driver     string
	EventLog   string
	LogLevel   string
	MinRSSI    int
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.Registry, "registry", "", "Registry path (overrides the configuration file)")
	flag.StringVar(&flags.Driver, "driver", "", "Registry driver: json, sqlite")
	flag.StringVar(&flags.EventLog, "event-log", "", "CBOR event log path")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.IntVar(&flags.MinRSSI, "min-rssi", 0, "Minimum RSSI in dBm")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(flags)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	a, err := app.New(cfg, app.Options{Logger: logger})
	if err != nil {
		log.Fatalf("Failed to create tracker: %v", err)
	}
	defer a.Close()

	a.Entities.OnChange(func(e entity.Entity) {
		logger.Info("entity changed", "unique_id", e.UniqueID, "name", e.Name, "state", e.State())
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx); err != nil {
		log.Fatalf("Failed to start tracker: %v", err)
	}

	adapter, err := openRadio()
	if err != nil {
		log.Fatalf("Failed to open Bluetooth adapter: %v", err)
	}

	scanErr := make(chan error, 1)
	go func() {
		scanErr <- adapter.Scan(ctx, a.Scanner)
	}()
	log.Println("Scanning for iBeacon advertisements")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	scanDone := false
	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case err := <-scanErr:
		log.Printf("Scan stopped: %v", err)
		scanDone = true
	}
	log.Println("Shutting down...")

	cancel()
	// No observation may reach the tracker once it is stopped.
	if !scanDone {
		<-scanErr
	}
	if err := a.Stop(); err != nil {
		log.Printf("Error stopping tracker: %v", err)
	}
	if err := adapter.Close(); err != nil {
		log.Printf("Error closing Bluetooth adapter: %v", err)
	}

	log.Println("Goodbye!")
}

// loadConfig reads the configuration file, if any, and applies the flags.
func loadConfig(f Flags) (config.Config, error) {
	cfg := config.Default()
	if f.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(f.ConfigFile); err != nil {
			return config.Config{}, err
		}
	}

	if f.Registry != "" {
		cfg.Registry.Path = f.Registry
	}
	if f.Driver != "" {
		cfg.Registry.Driver = f.Driver
	}
	if f.EventLog != "" {
		cfg.EventLog = f.EventLog
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.MinRSSI != 0 {
		cfg.MinRSSI = f.MinRSSI
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// radio feeds advertisements from a Bluetooth adapter into a scanner.
type radio interface {
	// Scan blocks until ctx is done or the adapter fails.
	Scan(ctx context.Context, sc *scan.Scanner) error
	Close() error
}
