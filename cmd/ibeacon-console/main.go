// Command ibeacon-console is an interactive shell around the iBeacon tracker.
//
// The console wires the same registry, scanner, tracker and entity manager
// as ibeacon-tracker but has no radio. Advertisements are injected with the
// adv command and the clock only advances with tick, which makes it useful
// for replaying rotation and liveness scenarios by hand.
//
// Usage:
//
//	ibeacon-console [flags]
//
// Flags:
//
//	-config string      Configuration file path
//	-registry string    Registry path (default: a temporary JSON file)
//	-driver string      Registry driver: json, sqlite
//	-event-log string   CBOR event log path
//	-log-level string   Log level: debug, info, warn, error (default "warn")
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ibeacon-tracker/ibeacon-go/cmd/ibeacon-console/interactive"
	"github.com/ibeacon-tracker/ibeacon-go/internal/app"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/clock"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/config"
)

var (
	configFile = flag.String("config", "", "Configuration file path")
	registry   = flag.String("registry", "", "Registry path (default: a temporary JSON file)")
	driver     = flag.String("driver", "", "Registry driver: json, sqlite")
	eventLog   = flag.String("event-log", "", "CBOR event log path")
	logLevel   = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}
	if *registry != "" {
		cfg.Registry.Path = *registry
	} else if *configFile == "" {
		dir, err := os.MkdirTemp("", "ibeacon-console-")
		if err != nil {
			log.Fatalf("Failed to create registry directory: %v", err)
		}
		defer os.RemoveAll(dir)
		cfg.Registry.Path = filepath.Join(dir, "registry.json")
	}
	if *driver != "" {
		cfg.Registry.Driver = *driver
	}
	if *eventLog != "" {
		cfg.EventLog = *eventLog
	}
	cfg.LogLevel = *logLevel

	clk := clock.NewMock(time.Now())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	a, err := app.New(cfg, app.Options{Clock: clk, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to create tracker: %v", err)
	}
	defer a.Close()

	console := interactive.New(a, clk, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx); err != nil {
		log.Fatalf("Failed to start tracker: %v", err)
	}
	defer a.Stop()

	if err := console.Run(ctx, cancel); err != nil {
		log.Printf("Console error: %v", err)
	}
}
