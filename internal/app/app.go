package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/clock"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/config"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/entity"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/log"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/scan"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// ErrNotStarted is returned by Stop before Start.
var ErrNotStarted = errors.New("app not started")

// Options carry the runtime dependencies that are not part of the
// configuration file.
type Options struct {
	// Clock defaults to clock.Real.
	Clock clock.Clock

	// Logger is the optional logger for operational output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// EventLogger receives every tracker event. When Config.EventLog is set
	// a FileLogger is added next to it.
	EventLogger log.Logger
}

// App is a wired tracker.
type App struct {
	Config   config.Config
	Registry Registry
	Scanner  *scan.Scanner
	Tracker  *tracker.Tracker
	Entities *entity.Manager

	clock  clock.Clock
	logger *slog.Logger

	closers []func() error

	mu      sync.Mutex
	cancel  context.CancelFunc
	scanned chan struct{}
}

// New opens the registry and event log of cfg and wires the components.
// Nothing runs until Start.
func New(cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}

	a := &App{Config: cfg, clock: opts.Clock, logger: opts.Logger}

	registry, closeRegistry, err := OpenRegistry(cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	a.Registry = registry
	a.closers = append(a.closers, closeRegistry)

	persisted, err := registry.IgnoredAddresses()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load ignore list: %w", err)
	}

	loggers := []log.Logger{opts.EventLogger}
	if cfg.EventLog != "" {
		fileLogger, err := log.NewFileLogger(cfg.EventLog)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open event log: %w", err)
		}
		loggers = append(loggers, fileLogger)
		a.closers = append(a.closers, fileLogger.Close)
	}

	scanCfg := cfg.ScanConfig()
	scanCfg.Clock = opts.Clock
	scanCfg.Logger = opts.Logger
	a.Scanner = scan.New(scanCfg)

	a.Entities = entity.NewManager(entity.Config{
		Store:  registry,
		Clock:  opts.Clock,
		Logger: opts.Logger,
	})

	trackerCfg := cfg.TrackerConfig()
	trackerCfg.IgnoreAddresses = slices.Concat(cfg.IgnoreAddresses, persisted)
	trackerCfg.Clock = opts.Clock
	trackerCfg.Logger = opts.Logger
	a.Tracker, err = tracker.New(trackerCfg, a.Scanner, purgingRegistry{Registry: registry, entities: a.Entities}, nil)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Tracker.OnEvent(a.Entities.HandleEvent)
	a.Tracker.OnEvent(log.Recorder(log.NewMultiLogger(loggers...), opts.Clock.Now))
	a.Scanner.OnObservation(a.Tracker.Process)

	return a, nil
}

// Start restores the tracker from the registry and starts the sweeper and
// the scanner's watch checks.
func (a *App) Start(ctx context.Context) error {
	if err := a.Tracker.Start(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	scanned := make(chan struct{})
	a.mu.Lock()
	a.cancel = cancel
	a.scanned = scanned
	a.mu.Unlock()

	go func() {
		defer close(scanned)
		a.Scanner.Run(runCtx)
	}()

	a.infoLog("tracker started",
		"registry", a.Config.Registry.Path,
		"driver", a.Config.Registry.Driver,
		"min_rssi", a.Config.MinRSSI)
	return nil
}

// Stop stops the tracker and the scanner's watch checks.
func (a *App) Stop() error {
	a.mu.Lock()
	cancel, scanned := a.cancel, a.scanned
	a.cancel = nil
	a.mu.Unlock()

	if cancel == nil {
		return ErrNotStarted
	}

	a.Tracker.Stop()
	cancel()
	<-scanned

	a.infoLog("tracker stopped")
	return nil
}

// Close releases the registry and the event log.
func (a *App) Close() error {
	var errs []error
	for _, c := range slices.Backward(a.closers) {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) infoLog(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
	}
}
