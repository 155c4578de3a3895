package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/scan"
	"github.com/ibeacon-tracker/ibeacon-go/pkg/tracker"
)

// Registry drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the tracker configuration.
type Config struct {
	// MinRSSI drops weaker observations.
	MinRSSI int `yaml:"min_rssi"`

	// UnavailableTimeout is how long an identity may be silent.
	UnavailableTimeout time.Duration `yaml:"unavailable_timeout"`

	// UpdateInterval is the sweep period of the tracker.
	UpdateInterval time.Duration `yaml:"update_interval"`

	// WatchCheckInterval is the period of the scanner's watch checks.
	WatchCheckInterval time.Duration `yaml:"watch_check_interval"`

	// IgnoreAddresses are dropped in addition to the persisted ignore list.
	IgnoreAddresses []string `yaml:"ignore_addresses,omitempty"`

	Registry RegistryConfig `yaml:"registry"`

	// EventLog is the path of the CBOR event log. Empty disables it.
	EventLog string `yaml:"event_log,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// RegistryConfig selects the device registry.
type RegistryConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		MinRSSI:            tracker.DefaultMinRSSI,
		UnavailableTimeout: tracker.DefaultUnavailableTimeout,
		UpdateInterval:     tracker.DefaultUpdateInterval,
		WatchCheckInterval: scan.DefaultCheckInterval,
		Registry: RegistryConfig{
			Driver: DriverJSON,
			Path:   "ibeacon-registry.json",
		},
		LogLevel: "info",
	}
}

// LoadError reports a configuration file that could not be used.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return e.File + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.File + ": " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Parse overlays YAML data on the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "invalid configuration", Cause: err}
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MinRSSI >= 0 {
		return fmt.Errorf("%w: min_rssi must be negative, got %d", ErrInvalid, c.MinRSSI)
	}
	for name, d := range map[string]time.Duration{
		"unavailable_timeout":  c.UnavailableTimeout,
		"update_interval":      c.UpdateInterval,
		"watch_check_interval": c.WatchCheckInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, name, d)
		}
	}
	switch c.Registry.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown registry driver %q", ErrInvalid, c.Registry.Driver)
	}
	if c.Registry.Path == "" {
		return fmt.Errorf("%w: registry path is required", ErrInvalid)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level of LogLevel. Invalid levels map to info.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel parses a log level name (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: unknown log level %q", ErrInvalid, s)
	}
}

// TrackerConfig returns the tracker settings.
func (c *Config) TrackerConfig() tracker.Config {
	return tracker.Config{
		MinRSSI:            c.MinRSSI,
		IgnoreAddresses:    c.IgnoreAddresses,
		UnavailableTimeout: c.UnavailableTimeout,
		UpdateInterval:     c.UpdateInterval,
	}
}

// ScanConfig returns the scanner settings.
func (c *Config) ScanConfig() scan.Config {
	return scan.Config{
		UnavailableTimeout: c.UnavailableTimeout,
		CheckInterval:      c.WatchCheckInterval,
	}
}
