// Package config loads recstore settings from YAML or CUE files.
//
// Values resolve in order: built-in defaults, then the config file, then
// command-line flags (applied by the caller with Merge).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/roach88/recstore/internal/schema"
	"github.com/roach88/recstore/internal/store"
)

// Config holds settings for opening a store and pushing records.
type Config struct {
	// Database is the path to the SQLite file.
	Database string `yaml:"database" json:"database,omitempty"`

	// Driver is "sqlite3" (cgo) or "sqlite" (pure Go).
	Driver string `yaml:"driver" json:"driver,omitempty"`

	// Strategy is the key strategy for tables created by push:
	// "sequential" or "uuid".
	Strategy string `yaml:"strategy" json:"strategy,omitempty"`

	// BusyTimeout is a Go duration string such as "5s".
	BusyTimeout string `yaml:"busy_timeout" json:"busy_timeout,omitempty"`

	// JournalMode is the SQLite journal mode.
	JournalMode string `yaml:"journal_mode" json:"journal_mode,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Driver:      store.DriverCGO,
		Strategy:    schema.Sequential.String(),
		BusyTimeout: store.DefaultBusyTimeout.String(),
		JournalMode: store.DefaultJournalMode,
	}
}

// Load reads a config file and merges it over Default.
// The format is chosen by extension: .yaml/.yml or .cue.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		file, err = parseYAML(data)
	case ".cue":
		file, err = parseCUE(path, data)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q: use .yaml, .yml or .cue", filepath.Ext(path))
	}
	if err != nil {
		return Config{}, err
	}

	cfg := Default().Merge(file)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge returns c with every non-empty field of o applied on top.
func (c Config) Merge(o Config) Config {
	if o.Database != "" {
		c.Database = o.Database
	}
	if o.Driver != "" {
		c.Driver = o.Driver
	}
	if o.Strategy != "" {
		c.Strategy = o.Strategy
	}
	if o.BusyTimeout != "" {
		c.BusyTimeout = o.BusyTimeout
	}
	if o.JournalMode != "" {
		c.JournalMode = o.JournalMode
	}
	return c
}

// Validate checks every set field. Database may be empty; commands that need
// it report that themselves.
func (c Config) Validate() error {
	if c.Driver != "" && !slices.Contains(store.ValidDrivers, c.Driver) {
		return fmt.Errorf("invalid driver %q: must be one of %v", c.Driver, store.ValidDrivers)
	}
	if c.Strategy != "" {
		if _, err := schema.ParseStrategy(c.Strategy); err != nil {
			return err
		}
	}
	if c.BusyTimeout != "" {
		d, err := time.ParseDuration(c.BusyTimeout)
		if err != nil {
			return fmt.Errorf("invalid busy_timeout %q: %w", c.BusyTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("invalid busy_timeout %q: must be positive", c.BusyTimeout)
		}
	}
	if c.JournalMode != "" && !slices.Contains(store.ValidJournalModes, strings.ToLower(c.JournalMode)) {
		return fmt.Errorf("invalid journal_mode %q: must be one of %v", c.JournalMode, store.ValidJournalModes)
	}
	return nil
}

// KeyStrategy returns the parsed Strategy, Sequential when unset.
func (c Config) KeyStrategy() (schema.Strategy, error) {
	if c.Strategy == "" {
		return schema.Sequential, nil
	}
	return schema.ParseStrategy(c.Strategy)
}

// StoreOptions converts the config into store.Options.
func (c Config) StoreOptions(logger *slog.Logger) (store.Options, error) {
	if err := c.Validate(); err != nil {
		return store.Options{}, err
	}
	opts := store.Options{
		Driver:      c.Driver,
		JournalMode: c.JournalMode,
		Logger:      logger,
	}
	if c.BusyTimeout != "" {
		d, _ := time.ParseDuration(c.BusyTimeout) // checked by Validate
		opts.BusyTimeout = d
	}
	return opts, nil
}
