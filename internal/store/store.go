package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
	_ "modernc.org/sqlite"          // registers "sqlite"
)

// Driver names accepted by Open.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// ValidDrivers lists the registered database/sql driver names.
var ValidDrivers = []string{DriverCGO, DriverPureGo}

// ValidJournalModes lists the accepted SQLite journal modes.
var ValidJournalModes = []string{"wal", "delete", "truncate", "persist", "memory", "off"}

// Defaults applied by Open for zero-valued Options fields.
const (
	DefaultBusyTimeout = 5 * time.Second
	DefaultJournalMode = "wal"
)

// Options configures Open. The zero value is usable.
type Options struct {
	// Driver is the database/sql driver name. Defaults to DriverCGO.
	Driver string

	// BusyTimeout bounds how long a statement waits on a locked database.
	BusyTimeout time.Duration

	// JournalMode is the SQLite journal mode. Defaults to "wal".
	JournalMode string

	// IDs generates keys for RandomUUID tables. Defaults to UUIDGenerator.
	IDs IDGenerator

	// Logger receives debug logs for writes. Defaults to slog.Default().
	Logger *slog.Logger
}

// withDefaults fills zero fields and validates the rest.
func (o Options) withDefaults() (Options, error) {
	if o.Driver == "" {
		o.Driver = DriverCGO
	}
	if !slices.Contains(ValidDrivers, o.Driver) {
		return o, fmt.Errorf("invalid driver %q: must be one of %v", o.Driver, ValidDrivers)
	}
	if o.BusyTimeout <= 0 {
		o.BusyTimeout = DefaultBusyTimeout
	}
	o.JournalMode = strings.ToLower(o.JournalMode)
	if o.JournalMode == "" {
		o.JournalMode = DefaultJournalMode
	}
	if !slices.Contains(ValidJournalModes, o.JournalMode) {
		return o, fmt.Errorf("invalid journal mode %q: must be one of %v", o.JournalMode, ValidJournalModes)
	}
	if o.IDs == nil {
		o.IDs = UUIDGenerator{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o, nil
}

// Store maps records onto tables in one SQLite database.
// A Store owns its connection; release it with Close.
type Store struct {
	db     *sql.DB
	driver string
	ids    IDGenerator
	log    *slog.Logger
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas before returning.
//
// The database is configured with:
//   - the requested journal mode (WAL by default)
//   - NORMAL synchronous mode (balance durability/performance)
//   - busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string, opts Options) (*Store, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	// Open database (creates file if doesn't exist)
	db, err := sql.Open(opts.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: last insert ids, pragmas and in-memory databases are
	// all per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db, opts); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	opts.Logger.Debug("database opened", "path", path, "driver", opts.Driver)
	return &Store{db: db, driver: opts.Driver, ids: opts.IDs, log: opts.Logger}, nil
}

// With opens the database, runs fn, and closes the database on every exit
// path. A close error is returned only when fn succeeded.
func With(path string, opts Options, fn func(*Store) error) (err error) {
	s, err := Open(path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
	}()
	return fn(s)
}

// Close closes the database connection.
// Should be called when the store is no longer needed.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.driver
}

// inTx runs fn in a transaction and commits if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB, opts Options) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA journal_mode = %s", opts.JournalMode),
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds()),
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
