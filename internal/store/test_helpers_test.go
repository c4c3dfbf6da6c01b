package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/recstore/internal/record"
)

// testDrivers lists every driver the suite runs against.
var testDrivers = []string{DriverCGO, DriverPureGo}

// forEachDriver runs fn once per registered driver as a subtest.
func forEachDriver(t *testing.T, fn func(t *testing.T, driver string)) {
	t.Helper()
	for _, driver := range testDrivers {
		t.Run(driver, func(t *testing.T) {
			fn(t, driver)
		})
	}
}

// createTestStore creates a new temp-dir store for testing.
// A nil ids uses the default UUID generator.
func createTestStore(t *testing.T, driver string, ids IDGenerator) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, Options{Driver: driver, IDs: ids})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// assertRecord compares records by their ordered JSON form, which also
// distinguishes Int from Float.
func assertRecord(t *testing.T, want, got *record.Record) {
	t.Helper()
	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(wantJSON), string(gotJSON))
}

func npcRecord() *record.Record {
	return record.New(
		record.F("name", record.Text("Willy the Goblin")),
		record.F("health", record.Float(67.8)),
		record.F("gold", record.Int(999)),
	)
}

func withID(id string, rec *record.Record) *record.Record {
	out := record.New(record.F(record.IDField, record.Text(id)))
	for k, v := range rec.All() {
		out.Set(k, v)
	}
	return out
}
