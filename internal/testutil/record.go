package testutil

import (
	"encoding/json"
	"testing"

	"github.com/roach88/recstore/internal/record"
)

// Record parses a flat JSON object into a record, failing the test on error.
// Field order follows the JSON text.
func Record(t testing.TB, jsonText string) *record.Record {
	t.Helper()
	var r record.Record
	if err := json.Unmarshal([]byte(jsonText), &r); err != nil {
		t.Fatalf("testutil.Record(%s): %v", jsonText, err)
	}
	return &r
}
