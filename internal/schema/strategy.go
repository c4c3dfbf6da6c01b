package schema

import (
	"fmt"
	"strings"

	"github.com/roach88/recstore/internal/record"
)

// Strategy is how a table's primary key is generated.
// It is chosen when the table is created and never changes.
type Strategy int

const (
	// Sequential keys are integers assigned by the store. They increase
	// monotonically and are never reused.
	Sequential Strategy = iota

	// RandomUUID keys are random (version 4) UUID strings generated before
	// the row is inserted.
	RandomUUID
)

// ValidStrategies lists the accepted strategy names.
var ValidStrategies = []string{"sequential", "uuid"}

// String returns the canonical strategy name.
func (s Strategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case RandomUUID:
		return "uuid"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// IDType returns the declared type of the id column.
func (s Strategy) IDType() record.ColumnType {
	if s == RandomUUID {
		return record.TypeText
	}
	return record.TypeInteger
}

// ParseStrategy parses a strategy name. Accepts the canonical names plus
// "seq", "uuid4" and "random".
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sequential", "seq":
		return Sequential, nil
	case "uuid", "uuid4", "random":
		return RandomUUID, nil
	default:
		return 0, fmt.Errorf("invalid strategy %q: must be one of %v", name, ValidStrategies)
	}
}

// StrategyForIDType recovers a table's strategy from the declared type of its
// id column.
func StrategyForIDType(declType string) (Strategy, bool) {
	switch strings.ToLower(strings.TrimSpace(declType)) {
	case string(record.TypeInteger):
		return Sequential, true
	case string(record.TypeText):
		return RandomUUID, true
	default:
		return 0, false
	}
}
