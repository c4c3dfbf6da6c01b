package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is a sealed interface representing the scalar types a column can hold.
// Only Null, Bool, Int, Float, and Text implement this.
type Value interface {
	recordValue() // Sealed - only these types implement it
}

// Null represents an SQL NULL. It is read back from unset columns and binds
// NULL on write.
type Null struct{}

func (Null) recordValue() {}

// Bool represents a boolean value.
// Stored as the text "True" or "False" (see TypeOf).
type Bool bool

func (Bool) recordValue() {}

// Int represents an integer value.
type Int int64

func (Int) recordValue() {}

// Float represents a floating-point value.
type Float float64

func (Float) recordValue() {}

// Text represents a string value.
type Text string

func (Text) recordValue() {}

// ColumnType is the declared storage type of a column.
type ColumnType string

const (
	TypeText    ColumnType = "text"
	TypeInteger ColumnType = "integer"
	TypeReal    ColumnType = "real"

	// TypeNone declares a column with no type. SQLite accepts any value in it.
	TypeNone ColumnType = ""
)

// Boolean literals as stored in a text column.
const (
	boolTrue  = "True"
	boolFalse = "False"
)

// TypeOf returns the storage type for a value.
//
// Booleans map to text, not integer: rows keep the "True"/"False" literal so
// that existing databases read the same. Null (and a nil Value) has no type.
func TypeOf(v Value) ColumnType {
	switch v.(type) {
	case Bool:
		return TypeText
	case Int:
		return TypeInteger
	case Text:
		return TypeText
	case Float:
		return TypeReal
	default:
		return TypeNone
	}
}

// Bind converts a Value to the driver argument bound to a placeholder.
func Bind(v Value) any {
	switch val := v.(type) {
	case Bool:
		if val {
			return boolTrue
		}
		return boolFalse
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Text:
		return string(val)
	default:
		return nil
	}
}

// FromDriver converts a value scanned from a driver row into a Value.
//
// Drivers report TEXT as string or []byte depending on the implementation;
// both become Text. Columns declared as dates may come back as time.Time
// (mattn/go-sqlite3 does this) and are rendered as RFC 3339 text.
func FromDriver(src any) (Value, error) {
	switch val := src.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Int(val), nil
	case int:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case float32:
		return Float(val), nil
	case string:
		return Text(val), nil
	case []byte:
		return Text(string(val)), nil
	case bool:
		return Bool(val), nil
	case time.Time:
		return Text(val.Format(time.RFC3339Nano)), nil
	default:
		return nil, &UnsupportedTypeError{Value: src}
	}
}

// UnsupportedTypeError reports a Go value that has no Value variant.
type UnsupportedTypeError struct {
	Value any
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported value type %T", e.Value)
}

// String renders a value the way it is shown to users and compared as an id.
// Null renders as the empty string.
func String(v Value) string {
	switch val := v.(type) {
	case Bool:
		if val {
			return boolTrue
		}
		return boolFalse
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return formatFloat(float64(val))
	case Text:
		return string(val)
	default:
		return ""
	}
}

// formatFloat keeps a decimal point on integral floats so 40.0 does not read
// back as an integer.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
