package record

import (
	"iter"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// IDField is the reserved field holding the row key.
const IDField = "id"

// Field is a key-value pair for ordered Record construction.
type Field struct {
	Key   string
	Value Value
}

// F is a shorthand for Field.
// Example: New(F("name", Text("Willy")), F("gold", Int(999)))
func F(key string, value Value) Field {
	return Field{Key: key, Value: value}
}

// Record is an ordered mapping from field name to Value.
// The zero value is an empty record ready for use.
type Record struct {
	keys []string
	vals map[string]Value
}

// New creates a Record from fields in order. A repeated key keeps its first
// position and its last value.
func New(fields ...Field) *Record {
	r := &Record{
		keys: make([]string, 0, len(fields)),
		vals: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Set stores a value under key. New keys are appended; existing keys keep
// their position. A nil value is stored as Null.
func (r *Record) Set(key string, v Value) {
	key = norm.NFC.String(key)
	if v == nil {
		v = Null{}
	}
	if r.vals == nil {
		r.vals = make(map[string]Value)
	}
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = v
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.vals[norm.NFC.String(key)]
	return v, ok
}

// Delete removes key and reports whether it was present.
func (r *Record) Delete(key string) bool {
	if r == nil {
		return false
	}
	key = norm.NFC.String(key)
	if _, ok := r.vals[key]; !ok {
		return false
	}
	delete(r.vals, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the field names in order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// All iterates fields in order.
func (r *Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if r == nil {
			return
		}
		for _, k := range r.keys {
			if !yield(k, r.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a copy that shares no state with r.
func (r *Record) Clone() *Record {
	out := &Record{
		keys: make([]string, 0, r.Len()),
		vals: make(map[string]Value, r.Len()),
	}
	for k, v := range r.All() {
		out.keys = append(out.keys, k)
		out.vals[k] = v
	}
	return out
}

// Without returns a copy of r minus key.
func (r *Record) Without(key string) *Record {
	out := r.Clone()
	out.Delete(key)
	return out
}

// IsIDField reports whether a field name addresses the id column. SQLite
// matches column names without regard to case, so "ID" and "Id" count too.
func IsIDField(name string) bool {
	return strings.EqualFold(name, IDField)
}

// Data returns a copy of r without any id field.
func (r *Record) Data() *Record {
	out := &Record{
		keys: make([]string, 0, r.Len()),
		vals: make(map[string]Value, r.Len()),
	}
	for k, v := range r.All() {
		if IsIDField(k) {
			continue
		}
		out.keys = append(out.keys, k)
		out.vals[k] = v
	}
	return out
}

// IDValue returns the value of the first id field in field order, matching
// the name in any letter case.
func (r *Record) IDValue() (Value, bool) {
	for k, v := range r.All() {
		if IsIDField(k) {
			return v, true
		}
	}
	return nil, false
}

// HasID reports whether the record carries an id: an id field that is
// neither Null nor empty text. The id may still be unusable as a key; see ID.
func (r *Record) HasID() bool {
	v, ok := r.IDValue()
	if !ok {
		return false
	}
	switch val := v.(type) {
	case Null:
		return false
	case Text:
		return val != ""
	default:
		return true
	}
}

// ID returns the id field as a string. ok is false when the record has no id
// or its value cannot name a row: Int, integral Float and non-empty Text can,
// Bool and fractional Float cannot.
func (r *Record) ID() (id string, ok bool) {
	v, present := r.IDValue()
	if !present {
		return "", false
	}
	switch val := v.(type) {
	case Int:
		return strconv.FormatInt(int64(val), 10), true
	case Float:
		f := float64(val)
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return "", false
		}
		return strconv.FormatInt(int64(f), 10), true
	case Text:
		return string(val), val != ""
	default:
		return "", false
	}
}

// Equal reports whether both records hold the same fields in the same order.
func (r *Record) Equal(o *Record) bool {
	if r.Len() != o.Len() {
		return false
	}
	if r.Len() == 0 {
		return true
	}
	for i, k := range r.keys {
		if o.keys[i] != k {
			return false
		}
		if r.vals[k] != o.vals[k] {
			return false
		}
	}
	return true
}
