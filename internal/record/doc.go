// Package record provides the ordered key/value payload pushed into and read
// back out of a table.
//
// This package contains value types only. It imports nothing internal, so the
// schema and store packages can both build on it without cycles.
//
// Key design constraints:
//   - Value is sealed: Null, Bool, Int, Float and Text are the only variants
//   - Field order is insertion order and becomes column order on table creation
//   - Field names are NFC-normalized on Set
//   - The "id" field is the row key, never an ordinary column
package record
