package store

import (
	"errors"
	"fmt"

	"github.com/roach88/recstore/internal/record"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeSchemaMismatch indicates a create for a table that already exists.
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"

	// ErrCodeMissingIdentifier indicates an update without an id field.
	ErrCodeMissingIdentifier ErrorCode = "MISSING_IDENTIFIER"

	// ErrCodeInvalidIdentifier indicates an id whose value cannot name a row,
	// such as a boolean or a fractional number.
	ErrCodeInvalidIdentifier ErrorCode = "INVALID_IDENTIFIER"

	// ErrCodeNotFound indicates no row has the requested id.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeStrategyMismatch indicates an insert whose key strategy differs
	// from the one the table was created with.
	ErrCodeStrategyMismatch ErrorCode = "STRATEGY_MISMATCH"
)

// Sentinels for errors.Is. Matching compares codes only.
var (
	ErrSchemaMismatch    = &Error{Code: ErrCodeSchemaMismatch, Message: "table already exists"}
	ErrMissingIdentifier = &Error{Code: ErrCodeMissingIdentifier, Message: "record has no id"}
	ErrInvalidIdentifier = &Error{Code: ErrCodeInvalidIdentifier, Message: "id cannot name a row"}
	ErrNotFound          = &Error{Code: ErrCodeNotFound, Message: "row not found"}
	ErrStrategyMismatch  = &Error{Code: ErrCodeStrategyMismatch, Message: "key strategy does not match table"}
)

// Error is a store error with a code and the table and row it concerns.
type Error struct {
	Code    ErrorCode
	Message string
	Table   string
	ID      string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail())
}

// Detail returns the message with the table and id it concerns, without the
// code.
func (e *Error) Detail() string {
	switch {
	case e.Table != "" && e.ID != "":
		return fmt.Sprintf("%s (table=%s, id=%s)", e.Message, e.Table, e.ID)
	case e.Table != "":
		return fmt.Sprintf("%s (table=%s)", e.Message, e.Table)
	default:
		return e.Message
	}
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// IsNotFound returns true if no row matched.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMissingIdentifier returns true if an update lacked an id.
func IsMissingIdentifier(err error) bool {
	return errors.Is(err, ErrMissingIdentifier)
}

// IsInvalidIdentifier returns true if an update carried an unusable id.
func IsInvalidIdentifier(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier)
}

// IsSchemaMismatch returns true if a create hit an existing table.
func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

// IsStrategyMismatch returns true if an insert used the wrong key strategy.
func IsStrategyMismatch(err error) bool {
	return errors.Is(err, ErrStrategyMismatch)
}

func newSchemaMismatch(table string) *Error {
	return &Error{Code: ErrCodeSchemaMismatch, Message: "table already exists", Table: table}
}

func newMissingIdentifier(table string) *Error {
	return &Error{Code: ErrCodeMissingIdentifier, Message: "update requires an id field", Table: table}
}

func newInvalidIdentifier(table string, v record.Value) *Error {
	return &Error{
		Code:    ErrCodeInvalidIdentifier,
		Message: fmt.Sprintf("id %s (%T) cannot name a row", record.String(v), v),
		Table:   table,
	}
}

func newNotFound(table, id string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: "row not found", Table: table, ID: id}
}

func newStrategyMismatch(table string, have, want fmt.Stringer) *Error {
	return &Error{
		Code:    ErrCodeStrategyMismatch,
		Message: fmt.Sprintf("table uses %s keys, insert requested %s", have, want),
		Table:   table,
	}
}
