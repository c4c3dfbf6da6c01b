package store

import "github.com/google/uuid"

// IDGenerator produces primary keys for RandomUUID tables.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates random (version 4) UUIDs.
//
// Format: "550e8400-e29b-41d4-a716-446655440000" (36 characters)
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate creates a new UUIDv4 and returns it as a hyphenated string.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}
