package testutil

import (
	"fmt"
	"sync"
)

// FixedIDs returns predetermined ids in order.
//
// This enables deterministic test execution for RandomUUID tables: tests
// provide a known sequence of ids and assert on exact values.
//
// Thread-safety: FixedIDs is safe for concurrent use via internal mutex.
type FixedIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedIDs("a", "b")
//	gen.Generate() // "a"
//	gen.Generate() // "b"
//	gen.Generate() // panic: all ids exhausted
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, so a test that inserts more rows than
// it planned for fails loudly.
func (g *FixedIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDs: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Remaining returns how many ids are left.
func (g *FixedIDs) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.ids) - g.idx
}

// CountingIDs returns prefix-1, prefix-2, ... without limit.
//
// Thread-safety: CountingIDs is safe for concurrent use via internal mutex.
type CountingIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewCountingIDs creates a counting generator. An empty prefix means "id".
func NewCountingIDs(prefix string) *CountingIDs {
	if prefix == "" {
		prefix = "id"
	}
	return &CountingIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *CountingIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
