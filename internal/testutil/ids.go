// Package testutil provides deterministic helpers for tests.
package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator returns predictable IDs: "<prefix>-1", "<prefix>-2", ...
//
// It implements store.IDGenerator so cache tests can assert exact entry
// IDs. It can be reset so the same scenario runs repeatedly with
// identical IDs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialIDGenerator creates a generator. An empty prefix becomes "id".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Issued returns how many IDs have been generated since the last reset.
func (g *SequentialIDGenerator) Issued() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. The next call to Generate returns "<prefix>-1".
func (g *SequentialIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
