// Package idgen provides the generators behind ports.IDGenerator.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/artpar/digigate/ports"
	"github.com/google/uuid"
)

// UUID generates random version-4 UUIDs. The query builder uses it to mint
// transaction IDs when the caller did not supply one.
type UUID struct{}

// New returns a fresh UUID string.
func (UUID) New() string {
	return uuid.NewString()
}

// Sequential hands out "<prefix><n>" identifiers in order, starting at 1.
// Deterministic, for tests that assert on generated IDs.
type Sequential struct {
	prefix string
	n      atomic.Uint64
}

// NewSequential creates a sequential generator with the given prefix.
func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

// New returns the next identifier in the sequence.
func (s *Sequential) New() string {
	return s.prefix + strconv.FormatUint(s.n.Add(1), 10)
}

// Reset rewinds the sequence to the start.
func (s *Sequential) Reset() {
	s.n.Store(0)
}

var (
	_ ports.IDGenerator = UUID{}
	_ ports.IDGenerator = (*Sequential)(nil)
)
