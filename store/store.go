// Package store provides a generic hot-reloading record store.
//
// A Store owns an in-memory snapshot of validated records loaded from a YAML
// file with a single top-level key holding a list of records. Reload builds
// the replacement snapshot fully off to the side and swaps it in atomically;
// a failed reload keeps serving the previous snapshot.
package store

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Record is the contract every stored entity satisfies.
type Record interface {
	// Key returns the unique identifier within the record set.
	Key() string
	// Active reports whether the record is enabled.
	Active() bool
	// Validate checks the record against its schema.
	Validate() error
}

// Store holds the committed snapshot for one record type.
type Store[T Record] struct {
	path   string
	topKey string
	logger zerolog.Logger

	reloadMu sync.Mutex // serializes reloads
	mu       sync.RWMutex
	byID     map[string]T
	list     []T

	onReload func(ok bool, count int)
}

// New creates a store and performs the initial synchronous load.
// The initial load must succeed: there is no prior snapshot to fall back to.
func New[T Record](path, topKey string, logger zerolog.Logger) (*Store[T], error) {
	s := &Store[T]{
		path:   path,
		topKey: topKey,
		logger: logger.With().Str("store", topKey).Logger(),
		byID:   map[string]T{},
	}
	recs, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("initial load of %s: %w", topKey, err)
	}
	s.commit(recs)
	s.logger.Info().Int("count", len(recs)).Str("path", path).Msg("initial load complete")
	return s, nil
}

// Path returns the backing file path (for watcher wiring).
func (s *Store[T]) Path() string { return s.path }

// OnReload registers a hook invoked after every reload attempt with the
// outcome and the committed record count. Used for metrics.
func (s *Store[T]) OnReload(fn func(ok bool, count int)) {
	s.onReload = fn
}

// Reload re-reads the backing file and atomically replaces the snapshot.
// On any failure the previous snapshot is kept and the error is both logged
// and returned; callers driving reloads from file events may ignore it.
func (s *Store[T]) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	recs, err := s.load()
	if err != nil {
		s.logger.Error().Err(err).
			Str("path", s.path).
			Int("kept", s.Count()).
			Msg("reload failed, keeping previous snapshot")
		if s.onReload != nil {
			s.onReload(false, s.Count())
		}
		return fmt.Errorf("reload %s: %w", s.topKey, err)
	}

	s.commit(recs)
	s.logger.Info().Int("count", len(recs)).Msg("reload complete")
	if s.onReload != nil {
		s.onReload(true, len(recs))
	}
	return nil
}

// GetByID returns the record with the given identifier.
func (s *Store[T]) GetByID(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	return rec, ok
}

// All returns a copy of the committed snapshot in file order.
// Callers never observe future reloads through the returned slice.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.list))
	copy(out, s.list)
	return out
}

// Count returns the number of committed records.
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// Has reports whether a record with the given identifier exists.
func (s *Store[T]) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

// IsActive reports whether the record exists and is active.
func (s *Store[T]) IsActive(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	return ok && rec.Active()
}

// Clear empties the snapshot (test/debug utility).
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = map[string]T{}
	s.list = nil
	s.logger.Info().Msg("store cleared")
}

func (s *Store[T]) commit(recs []T) {
	byID := make(map[string]T, len(recs))
	for _, r := range recs {
		byID[r.Key()] = r
	}
	s.mu.Lock()
	s.byID = byID
	s.list = recs
	s.mu.Unlock()
}

// load reads and fully validates the backing file. Nothing is committed here.
func (s *Store[T]) load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}

	node, ok := doc[s.topKey]
	if !ok {
		return nil, fmt.Errorf("missing top-level key %q", s.topKey)
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%q must be a list", s.topKey)
	}

	recs := make([]T, 0, len(node.Content))
	for i, item := range node.Content {
		var rec T
		if err := decodeStrict(item, &rec); err != nil {
			s.logger.Error().Err(err).Int("index", i).Msg("record decode failed")
			return nil, fmt.Errorf("decode record at index %d: %w", i, err)
		}
		recs = append(recs, rec)
	}

	if dups := duplicateKeys(recs); len(dups) > 0 {
		s.logger.Error().Strs("duplicates", dups).Msg("duplicate identifiers in record set")
		return nil, fmt.Errorf("duplicate identifiers: %v", dups)
	}

	for i, rec := range recs {
		if err := rec.Validate(); err != nil {
			s.logger.Error().Err(err).Int("index", i).Str("id", rec.Key()).Msg("record validation failed")
			return nil, fmt.Errorf("record %q at index %d: %w", rec.Key(), i, err)
		}
	}

	return recs, nil
}

// decodeStrict decodes a single record node rejecting unknown fields.
func decodeStrict[T any](n *yaml.Node, out *T) error {
	raw, err := yaml.Marshal(n)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(out)
}

func duplicateKeys[T Record](recs []T) []string {
	seen := make(map[string]struct{}, len(recs))
	var dups []string
	for _, r := range recs {
		id := r.Key()
		if _, ok := seen[id]; ok {
			dups = append(dups, id)
			continue
		}
		seen[id] = struct{}{}
	}
	return dups
}
