// Package memory provides an in-process implementation of storage.Store, used
// for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps snapshots in a map.
type Store struct {
	mu      sync.Mutex
	records map[string]storage.Record
}

// New returns an empty Store.
func New() *Store {
	return &Store{records: make(map[string]storage.Record)}
}

// Load returns a copy of the snapshot stored under key.
func (s *Store) Load(_ context.Context, key string) (storage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return storage.Record{}, apperr.NotFound("ledger", key)
	}
	return storage.Record{Data: append([]byte(nil), rec.Data...), Revision: rec.Revision}, nil
}

// Save stores data under key if expected matches the current revision.
func (s *Store) Save(_ context.Context, key string, data []byte, expected uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.records[key].Revision
	if current != expected {
		return 0, apperr.StaleRevision(key, expected, current)
	}
	next := current + 1
	s.records[key] = storage.Record{Data: append([]byte(nil), data...), Revision: next}
	return next, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
