// Package storage provides abstractions for persistent data storage.
package storage

import "context"

// Record is a stored ledger snapshot and the revision it was saved under.
type Record struct {
	Data     []byte
	Revision uint64
}

// Store defines the interface for snapshot storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// Redis, memory) without changing the service layer.
//
// Revisions start at 1 for the first save of a key. Revision 0 stands for
// "no snapshot yet".
type Store interface {
	// Load returns the latest snapshot for key.
	// Returns an apperr NOT_FOUND error when nothing was saved under key.
	Load(ctx context.Context, key string) (Record, error)

	// Save stores data under key if the current revision equals expected, and
	// returns the new revision. Otherwise it returns an apperr STALE_REVISION
	// error and stores nothing.
	Save(ctx context.Context, key string, data []byte, expected uint64) (uint64, error)

	// Close releases any resources held by the store.
	Close() error
}
