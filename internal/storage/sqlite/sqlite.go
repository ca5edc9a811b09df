// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Run migrations on their own connection; the migrate driver closes it.
	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes writers instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load retrieves the latest snapshot stored under key.
func (s *SQLiteStore) Load(ctx context.Context, key string) (storage.Record, error) {
	var rec storage.Record
	err := s.db.QueryRowContext(ctx,
		"SELECT data, revision FROM snapshots WHERE ledger_key = ?",
		key,
	).Scan(&rec.Data, &rec.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Record{}, apperr.NotFound("ledger", key)
	}
	if err != nil {
		return storage.Record{}, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return rec, nil
}

// Save writes data under key if the stored revision still equals expected.
func (s *SQLiteStore) Save(ctx context.Context, key string, data []byte, expected uint64) (uint64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	var res sql.Result
	if expected == 0 {
		res, err = tx.ExecContext(ctx,
			"INSERT INTO snapshots (ledger_key, revision, data, updated_at) VALUES (?, 1, ?, ?) ON CONFLICT(ledger_key) DO NOTHING",
			key, data, now,
		)
	} else {
		res, err = tx.ExecContext(ctx,
			"UPDATE snapshots SET revision = revision + 1, data = ?, updated_at = ? WHERE ledger_key = ? AND revision = ?",
			data, now, key, expected,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write snapshot: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check written rows: %w", err)
	}
	if n == 0 {
		var actual uint64
		err := tx.QueryRowContext(ctx, "SELECT revision FROM snapshots WHERE ledger_key = ?", key).Scan(&actual)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to read revision: %w", err)
		}
		return 0, apperr.StaleRevision(key, expected, actual)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return expected + 1, nil
}
