// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface, for deployments that share one database between
// several server processes.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/storage"
)

var _ storage.Store = (*Store)(nil)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store implements storage.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New connects to the database at dsn and runs migrations.
func New(ctx context.Context, dsn string) (*Store, error) {
	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db}, nil
}

func runMigrations(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load retrieves the latest snapshot stored under key.
func (s *Store) Load(ctx context.Context, key string) (storage.Record, error) {
	var (
		rec      storage.Record
		revision int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT data, revision FROM snapshots WHERE ledger_key = $1",
		key,
	).Scan(&rec.Data, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Record{}, apperr.NotFound("ledger", key)
	}
	if err != nil {
		return storage.Record{}, fmt.Errorf("failed to get snapshot: %w", err)
	}
	rec.Revision = uint64(revision)
	return rec, nil
}

// Save writes data under key if the stored revision still equals expected.
// Row locks taken by UPDATE make concurrent writers from the same revision
// fail all but one.
func (s *Store) Save(ctx context.Context, key string, data []byte, expected uint64) (uint64, error) {
	var (
		res sql.Result
		err error
	)
	if expected == 0 {
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO snapshots (ledger_key, revision, data, updated_at)
			 VALUES ($1, 1, $2, now())
			 ON CONFLICT (ledger_key) DO NOTHING`,
			key, data,
		)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE snapshots SET revision = revision + 1, data = $1, updated_at = now()
			 WHERE ledger_key = $2 AND revision = $3`,
			data, key, int64(expected),
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
		var actual int64
		err := s.db.QueryRowContext(ctx, "SELECT revision FROM snapshots WHERE ledger_key = $1", key).Scan(&actual)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to read revision: %w", err)
		}
		return 0, apperr.StaleRevision(key, expected, uint64(actual))
	}
	return expected + 1, nil
}
