// Package redis provides a Redis-backed implementation of the storage.Store
// interface. Each ledger is one hash holding the snapshot and its revision;
// saves use WATCH/MULTI so a concurrent writer aborts the transaction.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/storage"
)

var _ storage.Store = (*Store)(nil)

const (
	fieldData      = "data"
	fieldRevision  = "revision"
	fieldUpdatedAt = "updated_at"
)

// Store implements storage.Store on a Redis hash per key.
type Store struct {
	client goredis.UniversalClient
	prefix string
}

// New connects to the Redis server at addr.
func New(ctx context.Context, addr, prefix string) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewWithClient(client, prefix), nil
}

// NewWithClient wraps an existing client. Close closes it.
func NewWithClient(client goredis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) redisKey(key string) string {
	return s.prefix + key
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Load retrieves the latest snapshot stored under key.
func (s *Store) Load(ctx context.Context, key string) (storage.Record, error) {
	vals, err := s.client.HMGet(ctx, s.redisKey(key), fieldData, fieldRevision).Result()
	if err != nil {
		return storage.Record{}, fmt.Errorf("failed to get snapshot: %w", err)
	}
	data, ok := vals[0].(string)
	if !ok {
		return storage.Record{}, apperr.NotFound("ledger", key)
	}
	revStr, _ := vals[1].(string)
	rev, err := strconv.ParseUint(revStr, 10, 64)
	if err != nil {
		return storage.Record{}, fmt.Errorf("failed to parse revision %q: %w", revStr, err)
	}
	return storage.Record{Data: []byte(data), Revision: rev}, nil
}

func (s *Store) revision(ctx context.Context, c goredis.Cmdable, key string) (uint64, error) {
	rev, err := c.HGet(ctx, s.redisKey(key), fieldRevision).Uint64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read revision: %w", err)
	}
	return rev, nil
}

// Save writes data under key if the stored revision still equals expected.
func (s *Store) Save(ctx context.Context, key string, data []byte, expected uint64) (uint64, error) {
	rk := s.redisKey(key)
	next := expected + 1

	err := s.client.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := s.revision(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != expected {
			return apperr.StaleRevision(key, expected, current)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, rk,
				fieldData, data,
				fieldRevision, next,
				fieldUpdatedAt, time.Now().Unix(),
			)
			return nil
		})
		return err
	}, rk)

	if errors.Is(err, goredis.TxFailedErr) {
		// Someone else wrote between WATCH and EXEC.
		current, rerr := s.revision(ctx, s.client, key)
		if rerr != nil {
			return 0, rerr
		}
		return 0, apperr.StaleRevision(key, expected, current)
	}
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeStaleRevision {
			return 0, err
		}
		return 0, fmt.Errorf("failed to write snapshot: %w", err)
	}
	return next, nil
}
