// Package storagetest holds the behaviour every storage.Store backend must
// share. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/storage"
)

// Run exercises store against the storage.Store contract. Keys are prefixed
// with t.Name() so a shared database can be reused between runs.
func Run(t *testing.T, store storage.Store) {
	ctx := context.Background()
	prefix := t.Name() + "/"

	t.Run("Load missing key", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"missing")
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Save then Load", func(t *testing.T) {
		key := prefix + "roundtrip"
		rev, err := store.Save(ctx, key, []byte(`{"members":[]}`), 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), rev)

		rec, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), rec.Revision)
		assert.JSONEq(t, `{"members":[]}`, string(rec.Data))

		rev, err = store.Save(ctx, key, []byte(`{"members":[{"id":"a"}]}`), 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), rev)

		rec, err = store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), rec.Revision)
		assert.JSONEq(t, `{"members":[{"id":"a"}]}`, string(rec.Data))
	})

	t.Run("stale revision is rejected", func(t *testing.T) {
		key := prefix + "stale"
		_, err := store.Save(ctx, key, []byte(`{"v":1}`), 0)
		require.NoError(t, err)

		_, err = store.Save(ctx, key, []byte(`{"v":2}`), 0)
		require.ErrorIs(t, err, apperr.ErrStaleRevision)

		_, err = store.Save(ctx, key, []byte(`{"v":2}`), 5)
		require.ErrorIs(t, err, apperr.ErrStaleRevision)

		rec, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), rec.Revision)
		assert.JSONEq(t, `{"v":1}`, string(rec.Data))
	})

	t.Run("saving a missing key with a revision is rejected", func(t *testing.T) {
		_, err := store.Save(ctx, prefix+"never-saved", []byte(`{}`), 3)
		require.ErrorIs(t, err, apperr.ErrStaleRevision)
	})

	t.Run("concurrent writers from the same revision", func(t *testing.T) {
		key := prefix + "race"
		_, err := store.Save(ctx, key, []byte(`{"v":0}`), 0)
		require.NoError(t, err)

		const writers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.Save(ctx, key, []byte(`{"v":1}`), 1); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				} else {
					assert.ErrorIs(t, err, apperr.ErrStaleRevision)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded, "exactly one writer should win")
		rec, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), rec.Revision)
	})
}
