package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/partio/internal/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, New())
}

func TestLoadReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, err := s.Save(ctx, "k", []byte("abc"), 0)
	require.NoError(t, err)

	rec, err := s.Load(ctx, "k")
	require.NoError(t, err)
	rec.Data[0] = 'z'

	rec, err = s.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(rec.Data))
}
