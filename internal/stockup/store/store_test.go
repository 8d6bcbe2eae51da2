package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := OpenFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "products")
	require.NoError(t, err)
	require.False(t, ok, "missing key should report ok=false")

	require.NoError(t, s.Set(ctx, "products", []byte(`[{"id":"p1"}]`)))

	data, ok, err := s.Get(ctx, "products")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[{"id":"p1"}]`, string(data))

	// Overwrite with a shorter value must not leave trailing bytes
	require.NoError(t, s.Set(ctx, "products", []byte(`[]`)))
	data, ok, err = s.Get(ctx, "products")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[]`, string(data))
}

func TestFileStoreRemove(t *testing.T) {
	ctx := context.Background()
	s, err := OpenFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "user", []byte(`{}`)))
	require.NoError(t, s.Set(ctx, "sales", []byte(`[]`)))

	// Removing a mix of existing and missing keys succeeds
	require.NoError(t, s.Remove(ctx, "user", "sales", "never-written"))

	_, ok, err := s.Get(ctx, "user")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte(`{"a":1}`)
	require.NoError(t, s.Set(ctx, "settings", value))

	// Mutating the caller's slice must not leak into the store
	value[0] = 'X'

	data, ok, err := s.Get(ctx, "settings")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"a":1}`, string(data))
}

func TestStoreContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	_, _, err := s.Get(ctx, "user")
	require.Error(t, err)
	require.Error(t, s.Set(ctx, "user", nil))
}
