package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/researchmesh/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "what is WAL mode?", "WAL is write-ahead logging.", "owner-1")
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := store.Get(ctx, saved.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, saved.Query, got.Query)
	assert.Equal(t, saved.Report, got.Report)
	assert.Equal(t, saved.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestStore_OwnerScoping(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "q", "r", "owner-1")
	require.NoError(t, err)

	_, err = store.Get(ctx, saved.ID, "owner-2")
	assert.ErrorIs(t, err, core.ErrRecordNotFound)

	deleted, err := store.Delete(ctx, saved.ID, "owner-2")
	require.NoError(t, err)
	assert.False(t, deleted)

	records, err := store.List(ctx, "owner-2")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_ListLimit(t *testing.T) {
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "limited.db"), func(o *Options) {
		o.ListLimit = 2
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Save(ctx, "q", "r", "owner-1")
		require.NoError(t, err)
	}

	records, err := store.List(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, "q", "r", "owner-1")
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, saved.ID, "owner-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, saved.ID, "owner-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}
