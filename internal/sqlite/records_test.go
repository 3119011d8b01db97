package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studiokit/studio/internal/sqlite"
)

func newStore(t *testing.T) *sqlite.RecordStore {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlite.NewRecordStore(db)
}

func TestRecordStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.Put(ctx, "studio.git.repo", `{"commits":[]}`))

	got, err := store.Get(ctx, "studio.git.repo")
	require.NoError(t, err)
	require.Equal(t, `{"commits":[]}`, got)
}

func TestRecordStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.Put(ctx, "ns", "v1"))
	require.NoError(t, store.Put(ctx, "ns", "v2"))

	got, err := store.Get(ctx, "ns")
	require.NoError(t, err)
	require.Equal(t, "v2", got)
}

func TestRecordStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.Get(ctx, "nope")
	require.ErrorIs(t, err, sqlite.ErrNotFound)
}

func TestRecordStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.Put(ctx, "ns", "v1"))
	require.NoError(t, store.Delete(ctx, "ns"))

	_, err := store.Get(ctx, "ns")
	require.ErrorIs(t, err, sqlite.ErrNotFound)

	// Idempotent.
	require.NoError(t, store.Delete(ctx, "ns"))
}
