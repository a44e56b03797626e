package relational

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/storage"
	"github.com/poiesic/costar/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.GraphStore {
		store, err := NewMemoryStore()
		require.NoError(t, err)
		return store
	})
}

func TestPostgresStoreContract(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run postgres store tests")
	}
	storagetest.Run(t, func(t *testing.T) storage.GraphStore {
		ctx := context.Background()
		store, err := OpenPostgres(ctx, dsn, 8)
		require.NoError(t, err)
		require.NoError(t, store.Setup(ctx, true))
		return store
	})
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	_, err := Open(context.Background(), Config{Dialect: "oracle", DSN: "x"})
	assert.ErrorIs(t, err, storage.ErrUnsupportedDialect)
}

func TestOpenSQLite_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Setup(ctx, false))
	require.NoError(t, store.UpsertWork(ctx, core.Work{ID: 1, Title: "Alien"}))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	// Setup without reset keeps existing rows.
	require.NoError(t, reopened.Setup(ctx, false))

	count, err := reopened.WorkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "graph.db?"+sqliteParams, sqliteDSN("graph.db"))
	assert.Equal(t, "file:x?mode=memory&"+sqliteParams, sqliteDSN("file:x?mode=memory"))
}

func TestUpsertContributors_SmallChunks(t *testing.T) {
	ctx := context.Background()
	gs, err := NewMemoryStore()
	require.NoError(t, err)
	defer gs.Close()
	store := gs.(*Store)
	store.chunkSize = 2

	require.NoError(t, store.UpsertContributors(ctx, []core.Contributor{
		{ID: 1, Name: "a"}, {ID: 2, Name: "b"},
		{ID: 1, Name: "dup"}, {ID: 3, Name: "c"},
		{ID: 3, Name: "dup"},
	}))

	for index, want := range map[int64]core.ID{1: 1, 2: 2, 3: 3} {
		got, err := store.GetExternalID(ctx, index)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	count, err := store.ContributorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestUpsert_RejectsInvalidIDs(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	assert.ErrorIs(t, store.UpsertWork(ctx, core.Work{ID: 0}), core.ErrInvalidID)
	assert.ErrorIs(t, store.UpsertContributor(ctx, core.Contributor{ID: -1}), core.ErrInvalidID)
	assert.ErrorIs(t, store.UpsertEdge(ctx, core.Edge{Source: 1}), core.ErrInvalidEdge)
}
