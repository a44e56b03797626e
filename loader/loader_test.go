package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/storage"
	"github.com/poiesic/costar/storage/relational"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const worksDump = `{"adult":false,"id":603,"original_title":"The Matrix","popularity":40.1,"video":false}
{"adult":false,"id":604,"title":"The Matrix Reloaded","popularity":20.3,"video":false}
not json at all

{"adult":false,"id":0,"original_title":"broken"}
{"adult":false,"id":605,"original_title":"The Matrix Revolutions"}
`

const contributorsDump = `{"adult":false,"id":6384,"name":"Keanu Reeves","popularity":50}
{"adult":false,"id":2975,"name":"Laurence Fishburne","popularity":30}
{"id":"oops"}
{"adult":false,"id":6384,"name":"Keanu Reeves","popularity":50}
{"adult":false,"id":530,"name":"Carrie-Anne Moss","popularity":20}
`

func newStore(t *testing.T) storage.GraphStore {
	t.Helper()
	store, err := relational.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func writeFile(t *testing.T, name, contents string, compress bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if !compress {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
		return path
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	loader, err := NewLoader(store, WithChunkSize(2))
	require.NoError(t, err)

	result, err := loader.Load(ctx,
		writeFile(t, "movie_ids.json", worksDump, false),
		writeFile(t, "person_ids.json.gz", contributorsDump, true))
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Works)
	assert.Equal(t, int64(4), result.Contributors)
	assert.Equal(t, int64(3), result.Skipped)
	assert.Equal(t, int64(3), result.ContributorTotal)

	workCount, err := store.WorkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), workCount)

	// Indices follow file order; the duplicate consumed none.
	for index, want := range map[int64]core.ID{1: 6384, 2: 2975, 3: 530} {
		got, err := store.GetExternalID(ctx, index)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestLoadWorks_TitleFallback(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	loader, err := NewLoader(store)
	require.NoError(t, err)

	n, skipped, err := loader.LoadWorks(ctx, strings.NewReader(worksDump))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, int64(2), skipped)

	found, err := store.WorkExists(ctx, 604)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestLoad_SkipsEmptyPaths(t *testing.T) {
	store := newStore(t)
	loader, err := NewLoader(store)
	require.NoError(t, err)

	result, err := loader.Load(context.Background(), "", "")
	require.NoError(t, err)
	assert.Zero(t, result.Works)
	assert.Zero(t, result.ContributorTotal)
}

func TestLoad_MissingFile(t *testing.T) {
	loader, err := NewLoader(newStore(t))
	require.NoError(t, err)

	_, err = loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_CorruptGzip(t *testing.T) {
	loader, err := NewLoader(newStore(t))
	require.NoError(t, err)

	path := writeFile(t, "person_ids.json.gz", "plain text", false)
	_, err = loader.Load(context.Background(), "", path)
	assert.Error(t, err)
}

func TestNewLoader_Validation(t *testing.T) {
	_, err := NewLoader(nil)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewLoader(newStore(t), WithChunkSize(0))
	assert.Error(t, err)
}
