package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store. Run closes it when the subtest ends.
type Factory func(t *testing.T) storage.GraphStore

// Run executes the contract suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store storage.GraphStore)
	}{
		{"WorksAreIdempotent", testWorksAreIdempotent},
		{"ContributorIndicesAreDense", testContributorIndicesAreDense},
		{"DuplicateContributorConsumesNoIndex", testDuplicateContributorConsumesNoIndex},
		{"GetExternalIDNotFound", testGetExternalIDNotFound},
		{"GetContributor", testGetContributor},
		{"EdgeFirstWriterWins", testEdgeFirstWriterWins},
		{"SelfLoopEdge", testSelfLoopEdge},
		{"EdgeReferenceMissing", testEdgeReferenceMissing},
		{"BulkUpsertAcrossChunks", testBulkUpsertAcrossChunks},
		{"ConcurrentContributorInserts", testConcurrentContributorInserts},
		{"ConcurrentEdgeInserts", testConcurrentEdgeInserts},
		{"SetupReset", testSetupReset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			t.Cleanup(func() { _ = store.Close() })
			tt.fn(t, store)
		})
	}
}

func testWorksAreIdempotent(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()

	require.NoError(t, store.UpsertWork(ctx, core.Work{ID: 603, Title: "The Matrix"}))
	require.NoError(t, store.UpsertWork(ctx, core.Work{ID: 603, Title: "Renamed"}))
	require.NoError(t, store.UpsertWorks(ctx, []core.Work{{ID: 603}, {ID: 604, Title: "The Matrix Reloaded"}}))

	count, err := store.WorkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	found, err := store.WorkExists(ctx, 604)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.WorkExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, found)
}

func testContributorIndicesAreDense(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()

	ids := []core.ID{6384, 2975, 530, 1331}
	for _, id := range ids {
		require.NoError(t, store.UpsertContributor(ctx, core.Contributor{ID: id, Name: fmt.Sprintf("person %d", id)}))
	}

	count, err := store.ContributorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(ids)), count)

	for i, want := range ids {
		got, err := store.GetExternalID(ctx, int64(i+1))
		require.NoError(t, err)
		assert.Equal(t, want, got, "index %d", i+1)
	}
}

func testDuplicateContributorConsumesNoIndex(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()

	require.NoError(t, store.UpsertContributors(ctx, []core.Contributor{
		{ID: 10, Name: "a"},
		{ID: 20, Name: "b"},
		{ID: 10, Name: "a again"},
	}))
	require.NoError(t, store.UpsertContributor(ctx, core.Contributor{ID: 20, Name: "b again"}))
	require.NoError(t, store.UpsertContributor(ctx, core.Contributor{ID: 30, Name: "c"}))

	count, err := store.ContributorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	id, err := store.GetExternalID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, core.ID(30), id)

	c, err := store.GetContributor(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "a", c.Name)
	assert.Equal(t, int64(1), c.Index)
}

func testGetExternalIDNotFound(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()

	_, err := store.GetExternalID(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.UpsertContributor(ctx, core.Contributor{ID: 1, Name: "only"}))
	_, err = store.GetExternalID(ctx, 2)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testGetContributor(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()

	_, err := store.GetContributor(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.UpsertContributor(ctx, core.Contributor{ID: 42, Name: "Douglas"}))
	c, err := store.GetContributor(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, core.Contributor{ID: 42, Name: "Douglas", Index: 1}, *c)

	found, err := store.ContributorExists(ctx, 42)
	require.NoError(t, err)
	assert.True(t, found)
}

func seedGraph(t *testing.T, store storage.GraphStore, works []core.ID, contributors []core.ID) {
	t.Helper()
	ctx := context.Background()
	ws := make([]core.Work, len(works))
	for i, id := range works {
		ws[i] = core.Work{ID: id, Title: fmt.Sprintf("work %d", id)}
	}
	cs := make([]core.Contributor, len(contributors))
	for i, id := range contributors {
		cs[i] = core.Contributor{ID: id, Name: fmt.Sprintf("person %d", id)}
	}
	require.NoError(t, store.UpsertWorks(ctx, ws))
	require.NoError(t, store.UpsertContributors(ctx, cs))
}

func testEdgeFirstWriterWins(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()
	seedGraph(t, store, []core.ID{1, 2}, []core.ID{100, 200})

	require.NoError(t, store.UpsertEdge(ctx, core.Edge{Source: 1, Target: 2, Contributor: 100}))
	require.NoError(t, store.UpsertEdge(ctx, core.Edge{Source: 1, Target: 2, Contributor: 200}))
	require.NoError(t, store.UpsertEdges(ctx, []core.Edge{
		{Source: 1, Target: 2, Contributor: 200},
		{Source: 2, Target: 1, Contributor: 200},
	}))

	edge, err := store.GetEdge(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, core.ID(100), edge.Contributor)

	reverse, err := store.GetEdge(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, core.ID(200), reverse.Contributor)

	count, err := store.EdgeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = store.GetEdge(ctx, 1, 3)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testSelfLoopEdge(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()
	seedGraph(t, store, []core.ID{7}, []core.ID{70})

	require.NoError(t, store.UpsertEdge(ctx, core.Edge{Source: 7, Target: 7, Contributor: 70}))

	edge, err := store.GetEdge(ctx, 7, 7)
	require.NoError(t, err)
	assert.True(t, edge.IsSelfLoop())
}

func testEdgeReferenceMissing(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()
	seedGraph(t, store, []core.ID{1}, []core.ID{100})

	err := store.UpsertEdge(ctx, core.Edge{Source: 1, Target: 2, Contributor: 100})
	assert.ErrorIs(t, err, storage.ErrReferenceMissing)

	err = store.UpsertEdge(ctx, core.Edge{Source: 1, Target: 1, Contributor: 999})
	assert.ErrorIs(t, err, storage.ErrReferenceMissing)

	count, err := store.EdgeCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func testBulkUpsertAcrossChunks(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()

	const n = storage.DefaultChunkSize + 250
	contributors := make([]core.Contributor, n)
	works := make([]core.Work, n)
	for i := range n {
		contributors[i] = core.Contributor{ID: core.ID(i + 1), Name: fmt.Sprintf("c%d", i+1)}
		works[i] = core.Work{ID: core.ID(i + 1)}
	}
	require.NoError(t, store.UpsertContributors(ctx, contributors))
	require.NoError(t, store.UpsertWorks(ctx, works))

	count, err := store.ContributorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)

	last, err := store.GetExternalID(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, core.ID(n), last)

	edges := make([]core.Edge, n)
	for i := range n {
		edges[i] = core.Edge{Source: 1, Target: core.ID(i + 1), Contributor: 1}
	}
	require.NoError(t, store.UpsertEdges(ctx, edges))

	edgeCount, err := store.EdgeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), edgeCount)
}

func testConcurrentContributorInserts(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()

	const writers = 8
	const perWriter = 25
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for w := range writers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// Overlapping id ranges force duplicate discoveries.
			batch := make([]core.Contributor, 0, perWriter)
			for i := range perWriter {
				id := core.ID((w/2)*perWriter + i + 1)
				batch = append(batch, core.Contributor{ID: id, Name: id.String()})
			}
			errs <- store.UpsertContributors(ctx, batch)
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := store.ContributorCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(writers/2*perWriter), count)

	seen := make(map[core.ID]bool)
	for i := int64(1); i <= count; i++ {
		id, err := store.GetExternalID(ctx, i)
		require.NoError(t, err, "index %d must be assigned", i)
		assert.False(t, seen[id], "contributor %d indexed twice", id)
		seen[id] = true
	}
}

func testConcurrentEdgeInserts(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()
	seedGraph(t, store, []core.ID{1, 2, 3}, []core.ID{10, 20, 30, 40})

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for _, contributor := range []core.ID{10, 20, 30, 40} {
		wg.Add(1)
		go func(c core.ID) {
			defer wg.Done()
			var edges []core.Edge
			for _, s := range []core.ID{1, 2, 3} {
				for _, d := range []core.ID{1, 2, 3} {
					edges = append(edges, core.Edge{Source: s, Target: d, Contributor: c})
				}
			}
			errs <- store.UpsertEdges(ctx, edges)
		}(contributor)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := store.EdgeCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)
}

func testSetupReset(t *testing.T, store storage.GraphStore) {
	ctx := context.Background()
	seedGraph(t, store, []core.ID{1, 2}, []core.ID{100})
	require.NoError(t, store.UpsertEdge(ctx, core.Edge{Source: 1, Target: 2, Contributor: 100}))

	require.NoError(t, store.Setup(ctx, false))
	works, err := store.WorkCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), works)

	require.NoError(t, store.Setup(ctx, true))
	for name, count := range map[string]func(context.Context) (int64, error){
		"works":        store.WorkCount,
		"contributors": store.ContributorCount,
		"edges":        store.EdgeCount,
	} {
		n, err := count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, name)
	}

	// Indices restart at 1 after a reset.
	require.NoError(t, store.UpsertContributor(ctx, core.Contributor{ID: 500, Name: "fresh"}))
	id, err := store.GetExternalID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, core.ID(500), id)
}
