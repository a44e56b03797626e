package ingestion

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/poiesic/costar/catalog/mock"
	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/storage"
	"github.com/poiesic/costar/storage/badger"
	"github.com/stretchr/testify/require"
)

// recordingReporter captures milestones for assertions.
type recordingReporter struct {
	mu         sync.Mutex
	milestones []Milestone
}

func (r *recordingReporter) ReportMilestone(m Milestone) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.milestones = append(r.milestones, m)
}

func (r *recordingReporter) all() []Milestone {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Milestone(nil), r.milestones...)
}

// newTestStore returns an in-memory store holding the given contributors,
// indexed 1..n in order.
func newTestStore(t *testing.T, contributors ...core.ID) storage.GraphStore {
	t.Helper()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	rows := make([]core.Contributor, len(contributors))
	for i, id := range contributors {
		rows[i] = core.Contributor{ID: id, Name: fmt.Sprintf("person %d", id)}
	}
	require.NoError(t, store.UpsertContributors(context.Background(), rows))
	return store
}

func works(ids ...core.ID) []core.Work {
	out := make([]core.Work, len(ids))
	for i, id := range ids {
		out[i] = core.Work{ID: id, Title: fmt.Sprintf("work %d", id)}
	}
	return out
}

func newTestClient() *mock.MockClient {
	return mock.NewMockClient()
}
