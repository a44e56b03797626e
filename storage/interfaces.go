package storage

import (
	"context"

	"github.com/poiesic/costar/core"
)

// DefaultChunkSize is the number of rows written per statement or transaction
// by the bulk upsert operations.
const DefaultChunkSize = 1000

// WorkRepository provides operations for managing works.
type WorkRepository interface {
	// UpsertWork inserts a work. An existing work with the same ID is left untouched.
	UpsertWork(ctx context.Context, work core.Work) error

	// UpsertWorks inserts works in chunks. Existing works are left untouched.
	UpsertWorks(ctx context.Context, works []core.Work) error

	// WorkExists reports whether a work with the given ID is stored.
	WorkExists(ctx context.Context, id core.ID) (bool, error)

	// WorkCount returns the number of stored works.
	WorkCount(ctx context.Context) (int64, error)
}

// ContributorRepository provides operations for managing contributors and
// their dense indices.
type ContributorRepository interface {
	// UpsertContributor inserts a contributor and assigns it the next dense index.
	// A contributor that already exists keeps its index and consumes none.
	UpsertContributor(ctx context.Context, contributor core.Contributor) error

	// UpsertContributors inserts contributors in chunks. Indices are assigned
	// in slice order to the contributors that were not already stored.
	UpsertContributors(ctx context.Context, contributors []core.Contributor) error

	// ContributorExists reports whether a contributor with the given ID is stored.
	ContributorExists(ctx context.Context, id core.ID) (bool, error)

	// ContributorCount returns the number of stored contributors. Because
	// indices are dense, this is also the highest assigned index.
	ContributorCount(ctx context.Context) (int64, error)

	// GetExternalID returns the catalog ID of the contributor at a dense index.
	// Returns ErrNotFound if no contributor holds that index.
	GetExternalID(ctx context.Context, index int64) (core.ID, error)

	// GetContributor retrieves a contributor, including its index, by catalog ID.
	// Returns ErrNotFound if the contributor doesn't exist.
	GetContributor(ctx context.Context, id core.ID) (*core.Contributor, error)
}

// EdgeRepository provides operations for managing co-occurrence edges.
type EdgeRepository interface {
	// UpsertEdge inserts an edge. If an edge with the same (Source, Target)
	// exists, the call is a no-op and the stored contributor is kept.
	// Both works and the contributor must exist.
	UpsertEdge(ctx context.Context, edge core.Edge) error

	// UpsertEdges inserts edges in chunks with the same first-writer-wins rule.
	UpsertEdges(ctx context.Context, edges []core.Edge) error

	// GetEdge retrieves the edge identified by (source, target).
	// Returns ErrNotFound if the edge doesn't exist.
	GetEdge(ctx context.Context, source, target core.ID) (*core.Edge, error)

	// EdgeCount returns the number of stored edges.
	EdgeCount(ctx context.Context) (int64, error)
}

// GraphStore combines every repository with lifecycle management.
// Implementations must be safe for concurrent use by multiple goroutines.
type GraphStore interface {
	WorkRepository
	ContributorRepository
	EdgeRepository

	// Setup creates the persisted layout. When reset is true, any existing
	// works, contributors and edges are dropped first.
	Setup(ctx context.Context, reset bool) error

	// Close releases the backend's resources.
	Close() error
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
