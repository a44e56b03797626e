package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/storage"
)

// UpsertEdge inserts an edge unless its (Source, Target) pair is already stored.
func (s *Store) UpsertEdge(ctx context.Context, edge core.Edge) error {
	return s.UpsertEdges(ctx, []core.Edge{edge})
}

// UpsertEdges inserts edges in chunks. The first stored contributor for a
// pair is kept; referenced works and contributors must already exist.
func (s *Store) UpsertEdges(ctx context.Context, edges []core.Edge) error {
	for _, edge := range edges {
		if err := core.ValidateEdge(edge); err != nil {
			return err
		}
	}
	for _, chunk := range storage.Chunk(edges, s.chunkSize) {
		if err := s.backend.Update(ctx, func(tx *badger.Txn) error {
			return insertEdges(tx, chunk)
		}); err != nil {
			return err
		}
	}
	return nil
}

func insertEdges(tx *badger.Txn, edges []core.Edge) error {
	refs := newReferenceChecker(tx)
	for i := range edges {
		edge := &edges[i]
		key := makeEdgeKey(edge.Source, edge.Target)
		found, err := exists(tx, key)
		if err != nil {
			return err
		}
		if found {
			continue
		}
		if err := refs.check(edge); err != nil {
			return err
		}
		value, err := storage.MarshalEdge(edge)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// referenceChecker memoizes existence lookups within one transaction.
type referenceChecker struct {
	tx   *badger.Txn
	seen map[string]bool
}

func newReferenceChecker(tx *badger.Txn) *referenceChecker {
	return &referenceChecker{tx: tx, seen: make(map[string]bool)}
}

func (rc *referenceChecker) check(edge *core.Edge) error {
	refs := []struct {
		kind string
		id   core.ID
		key  []byte
	}{
		{"source work", edge.Source, makeWorkKey(edge.Source)},
		{"target work", edge.Target, makeWorkKey(edge.Target)},
		{"contributor", edge.Contributor, makeContributorKey(edge.Contributor)},
	}
	for _, ref := range refs {
		found, ok := rc.seen[string(ref.key)]
		if !ok {
			var err error
			found, err = exists(rc.tx, ref.key)
			if err != nil {
				return err
			}
			rc.seen[string(ref.key)] = found
		}
		if !found {
			return fmt.Errorf("%w: %s %d", storage.ErrReferenceMissing, ref.kind, ref.id)
		}
	}
	return nil
}

// GetEdge retrieves the edge stored for (source, target).
func (s *Store) GetEdge(ctx context.Context, source, target core.ID) (*core.Edge, error) {
	var edge *core.Edge
	err := s.backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEdgeKey(source, target))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			edge, err = storage.UnmarshalEdge(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// EdgeCount returns the number of stored edges.
func (s *Store) EdgeCount(ctx context.Context) (int64, error) {
	return s.backend.countPrefix([]byte(edgePrefix))
}
