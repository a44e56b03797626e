package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/storage"
)

// UpsertContributor inserts a contributor and assigns it the next dense index.
func (s *Store) UpsertContributor(ctx context.Context, contributor core.Contributor) error {
	return s.UpsertContributors(ctx, []core.Contributor{contributor})
}

// UpsertContributors inserts contributors in chunks. Each chunk reads the
// index counter, so concurrent chunks conflict on it and are replayed,
// which keeps indices dense.
func (s *Store) UpsertContributors(ctx context.Context, contributors []core.Contributor) error {
	for _, contributor := range contributors {
		if err := core.ValidateContributor(&contributor); err != nil {
			return err
		}
	}
	for _, chunk := range storage.Chunk(contributors, s.chunkSize) {
		if err := s.backend.Update(ctx, func(tx *badger.Txn) error {
			return insertContributors(tx, chunk)
		}); err != nil {
			return err
		}
	}
	return nil
}

func insertContributors(tx *badger.Txn, contributors []core.Contributor) error {
	seq, err := readSequence(tx)
	if err != nil {
		return err
	}
	next := seq
	for _, contributor := range contributors {
		key := makeContributorKey(contributor.ID)
		found, err := exists(tx, key)
		if err != nil {
			return err
		}
		if found {
			continue
		}

		next++
		contributor.Index = next
		value, err := storage.MarshalContributor(&contributor)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		if err := tx.Set(makeContributorIndexKey(next), storage.MarshalID(contributor.ID)); err != nil {
			return err
		}
	}
	if next == seq {
		return nil
	}
	return tx.Set([]byte(contributorSeq), storage.MarshalID(core.ID(next)))
}

// readSequence returns the highest assigned contributor index.
func readSequence(tx *badger.Txn) (int64, error) {
	item, err := tx.Get([]byte(contributorSeq))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var seq core.ID
	err = item.Value(func(val []byte) error {
		seq, err = storage.UnmarshalID(val)
		return err
	})
	return int64(seq), err
}

// ContributorExists reports whether the contributor is stored.
func (s *Store) ContributorExists(ctx context.Context, id core.ID) (bool, error) {
	var found bool
	err := s.backend.View(func(tx *badger.Txn) error {
		var err error
		found, err = exists(tx, makeContributorKey(id))
		return err
	})
	return found, err
}

// ContributorCount returns the number of stored contributors, read from the
// index counter.
func (s *Store) ContributorCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.backend.View(func(tx *badger.Txn) error {
		var err error
		count, err = readSequence(tx)
		return err
	})
	return count, err
}

// GetExternalID returns the catalog ID held at a dense index.
func (s *Store) GetExternalID(ctx context.Context, index int64) (core.ID, error) {
	var id core.ID
	err := s.backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeContributorIndexKey(index))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id, err = storage.UnmarshalID(val)
			return err
		})
	})
	return id, err
}

// GetContributor retrieves a contributor by catalog ID.
func (s *Store) GetContributor(ctx context.Context, id core.ID) (*core.Contributor, error) {
	var contributor *core.Contributor
	err := s.backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeContributorKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			contributor, err = storage.UnmarshalContributor(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return contributor, nil
}
