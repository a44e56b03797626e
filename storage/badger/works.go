package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/storage"
)

// UpsertWork inserts a work unless one with the same ID exists.
func (s *Store) UpsertWork(ctx context.Context, work core.Work) error {
	return s.UpsertWorks(ctx, []core.Work{work})
}

// UpsertWorks inserts works in chunks, leaving existing works untouched.
func (s *Store) UpsertWorks(ctx context.Context, works []core.Work) error {
	for _, work := range works {
		if err := core.ValidateWork(&work); err != nil {
			return err
		}
	}
	for _, chunk := range storage.Chunk(works, s.chunkSize) {
		err := s.backend.Update(ctx, func(tx *badger.Txn) error {
			for i := range chunk {
				key := makeWorkKey(chunk[i].ID)
				found, err := exists(tx, key)
				if err != nil {
					return err
				}
				if found {
					continue
				}
				value, err := storage.MarshalWork(&chunk[i])
				if err != nil {
					return err
				}
				if err := tx.Set(key, value); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// WorkExists reports whether the work is stored.
func (s *Store) WorkExists(ctx context.Context, id core.ID) (bool, error) {
	var found bool
	err := s.backend.View(func(tx *badger.Txn) error {
		var err error
		found, err = exists(tx, makeWorkKey(id))
		return err
	})
	return found, err
}

// WorkCount returns the number of stored works.
func (s *Store) WorkCount(ctx context.Context) (int64, error) {
	return s.backend.countPrefix([]byte(workPrefix))
}
