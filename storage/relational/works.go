package relational

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/poiesic/costar/core"
)

// UpsertWork inserts a work unless one with the same ID exists.
func (s *Store) UpsertWork(ctx context.Context, work core.Work) error {
	return s.UpsertWorks(ctx, []core.Work{work})
}

// UpsertWorks inserts works in batches with ON CONFLICT DO NOTHING.
func (s *Store) UpsertWorks(ctx context.Context, works []core.Work) error {
	if len(works) == 0 {
		return nil
	}
	rows := make([]workRow, len(works))
	for i := range works {
		if err := core.ValidateWork(&works[i]); err != nil {
			return err
		}
		rows[i] = workRow{ID: int64(works[i].ID), Title: works[i].Title}
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, s.chunkSize).Error
	return translate(err)
}

// WorkExists reports whether the work is stored.
func (s *Store) WorkExists(ctx context.Context, id core.ID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&workRow{}).Where("id = ?", int64(id)).Count(&count).Error
	return count > 0, translate(err)
}

// WorkCount returns the number of stored works.
func (s *Store) WorkCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&workRow{}).Count(&count).Error
	return count, translate(err)
}
