package relational

import (
	"context"

	"gorm.io/gorm"

	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/storage"
)

// UpsertContributor inserts a contributor and assigns it the next dense index.
func (s *Store) UpsertContributor(ctx context.Context, contributor core.Contributor) error {
	return s.UpsertContributors(ctx, []core.Contributor{contributor})
}

// UpsertContributors inserts contributors one chunk per transaction. Each
// transaction assigns indices after the current maximum, in slice order,
// skipping contributors that are already stored.
func (s *Store) UpsertContributors(ctx context.Context, contributors []core.Contributor) error {
	for i := range contributors {
		if err := core.ValidateContributor(&contributors[i]); err != nil {
			return err
		}
	}
	for _, chunk := range storage.Chunk(contributors, s.chunkSize) {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.insertContributors(tx, chunk)
		})
		if err != nil {
			return translate(err)
		}
	}
	return nil
}

func (s *Store) insertContributors(tx *gorm.DB, chunk []core.Contributor) error {
	if s.dialect == DialectPostgres {
		// Blocks other index assignments and plain inserts until commit.
		if err := tx.Exec("LOCK TABLE contributors IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
			return err
		}
	}

	ids := make([]int64, len(chunk))
	for i, c := range chunk {
		ids[i] = int64(c.ID)
	}
	var existing []int64
	if err := tx.Model(&contributorRow{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return err
	}
	stored := make(map[int64]bool, len(existing))
	for _, id := range existing {
		stored[id] = true
	}

	var next int64
	if err := tx.Model(&contributorRow{}).Select("COALESCE(MAX(idx), 0)").Scan(&next).Error; err != nil {
		return err
	}

	rows := make([]contributorRow, 0, len(chunk))
	for _, c := range chunk {
		if stored[int64(c.ID)] {
			continue
		}
		stored[int64(c.ID)] = true
		next++
		rows = append(rows, contributorRow{ID: int64(c.ID), Idx: next, Name: c.Name})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// ContributorExists reports whether the contributor is stored.
func (s *Store) ContributorExists(ctx context.Context, id core.ID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&contributorRow{}).Where("id = ?", int64(id)).Count(&count).Error
	return count > 0, translate(err)
}

// ContributorCount returns the number of stored contributors.
func (s *Store) ContributorCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&contributorRow{}).Count(&count).Error
	return count, translate(err)
}

// GetExternalID returns the catalog ID held at a dense index.
func (s *Store) GetExternalID(ctx context.Context, index int64) (core.ID, error) {
	var row contributorRow
	err := s.db.WithContext(ctx).Where("idx = ?", index).Take(&row).Error
	if err != nil {
		return 0, translate(err)
	}
	return core.ID(row.ID), nil
}

// GetContributor retrieves a contributor by catalog ID.
func (s *Store) GetContributor(ctx context.Context, id core.ID) (*core.Contributor, error) {
	var row contributorRow
	err := s.db.WithContext(ctx).Where("id = ?", int64(id)).Take(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &core.Contributor{ID: core.ID(row.ID), Name: row.Name, Index: row.Idx}, nil
}
