package relational

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/poiesic/costar/core"
)

// UpsertEdge inserts an edge unless its (Source, Target) pair is already stored.
func (s *Store) UpsertEdge(ctx context.Context, edge core.Edge) error {
	return s.UpsertEdges(ctx, []core.Edge{edge})
}

// UpsertEdges inserts edges in batches. Conflicting pairs keep the first
// contributor written. Foreign key violations surface as
// storage.ErrReferenceMissing.
func (s *Store) UpsertEdges(ctx context.Context, edges []core.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	rows := make([]edgeRow, len(edges))
	for i, edge := range edges {
		if err := core.ValidateEdge(edge); err != nil {
			return err
		}
		rows[i] = edgeRow{
			SourceWork:  int64(edge.Source),
			TargetWork:  int64(edge.Target),
			Contributor: int64(edge.Contributor),
		}
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, s.chunkSize).Error
	return translate(err)
}

// GetEdge retrieves the edge stored for (source, target).
func (s *Store) GetEdge(ctx context.Context, source, target core.ID) (*core.Edge, error) {
	var row edgeRow
	err := s.db.WithContext(ctx).
		Where("source_work = ? AND target_work = ?", int64(source), int64(target)).
		Take(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &core.Edge{
		Source:      core.ID(row.SourceWork),
		Target:      core.ID(row.TargetWork),
		Contributor: core.ID(row.Contributor),
	}, nil
}

// EdgeCount returns the number of stored edges.
func (s *Store) EdgeCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&edgeRow{}).Count(&count).Error
	return count, translate(err)
}
