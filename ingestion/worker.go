package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/costar/catalog"
	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/partition"
	"github.com/poiesic/costar/storage"
)

// graphWriter is the slice of storage.GraphStore a worker needs.
type graphWriter interface {
	GetExternalID(ctx context.Context, index int64) (core.ID, error)
	UpsertWorks(ctx context.Context, works []core.Work) error
	UpsertEdges(ctx context.Context, edges []core.Edge) error
}

// worker processes one partition of the contributor index universe.
type worker struct {
	partition int
	span      partition.Range
	store     graphWriter
	client    catalog.Client
	signals   chan<- Signal
	logger    *slog.Logger
}

// run processes every index of the range in increasing order and stops at
// the first error.
func (w *worker) run(ctx context.Context) error {
	w.logger.Debug("worker starting", "range", w.span.String(), "size", w.span.Len())
	for index := w.span.Start; index < w.span.End; index++ {
		if err := w.process(ctx, index); err != nil {
			return err
		}
	}
	w.logger.Debug("worker finished", "range", w.span.String())
	return nil
}

func (w *worker) process(ctx context.Context, index int64) error {
	contributor, err := w.store.GetExternalID(ctx, index)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w %d", ErrMissingContributor, index)
	}
	if err != nil {
		return fmt.Errorf("index %d: %w", index, err)
	}

	works, err := w.client.DiscoverWorksByContributor(ctx, contributor)
	if err != nil {
		return fmt.Errorf("contributor %d (index %d): %w", contributor, index, err)
	}

	if len(works) > 0 {
		// Edges reference works, so the works go in first.
		if err := w.store.UpsertWorks(ctx, works); err != nil {
			return fmt.Errorf("contributor %d (index %d): %w", contributor, index, err)
		}
		if err := w.store.UpsertEdges(ctx, DeriveEdges(works, contributor)); err != nil {
			return fmt.Errorf("contributor %d (index %d): %w", contributor, index, err)
		}
	}

	select {
	case w.signals <- Signal{Partition: w.partition, Index: index, Contributor: contributor}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
