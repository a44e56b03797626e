package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/costar/catalog"
	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/storage"
)

// Seeder gives an empty store a contributor universe: seed works and the
// contributors credited on them.
type Seeder struct {
	store   storage.GraphStore
	client  catalog.Client
	workIDs []core.ID
	logger  *slog.Logger
}

// SeederOption configures a Seeder.
type SeederOption func(*Seeder) error

// WithWorkIDs seeds from explicit works instead of catalog discovery.
func WithWorkIDs(ids ...core.ID) SeederOption {
	return func(s *Seeder) error {
		for _, id := range ids {
			if err := core.ValidateID(id); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidOption, err)
			}
		}
		s.workIDs = append(s.workIDs, ids...)
		return nil
	}
}

// WithSeederLogger sets a custom logger.
// Default is slog.Default().
func WithSeederLogger(logger *slog.Logger) SeederOption {
	return func(s *Seeder) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSeeder creates a seeder over store and client.
func NewSeeder(store storage.GraphStore, client catalog.Client, opts ...SeederOption) (*Seeder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if client == nil {
		return nil, ErrClientRequired
	}
	s := &Seeder{
		store:  store,
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "seeder")
	return s, nil
}

// SeedResult counts what a seeding run stored.
type SeedResult struct {
	Works        int
	Contributors int
	// ContributorTotal is the store's contributor count afterwards.
	ContributorTotal int64
}

// Run fetches the seed works, stores them, then stores the contributors of
// each in catalog order so their indices follow discovery order. No edges
// are written.
func (s *Seeder) Run(ctx context.Context) (*SeedResult, error) {
	works, err := s.seedWorks(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertWorks(ctx, works); err != nil {
		return nil, fmt.Errorf("store seed works: %w", err)
	}

	result := &SeedResult{Works: len(works)}
	for _, work := range works {
		contributors, err := s.client.GetWorkContributors(ctx, work.ID)
		if err != nil {
			return nil, fmt.Errorf("seed work %d: %w", work.ID, err)
		}
		if err := s.store.UpsertContributors(ctx, contributors); err != nil {
			return nil, fmt.Errorf("seed work %d: store contributors: %w", work.ID, err)
		}
		result.Contributors += len(contributors)
		s.logger.Debug("seeded work", "work", work.ID, "title", work.Title, "contributors", len(contributors))
	}

	total, err := s.store.ContributorCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contributors: %w", err)
	}
	result.ContributorTotal = total

	s.logger.Info("seeding finished", "works", result.Works, "contributors", result.Contributors, "universe", total)
	return result, nil
}

func (s *Seeder) seedWorks(ctx context.Context) ([]core.Work, error) {
	if len(s.workIDs) == 0 {
		works, err := s.client.DiscoverSeedWorks(ctx)
		if err != nil {
			return nil, fmt.Errorf("discover seed works: %w", err)
		}
		return works, nil
	}

	works := make([]core.Work, 0, len(s.workIDs))
	for _, id := range s.workIDs {
		work, err := s.client.GetWorkDetails(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("seed work %d: %w", id, err)
		}
		works = append(works, *work)
	}
	return works, nil
}
