// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package costar builds a co-occurrence graph of works and the contributors
// they share, crawled from a film catalog.
package costar

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/costar/catalog"
	"github.com/poiesic/costar/catalog/tmdb"
	"github.com/poiesic/costar/config"
	"github.com/poiesic/costar/ingestion"
	"github.com/poiesic/costar/loader"
	"github.com/poiesic/costar/storage"
	"github.com/poiesic/costar/storage/badger"
	"github.com/poiesic/costar/storage/relational"
)

// Database ties a graph store to a catalog client.
type Database struct {
	store  storage.GraphStore
	client catalog.Client
	config *config.Config
	logger *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	client catalog.Client
	logger *slog.Logger
}

// WithClient uses client instead of building one from the configuration.
func WithClient(client catalog.Client) DatabaseOption {
	return func(o *databaseOptions) {
		o.client = client
	}
}

// WithLogger sets the logger handed to the store and the pipelines.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// Statistics counts what the store holds.
type Statistics struct {
	Works        int64
	Contributors int64
	Edges        int64
}

// NewDatabase opens the store selected by cfg. The catalog client is only
// built when an access token is configured, so commands that never reach
// the catalog work without one.
func NewDatabase(ctx context.Context, cfg *config.Config, opts ...DatabaseOption) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	options := &databaseOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := openStore(ctx, cfg, options.logger)
	if err != nil {
		return nil, err
	}

	client := options.client
	if client == nil && cfg.AccessToken != "" {
		client, err = tmdb.NewClient(cfg.Catalog())
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	return &Database{
		store:  store,
		client: client,
		config: cfg,
		logger: options.logger,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.GraphStore, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		return badger.NewStore(cfg.ConnectionString)
	case config.BackendPostgres:
		return relational.Open(ctx, relational.Config{
			Dialect:        relational.DialectPostgres,
			DSN:            cfg.ConnectionString,
			MaxConnections: cfg.MaxConnections,
			ChunkSize:      cfg.ChunkSize,
			Logger:         logger,
		})
	case config.BackendSQLite:
		return relational.Open(ctx, relational.Config{
			Dialect:   relational.DialectSQLite,
			DSN:       cfg.ConnectionString,
			ChunkSize: cfg.ChunkSize,
			Logger:    logger,
		})
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnsupportedDialect, cfg.Backend)
	}
}

func (db *Database) Close() error {
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing graph store", "err", err)
		return err
	}
	return nil
}

func (db *Database) Store() storage.GraphStore {
	return db.store
}

// Setup creates the store layout, dropping existing data when reset is true.
func (db *Database) Setup(ctx context.Context, reset bool) error {
	return db.store.Setup(ctx, reset)
}

// Statistics reports the current work, contributor and edge counts.
func (db *Database) Statistics(ctx context.Context) (*Statistics, error) {
	works, err := db.store.WorkCount(ctx)
	if err != nil {
		return nil, err
	}
	contributors, err := db.store.ContributorCount(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := db.store.EdgeCount(ctx)
	if err != nil {
		return nil, err
	}
	return &Statistics{Works: works, Contributors: contributors, Edges: edges}, nil
}

// NewIngester creates an ingester with the configured task count, channel
// size and report interval. opts are applied after those.
func (db *Database) NewIngester(opts ...ingestion.Option) (*ingestion.Ingester, error) {
	defaults := []ingestion.Option{
		ingestion.WithTaskCount(db.config.TaskCount),
		ingestion.WithChannelSize(db.config.ChannelSize),
		ingestion.WithReportInterval(db.config.ReportInterval),
		ingestion.WithLogger(db.logger),
	}
	return ingestion.NewIngester(db.store, db.client, append(defaults, opts...)...)
}

func (db *Database) NewSeeder(opts ...ingestion.SeederOption) (*ingestion.Seeder, error) {
	defaults := []ingestion.SeederOption{ingestion.WithSeederLogger(db.logger)}
	return ingestion.NewSeeder(db.store, db.client, append(defaults, opts...)...)
}

func (db *Database) NewLoader(opts ...loader.Option) (*loader.Loader, error) {
	defaults := []loader.Option{
		loader.WithChunkSize(db.config.ChunkSize),
		loader.WithLogger(db.logger),
	}
	return loader.NewLoader(db.store, append(defaults, opts...)...)
}

// Import resets the store and loads the configured dumps.
func (db *Database) Import(ctx context.Context) (*loader.Result, error) {
	if err := db.store.Setup(ctx, true); err != nil {
		return nil, fmt.Errorf("reset store: %w", err)
	}
	l, err := db.NewLoader()
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, db.config.MoviePath, db.config.PersonPath)
}
