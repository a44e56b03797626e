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


package relational

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/poiesic/costar/storage"
)

// Dialect names a supported SQL database.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DefaultMaxConnections bounds the postgres pool when Config leaves it unset.
const DefaultMaxConnections = 20

// sqliteParams enables WAL, waits on locks instead of failing, and turns on
// foreign key enforcement, which sqlite leaves off by default.
const sqliteParams = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// Config holds connection settings for a relational store.
type Config struct {
	Dialect        Dialect
	DSN            string
	MaxConnections int
	ChunkSize      int
	Logger         *slog.Logger
}

// Store implements storage.GraphStore with gorm.
type Store struct {
	db        *gorm.DB
	dialect   Dialect
	chunkSize int
	logger    *slog.Logger
	closers   []func() error
}

var _ storage.GraphStore = (*Store)(nil)

// Open connects to the database described by cfg.
func Open(ctx context.Context, cfg Config) (storage.GraphStore, error) {
	switch cfg.Dialect {
	case DialectPostgres:
		return openPostgres(ctx, cfg)
	case DialectSQLite:
		return openSQLite(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnsupportedDialect, cfg.Dialect)
	}
}

// OpenPostgres connects to postgres with at most maxConns pooled connections.
func OpenPostgres(ctx context.Context, dsn string, maxConns int) (storage.GraphStore, error) {
	return Open(ctx, Config{Dialect: DialectPostgres, DSN: dsn, MaxConnections: maxConns})
}

// OpenSQLite opens or creates a sqlite database file.
func OpenSQLite(path string) (storage.GraphStore, error) {
	return Open(context.Background(), Config{Dialect: DialectSQLite, DSN: path})
}

func openPostgres(ctx context.Context, cfg Config) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres connection string: %w", err)
	}
	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = DefaultMaxConnections
	}
	poolConfig.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig(cfg.Logger))
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	store := newStore(db, cfg)
	store.closers = []func() error{
		sqlDB.Close,
		func() error { pool.Close(); return nil },
	}
	return store, nil
}

func openSQLite(cfg Config) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN(cfg.DSN)), gormConfig(cfg.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One connection serializes writers; sqlite allows a single writer anyway.
	sqlDB.SetMaxOpenConns(1)

	store := newStore(db, cfg)
	store.closers = []func() error{sqlDB.Close}
	return store, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteParams
	}
	return dsn + "?" + sqliteParams
}

func newStore(db *gorm.DB, cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = storage.DefaultChunkSize
	}
	return &Store{
		db:        db,
		dialect:   cfg.Dialect,
		chunkSize: chunkSize,
		logger:    logger.With("component", "relational", "dialect", string(cfg.Dialect)),
	}
}

func gormConfig(logger *slog.Logger) *gorm.Config {
	if logger == nil {
		logger = slog.Default()
	}
	return &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(
			slog.NewLogLogger(logger.With("component", "gorm").Handler(), slog.LevelWarn),
			gormLogger.Config{
				SlowThreshold:             1 * time.Second,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}

// Setup creates the works, contributors and edges tables, dropping them first
// when reset is true.
func (s *Store) Setup(ctx context.Context, reset bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reset {
			s.logger.Info("dropping graph tables")
			for _, stmt := range dropStatements {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("reset schema: %w", err)
				}
			}
		}
		for _, stmt := range schemaStatements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
		}
		return nil
	})
}

// Close releases the connection pool.
func (s *Store) Close() error {
	var errs []error
	for _, closer := range s.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// translate maps gorm errors onto storage sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", storage.ErrReferenceMissing, err)
	}
	return err
}
