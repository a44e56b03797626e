package costar

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/costar/catalog/mock"
	"github.com/poiesic/costar/config"
	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend config.Backend) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Backend = backend
	switch backend {
	case config.BackendSQLite:
		cfg.ConnectionString = filepath.Join(t.TempDir(), "costar.db")
	case config.BackendBadger:
		cfg.ConnectionString = filepath.Join(t.TempDir(), "graph")
	}
	cfg.TaskCount = 2
	return cfg
}

func writeDump(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestNewDatabase(t *testing.T) {
	for _, backend := range []config.Backend{config.BackendSQLite, config.BackendBadger} {
		t.Run(string(backend), func(t *testing.T) {
			db, err := NewDatabase(context.Background(), testConfig(t, backend))
			require.NoError(t, err)
			require.NotNil(t, db)
			defer db.Close()

			assert.NotNil(t, db.Store())
			assert.NotNil(t, db.logger)
			// No access token, no client.
			assert.Nil(t, db.client)
		})
	}

	t.Run("error with invalid config", func(t *testing.T) {
		cfg := config.Default()
		db, err := NewDatabase(context.Background(), cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("error with file as badger directory", func(t *testing.T) {
		cfg := testConfig(t, config.BackendBadger)
		cfg.ConnectionString = writeDump(t, "not_a_dir", "test")

		db, err := NewDatabase(context.Background(), cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("builds catalog client from token", func(t *testing.T) {
		cfg := testConfig(t, config.BackendBadger)
		cfg.AccessToken = "token"

		db, err := NewDatabase(context.Background(), cfg)
		require.NoError(t, err)
		defer db.Close()
		assert.NotNil(t, db.client)
	})
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db, err := NewDatabase(context.Background(), testConfig(t, config.BackendBadger), WithClient(mock.NewMockClient()))
	require.NoError(t, err)
	defer db.Close()

	t.Run("can create ingester", func(t *testing.T) {
		ingester, err := db.NewIngester()
		require.NoError(t, err)
		assert.NotNil(t, ingester)
	})

	t.Run("ingester options override config", func(t *testing.T) {
		_, err := db.NewIngester(ingestion.WithTaskCount(0))
		assert.ErrorIs(t, err, ingestion.ErrInvalidOption)
	})

	t.Run("can create seeder", func(t *testing.T) {
		seeder, err := db.NewSeeder()
		require.NoError(t, err)
		assert.NotNil(t, seeder)
	})

	t.Run("can create loader", func(t *testing.T) {
		l, err := db.NewLoader()
		require.NoError(t, err)
		assert.NotNil(t, l)
	})
}

func TestDatabase_IngesterRequiresClient(t *testing.T) {
	db, err := NewDatabase(context.Background(), testConfig(t, config.BackendBadger))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.NewIngester()
	assert.ErrorIs(t, err, ingestion.ErrClientRequired)
}

func TestDatabase_ImportAndCrawl(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)
	cfg.Import = true
	cfg.MoviePath = writeDump(t, "movie_ids.json", `{"id":603,"original_title":"The Matrix"}
{"id":604,"original_title":"The Matrix Reloaded"}
{"id":605,"original_title":"The Matrix Revolutions"}
`)
	cfg.PersonPath = writeDump(t, "person_ids.json", `{"id":6384,"name":"Keanu Reeves"}
{"id":2975,"name":"Laurence Fishburne"}
{"id":530,"name":"Carrie-Anne Moss"}
`)

	client := mock.NewMockClient()
	client.SetWorksByContributor(6384, []core.Work{{ID: 603, Title: "The Matrix"}, {ID: 604, Title: "The Matrix Reloaded"}})
	client.SetWorksByContributor(2975, []core.Work{{ID: 603, Title: "The Matrix"}, {ID: 604, Title: "The Matrix Reloaded"}})
	client.SetWorksByContributor(530, []core.Work{{ID: 605, Title: "The Matrix Revolutions"}})

	db, err := NewDatabase(ctx, cfg, WithClient(client))
	require.NoError(t, err)
	defer db.Close()

	loaded, err := db.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), loaded.ContributorTotal)

	ingester, err := db.NewIngester()
	require.NoError(t, err)
	result, err := ingester.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Empty(t, result.Failures)

	stats, err := db.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Works)
	assert.Equal(t, int64(3), stats.Contributors)
	// 603 and 604 form a 2x2 block, 605 a single self-loop.
	assert.Equal(t, int64(5), stats.Edges)

	edge, err := db.Store().GetEdge(ctx, 603, 604)
	require.NoError(t, err)
	// Either co-star may have written it first.
	assert.Contains(t, []core.ID{6384, 2975}, edge.Contributor)
}

func TestDatabase_Setup(t *testing.T) {
	ctx := context.Background()
	db, err := NewDatabase(ctx, testConfig(t, config.BackendSQLite))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Setup(ctx, false))
	require.NoError(t, db.Store().UpsertWork(ctx, core.Work{ID: 1, Title: "one"}))

	stats, err := db.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Works)

	require.NoError(t, db.Setup(ctx, true))
	stats, err = db.Statistics(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Works)
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(context.Background(), testConfig(t, config.BackendBadger))
	require.NoError(t, err)

	assert.NoError(t, db.Close())
}
