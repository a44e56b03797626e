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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/costar"
	"github.com/poiesic/costar/config"
	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "costar",
		Usage: "Build a graph of films connected by the people who worked on them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the TOML configuration file",
				Value:   config.DefaultPath,
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "setup",
				Usage:  "Create the works, contributors and edges layout",
				Action: setupCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Drop existing data first",
					},
				},
			},
			{
				Name:   "load",
				Usage:  "Load works and contributors from catalog export dumps",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "works",
						Usage: "Works dump path (defaults to movie_path)",
					},
					&cli.StringFlag{
						Name:  "contributors",
						Usage: "Contributors dump path (defaults to person_path)",
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Seed the store from popular works and their credits",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{
						Name:  "work-id",
						Usage: "Seed from these work IDs instead of discovery",
					},
				},
			},
			{
				Name:   "crawl",
				Usage:  "Crawl every contributor's works and record co-occurrence edges",
				Action: crawlCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "tasks",
						Aliases: []string{"t"},
						Usage:   "Number of partitions and concurrent workers (overrides task_count)",
					},
					&cli.IntFlag{
						Name:  "channel-size",
						Usage: "Progress channel capacity (overrides channel_size)",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N contributors (overrides report_interval)",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Print a progress line instead of logging milestones",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print work, contributor and edge counts",
				Action: statsCommand,
			},
		},
	}
}

func openDatabase(c *cli.Context) (*costar.Database, *config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	db, err := costar.NewDatabase(c.Context, cfg, costar.WithLogger(slog.Default()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}

func setupCommand(c *cli.Context) error {
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Setup(c.Context, c.Bool("reset")); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	slog.Info("store ready", "reset", c.Bool("reset"))
	return nil
}

func loadCommand(c *cli.Context) error {
	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	worksPath := c.String("works")
	if worksPath == "" {
		worksPath = cfg.MoviePath
	}
	contributorsPath := c.String("contributors")
	if contributorsPath == "" {
		contributorsPath = cfg.PersonPath
	}
	if worksPath == "" && contributorsPath == "" {
		return fmt.Errorf("nothing to load: set movie_path or person_path, or pass --works/--contributors")
	}

	l, err := db.NewLoader()
	if err != nil {
		return err
	}
	result, err := l.Load(c.Context, worksPath, contributorsPath)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Works: %d\n", result.Works)
	fmt.Fprintf(os.Stderr, "Contributors: %d (universe %d)\n", result.Contributors, result.ContributorTotal)
	fmt.Fprintf(os.Stderr, "Skipped lines: %d\n", result.Skipped)
	return nil
}

func seedCommand(c *cli.Context) error {
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []ingestion.SeederOption
	if ids := c.Int64Slice("work-id"); len(ids) > 0 {
		workIDs := make([]core.ID, len(ids))
		for i, id := range ids {
			workIDs[i] = core.ID(id)
		}
		opts = append(opts, ingestion.WithWorkIDs(workIDs...))
	}

	seeder, err := db.NewSeeder(opts...)
	if err != nil {
		return err
	}
	result, err := seeder.Run(c.Context)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Works: %d\n", result.Works)
	fmt.Fprintf(os.Stderr, "Contributors: %d (universe %d)\n", result.Contributors, result.ContributorTotal)
	return nil
}

func crawlCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []ingestion.Option
	if cfg.Import {
		slog.Info("importing dumps before crawl", "works", cfg.MoviePath, "contributors", cfg.PersonPath)
		loaded, err := db.Import(ctx)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		opts = append(opts, ingestion.WithTotal(loaded.ContributorTotal))
	}
	if c.IsSet("tasks") {
		opts = append(opts, ingestion.WithTaskCount(c.Int("tasks")))
	}
	if c.IsSet("channel-size") {
		opts = append(opts, ingestion.WithChannelSize(c.Int("channel-size")))
	}
	if c.IsSet("report-interval") {
		opts = append(opts, ingestion.WithReportInterval(c.Int("report-interval")))
	}
	var progress *ingestion.WriterReporter
	if c.Bool("progress") {
		progress = ingestion.NewWriterReporter(os.Stderr)
		opts = append(opts, ingestion.WithReporter(progress))
	}

	ingester, err := db.NewIngester(opts...)
	if err != nil {
		return err
	}
	result, err := ingester.Run(ctx)
	if progress != nil {
		progress.Finish()
	}
	if result != nil {
		fmt.Fprintf(os.Stderr, "Run: %s\n", result.RunID)
		fmt.Fprintf(os.Stderr, "Contributors: %d/%d in %s (%.1f/s)\n",
			result.Summary.Processed, result.Total, result.Duration.Round(time.Millisecond), result.Summary.Rate())
		for _, failure := range result.Failures {
			fmt.Fprintf(os.Stderr, "Partition %d %s failed: %v\n", failure.Partition, failure.Range, failure.Err)
		}
	}
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Statistics(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("works: %d\ncontributors: %d\nedges: %d\n", stats.Works, stats.Contributors, stats.Edges)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
