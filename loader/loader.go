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


package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/costar/core"
	"github.com/poiesic/costar/storage"
)

// maxLineSize bounds a single dump line.
const maxLineSize = 1 << 20

// ErrStoreRequired is returned when a graph store is not provided.
var ErrStoreRequired = errors.New("graph store required")

// Loader imports dump files into a store.
type Loader struct {
	store     storage.GraphStore
	chunkSize int
	logger    *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithChunkSize sets how many records are written per batch.
// Default is storage.DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(l *Loader) error {
		if n < 1 {
			return fmt.Errorf("chunk size must be positive, got %d", n)
		}
		l.chunkSize = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a loader writing to store.
func NewLoader(store storage.GraphStore, opts ...Option) (*Loader, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	l := &Loader{
		store:     store,
		chunkSize: storage.DefaultChunkSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "loader")
	return l, nil
}

// Result counts what a load read.
type Result struct {
	// Works and Contributors count valid records read, duplicates included.
	Works        int64
	Contributors int64
	// Skipped counts malformed lines and records without a usable id.
	Skipped int64
	// ContributorTotal is the store's contributor count after the load.
	ContributorTotal int64
}

// dumpRecord covers both work and contributor export lines.
type dumpRecord struct {
	ID            int64  `json:"id"`
	OriginalTitle string `json:"original_title"`
	Title         string `json:"title"`
	Name          string `json:"name"`
}

// Load imports the works and contributors dumps concurrently. Either path
// may be empty to skip that file.
func (l *Loader) Load(ctx context.Context, worksPath, contributorsPath string) (*Result, error) {
	var result Result
	var skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if worksPath != "" {
		g.Go(func() error {
			n, s, err := l.loadFile(gctx, worksPath, l.LoadWorks)
			result.Works = n
			skipped.Add(s)
			return err
		})
	}
	if contributorsPath != "" {
		g.Go(func() error {
			n, s, err := l.loadFile(gctx, contributorsPath, l.LoadContributors)
			result.Contributors = n
			skipped.Add(s)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.Skipped = skipped.Load()

	total, err := l.store.ContributorCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contributors: %w", err)
	}
	result.ContributorTotal = total

	l.logger.Info("load finished",
		"works", result.Works,
		"contributors", result.Contributors,
		"skipped", result.Skipped,
		"universe", total)
	return &result, nil
}

type readerFunc func(ctx context.Context, r io.Reader) (int64, int64, error)

func (l *Loader) loadFile(ctx context.Context, path string, read readerFunc) (int64, int64, error) {
	rc, err := openDump(path)
	if err != nil {
		return 0, 0, err
	}
	defer rc.Close()

	l.logger.Info("loading dump", "path", path)
	n, skipped, err := read(ctx, rc)
	if err != nil {
		return n, skipped, fmt.Errorf("load %s: %w", path, err)
	}
	return n, skipped, nil
}

// LoadWorks reads work lines from r. It returns the number of works read
// and the number of lines skipped.
func (l *Loader) LoadWorks(ctx context.Context, r io.Reader) (int64, int64, error) {
	batch := make([]core.Work, 0, l.chunkSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := l.store.UpsertWorks(ctx, batch)
		batch = batch[:0]
		return err
	}

	n, skipped, err := l.scan(ctx, r, func(rec dumpRecord) error {
		title := rec.OriginalTitle
		if title == "" {
			title = rec.Title
		}
		batch = append(batch, core.Work{ID: core.ID(rec.ID), Title: title})
		if len(batch) >= l.chunkSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return n, skipped, err
	}
	return n, skipped, flush()
}

// LoadContributors reads contributor lines from r in order. It returns the
// number of contributors read and the number of lines skipped.
func (l *Loader) LoadContributors(ctx context.Context, r io.Reader) (int64, int64, error) {
	batch := make([]core.Contributor, 0, l.chunkSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := l.store.UpsertContributors(ctx, batch)
		batch = batch[:0]
		return err
	}

	n, skipped, err := l.scan(ctx, r, func(rec dumpRecord) error {
		batch = append(batch, core.Contributor{ID: core.ID(rec.ID), Name: rec.Name})
		if len(batch) >= l.chunkSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return n, skipped, err
	}
	return n, skipped, flush()
}

// scan decodes each non-blank line and hands records with a positive id to
// emit. Malformed lines are logged and skipped.
func (l *Loader) scan(ctx context.Context, r io.Reader, emit func(dumpRecord) error) (int64, int64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var n, skipped int64
	var lineNo int
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var rec dumpRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			l.logger.Warn("skipping malformed line", "line", lineNo, "err", err)
			continue
		}
		if rec.ID <= 0 {
			skipped++
			l.logger.Warn("skipping record without id", "line", lineNo)
			continue
		}

		if err := emit(rec); err != nil {
			return n, skipped, err
		}
		n++

		if lineNo%100_000 == 0 {
			if err := ctx.Err(); err != nil {
				return n, skipped, err
			}
			l.logger.Debug("dump progress", "lines", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return n, skipped, err
	}
	return n, skipped, ctx.Err()
}

// openDump opens path, transparently decompressing .gz files.
func openDump(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}
