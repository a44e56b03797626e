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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/costar/catalog"
	"github.com/poiesic/costar/partition"
	"github.com/poiesic/costar/storage"
)

const (
	// DefaultTaskCount is the number of partitions and workers per run.
	DefaultTaskCount = 16

	// DefaultChannelSize is the capacity of the progress signal channel.
	DefaultChannelSize = 1024
)

// Ingester orchestrates a partitioned crawl of the contributor universe.
type Ingester struct {
	store          storage.GraphStore
	client         catalog.Client
	taskCount      int
	channelSize    int
	reportInterval int
	total          int64
	totalSet       bool
	reporter       Reporter
	logger         *slog.Logger
}

// Option configures an Ingester.
type Option func(*Ingester) error

// WithTaskCount sets the number of partitions, which is also the number of
// concurrent workers.
// Default is DefaultTaskCount.
func WithTaskCount(n int) Option {
	return func(i *Ingester) error {
		if n < 1 {
			return fmt.Errorf("%w: task count %d", ErrInvalidOption, n)
		}
		i.taskCount = n
		return nil
	}
}

// WithChannelSize sets the progress channel capacity. Workers block when it is full.
// Default is DefaultChannelSize.
func WithChannelSize(n int) Option {
	return func(i *Ingester) error {
		if n < 0 {
			return fmt.Errorf("%w: channel size %d", ErrInvalidOption, n)
		}
		i.channelSize = n
		return nil
	}
}

// WithReportInterval sets how many processed contributors separate milestones.
// Default is DefaultReportInterval.
func WithReportInterval(n int) Option {
	return func(i *Ingester) error {
		if n < 1 {
			return fmt.Errorf("%w: report interval %d", ErrInvalidOption, n)
		}
		i.reportInterval = n
		return nil
	}
}

// WithTotal fixes the universe size instead of asking the store for its
// contributor count, for example with the count reported by a bulk load.
func WithTotal(total int64) Option {
	return func(i *Ingester) error {
		if total < 0 {
			return fmt.Errorf("%w: total %d", ErrInvalidOption, total)
		}
		i.total = total
		i.totalSet = true
		return nil
	}
}

// WithReporter sets where milestones are delivered.
// Default is a LogReporter on the ingester's logger.
func WithReporter(reporter Reporter) Option {
	return func(i *Ingester) error {
		i.reporter = reporter
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Ingester) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// NewIngester creates an ingester over store and client.
func NewIngester(store storage.GraphStore, client catalog.Client, opts ...Option) (*Ingester, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if client == nil {
		return nil, ErrClientRequired
	}

	i := &Ingester{
		store:          store,
		client:         client,
		taskCount:      DefaultTaskCount,
		channelSize:    DefaultChannelSize,
		reportInterval: DefaultReportInterval,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Result describes a finished run.
type Result struct {
	RunID    string
	Total    int64
	Ranges   []partition.Range
	Summary  Summary
	Failures []*PartitionError
	Duration time.Duration
}

// Run crawls the whole universe once. Every worker runs to completion or to
// its own first error; the aggregator sees every signal sent. If any worker
// failed, Run returns the result together with the earliest failure.
// Partial writes are kept.
func (i *Ingester) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := i.logger.With("component", "ingester", "run_id", runID)

	total := i.total
	if !i.totalSet {
		count, err := i.store.ContributorCount(ctx)
		if err != nil {
			return nil, fmt.Errorf("count contributors: %w", err)
		}
		total = count
	}

	ranges, err := partition.Partition(total, i.taskCount)
	if err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(i.taskCount)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	reporter := i.reporter
	if reporter == nil {
		reporter = NewLogReporter(logger)
	}

	logger.Info("starting ingestion", "total", total, "tasks", i.taskCount, "channel_size", i.channelSize)

	signals := make(chan Signal, i.channelSize)
	aggregator := NewAggregator(total, i.reportInterval, reporter)
	summaryCh := make(chan Summary, 1)
	go func() {
		summaryCh <- aggregator.Run(signals)
	}()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []*PartitionError
	)
	fail := func(pe *PartitionError) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, pe)
	}

	for p, span := range ranges {
		w := &worker{
			partition: p,
			span:      span,
			store:     i.store,
			client:    i.client,
			signals:   signals,
			logger:    logger.With("partition", p),
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					w.logger.Error("worker panicked", "range", span.String(), "panic", r)
					fail(&PartitionError{Partition: p, Range: span, Err: fmt.Errorf("%w: %v", ErrWorkerPanic, r)})
				}
			}()
			if err := w.run(ctx); err != nil {
				w.logger.Error("worker failed", "range", span.String(), "err", err)
				fail(&PartitionError{Partition: p, Range: span, Err: err})
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(&PartitionError{Partition: p, Range: span, Err: submitErr})
		}
	}

	wg.Wait()
	close(signals)
	summary := <-summaryCh

	result := &Result{
		RunID:    runID,
		Total:    total,
		Ranges:   ranges,
		Summary:  summary,
		Failures: failures,
		Duration: time.Since(started),
	}

	logger.Info("ingestion finished",
		"processed", summary.Processed,
		"failed_partitions", len(failures),
		"elapsed", summary.Elapsed.Round(time.Millisecond),
		"rate", fmt.Sprintf("%.1f/s", summary.Rate()))

	if len(failures) > 0 {
		return result, failures[0]
	}
	return result, nil
}
