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
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/costar/core"
)

// DefaultReportInterval is the number of signals between milestones.
const DefaultReportInterval = 100

// Signal announces that one contributor index was fully processed.
type Signal struct {
	Partition   int
	Index       int64
	Contributor core.ID
}

// Milestone is a throughput report emitted every report interval.
// Interval and Rate are measured since the previous milestone.
type Milestone struct {
	Processed int64
	Total     int64
	Interval  time.Duration
	Elapsed   time.Duration
	Rate      float64
	// Percent is only meaningful when Total > 0.
	Percent float64
}

// Summary is what the Aggregator observed over a whole run.
type Summary struct {
	Processed    int64
	Elapsed      time.Duration
	PerPartition map[int]int64
}

// Rate returns the average signals per second over the run.
func (s Summary) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Processed) / s.Elapsed.Seconds()
}

// Reporter receives milestones from the Aggregator.
type Reporter interface {
	ReportMilestone(m Milestone)
}

// LogReporter writes milestones as structured log lines.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a reporter logging at info level.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

// ReportMilestone implements Reporter.
func (r *LogReporter) ReportMilestone(m Milestone) {
	attrs := []any{
		"processed", m.Processed,
		"interval", m.Interval.Round(time.Millisecond),
		"elapsed", m.Elapsed.Round(time.Millisecond),
		"rate", fmt.Sprintf("%.1f/s", m.Rate),
	}
	if m.Total > 0 {
		attrs = append(attrs, "total", m.Total, "percent", fmt.Sprintf("%.1f", m.Percent))
	}
	r.logger.Info("progress", attrs...)
}

// WriterReporter prints a single updating progress line, suitable for a terminal.
type WriterReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewWriterReporter creates a reporter writing to w (typically os.Stderr).
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{writer: w}
}

// ReportMilestone implements Reporter.
func (r *WriterReporter) ReportMilestone(m Milestone) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.Total > 0 {
		fmt.Fprintf(r.writer, "\rProgress: %d/%d (%.1f%%) - %.1f contributors/s",
			m.Processed, m.Total, m.Percent, m.Rate)
		return
	}
	fmt.Fprintf(r.writer, "\rProgress: %d - %.1f contributors/s", m.Processed, m.Rate)
}

// Finish ends the progress line.
func (r *WriterReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.writer)
}

// Aggregator is the single consumer of worker signals.
type Aggregator struct {
	total          int64
	reportInterval int64
	reporter       Reporter
	now            func() time.Time
}

// NewAggregator creates an aggregator. total may be zero when the universe
// size is unknown; milestones then omit percentages.
func NewAggregator(total int64, reportInterval int, reporter Reporter) *Aggregator {
	if reportInterval < 1 {
		reportInterval = DefaultReportInterval
	}
	if reporter == nil {
		reporter = NewLogReporter(nil)
	}
	return &Aggregator{
		total:          total,
		reportInterval: int64(reportInterval),
		reporter:       reporter,
		now:            time.Now,
	}
}

// Run consumes signals until the channel is closed and returns the summary.
// It never stops early.
func (a *Aggregator) Run(signals <-chan Signal) Summary {
	start := a.now()
	last := start
	summary := Summary{PerPartition: make(map[int]int64)}

	for signal := range signals {
		summary.Processed++
		summary.PerPartition[signal.Partition]++

		if summary.Processed%a.reportInterval != 0 {
			continue
		}
		now := a.now()
		a.reporter.ReportMilestone(a.milestone(summary.Processed, now.Sub(last), now.Sub(start)))
		last = now
	}

	summary.Elapsed = a.now().Sub(start)
	return summary
}

func (a *Aggregator) milestone(processed int64, interval, elapsed time.Duration) Milestone {
	m := Milestone{
		Processed: processed,
		Total:     a.total,
		Interval:  interval,
		Elapsed:   elapsed,
	}
	if interval > 0 {
		m.Rate = float64(a.reportInterval) / interval.Seconds()
	}
	if a.total > 0 {
		m.Percent = float64(processed) / float64(a.total) * 100.0
	}
	return m
}
