// Package stats accumulates per-run counters and byte totals.
package stats

import (
	"time"
)

const bytesPerMB = 1024 * 1024

// Outcome describes what happened to one discovered file.
type Outcome string

const (
	OutcomeEncoded Outcome = "encoded"
	OutcomeCurrent Outcome = "current"
	OutcomeFailed  Outcome = "failed"
)

// FileResult is the per-file record kept for the file table and run history.
type FileResult struct {
	RelPath     string
	Outcome     Outcome
	SourceBytes int64
	// DestBytes is the destination size after handling, or 0 when absent.
	DestBytes int64
	Err       error
}

// RunStatistics is the finalized view of a run handed to reporters.
type RunStatistics struct {
	Discovered int
	Processed  int
	Failed     int
	// SourceBytes sums the sizes of all discovered files.
	SourceBytes int64
	// DestBytes is the recursive size of the whole destination root at run end.
	DestBytes int64
	Started   time.Time
	Elapsed   time.Duration
	Cancelled bool
}

// Skipped counts files whose destination was already up to date.
func (s RunStatistics) Skipped() int {
	return s.Discovered - s.Processed - s.Failed
}

// SourceMB returns SourceBytes in mebibytes.
func (s RunStatistics) SourceMB() float64 {
	return float64(s.SourceBytes) / bytesPerMB
}

// DestMB returns DestBytes in mebibytes.
func (s RunStatistics) DestMB() float64 {
	return float64(s.DestBytes) / bytesPerMB
}

// ElapsedSeconds returns the elapsed time truncated to whole seconds.
func (s RunStatistics) ElapsedSeconds() int64 {
	return int64(s.Elapsed / time.Second)
}

// Aggregator is the mutable accumulator owned by a single pipeline run.
// It is not safe for concurrent use.
type Aggregator struct {
	started     time.Time
	discovered  int
	processed   int
	failed      int
	sourceBytes int64
	results     []FileResult
}

// NewAggregator starts an accumulator at the given time.
func NewAggregator(started time.Time) *Aggregator {
	return &Aggregator{started: started}
}

// Record counts one discovered file of the given size.
func (a *Aggregator) Record(size int64) {
	a.discovered++
	a.sourceBytes += size
}

// RecordProcessed counts one re-encoded file. Calls beyond the number of
// recorded files are ignored so processed never exceeds discovered.
func (a *Aggregator) RecordProcessed() {
	if a.processed+a.failed < a.discovered {
		a.processed++
	}
}

// RecordFailed counts one file whose transcode failed.
func (a *Aggregator) RecordFailed() {
	if a.processed+a.failed < a.discovered {
		a.failed++
	}
}

// AddResult appends a per-file outcome.
func (a *Aggregator) AddResult(r FileResult) {
	a.results = append(a.results, r)
}

// Results returns the per-file outcomes in the order they were added.
func (a *Aggregator) Results() []FileResult {
	out := make([]FileResult, len(a.results))
	copy(out, a.results)
	return out
}

// Started returns the run start time.
func (a *Aggregator) Started() time.Time {
	return a.started
}

// Finalize freezes the counters together with the measured destination size.
func (a *Aggregator) Finalize(destBytes int64, elapsed time.Duration) RunStatistics {
	return RunStatistics{
		Discovered:  a.discovered,
		Processed:   a.processed,
		Failed:      a.failed,
		SourceBytes: a.sourceBytes,
		DestBytes:   destBytes,
		Started:     a.started,
		Elapsed:     elapsed,
	}
}
