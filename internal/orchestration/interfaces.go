package orchestration

import (
	"io"
	"time"

	"github.com/agbru/dwsim/internal/config"
	"github.com/agbru/dwsim/internal/dynamics"
	"github.com/agbru/dwsim/internal/histogram"
	"github.com/agbru/dwsim/internal/progress"
)

// RunResult is the outcome of a single replica. It is the shared domain type
// between orchestration and presentation layers.
type RunResult struct {
	// RunID uniquely identifies the replica in logs, traces and exports.
	RunID string
	// Index is the zero-based replica index; the replica is seeded Seed+Index.
	Index int
	Seed  uint64
	// Final is the opinion vector after t_max steps. It is nil if Err is set.
	Final []float64
	// Snapshots is the recorded history, empty unless record_every > 0.
	Snapshots []dynamics.Snapshot
	Histogram histogram.Histogram
	Summary   histogram.Summary
	Clusters  int
	// Steps is the number of completed steps, t_max unless Err is set.
	Steps        int
	Interactions int
	Updates      int
	Duration     time.Duration
	Err          error
}

// Batch groups the replicas of one invocation.
type Batch struct {
	ID     string
	Config config.AppConfig
	Runs   []RunResult
	// Pooled is the histogram of every successful replica's final vector.
	Pooled   histogram.Histogram
	Duration time.Duration
}

// FirstError returns the error of the first failed replica, if any.
func (b Batch) FirstError() error {
	for _, r := range b.Runs {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// Succeeded returns the replicas that completed.
func (b Batch) Succeeded() []RunResult {
	var out []RunResult
	for _, r := range b.Runs {
		if r.Err == nil {
			out = append(out, r)
		}
	}
	return out
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Bins    int
	Quiet   bool
	Details bool
}

// ProgressReporter displays progress updates. DisplayProgress must consume
// progressChan until it is closed and return only then.
type ProgressReporter interface {
	DisplayProgress(progressChan <-chan progress.ProgressUpdate, numRuns int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(progressChan <-chan progress.ProgressUpdate, numRuns int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(progressChan <-chan progress.ProgressUpdate, numRuns int, out io.Writer) {
	f(progressChan, numRuns, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. It is used in quiet mode and in tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	DrainChannel(progressChan)
}

// ResultPresenter renders finished batches.
type ResultPresenter interface {
	// PresentBatch displays the final vectors, histograms and statistics.
	PresentBatch(batch Batch, opts PresentationOptions, out io.Writer)
}

// ErrorHandler reports a failed batch and returns the process exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
