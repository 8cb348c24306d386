package orchestration

import (
	"time"

	"github.com/agbru/dwsim/internal/format"
	"github.com/agbru/dwsim/internal/progress"
)

// ProgressAggregator turns per-replica updates into batch completion and an
// ETA. Both the CLI and the TUI reporters use it.
type ProgressAggregator struct {
	state   *format.ProgressWithETA
	numRuns int
}

// NewProgressAggregator creates an aggregator for numRuns replicas. It
// returns nil if numRuns <= 0.
func NewProgressAggregator(numRuns int) *ProgressAggregator {
	if numRuns <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:   format.NewProgressWithETA(numRuns),
		numRuns: numRuns,
	}
}

// AggregatedProgress is the result of processing a single update.
type AggregatedProgress struct {
	RunIndex int
	// Value is the completion of the replica that sent the update.
	Value float64
	// BatchProgress is the completion of the whole batch.
	BatchProgress float64
	ETA           time.Duration
}

// Update processes a single progress update.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	batch, eta := a.state.UpdateWithETA(update.RunIndex, update.Value)
	return AggregatedProgress{
		RunIndex:      update.RunIndex,
		Value:         update.Value,
		BatchProgress: batch,
		ETA:           eta,
	}
}

// BatchProgress returns the current batch completion without updating.
func (a *ProgressAggregator) BatchProgress() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumRuns returns the number of replicas being tracked.
func (a *ProgressAggregator) NumRuns() int {
	return a.numRuns
}

// IsMultiRun reports whether more than one replica is tracked.
func (a *ProgressAggregator) IsMultiRun() bool {
	return a.numRuns > 1
}

// DrainChannel reads and discards updates until the channel is closed.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
