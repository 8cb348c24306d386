package tui

import (
	"time"

	"github.com/agbru/dwsim/internal/metrics"
	"github.com/agbru/dwsim/internal/orchestration"
	"github.com/agbru/dwsim/internal/sysmon"
)

// ProgressMsg carries one replica update to the dashboard.
type ProgressMsg struct {
	Generation    uint64
	RunIndex      int
	NumRuns       int
	Step          int
	Steps         int
	Value         float64
	BatchProgress float64
	ETA           time.Duration
	Interactions  int
	Updates       int
	// Opinions is a copy of the replica's opinion vector.
	Opinions []float64
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// BatchResultMsg carries a finished batch.
type BatchResultMsg struct {
	Generation uint64
	Batch      orchestration.Batch
}

// ErrorMsg reports a failed batch.
type ErrorMsg struct {
	Generation uint64
	Err        error
	Duration   time.Duration
}

// BatchCompleteMsg is sent once results have been analyzed.
type BatchCompleteMsg struct {
	Generation uint64
	ExitCode   int
}

// ContextCancelledMsg is sent when the parent context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// TickMsg drives periodic refreshes.
type TickMsg time.Time

// MemStatsMsg carries runtime memory statistics.
type MemStatsMsg metrics.MemorySnapshot

// SysStatsMsg carries host and process resource usage.
type SysStatsMsg sysmon.Stats
