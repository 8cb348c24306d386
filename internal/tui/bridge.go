package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/dwsim/internal/errors"
	"github.com/agbru/dwsim/internal/orchestration"
	"github.com/agbru/dwsim/internal/progress"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// It drains the progress channel and forwards updates as bubbletea messages
// tagged with the batch generation.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
}

// Verify interface compliance.
var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends ProgressMsg to the TUI.
func (t *TUIProgressReporter) DisplayProgress(progressChan <-chan progress.ProgressUpdate, numRuns int, _ io.Writer) {
	agg := orchestration.NewProgressAggregator(numRuns)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Generation:    t.generation,
			RunIndex:      update.RunIndex,
			NumRuns:       numRuns,
			Step:          update.Step,
			Steps:         update.Steps,
			Value:         ap.Value,
			BatchProgress: ap.BatchProgress,
			ETA:           ap.ETA,
			Interactions:  update.Interactions,
			Updates:       update.Updates,
			Opinions:      update.Opinions,
		})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.generation})
}

// TUIResultPresenter implements orchestration.ResultPresenter.
// It sends result messages to the TUI instead of writing to stdout.
type TUIResultPresenter struct {
	ref        *programRef
	generation uint64
}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler    = (*TUIResultPresenter)(nil)
)

// PresentBatch sends the finished batch to the dashboard.
func (t *TUIResultPresenter) PresentBatch(batch orchestration.Batch, _ orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(BatchResultMsg{Generation: t.generation, Batch: batch})
}

// HandleError sends the error to the dashboard and returns its exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	t.ref.Send(ErrorMsg{Generation: t.generation, Err: err, Duration: duration})
	return apperrors.HandleSimulationError(err, duration, io.Discard, nil)
}
