//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/dwsim/internal/format"
	"github.com/agbru/dwsim/internal/orchestration"
	"github.com/agbru/dwsim/internal/progress"
)

const (
	// ProgressRefreshRate is the refresh period of the spinner line.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts a terminal spinner so DisplayProgress can be tested
// without a terminal.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner followed by the batch progress bar, the
// current replica and the ETA until progressChan is closed.
//
// Parameters:
//   - progressChan: updates published by the replicas.
//   - numRuns: the number of replicas in the batch.
//   - out: the terminal the spinner draws on.
func DisplayProgress(progressChan <-chan progress.ProgressUpdate, numRuns int, out io.Writer) {
	agg := orchestration.NewProgressAggregator(numRuns)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	var last orchestration.AggregatedProgress
	var step, steps int
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				return
			}
			last = agg.Update(update)
			step, steps = update.Step, update.Steps
		case <-ticker.C:
			last.BatchProgress, last.ETA = agg.BatchProgress(), agg.GetETA()
			s.UpdateSuffix(progressSuffix(last, numRuns, step, steps))
		}
	}
}

func progressSuffix(p orchestration.AggregatedProgress, numRuns, step, steps int) string {
	bar := format.FormatProgressBarWithETA(p.BatchProgress, p.ETA, ProgressBarWidth)
	if numRuns > 1 {
		return fmt.Sprintf(" run %d/%d step %s/%s %s", p.RunIndex+1, numRuns, format.FormatCount(step), format.FormatCount(steps), bar)
	}
	return fmt.Sprintf(" step %s/%s %s", format.FormatCount(step), format.FormatCount(steps), bar)
}
