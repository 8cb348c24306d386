package cli

import (
	"io"
	"time"

	apperrors "github.com/agbru/dwsim/internal/errors"
	"github.com/agbru/dwsim/internal/orchestration"
	"github.com/agbru/dwsim/internal/progress"
	"github.com/agbru/dwsim/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and a progress bar.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress delegates to DisplayProgress.
func (CLIProgressReporter) DisplayProgress(progressChan <-chan progress.ProgressUpdate, numRuns int, out io.Writer) {
	DisplayProgress(progressChan, numRuns, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for terminal
// output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentBatch prints the final vectors only in quiet mode, and the full
// report otherwise.
func (CLIResultPresenter) PresentBatch(batch orchestration.Batch, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		DisplayQuietResult(out, batch)
		return
	}
	DisplayBatch(batch, opts.Details, out)
}

// HandleError prints err and returns the matching exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleSimulationError(err, duration, out, CLIColorProvider{})
}

// CLIColorProvider supplies the active theme's colors to apperrors.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorError() }
func (CLIColorProvider) Yellow() string { return ui.ColorWarning() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }
