package app

import (
	"context"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/agbru/dwsim/internal/cli"
	apperrors "github.com/agbru/dwsim/internal/errors"
	"github.com/agbru/dwsim/internal/export"
	"github.com/agbru/dwsim/internal/logging"
	"github.com/agbru/dwsim/internal/metrics"
	"github.com/agbru/dwsim/internal/orchestration"
	"github.com/agbru/dwsim/internal/telemetry"
)

// runSimulate runs a batch in the terminal and writes the requested files.
func (a *Application) runSimulate(ctx context.Context, out io.Writer) int {
	presenter := cli.CLIResultPresenter{}

	// Reject an unusable export target before spending time simulating.
	if a.Config.OutputFile != "" {
		if _, err := export.InferFormat(a.Config.OutputFile, a.Config.Format); err != nil {
			return presenter.HandleError(err, 0, a.ErrWriter)
		}
	}

	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
	}

	var reporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		reporter = orchestration.NullProgressReporter{}
	} else {
		reporter = cli.CLIProgressReporter{}
	}

	m := metrics.New()
	runner := orchestration.NewRunner(a.runnerOptions(a.Logger, m)...)
	batch := runner.Execute(ctx, a.Config, reporter, progressOut)

	opts := orchestration.PresentationOptions{
		Bins:    a.Config.Bins,
		Quiet:   a.Config.Quiet,
		Details: a.Config.Details,
	}
	code := orchestration.AnalyzeResults(batch, opts, presenter, presenter, out)
	if code != apperrors.ExitSuccess {
		// Metrics of an interrupted batch are still written.
		if err := a.writeMetrics(m, out); err != nil {
			a.Logger.Error("cannot write metrics", err)
		}
		return code
	}

	if err := a.writeOutputs(batch, m, out); err != nil {
		a.Logger.Error("cannot write outputs", err)
		return presenter.HandleError(err, batch.Duration, a.ErrWriter)
	}
	if a.Config.OutputFile != "" {
		a.Logger.Info("result exported", logging.String("path", a.Config.OutputFile))
	}
	return apperrors.ExitSuccess
}

// runnerOptions returns the Runner wiring shared by the CLI and the TUI.
func (a *Application) runnerOptions(logger logging.Logger, m *metrics.Metrics) []orchestration.RunnerOption {
	return []orchestration.RunnerOption{
		orchestration.WithLogger(logger),
		orchestration.WithMetrics(m),
		orchestration.WithTracer(telemetry.NewTracer(nil)),
	}
}

// writeOutputs exports batch and dumps m to the configured files. It
// returns the first error; confirmations go to out unless quiet. It does not
// log so the dashboard can call it while it owns the terminal.
func (a *Application) writeOutputs(batch orchestration.Batch, m *metrics.Metrics, out io.Writer) error {
	if path := a.Config.OutputFile; path != "" {
		format, err := export.InferFormat(path, a.Config.Format)
		if err != nil {
			return err
		}
		if err := export.WriteFile(path, format, batch.Document(time.Now().UTC())); err != nil {
			return err
		}
		if !a.Config.Quiet {
			cli.DisplaySaved("Result", path, out)
		}
	}
	return a.writeMetrics(m, out)
}

// writeMetrics dumps m when a metrics file is configured.
func (a *Application) writeMetrics(m *metrics.Metrics, out io.Writer) error {
	path := a.Config.MetricsFile
	if path == "" {
		return nil
	}
	if err := m.WriteTextfile(path); err != nil {
		return apperrors.WrapError(err, "cannot write metrics file %s", path)
	}
	if !a.Config.Quiet {
		cli.DisplaySaved("Metrics", path, out)
	}
	return nil
}

// outputErrors records the output error of the latest dashboard batch.
type outputErrors struct {
	mu  sync.Mutex
	err error
}

func (o *outputErrors) set(err error) {
	o.mu.Lock()
	o.err = err
	o.mu.Unlock()
}

func (o *outputErrors) get() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}
