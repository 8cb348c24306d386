package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agbru/dwsim/internal/config"
	apperrors "github.com/agbru/dwsim/internal/errors"
	"github.com/agbru/dwsim/internal/logging"
	"github.com/agbru/dwsim/internal/metrics"
	"github.com/agbru/dwsim/internal/orchestration"
	"github.com/agbru/dwsim/internal/telemetry"
	"github.com/agbru/dwsim/internal/tui"
	"github.com/agbru/dwsim/internal/ui"
)

// mode is the action selected on the command line.
type mode int

const (
	modeNone mode = iota
	modeRun
	modeVersion
	modeCompletion
)

// telemetryFlushTimeout bounds the span flush at exit.
const telemetryFlushTimeout = 5 * time.Second

// Application represents the dwsim application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// Logger receives diagnostics. Run builds a console logger on ErrWriter
	// when it is nil.
	Logger logging.Logger

	mode  mode
	shell string
	root  *cobra.Command
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger sets the logger instead of the console logger built by Run.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name. It returns pflag.ErrHelp when only help was
// requested.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	var cmdArgs []string
	if len(args) > 0 {
		cmdArgs = args[1:]
	}

	app.root = newRootCommand(app)
	app.root.SetArgs(cmdArgs)
	app.root.SetOut(errWriter)
	app.root.SetErr(errWriter)
	if err := app.root.Execute(); err != nil {
		return nil, err
	}
	if app.mode == modeNone {
		return nil, pflag.ErrHelp
	}
	return app, nil
}

// Run executes the application based on the selected command.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	switch a.mode {
	case modeVersion:
		PrintVersion(out)
		return apperrors.ExitSuccess
	case modeCompletion:
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)
	if a.Logger == nil {
		a.Logger = logging.NewConsoleLogger(a.ErrWriter, a.Config.NoColor).WithLevel(a.logLevel())
	}

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		a.Logger.Warn("tracing disabled", logging.Err(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), telemetryFlushTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			a.Logger.Warn("trace flush failed", logging.Err(err))
		}
	}()

	if a.Config.TUI {
		return a.runTUI(ctx, out)
	}
	return a.runSimulate(ctx, out)
}

// logLevel returns the configured level. Quiet mode hides info messages.
func (a *Application) logLevel() zerolog.Level {
	lvl := logging.ParseLevel(a.Config.LogLevel)
	if a.Config.Quiet && lvl < zerolog.WarnLevel {
		lvl = zerolog.WarnLevel
	}
	return lvl
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	var err error
	switch a.shell {
	case "bash":
		err = a.root.GenBashCompletionV2(out, true)
	case "zsh":
		err = a.root.GenZshCompletion(out)
	case "fish":
		err = a.root.GenFishCompletion(out, true)
	case "powershell":
		err = a.root.GenPowerShellCompletionWithDesc(out)
	default:
		err = fmt.Errorf("unsupported shell %q", a.shell)
	}
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context, _ io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	// The dashboard owns the terminal; errors are reported once it exits.
	m := metrics.New()
	outputs := &outputErrors{}
	hook := func(batch orchestration.Batch) int {
		err := a.writeOutputs(batch, m, io.Discard)
		outputs.set(err)
		if err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	code := tui.Run(ctx, a.Config, Version, hook, a.runnerOptions(logging.Nop(), m)...)
	if err := outputs.get(); err != nil {
		a.Logger.Error("cannot write outputs", err)
		return apperrors.HandleSimulationError(err, 0, a.ErrWriter, nil)
	}
	return code
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, pflag.ErrHelp)
}

// ExitCode maps an error returned by New to the process exit code.
func ExitCode(err error) int {
	if err == nil || IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	return apperrors.ExitErrorConfig
}
