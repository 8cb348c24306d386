package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the simulation timed out.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
	// Cause is the underlying error, usually a ValidationError. May be nil.
	Cause error
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string {
	if e.Cause != nil && e.Message == "" {
		return e.Cause.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause so that errors.As can reach a wrapped
// ValidationError.
func (e ConfigError) Unwrap() error { return e.Cause }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// SimulationError encapsulates a failure during a simulation run while
// preserving the original cause (typically a context error).
type SimulationError struct {
	// Step is the number of completed steps when the run stopped.
	Step int
	// Cause is the underlying error that stopped the run.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e SimulationError) Error() string {
	return fmt.Sprintf("simulation stopped after %d steps: %v", e.Step, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e SimulationError) Unwrap() error { return e.Cause }

// ValidationError represents an input validation failure. It identifies which
// parameter failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the parameter that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ColorProvider supplies the escape sequences used when printing errors.
// A nil ColorProvider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleSimulationError prints a description of err to out and maps it to an
// exit code. A nil error yields ExitSuccess and prints nothing.
func HandleSimulationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	var cfgErr ConfigError
	var valErr ValidationError
	switch {
	case errors.As(err, &valErr), errors.As(err, &cfgErr):
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", red, err, reset)
		return ExitErrorConfig
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sStatus: Timeout. The simulation exceeded its deadline after %s.%s\n", yellow, duration, reset)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled after %s.%s\n", yellow, duration, reset)
		return ExitErrorCanceled
	default:
		fmt.Fprintf(out, "%sStatus: Failure. %v%s\n", red, err, reset)
		return ExitErrorGeneric
	}
}
