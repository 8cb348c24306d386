package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/dwsim/internal/config"
	"github.com/agbru/dwsim/internal/format"
	"github.com/agbru/dwsim/internal/ui"
)

// PrintExecutionConfig displays the simulation parameters and run options.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	v := ui.ColorValue()
	r := ui.ColorReset()
	fmt.Fprintf(out, "--- Simulation Configuration ---\n")
	fmt.Fprintf(out, "Agents n=%s%s%s, pairs per step m=%s%d%s, steps t_max=%s%s%s.\n",
		v, format.FormatCount(cfg.Agents), r, v, cfg.PairsPerStep, r, v, format.FormatCount(cfg.Steps), r)
	fmt.Fprintf(out, "Confidence bound eps=%s%g%s, adjustment rate mu=%s%g%s, seed=%s%d%s.\n",
		v, cfg.Epsilon, r, v, cfg.Mu, r, v, cfg.Seed, r)
	if cfg.Mu > 0.5 {
		fmt.Fprintf(out, "%sNote: mu > 0.5 makes interacting agents overshoot each other.%s\n", ui.ColorWarning(), r)
	}
	if cfg.Runs > 1 {
		fmt.Fprintf(out, "Replicas: %s%d%s (seeds %d to %d).\n", v, cfg.Runs, r, cfg.Seed, cfg.Seed+uint64(cfg.Runs-1))
	}
	fmt.Fprintf(out, "Timeout %s%s%s, Go %s on %d logical processors.\n",
		v, cfg.Timeout, r, runtime.Version(), runtime.NumCPU())
	fmt.Fprintf(out, "\n--- Starting Simulation ---\n")
}
