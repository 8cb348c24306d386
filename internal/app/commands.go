package app

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agbru/dwsim/internal/config"
)

// completionShells lists the shells accepted by the completion command.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// newRootCommand builds the command tree. Commands only record what to do
// in app; Run performs it.
func newRootCommand(app *Application) *cobra.Command {
	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)
	var configPath string

	load := func(cmd *cobra.Command, _ []string) error {
		// Flags parsed fine; further errors are about values, not usage.
		cmd.SilenceUsage = true
		if err := config.ReadFile(v, configPath); err != nil {
			return err
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		app.Config = cfg
		app.mode = modeRun
		return nil
	}

	root := &cobra.Command{
		Use:   "dwsim",
		Short: "Deffuant-Weisbuch bounded-confidence opinion dynamics simulator",
		Long: `dwsim simulates n agents holding opinions in [0,1). On every step m disjoint
random pairs meet; a pair whose opinions differ by at most eps moves toward
each other by a fraction mu of the gap. After t_max steps the final opinion
vector is printed with its histogram.`,
		Args: cobra.NoArgs,
		RunE: load,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpTemplate(root.HelpTemplate() + "\n" + config.EnvHelp())

	flags := root.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "",
		"YAML config file (default "+filepath.Join(config.ConfigDir(), "config.yaml")+")")
	addSimulationFlags(flags, v)

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the simulation (default command)",
			Args:  cobra.NoArgs,
			RunE:  load,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				app.mode = modeVersion
			},
		},
		&cobra.Command{
			Use:       "completion [bash|zsh|fish|powershell]",
			Short:     "Generate a shell completion script",
			Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
			ValidArgs: completionShells,
			Run: func(_ *cobra.Command, args []string) {
				app.mode = modeCompletion
				app.shell = args[0]
			},
		},
	)
	return root
}

// addSimulationFlags declares the run flags and binds each to its config key.
func addSimulationFlags(flags *pflag.FlagSet, v *viper.Viper) {
	d := config.Default()

	// Simulation parameters
	flags.IntP("agents", "n", d.Agents, "number of agents (n)")
	flags.IntP("pairs", "m", d.PairsPerStep, "disjoint pairs sampled per step (m)")
	flags.Float64P("eps", "e", d.Epsilon, "confidence bound: pairs interact when |x_i - x_j| <= eps")
	flags.IntP("steps", "t", d.Steps, "number of steps (t_max)")
	flags.Float64("mu", d.Mu, "adjustment rate in (0, 0.5]; larger values overshoot")
	flags.Uint64P("seed", "s", d.Seed, "random seed")

	// Run shape
	flags.IntP("runs", "r", d.Runs, "independent replicas, seeded seed, seed+1, ...")
	flags.Int("bins", d.Bins, "histogram bins")
	flags.Int("record-every", d.RecordEvery, "keep an opinion snapshot every k steps for export (0 disables)")

	// Output
	flags.StringP("output", "o", d.OutputFile, "export the result to this file")
	flags.StringP("format", "f", d.Format, "export format: csv, json or yaml (default from the file extension)")
	flags.String("metrics-file", d.MetricsFile, "write Prometheus metrics in text format to this file")

	// Presentation
	flags.Duration("timeout", d.Timeout, "overall deadline")
	flags.BoolP("quiet", "q", d.Quiet, "print only the final opinion vector")
	flags.BoolP("details", "d", d.Details, "print summary statistics and memory usage")
	flags.Bool("tui", d.TUI, "interactive dashboard")
	flags.Bool("no-color", d.NoColor, "disable colored output (also honours NO_COLOR)")
	flags.String("log-level", d.LogLevel, "log level: debug, info, warn or error")

	for flag, key := range flagKeys {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"agents":       "n",
	"pairs":        "m",
	"eps":          "eps",
	"steps":        "t_max",
	"mu":           "mu",
	"seed":         "seed",
	"runs":         "runs",
	"bins":         "bins",
	"record-every": "record_every",
	"output":       "output",
	"format":       "format",
	"metrics-file": "metrics_file",
	"timeout":      "timeout",
	"quiet":        "quiet",
	"details":      "details",
	"tui":          "tui",
	"no-color":     "no_color",
	"log-level":    "log_level",
}
