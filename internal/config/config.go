// Package config defines the application configuration and its loading from
// defaults, an optional YAML file, DWSIM_* environment variables and
// command-line flags (highest priority last).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/viper"

	"github.com/agbru/dwsim/internal/dynamics"
	apperrors "github.com/agbru/dwsim/internal/errors"
	"github.com/agbru/dwsim/internal/histogram"
)

// Supported export formats. An empty format means "infer from the file
// extension".
var ValidFormats = []string{"csv", "json", "yaml"}

// AppConfig aggregates every setting of a dwsim invocation.
type AppConfig struct {
	// Simulation parameters.
	Agents       int     `mapstructure:"n"`
	PairsPerStep int     `mapstructure:"m"`
	Epsilon      float64 `mapstructure:"eps"`
	Steps        int     `mapstructure:"t_max"`
	Mu           float64 `mapstructure:"mu"`
	Seed         uint64  `mapstructure:"seed"`

	// Runs is the number of independent replicas, seeded Seed, Seed+1, ...
	Runs int `mapstructure:"runs"`
	// Bins is the histogram bin count.
	Bins int `mapstructure:"bins"`
	// RecordEvery keeps an opinion snapshot every k steps (0 disables).
	RecordEvery int `mapstructure:"record_every"`

	// OutputFile receives the exported result (empty for none).
	OutputFile string `mapstructure:"output"`
	// Format overrides the export format inferred from OutputFile.
	Format string `mapstructure:"format"`
	// MetricsFile receives a Prometheus text-format dump (empty for none).
	MetricsFile string `mapstructure:"metrics_file"`

	Timeout  time.Duration `mapstructure:"timeout"`
	Quiet    bool          `mapstructure:"quiet"`
	Details  bool          `mapstructure:"details"`
	TUI      bool          `mapstructure:"tui"`
	NoColor  bool          `mapstructure:"no_color"`
	LogLevel string        `mapstructure:"log_level"`
}

// Default returns the configuration of the reference run.
func Default() AppConfig {
	sim := dynamics.DefaultConfig()
	return AppConfig{
		Agents:       sim.Agents,
		PairsPerStep: sim.PairsPerStep,
		Epsilon:      sim.Epsilon,
		Steps:        sim.Steps,
		Mu:           sim.Mu,
		Seed:         sim.Seed,
		Runs:         1,
		Bins:         histogram.DefaultBins,
		Timeout:      5 * time.Minute,
		LogLevel:     "info",
	}
}

// SetDefaults registers default values with v.
func SetDefaults(v *viper.Viper) {
	d := Default()

	// Simulation defaults
	v.SetDefault("n", d.Agents)
	v.SetDefault("m", d.PairsPerStep)
	v.SetDefault("eps", d.Epsilon)
	v.SetDefault("t_max", d.Steps)
	v.SetDefault("mu", d.Mu)
	v.SetDefault("seed", d.Seed)

	// Run shape defaults
	v.SetDefault("runs", d.Runs)
	v.SetDefault("bins", d.Bins)
	v.SetDefault("record_every", d.RecordEvery)

	// Output defaults
	v.SetDefault("output", d.OutputFile)
	v.SetDefault("format", d.Format)
	v.SetDefault("metrics_file", d.MetricsFile)

	// Presentation defaults
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("details", d.Details)
	v.SetDefault("tui", d.TUI)
	v.SetDefault("no_color", d.NoColor)
	v.SetDefault("log_level", d.LogLevel)
}

// Load reads the configuration from v into an AppConfig and validates it.
// Errors are returned as apperrors.ConfigError.
func Load(v *viper.Viper) (AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, apperrors.ConfigError{Message: "cannot decode configuration", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// ReadFile loads path into v, or the first config.yaml found in the default
// search paths when path is empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return apperrors.ConfigError{Message: "cannot read config file", Cause: err}
	}
	return nil
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dwsim")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dwsim"
	}
	return filepath.Join(home, ".config", "dwsim")
}

// Simulation returns the immutable engine parameters.
func (c AppConfig) Simulation() dynamics.Config {
	return dynamics.Config{
		Agents:       c.Agents,
		PairsPerStep: c.PairsPerStep,
		Epsilon:      c.Epsilon,
		Steps:        c.Steps,
		Mu:           c.Mu,
		Seed:         c.Seed,
	}
}

// Validate checks the simulation parameters and the run options.
func (c AppConfig) Validate() error {
	if err := c.Simulation().Validate(); err != nil {
		return apperrors.ConfigError{Cause: err}
	}
	switch {
	case c.Runs < 1:
		return apperrors.ConfigError{Cause: apperrors.ValidationError{Field: "runs", Message: fmt.Sprintf("must be at least 1, got %d", c.Runs)}}
	case c.Bins < 1:
		return apperrors.ConfigError{Cause: apperrors.ValidationError{Field: "bins", Message: fmt.Sprintf("must be at least 1, got %d", c.Bins)}}
	case c.RecordEvery < 0:
		return apperrors.ConfigError{Cause: apperrors.ValidationError{Field: "record_every", Message: "must be non-negative"}}
	case c.Format != "" && !slices.Contains(ValidFormats, c.Format):
		return apperrors.ConfigError{Cause: apperrors.ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q (valid: %v)", c.Format, ValidFormats)}}
	case c.Timeout <= 0:
		return apperrors.ConfigError{Cause: apperrors.ValidationError{Field: "timeout", Message: "must be positive"}}
	}
	return nil
}
