// This file contains environment variable bindings for configuration override.

package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended (with an underscore) to every environment variable.
const EnvPrefix = "DWSIM"

// envVar documents a single environment variable override.
type envVar struct {
	key  string
	help string
}

// envVars is the declarative table of supported environment overrides.
// Order matches the grouping of SetDefaults.
var envVars = []envVar{
	// Simulation parameters
	{"n", "number of agents"},
	{"m", "pairs sampled per step"},
	{"eps", "confidence bound"},
	{"t_max", "number of steps"},
	{"mu", "adjustment rate"},
	{"seed", "random seed"},

	// Run shape
	{"runs", "independent replicas"},
	{"bins", "histogram bins"},
	{"record_every", "snapshot interval in steps"},

	// Output
	{"output", "export file"},
	{"format", "export format (csv, json, yaml)"},
	{"metrics_file", "Prometheus text dump"},

	// Presentation
	{"timeout", "overall deadline (e.g. 30s, 5m)"},
	{"quiet", "print only the final vector"},
	{"details", "print summary statistics"},
	{"tui", "interactive dashboard"},
	{"no_color", "disable colors"},
	{"log_level", "debug, info, warn or error"},
}

// BindEnv makes v resolve every key from DWSIM_<KEY> when the variable is
// set. Flags still take priority.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// EnvName returns the environment variable consulted for key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// EnvHelp returns a help block listing the supported environment variables.
func EnvHelp() string {
	var b strings.Builder
	b.WriteString("Environment variables:\n")
	width := 0
	for _, e := range envVars {
		width = max(width, len(EnvName(e.key)))
	}
	for _, e := range envVars {
		name := EnvName(e.key)
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString(strings.Repeat(" ", width-len(name)+2))
		b.WriteString(e.help)
		b.WriteByte('\n')
	}
	return b.String()
}
