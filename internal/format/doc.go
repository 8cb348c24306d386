// Package format holds the plain-text formatting helpers shared by the CLI
// and the TUI: durations, counts, opinion values, progress bars and ETAs.
package format
