package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/dwsim/internal/dynamics"
	"github.com/agbru/dwsim/internal/format"
)

// HeaderModel renders the top bar: title, parameters, elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	params    string
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, sim dynamics.Config) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		params:    formatParams(sim),
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer for a new batch.
func (h *HeaderModel) Reset(sim dynamics.Config) {
	h.startTime = time.Now()
	h.endTime = time.Time{}
	h.params = formatParams(sim)
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the batch started, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "dwsim"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")
	elapsed := elapsedStyle.Render("Elapsed: " + format.FormatExecutionDuration(h.Elapsed()))

	row := titleStyle.Render(titleText) + pipe + paramStyle.Render(h.params) + pipe + elapsed
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return headerStyle.Width(h.width).Render(row)
}

func formatParams(sim dynamics.Config) string {
	return fmt.Sprintf("n=%d m=%d ε=%g μ=%g t=%d seed=%d",
		sim.Agents, sim.PairsPerStep, sim.Epsilon, sim.Mu, sim.Steps, sim.Seed)
}
