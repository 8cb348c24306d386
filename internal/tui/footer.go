package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the key hints and the batch status.
type FooterModel struct {
	keymap KeyMap
	paused bool
	done   bool
	err    bool
	width  int
}

// NewFooterModel creates a new footer.
func NewFooterModel(km KeyMap) FooterModel {
	return FooterModel{keymap: km}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused updates the paused indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone updates the completion indicator.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// SetError updates the error indicator.
func (f *FooterModel) SetError(e bool) { f.err = e }

// Status returns the rendered status label.
func (f FooterModel) Status() string {
	switch {
	case f.err:
		return statusErrorStyle.Render("ERROR")
	case f.done:
		return statusDoneStyle.Render("DONE")
	case f.paused:
		return statusPausedStyle.Render("PAUSED")
	default:
		return statusRunningStyle.Render("RUNNING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	hints := make([]string, 0, 3)
	for _, b := range f.keymap.ShortHelp() {
		hints = append(hints, footerKeyStyle.Render(b.Help().Key)+" "+footerDescStyle.Render(b.Help().Desc))
	}
	left := " " + strings.Join(hints, footerDescStyle.Render("  ·  "))
	status := f.Status() + " "
	gap := max(f.width-lipgloss.Width(left)-lipgloss.Width(status), 1)
	return left + strings.Repeat(" ", gap) + status
}
