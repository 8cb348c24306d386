package tui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()

	for _, b := range km.ShortHelp() {
		t.Run(b.Help().Desc, func(t *testing.T) {
			if !b.Enabled() {
				t.Error("binding should be enabled")
			}
			if len(b.Keys()) == 0 {
				t.Error("binding should have at least one key")
			}
		})
	}
}

func TestDefaultKeyMap_Keys(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"pause", km.Pause, []string{" "}},
		{"rerun", km.Rerun, []string{"r"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				if !slices.Contains(tt.binding.Keys(), k) {
					t.Errorf("%s binding missing key %q (has %v)", tt.name, k, tt.binding.Keys())
				}
			}
		})
	}
}

func TestDefaultKeyMap_MatchesKeyMsg(t *testing.T) {
	km := DefaultKeyMap()
	if !key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, km.Pause) {
		t.Error("space should toggle pause")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit) {
		t.Error("ctrl+c should quit")
	}
	if key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, km.Quit) {
		t.Error("x should not quit")
	}
}
