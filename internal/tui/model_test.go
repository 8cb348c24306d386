package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/dwsim/internal/config"
	apperrors "github.com/agbru/dwsim/internal/errors"
	"github.com/agbru/dwsim/internal/histogram"
	"github.com/agbru/dwsim/internal/orchestration"
	"github.com/agbru/dwsim/internal/sysmon"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.Agents = 20
	cfg.PairsPerStep = 5
	cfg.Steps = 50
	m := NewModel(context.Background(), cfg, "v1.0.0", nil)
	t.Cleanup(m.cancel)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_View_BeforeResize(t *testing.T) {
	m := NewModel(context.Background(), config.Default(), "dev", nil)
	defer m.cancel()
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}

func TestModel_View_Panels(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, want := range []string{"dwsim v1.0.0", "n=20 m=5", histogram.Title, "Statistics", "System", "RUNNING", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestModel_ProgressUpdatesPanels(t *testing.T) {
	m := newTestModel(t)
	opinions := []float64{0.1, 0.1, 0.1, 0.9, 0.9}

	m, _ = update(t, m, ProgressMsg{Step: 10, Steps: 50, NumRuns: 1, BatchProgress: 0.2, Opinions: opinions, Interactions: 50, Updates: 20})

	if m.metrics.Clusters() != 2 {
		t.Errorf("clusters = %d, want 2", m.metrics.Clusters())
	}
	if m.chart.hist.Total() != len(opinions) {
		t.Errorf("chart total = %d, want %d", m.chart.hist.Total(), len(opinions))
	}
	if m.system.clusters.Last() != 2 {
		t.Errorf("cluster history last = %v, want 2", m.system.clusters.Last())
	}
	if !strings.Contains(m.View(), "step 10/50") {
		t.Error("view should show the step counter")
	}
}

func TestModel_IgnoresStaleGeneration(t *testing.T) {
	m := newTestModel(t)
	m.generation = 3

	m, _ = update(t, m, ProgressMsg{Generation: 2, Step: 5, Steps: 50, Opinions: []float64{0.5}})
	if m.chart.step != 0 {
		t.Error("stale progress should be ignored")
	}
	m, _ = update(t, m, BatchCompleteMsg{Generation: 2, ExitCode: apperrors.ExitErrorGeneric})
	if m.done || m.exitCode != apperrors.ExitSuccess {
		t.Error("stale completion should be ignored")
	}
}

func TestModel_BatchComplete(t *testing.T) {
	m := newTestModel(t)
	pooled := histogram.New([]float64{0.5, 0.5}, m.config.Bins)

	m, _ = update(t, m, BatchResultMsg{Batch: orchestration.Batch{Pooled: pooled}})
	m, _ = update(t, m, BatchCompleteMsg{ExitCode: apperrors.ExitSuccess})

	if !m.done {
		t.Fatal("model should be done")
	}
	if m.chart.hist.Total() != 2 {
		t.Errorf("chart should show the pooled histogram, total = %d", m.chart.hist.Total())
	}
	if !strings.Contains(m.View(), "DONE") {
		t.Error("footer should show DONE")
	}
	if _, cmd := update(t, m, TickMsg{}); cmd != nil {
		t.Error("ticks should stop once done")
	}
}

func TestModel_ErrorMsg(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, ErrorMsg{Err: context.DeadlineExceeded})
	if !m.done || !m.footer.err {
		t.Error("error should end the batch and flag the footer")
	}
	if !strings.Contains(m.View(), "ERROR") {
		t.Error("footer should show ERROR")
	}
}

func TestModel_PauseTogglesGate(t *testing.T) {
	m := newTestModel(t)
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

	m, _ = update(t, m, space)
	if !m.gate.Paused() || !m.footer.paused {
		t.Fatal("space should pause")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("footer should show PAUSED")
	}
	m, _ = update(t, m, space)
	if m.gate.Paused() {
		t.Error("second space should resume")
	}
}

func TestModel_QuitWhileRunning(t *testing.T) {
	m := newTestModel(t)
	m.gate.Pause()

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit should return tea.Quit")
	}
	if m.exitCode != apperrors.ExitErrorCanceled {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitErrorCanceled)
	}
	if m.gate.Paused() {
		t.Error("quit should release the pause gate")
	}
	if m.ctx.Err() == nil {
		t.Error("quit should cancel the batch context")
	}
}

func TestModel_RerunAdvancesSeed(t *testing.T) {
	m := newTestModel(t)
	m.config.Runs = 3
	oldCtx := m.ctx
	m, _ = update(t, m, BatchCompleteMsg{ExitCode: apperrors.ExitErrorGeneric})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	t.Cleanup(m.cancel)

	if cmd == nil {
		t.Fatal("rerun should start a new batch")
	}
	if m.generation != 1 {
		t.Errorf("generation = %d, want 1", m.generation)
	}
	if want := config.Default().Seed + 3; m.config.Seed != want {
		t.Errorf("seed = %d, want %d", m.config.Seed, want)
	}
	if m.done || m.exitCode != apperrors.ExitSuccess {
		t.Error("rerun should reset the execution state")
	}
	if oldCtx.Err() == nil {
		t.Error("rerun should cancel the previous batch")
	}
	if !strings.Contains(m.View(), "seed=4") {
		t.Error("header should show the new seed")
	}
}

func TestModel_ContextCancelled(t *testing.T) {
	m := newTestModel(t)
	m, cmd := update(t, m, ContextCancelledMsg{Err: context.DeadlineExceeded})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.exitCode != apperrors.ExitErrorTimeout {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitErrorTimeout)
	}

	m2 := newTestModel(t)
	m2.generation = 1
	if _, cmd := update(t, m2, ContextCancelledMsg{Err: context.Canceled}); cmd != nil {
		t.Error("stale cancellation should be ignored")
	}
}

func TestModel_ContextCancelledReleasesPausedEngine(t *testing.T) {
	m := newTestModel(t)
	m.gate.Pause()

	m, _ = update(t, m, ContextCancelledMsg{Err: context.Canceled})
	if m.gate.Paused() {
		t.Error("cancellation should release the pause gate")
	}
	if m.exitCode != apperrors.ExitErrorCanceled {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitErrorCanceled)
	}
}

func TestModel_SysStats(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, SysStatsMsg(sysmon.Stats{CPUPercent: 42, MemPercent: 10, RSS: 2 << 20, Goroutines: 7}))
	if m.system.cpu.Last() != 42 || m.system.mem.Last() != 10 {
		t.Error("system stats not recorded")
	}
	if !strings.Contains(m.View(), "2.0 MB") {
		t.Error("view should show the RSS")
	}
}

func TestStartBatchCmd_RunsToCompletion(t *testing.T) {
	cfg := config.Default()
	cfg.Agents = 10
	cfg.PairsPerStep = 2
	cfg.Steps = 20
	cfg.Runs = 2

	var hooked orchestration.Batch
	hook := func(b orchestration.Batch) int {
		hooked = b
		return apperrors.ExitSuccess
	}

	cmd := startBatchCmd(&programRef{}, context.Background(), &orchestration.PauseGate{}, cfg, 4, hook, nil)
	msg, ok := cmd().(BatchCompleteMsg)
	if !ok {
		t.Fatal("expected BatchCompleteMsg")
	}
	if msg.Generation != 4 || msg.ExitCode != apperrors.ExitSuccess {
		t.Errorf("unexpected completion %+v", msg)
	}
	if len(hooked.Runs) != 2 {
		t.Errorf("hook saw %d runs, want 2", len(hooked.Runs))
	}
}

func TestStartBatchCmd_CanceledSkipsHook(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	cmd := startBatchCmd(&programRef{}, ctx, &orchestration.PauseGate{}, config.Default(), 0,
		func(orchestration.Batch) int { called = true; return 0 }, nil)
	msg := cmd().(BatchCompleteMsg)
	if msg.ExitCode != apperrors.ExitErrorCanceled {
		t.Errorf("ExitCode = %d, want %d", msg.ExitCode, apperrors.ExitErrorCanceled)
	}
	if called {
		t.Error("hook must not run for a failed batch")
	}
}
