package tui

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/dwsim/internal/config"
	apperrors "github.com/agbru/dwsim/internal/errors"
	"github.com/agbru/dwsim/internal/metrics"
	"github.com/agbru/dwsim/internal/orchestration"
	"github.com/agbru/dwsim/internal/sysmon"
)

// BatchHook is called with every batch that completed without error. Its
// return value replaces the exit code, so exports can report failures.
type BatchHook func(batch orchestration.Batch) int

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	gate       *orchestration.PauseGate
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// Layout constants for the dashboard.
const (
	headerHeight           = 1
	footerHeight           = 1
	minBodyHeight          = 8
	ChartPanelWidthPercent = 60
	MetricsPanelHeight     = 7
)

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) chartWidth() int {
	return l.width * ChartPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.chartWidth()
}

func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

func (l LayoutManager) systemHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header  HeaderModel
	chart   ChartModel
	metrics MetricsModel
	system  SystemModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx  context.Context
	config     config.AppConfig
	runnerOpts []orchestration.RunnerOption
	onBatch    BatchHook
	monitor    *sysmon.Monitor
	ref        *programRef
}

// NewModel creates a dashboard for cfg. opts are passed to every Runner the
// dashboard creates; onBatch may be nil.
func NewModel(parentCtx context.Context, cfg config.AppConfig, version string, onBatch BatchHook, opts ...orchestration.RunnerOption) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	km := DefaultKeyMap()

	return Model{
		header:  NewHeaderModel(version, cfg.Simulation()),
		chart:   NewChartModel(cfg.Bins),
		metrics: NewMetricsModel(cfg.Epsilon),
		system:  NewSystemModel(),
		footer:  NewFooterModel(km),
		keymap:  km,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			gate:     &orchestration.PauseGate{},
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx:  parentCtx,
		config:     cfg,
		runnerOpts: opts,
		onBatch:    onBatch,
		monitor:    sysmon.NewMonitor(),
		ref:        &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startBatchCmd(m.ref, m.ctx, m.gate, m.config, m.generation, m.onBatch, m.runnerOpts),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProgressMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.chart.Update(msg)
		m.metrics.UpdateProgress(msg)
		if msg.Opinions != nil {
			m.system.PushClusters(m.metrics.Clusters())
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case BatchResultMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.chart.SetHistogram(msg.Batch.Pooled)
		return m, nil

	case ErrorMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.footer.SetError(true)
		m.finish()
		return m, nil

	case BatchCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.exitCode = msg.ExitCode
		m.finish()
		m.chart.SetDone(m.header.Elapsed())
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.gate.Paused() {
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(m.monitor), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.system.UpdateSysStats(sysmon.Stats(msg))
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.exitCode = apperrors.HandleSimulationError(msg.Err, m.header.Elapsed(), io.Discard, nil)
		}
		m.stop()
		m.finish()
		return m, tea.Quit
	}

	return m, nil
}

// finish freezes the dashboard once a batch has ended.
func (m *Model) finish() {
	m.done = true
	m.header.SetDone()
	m.footer.SetDone(true)
	m.footer.SetPaused(false)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		m.stop()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		if m.done {
			return m, nil
		}
		m.footer.SetPaused(m.gate.Toggle())
		return m, nil

	case key.Matches(msg, m.keymap.Rerun):
		m.stop()

		m.generation++
		m.config.Seed += uint64(m.config.Runs)
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.gate = &orchestration.PauseGate{}

		m.header.Reset(m.config.Simulation())
		m.chart.Reset()
		m.metrics = NewMetricsModel(m.config.Epsilon)
		m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
		m.system.ResetClusters()
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.done = false
		m.exitCode = apperrors.ExitSuccess

		return m, m.startCmds()
	}

	return m, nil
}

// stop releases a paused engine and cancels the running batch.
func (m *Model) stop() {
	m.gate.Resume()
	if m.cancel != nil {
		m.cancel()
	}
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	right := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.system.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.chart.View(), right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.chart.SetSize(m.chartWidth(), m.bodyHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.system.SetSize(m.rightWidth(), m.systemHeight())
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, cfg config.AppConfig, version string, onBatch BatchHook, opts ...orchestration.RunnerOption) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, cfg, version, onBatch, opts...)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.stop()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startBatchCmd returns a tea.Cmd that runs one batch to completion.
func startBatchCmd(ref *programRef, ctx context.Context, gate *orchestration.PauseGate, cfg config.AppConfig, gen uint64, onBatch BatchHook, opts []orchestration.RunnerOption) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		presenter := &TUIResultPresenter{ref: ref, generation: gen}

		runner := orchestration.NewRunner(slices.Concat(opts, []orchestration.RunnerOption{
			orchestration.WithLiveOpinions(),
			orchestration.WithPauseGate(gate),
		})...)
		batch := runner.Execute(ctx, cfg, reporter, io.Discard)

		presOpts := orchestration.PresentationOptions{Bins: cfg.Bins, Details: cfg.Details}
		exitCode := orchestration.AnalyzeResults(batch, presOpts, presenter, presenter, io.Discard)
		if exitCode == apperrors.ExitSuccess && onBatch != nil {
			exitCode = onBatch(batch)
		}
		return BatchCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg(metrics.ReadMemory())
	}
}

// sampleSysStatsCmd reads host CPU and memory usage and the process RSS.
func sampleSysStatsCmd(mon *sysmon.Monitor) tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg(mon.Sample())
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
