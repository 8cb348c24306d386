package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/dwsim/internal/dynamics"
)

func TestChartModel_RenderBars(t *testing.T) {
	c := NewChartModel(4)
	c.Update(ProgressMsg{Opinions: []float64{0.1, 0.1, 0.6}})

	lines := c.renderBars(2, 8)
	if len(lines) != 2 {
		t.Fatalf("got %d rows, want 2", len(lines))
	}
	// Bin 0 is the peak and fills both rows; bin 2 fills the bottom one.
	if lines[0] != "██      " {
		t.Errorf("top row = %q", lines[0])
	}
	if lines[1] != "██  ██  " {
		t.Errorf("bottom row = %q", lines[1])
	}
}

func TestChartModel_EmptyHistogram(t *testing.T) {
	c := NewChartModel(5)
	for _, line := range c.renderBars(3, 10) {
		if strings.TrimSpace(line) != "" {
			t.Errorf("empty histogram should draw no bars: %q", line)
		}
	}
}

func TestChartModel_ProgressBar(t *testing.T) {
	c := NewChartModel(5)
	c.Update(ProgressMsg{BatchProgress: 0.5, ETA: 3 * time.Second})

	bar := c.renderProgressBar(40)
	if !strings.Contains(bar, " 50.0%") || !strings.Contains(bar, "ETA 3s") {
		t.Errorf("unexpected progress bar %q", bar)
	}
	if w := lipgloss.Width(bar); w != 40 {
		t.Errorf("bar width = %d, want 40", w)
	}

	c.SetDone(2 * time.Second)
	if bar := c.renderProgressBar(40); !strings.Contains(bar, "100.0% in 2s") {
		t.Errorf("done bar = %q", bar)
	}
	if got := c.renderProgressBar(5); strings.Contains(got, "█") || strings.Contains(got, "░") {
		t.Errorf("too narrow for a bar: %q", got)
	}
}

func TestChartModel_Reset(t *testing.T) {
	c := NewChartModel(5)
	c.SetSize(60, 20)
	c.Update(ProgressMsg{Step: 5, Steps: 10, BatchProgress: 0.5, Opinions: []float64{0.5}})
	c.SetDone(time.Second)
	c.Reset()

	if c.done || c.step != 0 || c.hist.Total() != 0 {
		t.Error("Reset should clear the batch state")
	}
	if c.width != 60 || c.height != 20 || len(c.hist.Counts) != 5 {
		t.Error("Reset should keep the layout")
	}
}

func TestTickLine(t *testing.T) {
	tests := []struct {
		width int
		want  string
	}{
		{3, "0"},
		{10, "0   0.5  1"},
		{20, "0        0.5       1"},
	}
	for _, tt := range tests {
		if got := tickLine(tt.width); got != tt.want {
			t.Errorf("tickLine(%d) = %q, want %q", tt.width, got, tt.want)
		}
	}
}

func TestMetricsModel_UpdateProgress(t *testing.T) {
	m := NewMetricsModel(0.1)
	m.SetSize(60, 7)
	m.lastUpdate = time.Now().Add(-time.Second)

	m.UpdateProgress(ProgressMsg{Step: 100, Interactions: 1000, Updates: 250, Opinions: []float64{0.2, 0.25, 0.8}})

	if m.Clusters() != 2 {
		t.Errorf("Clusters = %d, want 2", m.Clusters())
	}
	if m.stepsPerSec < 50 || m.stepsPerSec > 110 {
		t.Errorf("stepsPerSec = %v, want about 100", m.stepsPerSec)
	}
	view := m.View()
	for _, want := range []string{"Clusters:", "25.0%", "0.2000 .. 0.8000"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestMetricsModel_TooFast(t *testing.T) {
	m := NewMetricsModel(0.1)
	m.UpdateProgress(ProgressMsg{Step: 10})
	if m.stepsPerSec != 0 {
		t.Errorf("updates closer than 50ms should not move the rate, got %v", m.stepsPerSec)
	}
}

func TestMetricsModel_UpdateMemStats(t *testing.T) {
	m := NewMetricsModel(0.1)
	m.SetSize(80, 7)
	m.UpdateMemStats(MemStatsMsg{HeapAlloc: 3 << 20, NumGC: 4, PauseTotalNs: 1_500_000})
	view := m.View()
	if !strings.Contains(view, "3.0 MB") || !strings.Contains(view, "4 (1.5ms)") {
		t.Errorf("memory stats missing from view:\n%s", view)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1 << 20, "1.0 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSystemModel_View(t *testing.T) {
	s := NewSystemModel()
	s.SetSize(50, 12)
	for _, n := range []int{8, 5, 3, 2} {
		s.PushClusters(n)
	}
	view := s.View()
	if !strings.Contains(view, "Clusters (now 2, peak 8)") {
		t.Errorf("cluster chart label missing:\n%s", view)
	}

	s.ResetClusters()
	if strings.Contains(s.View(), "Clusters (") {
		t.Error("cluster chart should be hidden without samples")
	}
}

func TestFooterModel_Status(t *testing.T) {
	f := NewFooterModel(DefaultKeyMap())
	f.SetWidth(80)

	steps := []struct {
		apply func()
		want  string
	}{
		{func() {}, "RUNNING"},
		{func() { f.SetPaused(true) }, "PAUSED"},
		{func() { f.SetDone(true) }, "DONE"},
		{func() { f.SetError(true) }, "ERROR"},
	}
	for _, s := range steps {
		s.apply()
		if got := f.Status(); !strings.Contains(got, s.want) {
			t.Errorf("Status() = %q, want %q", got, s.want)
		}
	}
	if !strings.Contains(f.View(), "rerun with next seed") {
		t.Error("footer should list the rerun key")
	}
}

func TestHeaderModel(t *testing.T) {
	h := NewHeaderModel("dev", dynamics.DefaultConfig())
	h.SetWidth(100)
	view := h.View()
	if !strings.Contains(view, "dwsim") || strings.Contains(view, "dev") {
		t.Errorf("dev version should not be shown: %q", view)
	}
	if !strings.Contains(view, "n=100 m=10 ε=0.1 μ=0.4 t=1000 seed=1") {
		t.Errorf("parameters missing: %q", view)
	}

	h.SetDone()
	frozen := h.Elapsed()
	time.Sleep(5 * time.Millisecond)
	if h.Elapsed() != frozen {
		t.Error("elapsed should freeze once done")
	}
}
