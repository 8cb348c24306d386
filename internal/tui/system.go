package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/dwsim/internal/sysmon"
)

// historySize is the default number of samples kept per series.
const historySize = 60

// SystemModel shows CPU and memory sparklines and the cluster count over
// time.
type SystemModel struct {
	cpu        *RingBuffer
	mem        *RingBuffer
	clusters   *RingBuffer
	rss        uint64
	goroutines int
	width      int
	height     int
}

// NewSystemModel creates the panel. The cluster chart is scaled against its
// own peak.
func NewSystemModel() SystemModel {
	return SystemModel{
		cpu:      NewRingBuffer(historySize),
		mem:      NewRingBuffer(historySize),
		clusters: NewRingBuffer(historySize * 2),
	}
}

// SetSize updates dimensions and resizes the histories to fit.
func (s *SystemModel) SetSize(w, h int) {
	s.width = w
	s.height = h
	if n := w - 16; n > 0 {
		s.cpu.Resize(n)
		s.mem.Resize(n)
	}
	if n := (w - 4) * 2; n > 0 {
		s.clusters.Resize(n)
	}
}

// UpdateSysStats records a resource sample.
func (s *SystemModel) UpdateSysStats(st sysmon.Stats) {
	s.cpu.Push(st.CPUPercent)
	s.mem.Push(st.MemPercent)
	s.rss = st.RSS
	s.goroutines = st.Goroutines
}

// PushClusters records the current cluster count.
func (s *SystemModel) PushClusters(n int) {
	s.clusters.Push(float64(n))
}

// ResetClusters clears the cluster history for a new batch.
func (s *SystemModel) ResetClusters() {
	s.clusters.Reset()
}

// View renders the panel.
func (s SystemModel) View() string {
	var rows []string
	rows = append(rows,
		panelTitleStyle.Render("System")+metricLabelStyle.Render(
			fmt.Sprintf("  RSS %s  goroutines %d", formatBytes(s.rss), s.goroutines)),
		fmt.Sprintf(" %s %s %s", metricLabelStyle.Render("CPU"),
			metricValueStyle.Render(fmt.Sprintf("%5.1f%%", s.cpu.Last())),
			cpuSparklineStyle.Render(RenderSparkline(s.cpu.Slice(), 100))),
		fmt.Sprintf(" %s %s %s", metricLabelStyle.Render("MEM"),
			metricValueStyle.Render(fmt.Sprintf("%5.1f%%", s.mem.Last())),
			memSparklineStyle.Render(RenderSparkline(s.mem.Slice(), 100))),
	)

	// Remaining lines: label plus braille chart of the cluster count.
	if chartRows := s.height - 2 - len(rows) - 1; chartRows > 0 && s.clusters.Len() > 0 {
		top := max(s.clusters.Max(), 1)
		rows = append(rows, metricLabelStyle.Render(
			fmt.Sprintf(" Clusters (now %d, peak %d)", int(s.clusters.Last()), int(top))))
		for _, line := range RenderBrailleChart(s.clusters.Slice(), top, max(s.width-4, 1), chartRows) {
			rows = append(rows, clusterChartStyle.Render(line))
		}
	}

	return panelStyle.
		Width(max(s.width-2, 0)).
		Height(max(s.height-2, 0)).
		Render(strings.Join(rows, "\n"))
}
