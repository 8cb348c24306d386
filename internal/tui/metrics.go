package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/dwsim/internal/format"
	"github.com/agbru/dwsim/internal/histogram"
)

// MetricsModel displays the statistics of the running replica and the
// runtime memory figures.
type MetricsModel struct {
	epsilon      float64
	summary      histogram.Summary
	clusters     int
	interactions int
	updates      int
	lastStep     int
	lastUpdate   time.Time
	stepsPerSec  float64
	heapAlloc    uint64
	numGC        uint32
	pauseTotalNs uint64
	width        int
	height       int
}

// NewMetricsModel creates a metrics panel. Clusters are counted with a gap
// of epsilon.
func NewMetricsModel(epsilon float64) MetricsModel {
	return MetricsModel{
		epsilon:    epsilon,
		lastUpdate: time.Now(),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Clusters returns the cluster count of the last opinion vector seen.
func (m MetricsModel) Clusters() int { return m.clusters }

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.heapAlloc = msg.HeapAlloc
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
}

// UpdateProgress refreshes the counters and the smoothed step rate.
func (m *MetricsModel) UpdateProgress(msg ProgressMsg) {
	m.interactions = msg.Interactions
	m.updates = msg.Updates
	if msg.Opinions != nil {
		m.summary = histogram.Summarize(msg.Opinions)
		m.clusters = histogram.Clusters(msg.Opinions, m.epsilon)
	}

	now := time.Now()
	if msg.Step < m.lastStep {
		// A new replica started.
		m.lastStep = 0
	}
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt > 0.05 {
		if ds := msg.Step - m.lastStep; ds > 0 {
			instant := float64(ds) / dt
			if m.stepsPerSec > 0 {
				m.stepsPerSec = 0.7*m.stepsPerSec + 0.3*instant
			} else {
				m.stepsPerSec = instant
			}
		}
		m.lastStep = msg.Step
		m.lastUpdate = now
	}
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	colWidth := max((m.width-6)/2, 0)

	acceptance := 0.0
	if m.interactions > 0 {
		acceptance = float64(m.updates) / float64(m.interactions) * 100
	}

	left := []string{
		formatMetricCol("Clusters:", fmt.Sprintf("%d", m.clusters), colWidth),
		formatMetricCol("Mean:", format.FormatOpinion(m.summary.Mean), colWidth),
		formatMetricCol("Range:", format.FormatOpinion(m.summary.Min)+" .. "+format.FormatOpinion(m.summary.Max), colWidth),
		formatMetricCol("Heap:", formatBytes(m.heapAlloc), colWidth),
	}
	right := []string{
		formatMetricCol("Steps/s:", fmt.Sprintf("%.0f", m.stepsPerSec), colWidth),
		formatMetricCol("Std dev:", format.FormatOpinion(m.summary.StdDev), colWidth),
		formatMetricCol("Updates:", fmt.Sprintf("%s (%.1f%%)", format.FormatCount(m.updates), acceptance), colWidth),
		formatMetricCol("GC:", fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6), colWidth),
	}

	var rows strings.Builder
	rows.WriteString(panelTitleStyle.Render("Statistics"))
	for i := range left {
		rows.WriteString("\n")
		rows.WriteString(left[i])
		rows.WriteString(right[i])
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-9s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
