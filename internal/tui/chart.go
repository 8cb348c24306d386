package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/dwsim/internal/format"
	"github.com/agbru/dwsim/internal/histogram"
)

// chartChrome is the number of panel lines not used by bars: two borders,
// the title, the axis, the tick labels and the progress bar.
const chartChrome = 6

// ChartModel draws the live opinion histogram and the batch progress bar.
type ChartModel struct {
	hist          histogram.Histogram
	bins          int
	runIndex      int
	numRuns       int
	step          int
	steps         int
	batchProgress float64
	eta           time.Duration
	done          bool
	totalTime     time.Duration
	width         int
	height        int
}

// NewChartModel creates an empty chart with the given bin count.
func NewChartModel(bins int) ChartModel {
	return ChartModel{
		hist: histogram.New(nil, bins),
		bins: bins,
	}
}

// SetSize updates dimensions.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// Update records a progress message. The histogram is rebuilt only when the
// message carries opinions.
func (c *ChartModel) Update(msg ProgressMsg) {
	if msg.Opinions != nil {
		c.hist = histogram.New(msg.Opinions, c.bins)
	}
	c.runIndex = msg.RunIndex
	c.numRuns = msg.NumRuns
	c.step = msg.Step
	c.steps = msg.Steps
	c.batchProgress = msg.BatchProgress
	c.eta = msg.ETA
}

// SetHistogram replaces the displayed distribution, e.g. with the pooled
// histogram of a finished batch.
func (c *ChartModel) SetHistogram(h histogram.Histogram) {
	c.hist = h
}

// SetDone marks the batch finished.
func (c *ChartModel) SetDone(total time.Duration) {
	c.done = true
	c.batchProgress = 1
	c.totalTime = total
}

// Reset clears the chart for a new batch.
func (c *ChartModel) Reset() {
	*c = ChartModel{
		hist:   histogram.New(nil, c.bins),
		bins:   c.bins,
		width:  c.width,
		height: c.height,
	}
}

// View renders the chart panel.
func (c ChartModel) View() string {
	inner := max(c.width-4, 1)
	rows := max(c.height-chartChrome, 1)

	var b strings.Builder
	b.WriteString(c.title(inner))
	b.WriteByte('\n')
	for _, line := range c.renderBars(rows, inner) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(axisStyle.Render(strings.Repeat("─", c.plotWidth(inner))))
	b.WriteByte('\n')
	b.WriteString(axisStyle.Render(tickLine(c.plotWidth(inner))))
	b.WriteByte('\n')
	b.WriteString(c.renderProgressBar(inner))

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(b.String())
}

func (c ChartModel) title(width int) string {
	title := panelTitleStyle.Render(histogram.Title)
	var where string
	switch {
	case c.done:
		where = "final"
	case c.steps > 0 && c.numRuns > 1:
		where = fmt.Sprintf("run %d/%d  step %d/%d", c.runIndex+1, c.numRuns, c.step, c.steps)
	case c.steps > 0:
		where = fmt.Sprintf("step %d/%d", c.step, c.steps)
	}
	right := metricLabelStyle.Render(fmt.Sprintf("%s  max %d", where, c.hist.MaxCount()))
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(right), 1)
	return title + strings.Repeat(" ", gap) + right
}

// colWidth returns the number of cells per bin.
func (c ChartModel) colWidth(width int) int {
	return max(width/max(len(c.hist.Counts), 1), 1)
}

func (c ChartModel) plotWidth(width int) int {
	return c.colWidth(width) * len(c.hist.Counts)
}

// renderBars draws one vertical bar per bin with eighth-cell resolution.
func (c ChartModel) renderBars(rows, width int) []string {
	peak := c.hist.MaxCount()
	col := c.colWidth(width)
	lines := make([]string, rows)
	for r := range rows {
		base := (rows - 1 - r) * 8
		var line strings.Builder
		for _, count := range c.hist.Counts {
			cell := " "
			if peak > 0 {
				fill := count*rows*8/peak - base
				switch {
				case fill >= 8:
					cell = "█"
				case fill > 0:
					cell = string(sparklineChars[fill-1])
				}
			}
			style := barLowStyle
			if peak > 0 && 2*count > peak {
				style = barHighStyle
			}
			line.WriteString(style.Render(strings.Repeat(cell, col)))
		}
		lines[r] = line.String()
	}
	return lines
}

// tickLine places 0, 0.5 and 1 under the plot.
func tickLine(width int) string {
	if width < 6 {
		return "0"
	}
	line := []rune(strings.Repeat(" ", width))
	copy(line, []rune("0"))
	mid := width/2 - 1
	copy(line[mid:], []rune("0.5"))
	line[width-1] = '1'
	return string(line)
}

// renderProgressBar draws the batch completion and ETA.
func (c ChartModel) renderProgressBar(width int) string {
	var suffix string
	if c.done {
		suffix = fmt.Sprintf(" %5.1f%% in %s", 100.0, format.FormatExecutionDuration(c.totalTime))
	} else {
		suffix = fmt.Sprintf(" %5.1f%% ETA %s", c.batchProgress*100, format.FormatETA(c.eta))
	}
	barWidth := width - lipgloss.Width(suffix)
	if barWidth < 4 {
		return strings.TrimSpace(suffix)
	}
	p := min(max(c.batchProgress, 0), 1)
	filled := int(p * float64(barWidth))
	return progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", barWidth-filled)) +
		metricValueStyle.Render(suffix)
}
