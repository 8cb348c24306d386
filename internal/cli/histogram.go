package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/agbru/dwsim/internal/histogram"
	"github.com/agbru/dwsim/internal/ui"
)

// HistogramHeight is the number of text rows used for the bars.
const HistogramHeight = 12

// wideBinLimit is the bin count up to which each bin is two columns wide.
const wideBinLimit = 40

// FormatHistogram renders h as a vertical bar chart titled
// histogram.Title, with the frequency on the y axis and the opinion on the
// x axis. A non-empty bin always shows at least one row.
func FormatHistogram(h histogram.Histogram, height int) string {
	if height < 2 {
		height = 2
	}
	bins := len(h.Counts)
	colWidth := 1
	if bins <= wideBinLimit {
		colWidth = 2
	}
	width := bins * colWidth
	maxCount := h.MaxCount()

	levels := make([]int, bins)
	for i, c := range h.Counts {
		if maxCount > 0 {
			levels[i] = int(math.Round(float64(c) * float64(height) / float64(maxCount)))
		}
		if c > 0 && levels[i] == 0 {
			levels[i] = 1
		}
	}

	labelWidth := max(len(strconv.Itoa(maxCount)), 1)
	tickRow := func(row int) string {
		switch row {
		case height:
			return strconv.Itoa(maxCount)
		case height / 2:
			return strconv.Itoa(int(math.Round(float64(maxCount) * float64(row) / float64(height))))
		}
		return ""
	}

	var b strings.Builder
	pad := strings.Repeat(" ", labelWidth+2)
	fmt.Fprintf(&b, "%s%s%s%s%s\n", pad, ui.ColorTitle(), ui.ColorBold(), center(histogram.Title, width), ui.ColorReset())
	fmt.Fprintf(&b, "%s%s%s\n", ui.ColorAxis(), histogram.YLabel, ui.ColorReset())

	block := strings.Repeat("█", colWidth)
	blank := strings.Repeat(" ", colWidth)
	for row := height; row >= 1; row-- {
		tick := tickRow(row)
		axis := "│"
		if tick != "" {
			axis = "┤"
		}
		fmt.Fprintf(&b, "%s%*s %s%s", ui.ColorAxis(), labelWidth, tick, axis, ui.ColorReset())
		var line strings.Builder
		for _, lvl := range levels {
			if lvl >= row {
				line.WriteString(block)
			} else {
				line.WriteString(blank)
			}
		}
		fmt.Fprintf(&b, "%s%s%s\n", ui.ColorBar(), strings.TrimRight(line.String(), " "), ui.ColorReset())
	}

	fmt.Fprintf(&b, "%s%*s ┼%s%s\n", ui.ColorAxis(), labelWidth, "0", strings.Repeat("─", width), ui.ColorReset())
	fmt.Fprintf(&b, "%s%s%s%s\n", pad, ui.ColorAxis(), xTicks(h.Lo, h.Hi, width), ui.ColorReset())
	fmt.Fprintf(&b, "%s%s%s%s\n", pad, ui.ColorAxis(), center(histogram.XLabel, width), ui.ColorReset())
	if h.Outside > 0 {
		fmt.Fprintf(&b, "%s(%d values outside [%g, %g) counted in the edge bins)%s\n",
			ui.ColorWarning(), h.Outside, h.Lo, h.Hi, ui.ColorReset())
	}
	return b.String()
}

// DisplayHistogram writes FormatHistogram(h, HistogramHeight) to out.
func DisplayHistogram(h histogram.Histogram, out io.Writer) {
	fmt.Fprint(out, FormatHistogram(h, HistogramHeight))
}

// xTicks places the low, middle and high edge labels under the chart.
func xTicks(lo, hi float64, width int) string {
	line := []byte(strings.Repeat(" ", max(width, 11)))
	put := func(pos int, s string) {
		pos = min(max(pos, 0), len(line)-len(s))
		copy(line[pos:], s)
	}
	put(0, strconv.FormatFloat(lo, 'f', 1, 64))
	if width >= 12 {
		mid := strconv.FormatFloat((lo+hi)/2, 'f', 1, 64)
		put(width/2-len(mid)/2, mid)
	}
	put(max(width-3, 4), strconv.FormatFloat(hi, 'f', 1, 64))
	return strings.TrimRight(string(line), " ")
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}
