// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//     Examples: [DisplayBatch], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatVector], [FormatHistogram].

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agbru/dwsim/internal/format"
	"github.com/agbru/dwsim/internal/histogram"
	"github.com/agbru/dwsim/internal/metrics"
	"github.com/agbru/dwsim/internal/orchestration"
	"github.com/agbru/dwsim/internal/ui"
)

// FormatVector renders an opinion vector on one line, space separated, with
// the shortest representation that round-trips.
func FormatVector(opinions []float64) string {
	parts := make([]string, len(opinions))
	for i, v := range opinions {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// DisplayQuietResult prints one line per replica holding its final vector.
func DisplayQuietResult(out io.Writer, batch orchestration.Batch) {
	for _, r := range batch.Succeeded() {
		fmt.Fprintln(out, FormatVector(r.Final))
	}
}

// DisplayBatch prints the final vector and histogram of a single replica, or
// a per-replica table and the pooled histogram for several replicas.
func DisplayBatch(batch orchestration.Batch, details bool, out io.Writer) {
	runs := batch.Succeeded()
	if len(runs) == 0 {
		return
	}

	if len(runs) == 1 {
		r := runs[0]
		fmt.Fprintf(out, "\n%sFinal opinions%s (%d agents):\n%s\n\n", ui.ColorBold(), ui.ColorReset(), len(r.Final), FormatVector(r.Final))
		DisplayHistogram(r.Histogram, out)
		fmt.Fprintf(out, "\nClusters: %s%d%s   Updates: %s%s%s / %s interactions   Time: %s%s%s\n",
			ui.ColorValue(), r.Clusters, ui.ColorReset(),
			ui.ColorValue(), format.FormatCount(r.Updates), ui.ColorReset(), format.FormatCount(r.Interactions),
			ui.ColorValue(), format.FormatExecutionDuration(r.Duration), ui.ColorReset())
		if details {
			DisplaySummary(r.Summary, out)
		}
	} else {
		DisplayRunTable(runs, out)
		fmt.Fprintf(out, "\nPooled over %d replicas:\n", len(runs))
		DisplayHistogram(batch.Pooled, out)
		if details {
			DisplayClusterSpread(runs, out)
		}
	}

	if details {
		DisplayMemoryStats(metrics.ReadMemory(), out)
	}
	fmt.Fprintf(out, "\n%sBatch %s finished in %s.%s\n", ui.ColorDim(), batch.ID, format.FormatExecutionDuration(batch.Duration), ui.ColorReset())
}

// DisplayRunTable prints one row per replica.
func DisplayRunTable(runs []orchestration.RunResult, out io.Writer) {
	fmt.Fprintf(out, "\n%s%-5s %-12s %8s %8s %8s %10s%s\n", ui.ColorBold(),
		"Run", "Seed", "Clusters", "Mean", "StdDev", "Time", ui.ColorReset())
	for _, r := range runs {
		fmt.Fprintf(out, "%-5d %-12d %s%8d%s %8.4f %8.4f %10s\n",
			r.Index+1, r.Seed, ui.ColorValue(), r.Clusters, ui.ColorReset(),
			r.Summary.Mean, r.Summary.StdDev, format.FormatExecutionDuration(r.Duration))
	}
}

// DisplaySummary prints descriptive statistics of a final vector.
func DisplaySummary(s histogram.Summary, out io.Writer) {
	fmt.Fprintf(out, "\nSummary statistics:\n")
	fmt.Fprintf(out, "  Mean:    %s\n", format.FormatOpinion(s.Mean))
	fmt.Fprintf(out, "  Std dev: %s\n", format.FormatOpinion(s.StdDev))
	fmt.Fprintf(out, "  Min:     %s\n", format.FormatOpinion(s.Min))
	fmt.Fprintf(out, "  Max:     %s\n", format.FormatOpinion(s.Max))
}

// DisplayClusterSpread prints how often each cluster count occurred across
// replicas.
func DisplayClusterSpread(runs []orchestration.RunResult, out io.Writer) {
	counts := map[int]int{}
	maxClusters := 0
	for _, r := range runs {
		counts[r.Clusters]++
		maxClusters = max(maxClusters, r.Clusters)
	}
	fmt.Fprintf(out, "\nCluster counts across replicas:\n")
	for c := 1; c <= maxClusters; c++ {
		if counts[c] > 0 {
			fmt.Fprintf(out, "  %3d clusters: %d\n", c, counts[c])
		}
	}
}

// DisplayMemoryStats shows runtime memory statistics.
func DisplayMemoryStats(s metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s bytes\n", format.FormatNumberString(strconv.FormatUint(s.HeapAlloc, 10)))
	fmt.Fprintf(out, "  Total allocated: %s bytes\n", format.FormatNumberString(strconv.FormatUint(s.TotalAlloc, 10)))
	fmt.Fprintf(out, "  GC cycles:       %d\n", s.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(s.PauseTotalNs)/1e6)
}

// DisplaySaved confirms that a file was written.
func DisplaySaved(what, path string, out io.Writer) {
	fmt.Fprintf(out, "%s✓ %s saved to: %s%s\n", ui.ColorSuccess(), what, path, ui.ColorReset())
}
