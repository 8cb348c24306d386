// Package histogram summarises an opinion vector for display: fixed-width
// binning over [0,1), descriptive statistics, and opinion cluster counting.
package histogram

import (
	"math"
	"slices"
)

// Labels used by every renderer.
const (
	Title  = "Opinion Distribution"
	XLabel = "Opinion"
	YLabel = "Frequency"

	// DefaultBins is the bin count of the reference plot.
	DefaultBins = 20
)

// Histogram holds bin counts over [Lo, Hi).
type Histogram struct {
	Lo, Hi float64
	Counts []int
	// Outside counts values that fell outside [Lo, Hi) and were clamped into
	// the first or last bin. It stays zero unless mu > 0.5 was used.
	Outside int
}

// New bins opinions into `bins` equal-width buckets over [0,1). A bins value
// below 1 falls back to DefaultBins.
func New(opinions []float64, bins int) Histogram {
	if bins < 1 {
		bins = DefaultBins
	}
	h := Histogram{Lo: 0, Hi: 1, Counts: make([]int, bins)}
	width := (h.Hi - h.Lo) / float64(bins)
	for _, v := range opinions {
		idx := int(math.Floor((v - h.Lo) / width))
		if v < h.Lo || v >= h.Hi {
			h.Outside++
		}
		h.Counts[min(max(idx, 0), bins-1)]++
	}
	return h
}

// Merge adds the counts of other, which must have the same bin layout.
func (h *Histogram) Merge(other Histogram) {
	for i := range h.Counts {
		if i < len(other.Counts) {
			h.Counts[i] += other.Counts[i]
		}
	}
	h.Outside += other.Outside
}

// Total returns the number of binned values.
func (h Histogram) Total() int {
	var n int
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// MaxCount returns the largest bin count.
func (h Histogram) MaxCount() int {
	if len(h.Counts) == 0 {
		return 0
	}
	return slices.Max(h.Counts)
}

// BinEdges returns the lower and upper edge of bin i.
func (h Histogram) BinEdges(i int) (lo, hi float64) {
	width := (h.Hi - h.Lo) / float64(len(h.Counts))
	return h.Lo + float64(i)*width, h.Lo + float64(i+1)*width
}

// Summary holds descriptive statistics of an opinion vector.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// Summarize computes count, mean, population standard deviation, min and max.
func Summarize(opinions []float64) Summary {
	if len(opinions) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(opinions), Min: opinions[0], Max: opinions[0]}
	var sum float64
	for _, v := range opinions {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = sum / float64(len(opinions))
	var sq float64
	for _, v := range opinions {
		d := v - s.Mean
		sq += d * d
	}
	s.StdDev = math.Sqrt(sq / float64(len(opinions)))
	return s
}

// Clusters counts groups of opinions: after sorting, a new cluster starts
// wherever two neighbours are more than gap apart.
func Clusters(opinions []float64, gap float64) int {
	if len(opinions) == 0 {
		return 0
	}
	sorted := slices.Clone(opinions)
	slices.Sort(sorted)
	n := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] > gap {
			n++
		}
	}
	return n
}
