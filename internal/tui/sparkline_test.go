package tui

import (
	"slices"
	"testing"
)

func TestRingBuffer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		capacity int
		push     []float64
		resize   int
		want     []float64
		wantLast float64
		wantMax  float64
	}{
		{"empty", 3, nil, 0, nil, 0, 0},
		{"partial", 5, []float64{10, 20, 30}, 0, []float64{10, 20, 30}, 30, 30},
		{"overflow", 3, []float64{1, 2, 3, 4}, 0, []float64{2, 3, 4}, 4, 4},
		{"zero capacity", 0, []float64{42}, 0, []float64{42}, 42, 42},
		{"grow", 3, []float64{1, 2, 3}, 5, []float64{1, 2, 3}, 3, 3},
		{"shrink keeps recent", 5, []float64{5, 4, 3, 2, 1}, 3, []float64{3, 2, 1}, 1, 3},
		{"same capacity", 3, []float64{1, 2}, 3, []float64{1, 2}, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rb := NewRingBuffer(tt.capacity)
			for _, v := range tt.push {
				rb.Push(v)
			}
			if tt.resize > 0 {
				rb.Resize(tt.resize)
				if rb.Cap() != tt.resize {
					t.Errorf("Cap = %d, want %d", rb.Cap(), tt.resize)
				}
			}
			if got := rb.Slice(); !slices.Equal(got, tt.want) {
				t.Errorf("Slice = %v, want %v", got, tt.want)
			}
			if rb.Last() != tt.wantLast || rb.Max() != tt.wantMax {
				t.Errorf("Last = %v, Max = %v, want %v, %v", rb.Last(), rb.Max(), tt.wantLast, tt.wantMax)
			}
		})
	}
}

func TestRingBuffer_Reset(t *testing.T) {
	t.Parallel()
	rb := NewRingBuffer(5)
	rb.Push(1)
	rb.Push(2)
	rb.Reset()
	if rb.Len() != 0 || rb.Slice() != nil {
		t.Errorf("buffer not cleared: len=%d", rb.Len())
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		top    float64
		want   string
	}{
		{"empty", nil, 100, ""},
		{"zero", []float64{0, 0}, 100, "▁▁"},
		{"full", []float64{100, 100}, 100, "██"},
		{"mid", []float64{50}, 100, "▄"},
		{"clamped", []float64{-10, 150}, 100, "▁█"},
		{"cluster scale", []float64{1, 3, 6}, 6, "▂▄█"},
		{"no scale", []float64{5}, 0, "▁"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RenderSparkline(tt.values, tt.top); got != tt.want {
				t.Errorf("RenderSparkline(%v, %v) = %q, want %q", tt.values, tt.top, got, tt.want)
			}
		})
	}
}

func TestRenderSparkline_Ascending(t *testing.T) {
	t.Parallel()
	runes := []rune(RenderSparkline([]float64{0, 14.3, 28.6, 42.9, 57.1, 71.4, 85.7, 100}, 100))
	for i := 1; i < len(runes); i++ {
		if runes[i] < runes[i-1] {
			t.Errorf("not ascending at %d: %c < %c", i, runes[i], runes[i-1])
		}
	}
}

func TestRenderBrailleChart(t *testing.T) {
	t.Parallel()

	if RenderBrailleChart(nil, 10, 4, 2) != nil {
		t.Error("empty input should render nothing")
	}
	if RenderBrailleChart([]float64{1}, 10, 0, 2) != nil {
		t.Error("zero width should render nothing")
	}

	lines := RenderBrailleChart([]float64{0, 10}, 10, 3, 2)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, l := range lines {
		if n := len([]rune(l)); n != 3 {
			t.Errorf("line %q has %d cells, want 3", l, n)
		}
	}
	// Right-aligned: the low value sits bottom-left of the last cell, the
	// high value top-right.
	last := []rune(lines[1])[2]
	if last != 0x2800|0x40 {
		t.Errorf("bottom cell = %U, want %U", last, 0x2800|0x40)
	}
	if top := []rune(lines[0])[2]; top != 0x2800|0x08 {
		t.Errorf("top cell = %U, want %U", top, 0x2800|0x08)
	}
}

func TestRenderBrailleChart_KeepsMostRecent(t *testing.T) {
	t.Parallel()
	values := make([]float64, 50)
	values[len(values)-1] = 100
	lines := RenderBrailleChart(values, 100, 2, 1)
	// 4 dot columns: the last one carries the maximum in its top row.
	if cell := []rune(lines[0])[1]; cell&0x08 == 0 {
		t.Errorf("most recent value not plotted top-right: %U", cell)
	}
}
