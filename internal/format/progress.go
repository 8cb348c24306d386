package format

import (
	"fmt"
	"strings"
	"time"
)

// maxETA caps estimates produced from very slow early progress rates.
const maxETA = 24 * time.Hour

// ProgressState tracks the completion fraction of each replica of a batch.
// Replicas run one after the other, so the average is the batch completion.
type ProgressState struct {
	progresses []float64
	numRuns    int
}

// NewProgressState creates a tracker for numRuns replicas.
func NewProgressState(numRuns int) *ProgressState {
	if numRuns < 0 {
		numRuns = 0
	}
	return &ProgressState{progresses: make([]float64, numRuns), numRuns: numRuns}
}

// Update records the completion fraction of replica index. Out-of-range
// indexes are ignored and values are clamped to [0, 1].
func (p *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= p.numRuns {
		return
	}
	p.progresses[index] = min(max(value, 0), 1)
}

// CalculateAverage returns the mean completion across replicas.
func (p *ProgressState) CalculateAverage() float64 {
	if p.numRuns == 0 {
		return 0
	}
	var total float64
	for _, v := range p.progresses {
		total += v
	}
	return total / float64(p.numRuns)
}

// ProgressWithETA extends ProgressState with a smoothed completion rate used
// to estimate the remaining time.
type ProgressWithETA struct {
	*ProgressState
	numRuns      int
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	// progressRate is the smoothed completion per second.
	progressRate float64
}

// NewProgressWithETA creates a tracker for numRuns replicas.
func NewProgressWithETA(numRuns int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numRuns),
		numRuns:       numRuns,
		startTime:     now,
		lastUpdate:    now,
	}
}

// UpdateWithETA records an update and returns the batch completion together
// with the estimated remaining time.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if elapsed := now.Sub(p.lastUpdate).Seconds(); elapsed > 0.05 {
		rate := (avg - p.lastProgress) / elapsed
		if rate > 0 {
			if p.progressRate == 0 {
				p.progressRate = rate
			} else {
				p.progressRate = 0.3*rate + 0.7*p.progressRate
			}
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the estimated remaining time, or 0 while no rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	secs := remaining / p.progressRate
	if secs >= maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(secs * float64(time.Second))
}

// FormatETA renders an estimate compactly ("45s", "2m30s", "1h15m").
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(eta.Hours())
		m := int(eta.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// ProgressBar renders a bar of the given length filled to progress.
func ProgressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar]  42.0% ETA: 12s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), min(max(progress, 0), 1)*100, FormatETA(eta))
}
