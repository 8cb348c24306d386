//go:generate mockgen -source=observer.go -destination=mocks/mock_observer.go -package=mocks

package dynamics

import "slices"

// StepStats summarises one completed step.
type StepStats struct {
	// Step is the 1-based index of the step that just completed.
	Step int
	// Interactions is the number of pairs sampled.
	Interactions int
	// Updates is the number of pairs whose distance was within eps.
	Updates int
}

// Observer is notified after every step. The opinions slice is the engine's
// live state and must not be retained or modified; copy it if needed.
type Observer interface {
	OnStep(stats StepStats, opinions []float64)
}

// StartObserver is an optional extension of Observer. OnStart is called once
// with the initial opinion vector when the engine is created.
type StartObserver interface {
	Observer
	OnStart(opinions []float64)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(stats StepStats, opinions []float64)

// OnStep calls f.
func (f ObserverFunc) OnStep(stats StepStats, opinions []float64) { f(stats, opinions) }

// Snapshot is a copy of the opinion vector after Step steps.
type Snapshot struct {
	Step     int       `json:"step" yaml:"step"`
	Opinions []float64 `json:"opinions" yaml:"opinions"`
}

// Recorder keeps a snapshot of the opinions every Every steps, plus the
// initial vector (step 0). It provides the optional time series of a run.
type Recorder struct {
	Every     int
	snapshots []Snapshot
}

// NewRecorder returns a recorder sampling every `every` steps. Values below 1
// are treated as 1.
func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

// OnStart implements StartObserver.
func (r *Recorder) OnStart(opinions []float64) {
	r.snapshots = append(r.snapshots, Snapshot{Step: 0, Opinions: slices.Clone(opinions)})
}

// OnStep implements Observer.
func (r *Recorder) OnStep(stats StepStats, opinions []float64) {
	if stats.Step%r.Every != 0 {
		return
	}
	r.snapshots = append(r.snapshots, Snapshot{Step: stats.Step, Opinions: slices.Clone(opinions)})
}

// Snapshots returns the recorded series in step order.
func (r *Recorder) Snapshots() []Snapshot {
	return r.snapshots
}
