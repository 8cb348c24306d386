// Package progress carries live simulation progress from the engine to the
// presentation layer over a buffered channel.
package progress

import (
	"context"
	"slices"

	"github.com/agbru/dwsim/internal/dynamics"
)

// UpdatesPerRun is the number of intermediate updates published per replica,
// whatever its length.
const UpdatesPerRun = 100

// ProgressUpdate describes the state of one replica after a step.
type ProgressUpdate struct {
	// RunIndex is the zero-based replica index.
	RunIndex int
	// Step is the number of completed steps.
	Step int
	// Steps is t_max.
	Steps int
	// Value is Step/Steps, or 1 when Steps is 0.
	Value float64
	// Interactions and Updates are cumulative over the replica.
	Interactions int
	Updates      int
	// Opinions is a copy of the opinion vector, or nil when the publisher was
	// created without WithOpinions.
	Opinions []float64
}

// Publisher is a dynamics.Observer that forwards throttled updates to a
// channel. Intermediate updates are dropped when the channel is full so a
// slow consumer never stalls the simulation.
type Publisher struct {
	ch           chan<- ProgressUpdate
	run          int
	steps        int
	every        int
	withOpinions bool

	last ProgressUpdate
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithOpinions attaches a copy of the opinion vector to every update.
func WithOpinions() PublisherOption {
	return func(p *Publisher) { p.withOpinions = true }
}

// WithInterval publishes every k steps instead of UpdatesPerRun times.
func WithInterval(k int) PublisherOption {
	return func(p *Publisher) {
		if k > 0 {
			p.every = k
		}
	}
}

// NewPublisher creates a publisher for replica run of a simulation lasting
// steps steps.
func NewPublisher(ch chan<- ProgressUpdate, run, steps int, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		ch:    ch,
		run:   run,
		steps: steps,
		every: max(1, steps/UpdatesPerRun),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	_ dynamics.Observer      = (*Publisher)(nil)
	_ dynamics.StartObserver = (*Publisher)(nil)
)

// OnStart publishes the initial state.
func (p *Publisher) OnStart(opinions []float64) {
	p.last = p.update(0, opinions)
	p.trySend(p.last)
}

// OnStep accumulates counters and publishes every interval.
func (p *Publisher) OnStep(stats dynamics.StepStats, opinions []float64) {
	p.last.Interactions += stats.Interactions
	p.last.Updates += stats.Updates
	if stats.Step%p.every != 0 || stats.Step == p.steps {
		p.last.Step = stats.Step
		return
	}
	u := p.update(stats.Step, opinions)
	u.Interactions, u.Updates = p.last.Interactions, p.last.Updates
	p.last = u
	p.trySend(u)
}

// Finish publishes the final state of the replica. Unlike intermediate
// updates it waits for room in the channel, or for ctx to be done.
func (p *Publisher) Finish(ctx context.Context, opinions []float64) {
	u := p.update(p.last.Step, opinions)
	u.Interactions, u.Updates = p.last.Interactions, p.last.Updates
	if p.last.Step >= p.steps {
		u.Value = 1
	}
	select {
	case p.ch <- u:
	case <-ctx.Done():
	}
}

func (p *Publisher) update(step int, opinions []float64) ProgressUpdate {
	u := ProgressUpdate{RunIndex: p.run, Step: step, Steps: p.steps, Value: 1}
	if p.steps > 0 {
		u.Value = float64(step) / float64(p.steps)
	}
	if p.withOpinions {
		u.Opinions = slices.Clone(opinions)
	}
	return u
}

func (p *Publisher) trySend(u ProgressUpdate) {
	select {
	case p.ch <- u:
	default:
	}
}
