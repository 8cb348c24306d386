package dynamics

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	apperrors "github.com/agbru/dwsim/internal/errors"
)

// Engine runs a single Deffuant–Weisbuch simulation. It is not safe for
// concurrent use.
type Engine struct {
	cfg       Config
	rng       *rand.Rand
	sampler   PairSampler
	observers []Observer

	initial  []float64
	opinions []float64
	pairs    []Pair
	step     int
}

// Option configures an Engine during construction.
type Option func(*Engine)

// WithSampler replaces the default UniformSampler.
func WithSampler(s PairSampler) Option {
	return func(e *Engine) { e.sampler = s }
}

// WithRand replaces the seeded source derived from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithObserver registers an observer notified after every step.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// NewSource returns the deterministic source used for a seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New validates cfg and returns an engine whose n opinions are drawn
// uniformly from [0,1). No step runs on a validation failure.
func New(cfg Config, opts ...Option) (*Engine, error) {
	e, err := newEngine(cfg, opts)
	if err != nil {
		return nil, err
	}
	e.initial = make([]float64, cfg.Agents)
	for i := range e.initial {
		e.initial[i] = e.rng.Float64()
	}
	e.start()
	return e, nil
}

// NewWithOpinions is like New but starts from the given vector instead of a
// random draw. The vector is copied and must have exactly cfg.Agents values.
func NewWithOpinions(cfg Config, initial []float64, opts ...Option) (*Engine, error) {
	e, err := newEngine(cfg, opts)
	if err != nil {
		return nil, err
	}
	if len(initial) != cfg.Agents {
		return nil, apperrors.ValidationError{
			Field:   "opinions",
			Message: fmt.Sprintf("expected %d initial values, got %d", cfg.Agents, len(initial)),
		}
	}
	e.initial = slices.Clone(initial)
	e.start()
	return e, nil
}

func newEngine(cfg Config, opts []Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewSource(cfg.Seed)
	}
	if e.sampler == nil {
		e.sampler = NewUniformSampler(e.rng)
	}
	e.pairs = make([]Pair, 0, cfg.PairsPerStep)
	return e, nil
}

func (e *Engine) start() {
	e.opinions = slices.Clone(e.initial)
	for _, o := range e.observers {
		if so, ok := o.(StartObserver); ok {
			so.OnStart(e.opinions)
		}
	}
}

// Config returns the engine's parameters.
func (e *Engine) Config() Config { return e.cfg }

// StepsDone returns the number of steps executed so far.
func (e *Engine) StepsDone() int { return e.step }

// Done reports whether t_max steps have been executed.
func (e *Engine) Done() bool { return e.step >= e.cfg.Steps }

// Opinions returns a copy of the current opinion vector.
func (e *Engine) Opinions() []float64 { return slices.Clone(e.opinions) }

// Initial returns a copy of the initial opinion vector.
func (e *Engine) Initial() []float64 { return slices.Clone(e.initial) }

// Step executes one step: it samples m disjoint pairs and applies Interact to
// each in sampled order. Step may be called past t_max; Run never does.
func (e *Engine) Step() StepStats {
	e.pairs = e.sampler.Sample(e.pairs, e.cfg.Agents, e.cfg.PairsPerStep)
	stats := StepStats{Interactions: len(e.pairs)}
	for _, p := range e.pairs {
		if Interact(e.opinions, p, e.cfg.Epsilon, e.cfg.Mu) {
			stats.Updates++
		}
	}
	e.step++
	stats.Step = e.step
	for _, o := range e.observers {
		o.OnStep(stats, e.opinions)
	}
	return stats
}

// Run executes the remaining steps up to t_max and returns a copy of the
// final opinions. There is no early stop on convergence. ctx is checked
// between steps; on cancellation Run returns an apperrors.SimulationError
// and the engine keeps the state reached so far.
func (e *Engine) Run(ctx context.Context) ([]float64, error) {
	for !e.Done() {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.SimulationError{Step: e.step, Cause: err}
		}
		e.Step()
	}
	return e.Opinions(), nil
}
