package dynamics

import (
	"fmt"
	"math"

	apperrors "github.com/agbru/dwsim/internal/errors"
)

// Default parameter values, matching the reference run.
const (
	DefaultAgents       = 100
	DefaultPairsPerStep = 10
	DefaultEpsilon      = 0.1
	DefaultSteps        = 1000
	DefaultMu           = 0.4
	DefaultSeed         = 1
)

// Config holds the immutable parameters of a simulation run.
//
// Valid ranges:
//   - Agents (n) >= 2
//   - 1 <= PairsPerStep (m) <= floor(n/2)
//   - Epsilon (eps) >= 0
//   - Steps (t_max) >= 0
//   - Mu > 0. Values in (0, 0.5] keep every pair from crossing. Values above
//     0.5 are accepted but overshoot the midpoint, so two interacting agents
//     swap order and opinions may leave the hull of the initial draw.
type Config struct {
	Agents       int     `json:"n" yaml:"n"`
	PairsPerStep int     `json:"m" yaml:"m"`
	Epsilon      float64 `json:"eps" yaml:"eps"`
	Steps        int     `json:"t_max" yaml:"t_max"`
	Mu           float64 `json:"mu" yaml:"mu"`
	Seed         uint64  `json:"seed" yaml:"seed"`
}

// DefaultConfig returns the reference parameters n=100, m=10, eps=0.1,
// t_max=1000, mu=0.4.
func DefaultConfig() Config {
	return Config{
		Agents:       DefaultAgents,
		PairsPerStep: DefaultPairsPerStep,
		Epsilon:      DefaultEpsilon,
		Steps:        DefaultSteps,
		Mu:           DefaultMu,
		Seed:         DefaultSeed,
	}
}

// Validate reports the first parameter that violates its constraint as an
// apperrors.ValidationError.
func (c Config) Validate() error {
	switch {
	case c.Agents < 2:
		return apperrors.ValidationError{Field: "n", Message: fmt.Sprintf("must be at least 2, got %d", c.Agents)}
	case c.PairsPerStep < 1:
		return apperrors.ValidationError{Field: "m", Message: fmt.Sprintf("must be at least 1, got %d", c.PairsPerStep)}
	case c.PairsPerStep > c.Agents/2:
		return apperrors.ValidationError{
			Field:   "m",
			Message: fmt.Sprintf("cannot draw %d disjoint pairs from %d agents (need 2*m <= n)", c.PairsPerStep, c.Agents),
		}
	// +Inf eps is accepted: every sampled pair interacts.
	case math.IsNaN(c.Epsilon) || c.Epsilon < 0:
		return apperrors.ValidationError{Field: "eps", Message: "must be a non-negative number"}
	case c.Steps < 0:
		return apperrors.ValidationError{Field: "t_max", Message: fmt.Sprintf("must be non-negative, got %d", c.Steps)}
	case math.IsNaN(c.Mu) || c.Mu <= 0:
		return apperrors.ValidationError{Field: "mu", Message: "must be greater than 0"}
	case math.IsInf(c.Mu, 0):
		return apperrors.ValidationError{Field: "mu", Message: "must be finite"}
	}
	return nil
}

// Overshoots reports whether Mu is above 0.5, in which case an update moves
// each agent past the pair's midpoint.
func (c Config) Overshoots() bool {
	return c.Mu > 0.5
}

// WithSeed returns a copy of c using the given seed.
func (c Config) WithSeed(seed uint64) Config {
	c.Seed = seed
	return c
}
