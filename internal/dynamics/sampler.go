//go:generate mockgen -source=sampler.go -destination=mocks/mock_sampler.go -package=mocks

package dynamics

import (
	"fmt"
	"math/rand/v2"
)

// Pair identifies two distinct agents selected to interact.
type Pair struct {
	I, J int
}

// PairSampler selects the interaction pairs for one step.
//
// Sample appends m pairs to dst[:0] and returns it. Implementations must
// never repeat an agent index within the returned pairs.
type PairSampler interface {
	Sample(dst []Pair, n, m int) []Pair
}

// UniformSampler draws 2m distinct agents uniformly at random per step
// (a partial Fisher–Yates shuffle) and pairs consecutive draws. Draws are
// independent of previous steps.
type UniformSampler struct {
	rng  *rand.Rand
	perm []int
}

// NewUniformSampler returns a sampler backed by rng.
func NewUniformSampler(rng *rand.Rand) *UniformSampler {
	return &UniformSampler{rng: rng}
}

// Sample implements PairSampler.
func (s *UniformSampler) Sample(dst []Pair, n, m int) []Pair {
	if len(s.perm) != n {
		s.perm = make([]int, n)
		for i := range s.perm {
			s.perm[i] = i
		}
	}
	// The buffer keeps whatever order the previous step left; a partial
	// shuffle of any permutation still yields a uniform draw.
	slots := 2 * m
	for k := 0; k < slots; k++ {
		j := k + s.rng.IntN(n-k)
		s.perm[k], s.perm[j] = s.perm[j], s.perm[k]
	}
	dst = dst[:0]
	for k := 0; k < slots; k += 2 {
		dst = append(dst, Pair{I: s.perm[k], J: s.perm[k+1]})
	}
	return dst
}

// ScriptedSampler replays a fixed sequence of per-step pair batches. After
// the script is exhausted it returns empty batches. It is meant for scenarios
// and tests where the interaction order must be known in advance.
type ScriptedSampler struct {
	steps [][]Pair
	next  int
}

// NewScriptedSampler returns a sampler that yields steps[0], steps[1], ...
// It panics if a batch repeats an agent or pairs an agent with itself.
func NewScriptedSampler(steps ...[]Pair) *ScriptedSampler {
	for s, batch := range steps {
		seen := make(map[int]bool, 2*len(batch))
		for _, p := range batch {
			if p.I == p.J || seen[p.I] || seen[p.J] {
				panic(fmt.Sprintf("dynamics: scripted step %d reuses an agent in pair (%d,%d)", s, p.I, p.J))
			}
			seen[p.I], seen[p.J] = true, true
		}
	}
	return &ScriptedSampler{steps: steps}
}

// Sample implements PairSampler. The n and m arguments are ignored.
func (s *ScriptedSampler) Sample(dst []Pair, _, _ int) []Pair {
	dst = dst[:0]
	if s.next >= len(s.steps) {
		return dst
	}
	dst = append(dst, s.steps[s.next]...)
	s.next++
	return dst
}
