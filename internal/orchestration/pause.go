package orchestration

import (
	"sync"

	"github.com/agbru/dwsim/internal/dynamics"
)

// PauseGate is an Observer that blocks the engine between steps while
// paused. Resume must be called before abandoning a paused batch.
type PauseGate struct {
	mu     sync.Mutex
	resume chan struct{}
}

var _ dynamics.Observer = (*PauseGate)(nil)

// Pause stops the engine after its current step.
func (g *PauseGate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resume == nil {
		g.resume = make(chan struct{})
	}
}

// Resume releases a paused engine.
func (g *PauseGate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.resume != nil {
		close(g.resume)
		g.resume = nil
	}
}

// Toggle flips the paused state and reports whether the gate is now paused.
func (g *PauseGate) Toggle() bool {
	if g.Paused() {
		g.Resume()
		return false
	}
	g.Pause()
	return true
}

// Paused reports whether the gate is closed.
func (g *PauseGate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resume != nil
}

// OnStep blocks while the gate is paused.
func (g *PauseGate) OnStep(dynamics.StepStats, []float64) {
	g.mu.Lock()
	ch := g.resume
	g.mu.Unlock()
	if ch != nil {
		<-ch
	}
}
