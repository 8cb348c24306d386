package dynamics

import (
	"context"
	"fmt"
)

// ExampleNewWithOpinions replays a single scripted interaction between two
// agents whose opinions are 0.0 and 1.0.
func ExampleNewWithOpinions() {
	cfg := Config{Agents: 4, PairsPerStep: 1, Epsilon: 1.0, Steps: 1, Mu: 0.5}

	eng, err := NewWithOpinions(cfg, []float64{0.0, 1.0, 0.2, 0.8},
		WithSampler(NewScriptedSampler([]Pair{{I: 0, J: 1}})))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	final, _ := eng.Run(context.Background())
	fmt.Println(final)
	// Output:
	// [0.5 0.5 0.2 0.8]
}

// ExampleConfig_Validate shows the error reported when more disjoint pairs
// are requested than the population allows.
func ExampleConfig_Validate() {
	cfg := DefaultConfig()
	cfg.Agents = 10
	cfg.PairsPerStep = 6

	fmt.Println(cfg.Validate())
	// Output:
	// validation error for "m": cannot draw 6 disjoint pairs from 10 agents (need 2*m <= n)
}
