package dynamics

import "math"

// Interact applies the bounded-confidence rule to the pair p in place.
//
// With d = opinions[I] - opinions[J], if |d| <= eps both values move toward
// each other by mu*d, computed from the pre-update values:
//
//	opinions[I] -= mu * d
//	opinions[J] += mu * d
//
// The pair's sum is preserved. It returns true when an update was applied.
func Interact(opinions []float64, p Pair, eps, mu float64) bool {
	d := opinions[p.I] - opinions[p.J]
	if math.Abs(d) > eps {
		return false
	}
	shift := mu * d
	opinions[p.I] -= shift
	opinions[p.J] += shift
	return true
}
