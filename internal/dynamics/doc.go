// Package dynamics implements the Deffuant–Weisbuch bounded-confidence model.
//
// An Engine owns a vector of n scalar opinions drawn uniformly from [0,1).
// Each step it samples m pairs of distinct agents, with no agent appearing
// twice in the same step, and applies the bounded-confidence update to each
// pair in sampled order: when |x_i - x_j| <= eps both agents move a fraction
// mu of the gap toward each other. The engine always runs exactly t_max
// steps; there is no convergence test.
//
// The engine is single-threaded and deterministic for a given seed. Rendering
// and export live in other packages and consume Engine.Opinions or an
// Observer; nothing here depends on them.
package dynamics
