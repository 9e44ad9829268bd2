// SPDX-License-Identifier: MIT

// Package relax solves the convex relaxation of a separable piecewise-linear
// program over a box:
//
//	minimize   Σ_i env_i(x_i)
//	subject to Σ_i w_i·x_i  (≤ | ≥ | =)  rhs
//	           lo_i ≤ x_i ≤ hi_i
//
// where every env_i is a convex envelope (see package envelope) whose domain
// is the box interval [lo_i, hi_i]. The optimum is a valid lower bound on the
// original nonconvex problem restricted to the same box.
//
// Two interchangeable Relaxer backends are provided:
//
//   - Greedy — exact marginal-cost algorithm for a single linear constraint.
//     Starts every variable at its envelope minimizer and then walks the
//     cheapest envelope segments (cost per unit of constraint activity) until
//     the constraint holds. O(K log K) for K envelope segments.
//
//   - LP — the convex-combination ("lambda") formulation over envelope
//     breakpoints in standard form, solved with gonum's simplex
//     (gonum.org/v1/gonum/optimize/convex/lp). The simplex is started from the
//     basis the marginal-cost walk identifies, so it never runs Phase 1 and
//     cannot cycle from a cold start.
//
// Both report infeasibility through ErrInfeasible; the search engine turns it
// into a terminal status rather than a failure.
package relax
