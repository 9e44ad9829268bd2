// SPDX-License-Identifier: MIT

// Package sbb implements spatial branch-and-bound (sBB) for separable,
// possibly nonconvex and discontinuous, piecewise-linear minimization over a
// box with one knapsack-type linear constraint.
//
// 🚀 What it does
//
//	minimize   Σ_i f_i(x_i)          f_i a PLF (package plf)
//	subject to Σ_i w_i·x_i ≤ rhs     (or ≥, =; package relax)
//	           x_i ∈ [B_i[0], B_i[last]]
//
// Every node of the search is an axis-aligned box. A node is bounded by the
// relaxation over the per-dimension convex envelopes restricted to its box
// (packages envelope and relax); the relaxation point is evaluated on the true
// objective to update the incumbent; a node that is not closed to tolerance is
// split in two by a BranchingRule.
//
// ⚙️ Search policy
//
//   - Worst-first selection: the open node with the LARGEST bound is explored
//     next (ties: smaller node id). This inverts classical best-first search to
//     keep the search from stalling in regions of deceptively small bounds.
//   - Prune when bound ≥ incumbent − ε, close when value − bound ≤ ε.
//   - Branching rules: LargestError (default), LongestEdge, Breakpoint.
//   - Termination: gap ≤ ε, open set exhausted, time limit, node budget or
//     context cancellation. Limits are not errors: the result is the best
//     anytime state reached.
//
// Usage:
//
//	prob := sbb.Problem{PLFs: plfs, Constraint: relax.Knapsack(relax.UnitWeights(d), rhs)}
//	opts := sbb.DefaultOptions()
//	opts.Rule = sbb.LongestEdge{}
//	opts.TimeLimit = 10 * time.Second
//	res, err := sbb.SpatialBB(ctx, prob, opts)
//	if err != nil { /* malformed input */ }
//	if res.Status == sbb.StatusInfeasible { /* no feasible point */ }
//	fmt.Println(res.UpperBound, res.Point, res.NodeCount, res.SolveTime)
//
// Concurrency: a search runs on the calling goroutine; concurrent searches on
// distinct Problems are independent.
package sbb
