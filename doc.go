// SPDX-License-Identifier: MIT

// Package plfopt minimizes separable, possibly nonconvex and discontinuous,
// piecewise-linear functions under a single knapsack-type constraint by
// spatial branch-and-bound.
//
// 🚀 What is plfopt?
//
//	A small, deterministic optimization toolkit that brings together:
//		• PLFs with one-sided limits at every breakpoint (discontinuities)
//		• Convex envelopes of such functions (lower-hull scan)
//		• Convex relaxations over envelopes: exact greedy and gonum LP
//		• Spatial branch-and-bound with worst-first node selection and
//		  three branching rules (largest error, longest edge, breakpoint)
//		• Random instances, YAML instance files and rule comparisons
//
// Under the hood, everything is organized in subpackages:
//
//	plf/        — PLF type, validation, evaluation with one-sided limits
//	envelope/   — convex envelope construction and sub-interval restriction
//	relax/      — constraint model and Relaxer backends (Greedy, LP)
//	sbb/        — search engine, nodes, open set, branching rules
//	instance/   — test-function catalogue, sampling, generator, YAML I/O
//	experiment/ — parallel rule comparisons with CSV / table reports
//	cmd/plfopt  — command line front end (generate, solve, compare)
//
// Quick example (f1, f2 PLFs; x1 + x2 ≤ 2):
//
//	prob := sbb.Problem{PLFs: []plf.PLF{f1, f2}, Constraint: relax.Knapsack(relax.UnitWeights(2), 2)}
//	res, err := sbb.SpatialBB(ctx, prob, sbb.DefaultOptions())
//
//	go get github.com/katalvlaran/plfopt
package plfopt
