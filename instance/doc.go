// SPDX-License-Identifier: MIT

// Package instance produces and stores test instances for the sBB engine.
//
// It covers the experiment-side collaborators of the search:
//   - a Catalogue of nonconvex univariate test functions,
//   - Sample, which turns a catalogue function into a continuous PLF with K
//     uniformly spaced breakpoints (optionally with deterministic jumps),
//   - Generate / SampleRHS, which draw a d-dimensional separable instance and
//     a right-hand side for its knapsack-type constraint,
//   - Load / Encode, a YAML file format for instances.
//
// Determinism: every random choice comes from a *rand.Rand seeded from
// Config.Seed; seed 0 selects a fixed default seed.
package instance
