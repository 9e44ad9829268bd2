// SPDX-License-Identifier: MIT

// Package envelope computes convex envelopes of piecewise-linear functions.
//
// Build computes the envelope of a (possibly discontinuous) PLF given as
// breakpoints B and value triples V:
//
//  1. Vlow[i] = min(V[i]) — the continuous, possibly nonconvex, lower-bound
//     function through the smallest of the left limit, value and right limit.
//  2. A monotone lower-hull scan over (B, Vlow) in increasing order. For each
//     new point, while at least two points are accepted and the slope from the
//     last accepted point to the new point is strictly less than the slope of
//     the last accepted segment, the last accepted point is discarded (a
//     concave kink); then the new point is appended.
//
// Every point is pushed and popped at most once, so the scan is O(n) on sorted
// breakpoints. The result is the greatest convex function below Vlow, and
// therefore below the PLF everywhere on its domain.
//
// Restrict extends a PLF to a sub-interval [lo, hi] by inserting boundary
// breakpoints at both ends with the limits the function actually attains
// there; Over combines Restrict and Build and is what the branch-and-bound
// engine calls for every node.
//
// Numerical note: the slope comparison is strict, so exactly collinear points
// survive the scan unless a later point pops them, while near-collinear points
// may be kept or dropped depending on floating-point rounding. The comparison
// is deliberately left untolerized.
package envelope
