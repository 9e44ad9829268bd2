// SPDX-License-Identifier: MIT

// Package plf models one-dimensional, possibly discontinuous, piecewise-linear
// functions (PLFs) and evaluates them.
//
// A PLF is a strictly increasing breakpoint sequence B together with a
// co-indexed sequence of value triples V. Each triple carries the left limit,
// the exact value and the right limit of the function at its breakpoint:
//
//	      Right(B[i-1])                Left(B[i])
//	            ●━━━━━━━━━━━━━━━━━━━━━━━━━●
//	            │                          ○ Mid(B[i])
//	          B[i-1]                     B[i]
//
// Between two neighbouring breakpoints the function is the straight line from
// Right(B[i-1]) to Left(B[i]). At a breakpoint it takes Mid exactly.
// Continuous functions use degenerate triples (see FromScalars).
//
// Usage:
//
//	p, err := plf.New(
//	    []float64{0, 1, 2},
//	    []plf.Triple{plf.Point(3), {Left: 1, Mid: 0, Right: 2}, plf.Point(4)},
//	)
//	y, err := p.Evaluate(0.5) // 2.0
//
// Errors:
//   - ErrValidation class (ErrTooFewBreakpoints, ErrNotIncreasing,
//     ErrLengthMismatch, ErrNonFinite) for malformed input.
//   - ErrDomain when evaluating outside [B[0], B[len(B)-1]].
package plf
