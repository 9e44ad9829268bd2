// SPDX-License-Identifier: MIT

// Package sbb — boxes and search nodes.
//
// Rationale (succinct):
//  1. A Box is one closed interval per dimension; Split cuts exactly one of
//     them at a strictly interior value, so children tile the parent.
//  2. A Node caches its envelopes and relaxation point; branching rules read
//     them instead of rebuilding.
//
// Complexity: Split O(d), Widest O(d), Contains O(d).
package sbb

import (
	"fmt"

	"github.com/katalvlaran/plfopt/envelope"
)

// Interval is a closed interval [Lo, Hi].
type Interval struct {
	Lo, Hi float64
}

// Width returns Hi − Lo.
func (iv Interval) Width() float64 { return iv.Hi - iv.Lo }

// Mid returns the midpoint.
func (iv Interval) Mid() float64 { return iv.Lo + (iv.Hi-iv.Lo)/2 }

// Interior reports whether Lo < x < Hi.
func (iv Interval) Interior(x float64) bool { return iv.Lo < x && x < iv.Hi }

// Contains reports whether Lo ≤ x ≤ Hi.
func (iv Interval) Contains(x float64) bool { return iv.Lo <= x && x <= iv.Hi }

// Box is an axis-aligned hyper-rectangle, one interval per dimension.
type Box []Interval

// Clone returns a copy.
func (b Box) Clone() Box {
	c := make(Box, len(b))
	copy(c, b)

	return c
}

// Widest returns the dimension of maximal width, lowest index on ties.
func (b Box) Widest() (int, float64) {
	best, w := 0, b[0].Width()
	for i := 1; i < len(b); i++ {
		if b[i].Width() > w {
			best, w = i, b[i].Width()
		}
	}

	return best, w
}

// Contains reports whether x lies in the box.
func (b Box) Contains(x []float64) bool {
	if len(x) != len(b) {
		return false
	}
	for i, iv := range b {
		if !iv.Contains(x[i]) {
			return false
		}
	}

	return true
}

// Split partitions b along dim at value at into [lo, at] and [at, hi]; all
// other dimensions are copied unchanged.
//
// Errors: ErrBadSplit if dim is out of range or at is not strictly inside.
func Split(b Box, dim int, at float64) (Box, Box, error) {
	if dim < 0 || dim >= len(b) || !b[dim].Interior(at) {
		return nil, nil, fmt.Errorf("dim %d at %g: %w", dim, at, ErrBadSplit)
	}
	left, right := b.Clone(), b.Clone()
	left[dim].Hi = at
	right[dim].Lo = at

	return left, right, nil
}

// Node is a sub-domain of the search together with its relaxation.
// ParentID is kept for bookkeeping only; nodes never own other nodes.
type Node struct {
	ID       int
	ParentID int // -1 for the root
	Depth    int
	Box      Box

	// Bound is the relaxation optimum over Box, a lower bound on the true
	// optimum restricted to Box.
	Bound float64
	// Candidate is the relaxation point; Value is the true objective there,
	// +Inf if the point failed the feasibility check.
	Candidate []float64
	Value     float64
	// Envelopes are the per-dimension convex envelopes over Box.
	Envelopes []envelope.Envelope

	index int  // heap position in the worst-first queue
	done  bool // removed from the open set (lazy deletion in the min view)
}

// LocalGap returns Value − Bound.
func (n *Node) LocalGap() float64 { return n.Value - n.Bound }
