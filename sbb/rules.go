// SPDX-License-Identifier: MIT

// Package sbb — branching rules.
//
// Rationale (succinct):
//  1. A rule only chooses (dimension, value); the engine owns Split, so every
//     rule produces the same two-child partition.
//  2. LongestEdge ignores the relaxation, LargestError follows the worst
//     envelope gap, Breakpoint cuts on an original breakpoint; the last two
//     fall back to LongestEdge when they have no admissible candidate.
//
// Complexity: O(d·log n) per call for n breakpoints per dimension.
package sbb

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/katalvlaran/plfopt/relax"
)

// interiorMargin is the relative distance from an interval end below which a
// relaxation coordinate is not used as split value.
const interiorMargin = 1e-6

// BranchingRule chooses where to split a node. Implementations must return a
// dimension whose interval strictly contains the split value; the engine
// partitions the node with Split.
//
// sol is the node's relaxation solution (sol.Point == n.Candidate).
type BranchingRule interface {
	Name() string
	SelectSplit(prob *Problem, n *Node, sol relax.Solution) (dim int, at float64, err error)
}

// Rule names accepted by ParseRule.
const (
	RuleBreakpoint   = "breakpoint"
	RuleLongestEdge  = "longest edge"
	RuleLargestError = "largest error"
)

// ParseRule maps a rule name to its BranchingRule. Matching ignores case and
// treats '-', '_' and spaces alike, so "longest edge", "longest-edge" and
// "LongestEdge" all resolve to LongestEdge{}.
func ParseRule(name string) (BranchingRule, error) {
	key := strings.ToLower(name)
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "breakpoint":
		return Breakpoint{}, nil
	case "longestedge":
		return LongestEdge{}, nil
	case "largesterror":
		return LargestError{}, nil
	}

	return nil, fmt.Errorf("%q: %w", name, ErrUnknownRule)
}

// LongestEdge splits the widest interval at its midpoint; ties go to the
// lowest dimension index.
type LongestEdge struct{}

// Name implements BranchingRule.
func (LongestEdge) Name() string { return RuleLongestEdge }

// SelectSplit implements BranchingRule.
func (LongestEdge) SelectSplit(_ *Problem, n *Node, _ relax.Solution) (int, float64, error) {
	dim, _ := n.Box.Widest()

	return dim, n.Box[dim].Mid(), nil
}

// LargestError splits the dimension whose true value exceeds its envelope
// value the most at the relaxation point, at that point's coordinate.
// Ties go to the lowest index. When the coordinate sits on (or within a
// relative 1e-6 of) an interval end, the interval's midpoint is used instead.
// Dimensions not wider than MinWidth are skipped; if none remain the rule
// falls back to LongestEdge.
type LargestError struct {
	// MinWidth of zero inherits Options.MinWidth inside SpatialBB and means
	// DefaultMinWidth when the rule is called directly.
	MinWidth float64
}

// Name implements BranchingRule.
func (LargestError) Name() string { return RuleLargestError }

// SelectSplit implements BranchingRule.
func (r LargestError) SelectSplit(prob *Problem, n *Node, sol relax.Solution) (int, float64, error) {
	minWidth := r.MinWidth
	if minWidth <= 0 {
		minWidth = DefaultMinWidth
	}
	var (
		best    = -1
		bestErr = math.Inf(-1)
		e       float64
		err     error
	)
	for i, iv := range n.Box {
		if iv.Width() <= minWidth {
			continue
		}
		e, err = approximationError(prob, n, sol.Point, i)
		if err != nil {
			return 0, 0, err
		}
		if e > bestErr {
			best, bestErr = i, e
		}
	}
	if best < 0 {
		return LongestEdge{}.SelectSplit(prob, n, sol)
	}

	iv := n.Box[best]
	x := sol.Point[best]
	m := interiorMargin * iv.Width()
	if x <= iv.Lo+m || x >= iv.Hi-m {
		return best, iv.Mid(), nil
	}

	return best, x, nil
}

// Breakpoint splits at an original breakpoint. Among dimensions whose
// interval strictly contains at least one breakpoint of the PLF, the one
// with the largest approximation error at the relaxation point is chosen
// (lowest index on ties) and split at the interior breakpoint nearest to the
// relaxation coordinate. Without interior breakpoints it falls back to
// LongestEdge.
type Breakpoint struct{}

// Name implements BranchingRule.
func (Breakpoint) Name() string { return RuleBreakpoint }

// SelectSplit implements BranchingRule.
func (Breakpoint) SelectSplit(prob *Problem, n *Node, sol relax.Solution) (int, float64, error) {
	var (
		best    = -1
		bestErr = math.Inf(-1)
		bestAt  float64
	)
	for i, iv := range n.Box {
		at, ok := nearestInterior(prob.PLFs[i].Breakpoints, iv, sol.Point[i])
		if !ok {
			continue
		}
		e, err := approximationError(prob, n, sol.Point, i)
		if err != nil {
			return 0, 0, err
		}
		if e > bestErr {
			best, bestErr, bestAt = i, e, at
		}
	}
	if best < 0 {
		return LongestEdge{}.SelectSplit(prob, n, sol)
	}

	return best, bestAt, nil
}

// nearestInterior returns the breakpoint strictly inside iv closest to x
// (the smaller one on ties).
func nearestInterior(bps []float64, iv Interval, x float64) (float64, bool) {
	first := sort.Search(len(bps), func(k int) bool { return bps[k] > iv.Lo })
	last := sort.Search(len(bps), func(k int) bool { return bps[k] >= iv.Hi })
	if first >= last {
		return 0, false
	}
	inner := bps[first:last]
	k := sort.SearchFloat64s(inner, x)
	switch {
	case k == 0:
		return inner[0], true
	case k == len(inner):
		return inner[k-1], true
	case x-inner[k-1] <= inner[k]-x:
		return inner[k-1], true
	default:
		return inner[k], true
	}
}

// approximationError returns f_i(x_i) − env_i(x_i) for the node's envelope.
func approximationError(prob *Problem, n *Node, x []float64, i int) (float64, error) {
	f, err := prob.PLFs[i].Evaluate(x[i])
	if err != nil {
		return 0, err
	}
	e, err := n.Envelopes[i].Evaluate(x[i])
	if err != nil {
		return 0, err
	}

	return f - e, nil
}
