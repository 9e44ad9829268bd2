// SPDX-License-Identifier: MIT

// Package sbb — per-search mutable state.
//
// Rationale (succinct):
//  1. Counters, bounds and the incumbent live in one SearchState created per
//     call and threaded through the loop; nothing is package-level.
//  2. Nodes retired as too narrow to split keep their bound in a floor so the
//     global lower bound stays valid.
//
// Complexity: offer O(d), refreshLower amortized O(log n).
package sbb

import (
	"math"
	"time"
)

// Incumbent is the best feasible point found so far, feasible meaning a
// constraint violation of at most FeasibilityTol·max(1, |rhs|). Value starts
// at +Inf and only decreases.
type Incumbent struct {
	Point []float64
	Value float64
}

// Found reports whether a feasible point has been recorded.
func (inc Incumbent) Found() bool { return inc.Point != nil }

// SearchState is the complete mutable state of one search. It is created per
// call and threaded through the loop; nothing persists across calls.
type SearchState struct {
	open *openSet

	Start      time.Time
	Nodes      int // nodes created, root included
	Iterations int // nodes selected from the open set

	Incumbent Incumbent
	// Upper is the incumbent value; Lower the global lower bound.
	Upper float64
	Lower float64

	// floor is the smallest bound among nodes retired as too narrow to split;
	// those regions stay unresolved and cap the global lower bound.
	floor float64
}

func newSearchState(start time.Time) *SearchState {
	return &SearchState{
		open:  &openSet{},
		Start: start,
		Upper: math.Inf(1),
		Lower: math.Inf(-1),
		floor: math.Inf(1),
	}
}

// Elapsed returns the wall-clock time since Start.
func (s *SearchState) Elapsed() time.Duration { return time.Since(s.Start) }

// Open returns the number of open nodes.
func (s *SearchState) Open() int { return s.open.Len() }

// Gap returns Upper − Lower, +Inf without an incumbent.
func (s *SearchState) Gap() float64 {
	if math.IsInf(s.Upper, 1) {
		return math.Inf(1)
	}

	return s.Upper - s.Lower
}

// offer records x as incumbent when value improves on it.
func (s *SearchState) offer(x []float64, value float64) bool {
	if value >= s.Upper {
		return false
	}
	p := make([]float64, len(x))
	copy(p, x)
	s.Incumbent = Incumbent{Point: p, Value: value}
	s.Upper = value

	return true
}

// retire parks a node that cannot be split further.
func (s *SearchState) retire(n *Node) {
	s.floor = math.Min(s.floor, n.Bound)
}

// refreshLower recomputes the global lower bound as the smallest bound among
// open and retired nodes, capped at Upper: regions already pruned cannot hold
// anything below the incumbent. It never decreases and is left unchanged when
// no such node exists.
func (s *SearchState) refreshLower() {
	lb := math.Min(s.open.MinBound(), s.floor)
	if math.IsInf(lb, 1) {
		return
	}
	s.Lower = math.Max(s.Lower, math.Min(lb, s.Upper))
}

func (s *SearchState) stats() IterationStats {
	return IterationStats{
		Iteration: s.Iterations,
		Nodes:     s.Nodes,
		Open:      s.open.Len(),
		Upper:     s.Upper,
		Lower:     s.Lower,
		Elapsed:   s.Elapsed(),
	}
}
