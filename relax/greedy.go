// SPDX-License-Identifier: MIT

// Package relax — Greedy marginal-cost relaxer for one linear constraint.
//
// Rationale:
//   - Over separable convex PL envelopes the relaxation is a fractional
//     knapsack on envelope segments, solved exactly by taking the cheapest
//     segments first.
//   - The walk also records where every variable rests and which segment
//     absorbed the last unit of activity; LP turns that into a starting basis.
//
// Complexity: O(K log K) time, O(K) memory for K envelope segments.
package relax

import (
	"context"
	"math"
	"sort"

	"github.com/katalvlaran/plfopt/envelope"
)

// DefaultGreedyTol is the relative feasibility tolerance of Greedy.
const DefaultGreedyTol = 1e-9

// Greedy is the exact marginal-cost relaxer for one linear constraint.
//
// Algorithm:
//  1. Put every x_i at the leftmost minimizer of env_i; this is optimal when
//     the constraint already holds there.
//  2. Otherwise compute the missing activity Δ and the direction it must move.
//     Every envelope segment walking away from the minimizer in the useful
//     direction becomes a move with capacity |w_i|·length and unit price
//     |slope|/|w_i| (cost per unit of activity).
//  3. Convexity makes prices non-decreasing along each dimension, so taking
//     moves in ascending price order (ties: dimension, then segment order)
//     is a fractional knapsack on convex pieces and yields the optimum.
//  4. If all moves together cannot supply Δ, the box is infeasible.
type Greedy struct {
	// Tol is the relative feasibility tolerance; 0 selects DefaultGreedyTol.
	Tol float64
}

// move is one envelope segment a variable may travel along.
type move struct {
	dim     int
	order   int     // position along the walk, 0 = adjacent to the minimizer
	price   float64 // cost per unit of constraint activity
	cap     float64 // activity supplied by the whole segment
	from    float64 // segment start (x moves from here)
	to      float64 // segment end
	fromIdx int     // envelope breakpoint index of from
	toIdx   int     // envelope breakpoint index of to
}

// walk is the outcome of the marginal-cost walk.
type walk struct {
	x  []float64
	at []int // breakpoint index of x_i; the segment start when x_i stops inside a segment
	// marginal is the last segment the walk entered; dim < 0 when the
	// constraint holds at the minimizers.
	marginal move
	// need is the activity still missing when the moves ran out.
	need float64
}

var _ Relaxer = Greedy{}

// Solve implements Relaxer.
func (g Greedy) Solve(ctx context.Context, c Constraint, envs []envelope.Envelope) (Solution, error) {
	if err := checkInput(ctx, c, envs); err != nil {
		return Solution{}, err
	}
	tol := g.Tol
	if tol <= 0 {
		tol = DefaultGreedyTol
	}
	slack := tol * math.Max(1, math.Abs(c.RHS))

	wk := marginalWalk(c, envs, slack)
	if wk.need > slack {
		return Solution{}, ErrInfeasible
	}

	return pointSolution(envs, wk.x)
}

// marginalWalk runs steps 1–3 of the Greedy algorithm. A missing activity of
// at most slack counts as met.
func marginalWalk(c Constraint, envs []envelope.Envelope, slack float64) walk {
	wk := walk{
		x:        make([]float64, len(envs)),
		at:       make([]int, len(envs)),
		marginal: move{dim: -1},
	}
	for i, e := range envs {
		k, _ := e.Minimum()
		wk.at[i] = k
		wk.x[i] = e.Breakpoints[k]
	}

	var (
		act = c.Activity(wk.x)
		up  bool // activity must increase
	)
	switch {
	case act > c.RHS && c.Sense != GreaterEqual:
		wk.need = act - c.RHS
	case act < c.RHS && c.Sense != LessEqual:
		wk.need = c.RHS - act
		up = true
	}
	if wk.need <= slack {
		return wk
	}

	for _, m := range sortedMoves(envs, c.Weights, up) {
		if wk.need <= slack {
			break
		}
		wk.marginal = m
		if m.cap <= wk.need {
			wk.x[m.dim], wk.at[m.dim] = m.to, m.toIdx
			wk.need -= m.cap
			continue
		}
		take := wk.need / math.Abs(c.Weights[m.dim])
		if m.to > m.from {
			wk.x[m.dim] = m.from + take
		} else {
			wk.x[m.dim] = m.from - take
		}
		wk.need = 0
	}

	return wk
}

// sortedMoves returns collectMoves in ascending price order.
func sortedMoves(envs []envelope.Envelope, weights []float64, up bool) []move {
	moves := collectMoves(envs, weights, up)
	sort.SliceStable(moves, func(a, b int) bool {
		if moves[a].price != moves[b].price {
			return moves[a].price < moves[b].price
		}
		if moves[a].dim != moves[b].dim {
			return moves[a].dim < moves[b].dim
		}
		return moves[a].order < moves[b].order
	})

	return moves
}

// collectMoves lists, per dimension, the segments that shift activity in the
// requested direction, walking outward from the leftmost minimizer. Prices
// are kept non-decreasing along each walk so that rounding on collinear
// segments cannot reorder them.
func collectMoves(envs []envelope.Envelope, weights []float64, up bool) []move {
	var moves []move
	for i, e := range envs {
		w := weights[i]
		if w == 0 {
			continue
		}
		k, _ := e.Minimum()
		// Activity rises when x rises for w>0, falls for w<0.
		right := (w > 0) == up
		aw := math.Abs(w)
		order := 0
		last := math.Inf(-1)
		if right {
			for j := k; j+1 < e.Len(); j++ {
				length := e.Breakpoints[j+1] - e.Breakpoints[j]
				slope := (e.Values[j+1] - e.Values[j]) / length
				last = math.Max(last, slope/aw)
				moves = append(moves, move{
					dim: i, order: order, price: last, cap: aw * length,
					from: e.Breakpoints[j], to: e.Breakpoints[j+1],
					fromIdx: j, toIdx: j + 1,
				})
				order++
			}
		} else {
			for j := k; j > 0; j-- {
				length := e.Breakpoints[j] - e.Breakpoints[j-1]
				slope := (e.Values[j] - e.Values[j-1]) / length
				last = math.Max(last, -slope/aw)
				moves = append(moves, move{
					dim: i, order: order, price: last, cap: aw * length,
					from: e.Breakpoints[j], to: e.Breakpoints[j-1],
					fromIdx: j, toIdx: j - 1,
				})
				order++
			}
		}
	}

	return moves
}

// pointSolution clamps x into the box and prices it on the envelopes.
func pointSolution(envs []envelope.Envelope, x []float64) (Solution, error) {
	clampToDomains(envs, x)
	bound, err := objective(envs, x)
	if err != nil {
		return Solution{}, err
	}

	return Solution{Point: x, Bound: bound}, nil
}

// clampToDomains removes rounding drift past the box edges.
func clampToDomains(envs []envelope.Envelope, x []float64) {
	for i, e := range envs {
		lo, hi := e.Domain()
		x[i] = math.Min(hi, math.Max(lo, x[i]))
	}
}
