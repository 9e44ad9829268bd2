// SPDX-License-Identifier: MIT

// Package relax — LP relaxer: lambda-form linear program on gonum's simplex.
//
// Rationale:
//   - gonum's simplex pivots on the most negative reduced cost and falls back
//     to Bland's rule only on zero-length moves, which can cycle on the
//     degenerate bases this formulation produces (many breakpoints at equal
//     activity, convexity rows with right-hand side 1).
//   - Solve therefore never starts cold: the marginal-cost walk yields a
//     primal- and dual-feasible basis, Phase 1 is skipped, and the simplex
//     only has to confirm optimality.
//
// Complexity: O(K) columns and d+1 rows; the warm-started solve costs one
// LU factorization plus one reduced-cost pass per pivot taken.
package relax

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/plfopt/envelope"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// DefaultLPTol is the reduced-cost tolerance handed to lp.Simplex when
// LP.Tol is zero.
const DefaultLPTol = 1e-10

// basisPosTol matches the feasibility tolerance lp.Simplex applies to a
// supplied initial basis; a basis failing it would make Simplex panic.
const basisPosTol = 1e-13

// LP solves the relaxation as a linear program in standard form with gonum's
// simplex.
//
// Formulation (lambda / convex-combination form). For dimension i with
// envelope breakpoints p_{i,0..m_i} and values v_{i,0..m_i}:
//
//	minimize   Σ_i Σ_k v_{i,k}·λ_{i,k}
//	subject to Σ_k λ_{i,k} = 1                      for every i
//	           Σ_i w_i Σ_k p_{i,k}·λ_{i,k} ± s = rhs  (s is absent for Equal)
//	           λ ≥ 0, s ≥ 0
//
// and x_i = Σ_k p_{i,k}·λ_{i,k}. Because each envelope is convex, the cheapest
// combination for a fixed x_i is the envelope value itself, so the LP optimum
// equals the relaxation optimum.
//
// Starting basis: one λ per dimension at the breakpoint the marginal-cost walk
// stops on, both endpoints of the marginal segment, and the slack when the
// constraint is not active. Its duals price the constraint at the marginal
// segment's cost ratio, which every other dimension's envelope supports, so the
// basis is optimal up to rounding. When the factorization of that basis is
// numerically unusable the walk's point is returned directly; Solve always
// terminates.
type LP struct {
	// Tol is the reduced-cost tolerance; 0 selects DefaultLPTol.
	Tol float64
}

var _ Relaxer = LP{}

// Solve implements Relaxer.
func (l LP) Solve(ctx context.Context, c Constraint, envs []envelope.Envelope) (Solution, error) {
	if err := checkInput(ctx, c, envs); err != nil {
		return Solution{}, err
	}
	tol := l.Tol
	if tol <= 0 {
		tol = DefaultLPTol
	}

	wk := marginalWalk(c, envs, 0)
	if wk.need > DefaultGreedyTol*math.Max(1, math.Abs(c.RHS)) {
		return Solution{}, ErrInfeasible
	}

	cost, a, b, offsets, slackCol := standardForm(c, envs)
	basis := warmBasis(c, envs, wk, offsets, slackCol)
	if basis == nil || !feasibleBasis(a, b, basis) {
		return pointSolution(envs, wk.x)
	}

	_, lambda, err := lp.Simplex(cost, a, b, tol, basis)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return Solution{}, ErrInfeasible
		}
		return Solution{}, fmt.Errorf("relax: simplex: %w", err)
	}

	x := make([]float64, len(envs))
	for i, e := range envs {
		for k, p := range e.Breakpoints {
			x[i] += p * lambda[offsets[i]+k]
		}
	}

	return pointSolution(envs, x)
}

// warmBasis lists the starting basis columns derived from wk, or nil when no
// basis of the right size exists.
func warmBasis(c Constraint, envs []envelope.Envelope, wk walk, offsets []int, slackCol int) []int {
	m := wk.marginal
	if m.dim < 0 && slackCol < 0 {
		// Equality met at the minimizers: price it at the cheapest move.
		moves := sortedMoves(envs, c.Weights, true)
		if len(moves) == 0 {
			moves = sortedMoves(envs, c.Weights, false)
		}
		if len(moves) == 0 {
			return nil
		}
		m = moves[0]
	}

	basis := make([]int, 0, len(envs)+1)
	for i := range envs {
		if i == m.dim {
			basis = append(basis, offsets[i]+m.fromIdx, offsets[i]+m.toIdx)
			continue
		}
		basis = append(basis, offsets[i]+wk.at[i])
	}
	if m.dim < 0 {
		basis = append(basis, slackCol)
	}

	return basis
}

// feasibleBasis reports whether the basis columns of a are non-singular and
// give a non-negative basic solution, using the same solve lp.Simplex runs on
// a supplied basis.
func feasibleBasis(a *mat.Dense, b []float64, basis []int) bool {
	rows, _ := a.Dims()
	if len(basis) != rows {
		return false
	}
	ab := mat.NewDense(rows, rows, nil)
	col := make([]float64, rows)
	for j, idx := range basis {
		mat.Col(col, idx, a)
		ab.SetCol(j, col)
	}
	xb := mat.NewVecDense(rows, nil)
	if err := xb.SolveVec(ab, mat.NewVecDense(rows, b)); err != nil {
		return false
	}
	for i := 0; i < rows; i++ {
		if xb.AtVec(i) < -basisPosTol {
			return false
		}
	}

	return true
}

// standardForm assembles (c, A, b), the column offset of each dimension and
// the slack column (-1 for Equal). The constraint row is negated when rhs < 0
// so that b stays non-negative.
func standardForm(c Constraint, envs []envelope.Envelope) ([]float64, *mat.Dense, []float64, []int, int) {
	var (
		d       = len(envs)
		offsets = make([]int, d)
		cols    int
	)
	for i, e := range envs {
		offsets[i] = cols
		cols += e.Len()
	}
	slackCol := -1
	if c.Sense != Equal {
		slackCol = cols
		cols++
	}

	rows := d + 1
	cost := make([]float64, cols)
	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)

	sign := 1.0
	if c.RHS < 0 {
		sign = -1
	}
	for i, e := range envs {
		for k, p := range e.Breakpoints {
			col := offsets[i] + k
			cost[col] = e.Values[k]
			a.Set(i, col, 1)
			a.Set(d, col, sign*c.Weights[i]*p)
		}
		b[i] = 1
	}
	switch c.Sense {
	case LessEqual:
		a.Set(d, slackCol, sign)
	case GreaterEqual:
		a.Set(d, slackCol, -sign)
	}
	b[d] = sign * c.RHS

	return cost, a, b, offsets, slackCol
}
