// SPDX-License-Identifier: MIT

// Package relax — constraint model and the Relaxer contract.
//
// Rationale (succinct):
//  1. A single linear constraint Σ w·x (≤ | ≥ | =) rhs is the whole coupling
//     between dimensions; Constraint carries it with its sense.
//  2. Backends share input checks (context first, then shape) and price
//     points with the same objective helper, so they agree bit for bit on the
//     value of a given point.
package relax

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/plfopt/envelope"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInfeasible reports that no point of the box satisfies the constraint.
	ErrInfeasible = errors.New("relax: relaxation infeasible")

	// ErrDimensionMismatch reports a weights/envelopes length disagreement.
	ErrDimensionMismatch = errors.New("relax: dimension mismatch")

	// ErrInvalidConstraint reports non-finite data, all-zero weights or an
	// unknown sense.
	ErrInvalidConstraint = errors.New("relax: invalid constraint")
)

// Sense is the direction of the linear constraint.
type Sense int

const (
	// LessEqual is the knapsack capacity form Σ w·x ≤ rhs.
	LessEqual Sense = iota
	// GreaterEqual is the demand (covering) form Σ w·x ≥ rhs.
	GreaterEqual
	// Equal is Σ w·x = rhs.
	Equal
)

// String returns "<=", ">=" or "=".
func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// ParseSense accepts "<=", "le", "knapsack", ">=", "ge", "demand", "=", "eq".
func ParseSense(s string) (Sense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "<=", "le", "knapsack", "":
		return LessEqual, nil
	case ">=", "ge", "demand":
		return GreaterEqual, nil
	case "=", "==", "eq":
		return Equal, nil
	}

	return 0, fmt.Errorf("sense %q: %w", s, ErrInvalidConstraint)
}

// Constraint is the single linear constraint template Σ w_i·x_i (sense) RHS.
type Constraint struct {
	Weights []float64
	RHS     float64
	Sense   Sense
}

// Knapsack returns the capacity constraint Σ w·x ≤ rhs.
func Knapsack(weights []float64, rhs float64) Constraint {
	return Constraint{Weights: weights, RHS: rhs, Sense: LessEqual}
}

// Demand returns the covering constraint Σ w·x ≥ rhs.
func Demand(weights []float64, rhs float64) Constraint {
	return Constraint{Weights: weights, RHS: rhs, Sense: GreaterEqual}
}

// UnitWeights returns a slice of d ones.
func UnitWeights(d int) []float64 {
	w := make([]float64, d)
	for i := range w {
		w[i] = 1
	}

	return w
}

// Validate checks the constraint against a dimension count.
func (c Constraint) Validate(dim int) error {
	if len(c.Weights) != dim {
		return fmt.Errorf("%d weights for %d dimensions: %w", len(c.Weights), dim, ErrDimensionMismatch)
	}
	if math.IsNaN(c.RHS) || math.IsInf(c.RHS, 0) {
		return fmt.Errorf("rhs: %w", ErrInvalidConstraint)
	}
	if c.Sense < LessEqual || c.Sense > Equal {
		return fmt.Errorf("%v: %w", c.Sense, ErrInvalidConstraint)
	}
	nonzero := false
	for i, w := range c.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weight %d: %w", i, ErrInvalidConstraint)
		}
		if w != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		return fmt.Errorf("all weights zero: %w", ErrInvalidConstraint)
	}

	return nil
}

// Activity returns Σ w_i·x_i.
func (c Constraint) Activity(x []float64) float64 { return floats.Dot(c.Weights, x) }

// Violation returns how far x is from satisfying the constraint (0 if it does).
func (c Constraint) Violation(x []float64) float64 {
	a := c.Activity(x)
	switch c.Sense {
	case LessEqual:
		return math.Max(0, a-c.RHS)
	case GreaterEqual:
		return math.Max(0, c.RHS-a)
	default:
		return math.Abs(a - c.RHS)
	}
}

// Satisfied reports whether x meets the constraint within tol scaled by
// max(1, |rhs|).
func (c Constraint) Satisfied(x []float64, tol float64) bool {
	return c.Violation(x) <= tol*math.Max(1, math.Abs(c.RHS))
}

// Solution is an optimal relaxation point and its objective value.
type Solution struct {
	Point []float64
	Bound float64
}

// Relaxer solves the convex relaxation over the box spanned by the envelope
// domains. Implementations must return ErrInfeasible (possibly wrapped) when
// the constraint cannot be met inside the box.
type Relaxer interface {
	Solve(ctx context.Context, c Constraint, envs []envelope.Envelope) (Solution, error)
}

// checkInput is shared by the backends.
func checkInput(ctx context.Context, c Constraint, envs []envelope.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.Validate(len(envs)); err != nil {
		return err
	}
	for i, e := range envs {
		if e.Len() == 0 {
			return fmt.Errorf("envelope %d empty: %w", i, ErrDimensionMismatch)
		}
	}

	return nil
}

// objective returns Σ env_i(x_i).
func objective(envs []envelope.Envelope, x []float64) (float64, error) {
	vals := make([]float64, len(envs))
	for i, e := range envs {
		y, err := e.Evaluate(x[i])
		if err != nil {
			return 0, err
		}
		vals[i] = y
	}

	return floats.Sum(vals), nil
}
