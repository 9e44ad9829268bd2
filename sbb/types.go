// SPDX-License-Identifier: MIT

// Package sbb — problem, options, statuses and results.
//
// Rationale (succinct):
//  1. Options follow the DefaultOptions/Validate pattern; zero limits mean
//     unlimited and nil collaborators resolve to LargestError and Greedy.
//  2. Limits end the search with a status, never with an error, so callers
//     always receive the anytime Result.
package sbb

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/plfopt/plf"
	"github.com/katalvlaran/plfopt/relax"
)

// Defaults (single source of truth for DefaultOptions).
const (
	// DefaultEpsilon is the absolute termination gap.
	DefaultEpsilon = 1e-5

	// DefaultMinWidth is the interval width under which a dimension is no
	// longer split.
	DefaultMinWidth = 1e-9

	// FeasibilityTol is the relative tolerance used to accept a relaxation
	// point as feasible for the original constraint: its violation may reach
	// FeasibilityTol·max(1, |rhs|).
	FeasibilityTol = 1e-9
)

// Status is the terminal state of a search.
type Status int

const (
	// StatusOptimal means the gap closed to ε or every region was pruned or
	// closed.
	StatusOptimal Status = iota
	// StatusInfeasible means no node admits a feasible relaxation point.
	StatusInfeasible
	// StatusTimeLimit means Options.TimeLimit elapsed first.
	StatusTimeLimit
	// StatusNodeLimit means Options.MaxNodes nodes were created first.
	StatusNodeLimit
	// StatusCanceled means the context was done first.
	StatusCanceled
	// StatusResolution means the only regions left open were narrower than
	// Options.MinWidth in every dimension, so the gap cannot shrink further.
	StatusResolution
)

// String returns a short lower-case label.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimeLimit:
		return "time limit"
	case StatusNodeLimit:
		return "node limit"
	case StatusCanceled:
		return "canceled"
	case StatusResolution:
		return "resolution limit"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Problem is a separable PLF minimization under one linear constraint.
// The variable box is the product of the PLF domains.
type Problem struct {
	PLFs       []plf.PLF
	Constraint relax.Constraint
}

// Dim returns the number of dimensions.
func (p Problem) Dim() int { return len(p.PLFs) }

// Domain returns the full box.
func (p Problem) Domain() Box {
	b := make(Box, len(p.PLFs))
	for i, f := range p.PLFs {
		b[i].Lo, b[i].Hi = f.Domain()
	}

	return b
}

// Validate checks every PLF and the constraint.
func (p Problem) Validate() error {
	if len(p.PLFs) == 0 {
		return ErrEmptyProblem
	}
	for i, f := range p.PLFs {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("sbb: dimension %d: %w", i, err)
		}
	}
	if err := p.Constraint.Validate(len(p.PLFs)); err != nil {
		return fmt.Errorf("sbb: constraint: %w", err)
	}

	return nil
}

// Objective returns Σ f_i(x_i).
func (p Problem) Objective(x []float64) (float64, error) {
	var sum float64
	for i, f := range p.PLFs {
		y, err := f.Evaluate(x[i])
		if err != nil {
			return 0, fmt.Errorf("sbb: dimension %d: %w", i, err)
		}
		sum += y
	}

	return sum, nil
}

// IterationStats is a snapshot handed to Options.OnIteration after every
// loop iteration.
type IterationStats struct {
	Iteration int
	Nodes     int
	Open      int
	Upper     float64
	Lower     float64
	Elapsed   time.Duration
}

// Options configures SpatialBB.
//
// Fields:
//   - Rule       — branching rule; nil ⇒ LargestError{}.
//   - Relaxer    — relaxation backend; nil ⇒ relax.Greedy{}.
//   - Epsilon    — absolute gap tolerance (≥ 0).
//   - TimeLimit  — wall-clock budget; 0 ⇒ unlimited.
//   - MaxNodes   — node budget; 0 ⇒ unlimited.
//   - MinWidth   — resolution below which intervals are not split; 0 ⇒ DefaultMinWidth.
//   - Logger     — structured logger; nil ⇒ silent.
//   - OnIteration — optional hook called after every iteration.
type Options struct {
	Rule        BranchingRule
	Relaxer     relax.Relaxer
	Epsilon     float64
	TimeLimit   time.Duration
	MaxNodes    int
	MinWidth    float64
	Logger      *slog.Logger
	OnIteration func(IterationStats)
}

// DefaultOptions returns LargestError branching, the greedy relaxer,
// ε = DefaultEpsilon and no limits.
func DefaultOptions() Options {
	return Options{
		Rule:     LargestError{},
		Relaxer:  relax.Greedy{},
		Epsilon:  DefaultEpsilon,
		MinWidth: DefaultMinWidth,
	}
}

// Validate rejects negative or NaN knobs.
func (o Options) Validate() error {
	if o.Epsilon < 0 || math.IsNaN(o.Epsilon) {
		return fmt.Errorf("epsilon %g: %w", o.Epsilon, ErrInvalidOptions)
	}
	if o.TimeLimit < 0 {
		return fmt.Errorf("time limit %v: %w", o.TimeLimit, ErrInvalidOptions)
	}
	if o.MaxNodes < 0 {
		return fmt.Errorf("max nodes %d: %w", o.MaxNodes, ErrInvalidOptions)
	}
	if o.MinWidth < 0 || math.IsNaN(o.MinWidth) {
		return fmt.Errorf("min width %g: %w", o.MinWidth, ErrInvalidOptions)
	}

	return nil
}

// resolved fills nil/zero knobs with their defaults. A LargestError rule
// without its own MinWidth inherits Options.MinWidth.
func (o Options) resolved() Options {
	if o.Rule == nil {
		o.Rule = LargestError{}
	}
	if o.Relaxer == nil {
		o.Relaxer = relax.Greedy{}
	}
	if o.MinWidth == 0 {
		o.MinWidth = DefaultMinWidth
	}
	if le, ok := o.Rule.(LargestError); ok && le.MinWidth == 0 {
		le.MinWidth = o.MinWidth
		o.Rule = le
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return o
}

// Result is the outcome of a search.
//
// UpperBound is the objective value of the incumbent (the global bound
// reported to downstream consumers); LowerBound the final global lower bound.
// Point is nil when no feasible point was found; otherwise it satisfies the
// constraint up to FeasibilityTol·max(1, |rhs|).
type Result struct {
	SolveTime  time.Duration
	Status     Status
	Rule       string
	RootBound  float64
	UpperBound float64
	LowerBound float64
	Gap        float64
	NodeCount  int
	Iterations int
	Point      []float64
}
