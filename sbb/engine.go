// SPDX-License-Identifier: MIT

// Package sbb — search engine.
//
// SpatialBB drives the search as a single loop over an explicit SearchState:
//
//	Init    root box = product of PLF domains; UB = +Inf; root bounded at once.
//	        An infeasible root ends the search with StatusInfeasible.
//	Select  pop the open node with the largest bound (worst-first).
//	Prune   bound ≥ UB − ε ⇒ discard.
//	Close   value − bound ≤ ε ⇒ discard, the box is solved to tolerance.
//	Branch  BranchingRule → Split → two children, each bounded on creation;
//	        infeasible children are discarded; node counter += 2.
//	Refresh LB = max(LB, min(min open bound, retired floor, UB)); unchanged
//	        when nothing is open or retired.
//
// Bounding a node means: restrict every PLF to the node's interval and build
// its convex envelope (envelope.Over), hand the envelopes to the Relaxer, and
// evaluate the true objective at the relaxation point. A feasible point that
// improves the incumbent updates UB immediately, so the Evaluate step happens
// when a node is created rather than when it is selected; selection needs the
// bound anyway.
//
// Child bounds are clamped to be ≥ the parent bound: mathematically a
// sub-box can only tighten the envelope, and the clamp keeps LB monotone
// under floating-point noise.
//
// Cancellation is cooperative and checked at the top of every iteration
// (gap, time limit, node budget, context). A node is never interrupted.
package sbb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/plfopt/envelope"
	"github.com/katalvlaran/plfopt/plf"
	"github.com/katalvlaran/plfopt/relax"
)

// engine holds the immutable inputs of one search.
type engine struct {
	prob   *Problem
	opts   Options
	log    *slog.Logger
	nextID int
}

// Solve runs SpatialBB with a background context.
func Solve(plfs []plf.PLF, c relax.Constraint, opts Options) (Result, error) {
	return SpatialBB(context.Background(), Problem{PLFs: plfs, Constraint: c}, opts)
}

// SpatialBB minimizes prob by spatial branch-and-bound.
//
// Errors: validation failures of prob (plf.ErrValidation class,
// relax.ErrDimensionMismatch, relax.ErrInvalidConstraint, ErrEmptyProblem),
// of opts (ErrInvalidOptions), and relaxer failures other than
// infeasibility and context cancellation. Infeasibility and limits are
// reported through Result.Status.
func SpatialBB(ctx context.Context, prob Problem, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if err := prob.Validate(); err != nil {
		return Result{}, err
	}
	opts = opts.resolved()

	e := &engine{prob: &prob, opts: opts, log: opts.Logger}
	st := newSearchState(time.Now())

	root, err := e.bound(ctx, st, prob.Domain(), nil)
	st.Nodes = 1
	if err != nil {
		if ctxErr(err) {
			return e.finish(st, StatusCanceled, math.NaN()), nil
		}
		return Result{}, err
	}
	if root == nil {
		e.log.Info("sbb: root relaxation infeasible")
		res := e.finish(st, StatusInfeasible, math.Inf(1))
		res.LowerBound = math.Inf(1)
		return res, nil
	}
	rootBound := root.Bound
	st.open.Push(root)
	st.refreshLower()
	e.log.Info("sbb: root bounded",
		slog.String("rule", opts.Rule.Name()),
		slog.Float64("bound", root.Bound),
		slog.Float64("upper", st.Upper))

	status, err := e.loop(ctx, st)
	if err != nil {
		return Result{}, err
	}

	return e.finish(st, status, rootBound), nil
}

// loop runs Select → Prune → Close/Branch → Refresh until a stop condition.
func (e *engine) loop(ctx context.Context, st *SearchState) (Status, error) {
	eps := e.opts.Epsilon
	for {
		switch {
		case st.open.Len() == 0:
			return e.exhausted(st), nil
		case st.Gap() <= eps:
			return StatusOptimal, nil
		case e.opts.TimeLimit > 0 && st.Elapsed() >= e.opts.TimeLimit:
			return StatusTimeLimit, nil
		case ctx.Err() != nil:
			return StatusCanceled, nil
		case e.opts.MaxNodes > 0 && st.Nodes >= e.opts.MaxNodes:
			return StatusNodeLimit, nil
		}

		n := st.open.PopWorst()
		st.Iterations++

		if err := e.process(ctx, st, n); err != nil {
			if ctxErr(err) {
				return StatusCanceled, nil
			}
			return 0, err
		}

		st.refreshLower()
		if e.opts.OnIteration != nil {
			e.opts.OnIteration(st.stats())
		}
	}
}

// process prunes, closes or branches one selected node.
func (e *engine) process(ctx context.Context, st *SearchState, n *Node) error {
	eps := e.opts.Epsilon
	if n.Bound >= st.Upper-eps {
		return nil // pruned
	}
	if n.LocalGap() <= eps {
		return nil // closed
	}
	if _, w := n.Box.Widest(); w < e.opts.MinWidth {
		st.retire(n)
		return nil
	}

	sol := relax.Solution{Point: n.Candidate, Bound: n.Bound}
	dim, at, err := e.opts.Rule.SelectSplit(e.prob, n, sol)
	if err != nil {
		return fmt.Errorf("sbb: %s rule: %w", e.opts.Rule.Name(), err)
	}
	left, right, err := Split(n.Box, dim, at)
	if err != nil {
		e.log.Debug("sbb: node retired", slog.Int("node", n.ID), slog.Int("dim", dim), slog.Float64("at", at))
		st.retire(n)
		return nil
	}

	st.Nodes += 2
	for _, box := range []Box{left, right} {
		child, err := e.bound(ctx, st, box, n)
		if err != nil {
			return err
		}
		if child != nil {
			st.open.Push(child)
		}
	}

	return nil
}

// bound builds the envelopes over box, solves the relaxation and evaluates
// the candidate. It returns (nil, nil) when the relaxation is infeasible.
func (e *engine) bound(ctx context.Context, st *SearchState, box Box, parent *Node) (*Node, error) {
	envs := make([]envelope.Envelope, len(box))
	for i, iv := range box {
		env, err := envelope.Over(e.prob.PLFs[i], iv.Lo, iv.Hi)
		if err != nil {
			return nil, fmt.Errorf("sbb: dimension %d: %w", i, err)
		}
		envs[i] = env
	}

	sol, err := e.opts.Relaxer.Solve(ctx, e.prob.Constraint, envs)
	if errors.Is(err, relax.ErrInfeasible) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	n := &Node{
		ID:        e.nextID,
		ParentID:  -1,
		Box:       box,
		Bound:     sol.Bound,
		Candidate: sol.Point,
		Value:     math.Inf(1),
		Envelopes: envs,
	}
	e.nextID++
	if parent != nil {
		n.ParentID = parent.ID
		n.Depth = parent.Depth + 1
		n.Bound = math.Max(n.Bound, parent.Bound)
	}

	if box.Contains(sol.Point) && e.prob.Constraint.Satisfied(sol.Point, FeasibilityTol) {
		v, err := e.prob.Objective(sol.Point)
		if err != nil {
			return nil, err
		}
		n.Value = v
		if st.offer(sol.Point, v) {
			e.log.Debug("sbb: incumbent improved",
				slog.Int("node", n.ID),
				slog.Float64("value", v),
				slog.Float64("bound", n.Bound))
		}
	}

	return n, nil
}

// exhausted classifies an empty open set. Every discarded node had a bound
// of at least UB − ε, so an exhausted search without retired nodes lifts LB
// to that level.
func (e *engine) exhausted(st *SearchState) Status {
	switch {
	case !st.Incumbent.Found() && math.IsInf(st.floor, 1):
		return StatusInfeasible
	case !math.IsInf(st.floor, 1) && st.Gap() > e.opts.Epsilon:
		return StatusResolution
	}
	if math.IsInf(st.floor, 1) {
		st.Lower = math.Max(st.Lower, st.Upper-e.opts.Epsilon)
	}

	return StatusOptimal
}

// finish assembles the Result and logs the outcome.
func (e *engine) finish(st *SearchState, status Status, rootBound float64) Result {
	res := Result{
		SolveTime:  st.Elapsed(),
		Status:     status,
		Rule:       e.opts.Rule.Name(),
		RootBound:  rootBound,
		UpperBound: st.Upper,
		LowerBound: st.Lower,
		Gap:        math.Max(0, st.Gap()),
		NodeCount:  st.Nodes,
		Iterations: st.Iterations,
		Point:      st.Incumbent.Point,
	}
	e.log.Info("sbb: search finished",
		slog.String("status", status.String()),
		slog.Int("nodes", res.NodeCount),
		slog.Float64("upper", res.UpperBound),
		slog.Float64("lower", res.LowerBound),
		slog.Duration("elapsed", res.SolveTime))

	return res
}

func ctxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
