// Package sbb_test validates the spatial branch-and-bound engine.
// Focus:
//  1. Sentinels on malformed problems and options.
//  2. Exact outcomes on a hand-checked 2-D knapsack for every rule and relaxer.
//  3. Infeasibility detection at the root.
//  4. Anytime behavior under time, node and context limits.
//  5. Monotone global bounds on random instances.
package sbb_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/katalvlaran/plfopt/instance"
	"github.com/katalvlaran/plfopt/plf"
	"github.com/katalvlaran/plfopt/relax"
	"github.com/katalvlaran/plfopt/sbb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustPLF builds a continuous PLF or fails the test.
func mustPLF(t testing.TB, b, v []float64) plf.PLF {
	t.Helper()
	p, err := plf.FromScalars(b, v)
	require.NoError(t, err)

	return p
}

// twoDim returns f1 (envelope (0,3)(1,1)(3,0)(4,2)) and f2 (envelope
// (0,0)(4,1)) under x1 + x2 ≤ rhs. With rhs = 2 the root relaxation sits at
// (2, 0) with bound 0.5; splitting x1 at 2 yields the optimum f(1, 0) = 1.
func twoDim(t testing.TB, rhs float64) sbb.Problem {
	t.Helper()

	return sbb.Problem{
		PLFs: []plf.PLF{
			mustPLF(t, []float64{0, 1, 2, 3, 4}, []float64{3, 1, 2, 0, 2}),
			mustPLF(t, []float64{0, 2, 4}, []float64{0, 2, 1}),
		},
		Constraint: relax.Knapsack([]float64{1, 1}, rhs),
	}
}

// reference is the discontinuous 1-D function of the plf tests. Its infimum
// 0.5 is the right limit at 7 and is never attained.
func reference(t testing.TB) plf.PLF {
	t.Helper()
	p, err := plf.New(
		[]float64{1, 3, 4, 6, 7, 9, 11, 12, 13, 14},
		[]plf.Triple{
			{Left: 7, Mid: 7, Right: 7}, {Left: 5.5, Mid: 1, Right: 4}, {Left: 3, Mid: 3, Right: 3}, {Left: 2.5, Mid: 2.5, Right: 2.5}, {Left: 1.5, Mid: 1, Right: 0.5},
			{Left: 1.5, Mid: 2.5, Right: 12}, {Left: 4, Mid: 4, Right: 4}, {Left: 6, Mid: 6, Right: 6}, {Left: 6.5, Mid: 6.5, Right: 6.5}, {Left: 6, Mid: 6, Right: 6},
		})
	require.NoError(t, err)

	return p
}

func rules() []sbb.BranchingRule {
	return []sbb.BranchingRule{sbb.LargestError{}, sbb.LongestEdge{}, sbb.Breakpoint{}}
}

func relaxers() map[string]relax.Relaxer {
	return map[string]relax.Relaxer{"greedy": relax.Greedy{}, "lp": relax.LP{}}
}

// TestSpatialBB_Validation covers the error returns.
func TestSpatialBB_Validation(t *testing.T) {
	ctx := context.Background()
	good := twoDim(t, 2)

	_, err := sbb.SpatialBB(ctx, sbb.Problem{}, sbb.DefaultOptions())
	require.ErrorIs(t, err, sbb.ErrEmptyProblem)

	bad := good
	bad.Constraint = relax.Knapsack([]float64{1}, 2)
	_, err = sbb.SpatialBB(ctx, bad, sbb.DefaultOptions())
	require.ErrorIs(t, err, relax.ErrDimensionMismatch)

	bad = good
	bad.PLFs = []plf.PLF{good.PLFs[0], {Breakpoints: []float64{1, 0}, Values: []plf.Triple{plf.Point(0), plf.Point(1)}}}
	_, err = sbb.SpatialBB(ctx, bad, sbb.DefaultOptions())
	require.ErrorIs(t, err, plf.ErrValidation)

	for _, mutate := range []func(*sbb.Options){
		func(o *sbb.Options) { o.Epsilon = -1 },
		func(o *sbb.Options) { o.Epsilon = math.NaN() },
		func(o *sbb.Options) { o.TimeLimit = -time.Second },
		func(o *sbb.Options) { o.MaxNodes = -1 },
		func(o *sbb.Options) { o.MinWidth = -1 },
	} {
		opts := sbb.DefaultOptions()
		mutate(&opts)
		_, err = sbb.SpatialBB(ctx, good, opts)
		require.ErrorIs(t, err, sbb.ErrInvalidOptions)
	}
}

// TestSpatialBB_TwoDim checks the hand-computed search for every rule and
// both relaxers: one branching on x1 at 2 closes the gap.
func TestSpatialBB_TwoDim(t *testing.T) {
	for name, rx := range relaxers() {
		for _, rule := range rules() {
			t.Run(fmt.Sprintf("%s/%s", name, rule.Name()), func(t *testing.T) {
				opts := sbb.DefaultOptions()
				opts.Rule = rule
				opts.Relaxer = rx

				res, err := sbb.SpatialBB(context.Background(), twoDim(t, 2), opts)
				require.NoError(t, err)
				assert.Equal(t, sbb.StatusOptimal, res.Status)
				assert.Equal(t, rule.Name(), res.Rule)
				assert.InDelta(t, 0.5, res.RootBound, 1e-9)
				assert.InDelta(t, 1.0, res.UpperBound, 1e-9)
				assert.InDelta(t, 1.0, res.LowerBound, 1e-9)
				assert.LessOrEqual(t, res.Gap, opts.Epsilon)
				assert.Equal(t, 3, res.NodeCount)
				assert.Equal(t, 1, res.Iterations)
				require.Len(t, res.Point, 2)
				assert.InDelta(t, 1.0, res.Point[0], 1e-9)
				assert.InDelta(t, 0.0, res.Point[1], 1e-9)
			})
		}
	}
}

// TestSpatialBB_RootOptimal stops before branching when the root relaxation
// point is already optimal.
func TestSpatialBB_RootOptimal(t *testing.T) {
	res, err := sbb.Solve(twoDim(t, 3).PLFs, relax.Knapsack([]float64{1, 1}, 3), sbb.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, sbb.StatusOptimal, res.Status)
	assert.Equal(t, 1, res.NodeCount)
	assert.Equal(t, 0, res.Iterations)
	assert.InDelta(t, 0.0, res.UpperBound, 1e-9)
	assert.Equal(t, []float64{3, 0}, res.Point)
}

// TestSpatialBB_Infeasible: a capacity below the activity at the lower domain
// corner leaves no feasible point, detected at the root.
func TestSpatialBB_Infeasible(t *testing.T) {
	for name, rx := range relaxers() {
		t.Run(name, func(t *testing.T) {
			opts := sbb.DefaultOptions()
			opts.Relaxer = rx
			opts.TimeLimit = time.Minute

			res, err := sbb.SpatialBB(context.Background(), twoDim(t, -1), opts)
			require.NoError(t, err)
			assert.Equal(t, sbb.StatusInfeasible, res.Status)
			assert.Equal(t, 1, res.NodeCount)
			assert.Nil(t, res.Point)
			assert.True(t, math.IsInf(res.UpperBound, 1))

			prob := twoDim(t, 100)
			prob.Constraint = relax.Demand([]float64{1, 1}, 100)
			res, err = sbb.SpatialBB(context.Background(), prob, opts)
			require.NoError(t, err)
			assert.Equal(t, sbb.StatusInfeasible, res.Status)
		})
	}
}

// TestSpatialBB_Discontinuous approaches the unattained infimum of the
// reference function from the right until the gap closes.
func TestSpatialBB_Discontinuous(t *testing.T) {
	for _, rule := range rules() {
		t.Run(rule.Name(), func(t *testing.T) {
			opts := sbb.DefaultOptions()
			opts.Rule = rule

			res, err := sbb.Solve([]plf.PLF{reference(t)}, relax.Knapsack([]float64{1}, 14), opts)
			require.NoError(t, err)
			assert.Equal(t, sbb.StatusOptimal, res.Status)
			assert.InDelta(t, 0.5, res.UpperBound, 2*opts.Epsilon)
			assert.InDelta(t, 0.5, res.LowerBound, 1e-9)
			require.Len(t, res.Point, 1)
			assert.Greater(t, res.Point[0], 7.0)
			assert.InDelta(t, 7.0, res.Point[0], 1e-4)
		})
	}
}

// TestSpatialBB_TimeLimit returns the anytime state after the root.
func TestSpatialBB_TimeLimit(t *testing.T) {
	opts := sbb.DefaultOptions()
	opts.TimeLimit = time.Nanosecond

	res, err := sbb.Solve([]plf.PLF{reference(t)}, relax.Knapsack([]float64{1}, 14), opts)
	require.NoError(t, err)
	assert.Equal(t, sbb.StatusTimeLimit, res.Status)
	assert.Equal(t, 1, res.NodeCount)
	assert.InDelta(t, 1.0, res.UpperBound, 1e-12)
	assert.InDelta(t, 0.5, res.LowerBound, 1e-12)
	assert.InDelta(t, 0.5, res.RootBound, 1e-12)
	assert.Equal(t, []float64{7}, res.Point)
}

// TestSpatialBB_NodeLimit stops once the node budget is spent.
func TestSpatialBB_NodeLimit(t *testing.T) {
	opts := sbb.DefaultOptions()
	opts.MaxNodes = 5

	res, err := sbb.Solve([]plf.PLF{reference(t)}, relax.Knapsack([]float64{1}, 14), opts)
	require.NoError(t, err)
	assert.Equal(t, sbb.StatusNodeLimit, res.Status)
	assert.GreaterOrEqual(t, res.NodeCount, 5)
	assert.LessOrEqual(t, res.NodeCount, 6)
	assert.LessOrEqual(t, res.LowerBound, res.UpperBound)
}

// TestSpatialBB_Canceled honors a context that is already done.
func TestSpatialBB_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sbb.SpatialBB(ctx, twoDim(t, 2), sbb.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, sbb.StatusCanceled, res.Status)
	assert.Nil(t, res.Point)
}

// TestSpatialBB_Resolution retires nodes once intervals get narrower than
// MinWidth; the unattained infimum then keeps the gap open.
func TestSpatialBB_Resolution(t *testing.T) {
	opts := sbb.DefaultOptions()
	opts.Epsilon = 0
	opts.MinWidth = 1e-3

	res, err := sbb.Solve([]plf.PLF{reference(t)}, relax.Knapsack([]float64{1}, 14), opts)
	require.NoError(t, err)
	assert.Equal(t, sbb.StatusResolution, res.Status)
	assert.InDelta(t, 0.5, res.LowerBound, 1e-9)
	assert.Greater(t, res.UpperBound, 0.5)
	assert.Less(t, res.UpperBound, 0.5+2e-3)
}

// TestSpatialBB_MonotoneBounds records every iteration on random instances:
// UB never increases, LB never decreases and LB ≤ UB.
func TestSpatialBB_MonotoneBounds(t *testing.T) {
	for seed := int64(1); seed <= 6; seed++ {
		for _, rule := range rules() {
			inst, err := instance.Generate(instance.Config{Dim: 3, Breakpoints: 12, Seed: seed})
			require.NoError(t, err)

			var trace []sbb.IterationStats
			opts := sbb.DefaultOptions()
			opts.Rule = rule
			opts.MaxNodes = 400
			opts.OnIteration = func(s sbb.IterationStats) { trace = append(trace, s) }

			res, err := sbb.Solve(inst.PLFs, inst.Constraint, opts)
			require.NoError(t, err)
			require.NotEqual(t, sbb.StatusInfeasible, res.Status, "seed %d", seed)

			for i := 1; i < len(trace); i++ {
				assert.LessOrEqual(t, trace[i].Upper, trace[i-1].Upper, "seed %d %s iter %d", seed, rule.Name(), i)
				assert.GreaterOrEqual(t, trace[i].Lower, trace[i-1].Lower, "seed %d %s iter %d", seed, rule.Name(), i)
			}
			for _, s := range trace {
				assert.LessOrEqual(t, s.Lower, s.Upper+1e-12)
			}

			require.NotNil(t, res.Point)
			v, err := sbb.Problem{PLFs: inst.PLFs, Constraint: inst.Constraint}.Objective(res.Point)
			require.NoError(t, err)
			assert.InDelta(t, res.UpperBound, v, 1e-9)
			assert.LessOrEqual(t, inst.Constraint.Violation(res.Point),
				sbb.FeasibilityTol*math.Max(1, math.Abs(inst.Constraint.RHS)))
			assert.LessOrEqual(t, res.RootBound, res.UpperBound+1e-9)
		}
	}
}

// TestSpatialBB_Deterministic: identical inputs give identical results.
func TestSpatialBB_Deterministic(t *testing.T) {
	inst, err := instance.Generate(instance.Config{Dim: 4, Breakpoints: 20, Seed: 42})
	require.NoError(t, err)
	opts := sbb.DefaultOptions()
	opts.MaxNodes = 300

	a, err := sbb.Solve(inst.PLFs, inst.Constraint, opts)
	require.NoError(t, err)
	b, err := sbb.Solve(inst.PLFs, inst.Constraint, opts)
	require.NoError(t, err)
	assert.Equal(t, a.Status, b.Status)
	assert.Equal(t, a.NodeCount, b.NodeCount)
	assert.Equal(t, a.Point, b.Point)
	assert.Equal(t, a.UpperBound, b.UpperBound)
}

// TestSpatialBB_LPGenerated runs the LP relaxer on a generated covering
// instance whose root LP is degenerate and checks it reaches the same optimum
// as the greedy relaxer.
func TestSpatialBB_LPGenerated(t *testing.T) {
	inst, err := instance.Generate(instance.Config{Dim: 2, Breakpoints: 9, Seed: 105, Sense: relax.GreaterEqual})
	require.NoError(t, err)

	solve := func(r relax.Relaxer) sbb.Result {
		opts := sbb.DefaultOptions()
		opts.Relaxer = r
		opts.TimeLimit = 10 * time.Second

		done := make(chan sbb.Result, 1)
		go func() {
			res, err := sbb.Solve(inst.PLFs, inst.Constraint, opts)
			assert.NoError(t, err)
			done <- res
		}()
		select {
		case res := <-done:
			return res
		case <-time.After(30 * time.Second):
			t.Fatalf("%T search did not return", r)
			return sbb.Result{}
		}
	}

	lpRes := solve(relax.LP{})
	greedyRes := solve(relax.Greedy{})
	require.Equal(t, sbb.StatusOptimal, greedyRes.Status)
	require.Equal(t, sbb.StatusOptimal, lpRes.Status)
	assert.InDelta(t, greedyRes.UpperBound, lpRes.UpperBound, 2*sbb.DefaultEpsilon)
	assert.True(t, inst.Constraint.Satisfied(lpRes.Point, sbb.FeasibilityTol))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "optimal", sbb.StatusOptimal.String())
	assert.Equal(t, "infeasible", sbb.StatusInfeasible.String())
	assert.Equal(t, "time limit", sbb.StatusTimeLimit.String())
	assert.Equal(t, "resolution limit", sbb.StatusResolution.String())
	assert.Equal(t, "Status(42)", sbb.Status(42).String())
}
