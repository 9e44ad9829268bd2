package sbb_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/plfopt/plf"
	"github.com/katalvlaran/plfopt/relax"
	"github.com/katalvlaran/plfopt/sbb"
)

// ExampleSpatialBB minimizes f1(x1) + f2(x2) subject to x1 + x2 ≤ 2.
func ExampleSpatialBB() {
	f1, _ := plf.FromScalars([]float64{0, 1, 2, 3, 4}, []float64{3, 1, 2, 0, 2})
	f2, _ := plf.FromScalars([]float64{0, 2, 4}, []float64{0, 2, 1})

	prob := sbb.Problem{
		PLFs:       []plf.PLF{f1, f2},
		Constraint: relax.Knapsack(relax.UnitWeights(2), 2),
	}
	opts := sbb.DefaultOptions()
	opts.Rule = sbb.LongestEdge{}

	res, err := sbb.SpatialBB(context.Background(), prob, opts)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("status=%s root=%.2f value=%.2f point=%v nodes=%d\n",
		res.Status, res.RootBound, res.UpperBound, res.Point, res.NodeCount)
	// Output:
	// status=optimal root=0.50 value=1.00 point=[1 0] nodes=3
}

// ExampleParseRule resolves a rule by its display name.
func ExampleParseRule() {
	rule, err := sbb.ParseRule("largest error")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(rule.Name())
	// Output:
	// largest error
}
