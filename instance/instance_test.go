package instance_test

import (
	"bytes"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/plfopt/instance"
	"github.com/katalvlaran/plfopt/plf"
	"github.com/katalvlaran/plfopt/relax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogue(t *testing.T) {
	seen := map[string]bool{}
	for i, fn := range instance.Catalogue {
		assert.False(t, seen[fn.Name], "duplicate name %q", fn.Name)
		seen[fn.Name] = true
		assert.Less(t, fn.Lo, fn.Hi, fn.Name)

		got, err := instance.Lookup(fn.Name)
		require.NoError(t, err)
		assert.Equal(t, fn.Name, got.Name)
		got, err = instance.ByIndex(i)
		require.NoError(t, err)
		assert.Equal(t, fn.Name, got.Name)

		for _, x := range []float64{fn.Lo, (fn.Lo + fn.Hi) / 2, fn.Hi} {
			y := fn.F(x)
			assert.False(t, math.IsNaN(y) || math.IsInf(y, 0), "%s(%g)", fn.Name, x)
		}
	}

	_, err := instance.Lookup("nope")
	require.ErrorIs(t, err, instance.ErrUnknownFunction)
	_, err = instance.ByIndex(len(instance.Catalogue))
	require.ErrorIs(t, err, instance.ErrUnknownFunction)
}

func TestSample(t *testing.T) {
	fn, err := instance.Lookup("quadratic")
	require.NoError(t, err)

	p, err := instance.Sample(fn, 5, instance.SampleOptions{})
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 1, 2, 3}, p.Breakpoints)
	for i, x := range p.Breakpoints {
		assert.Equal(t, plf.Point(fn.F(x)), p.Values[i])
	}

	// Every second interior breakpoint jumps; the ends never do.
	p, err = instance.Sample(fn, 5, instance.SampleOptions{JumpEvery: 2, JumpSize: 0.5})
	require.NoError(t, err)
	assert.True(t, p.Values[0].Continuous())
	assert.True(t, p.Values[1].Continuous())
	assert.Equal(t, plf.Triple{Left: 0.5, Mid: 0, Right: -0.5}, p.Values[2])
	assert.True(t, p.Values[3].Continuous())
	assert.True(t, p.Values[4].Continuous())

	_, err = instance.Sample(fn, 1, instance.SampleOptions{})
	require.ErrorIs(t, err, instance.ErrBadConfig)
	_, err = instance.Sample(fn, 3, instance.SampleOptions{JumpEvery: -1})
	require.ErrorIs(t, err, instance.ErrBadConfig)
}

func TestGenerate(t *testing.T) {
	cfg := instance.Config{Dim: 5, Breakpoints: 10, Seed: 3}
	a, err := instance.Generate(cfg)
	require.NoError(t, err)
	b, err := instance.Generate(cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed, same instance")

	require.Len(t, a.PLFs, 5)
	require.Len(t, a.Functions, 5)
	for _, p := range a.PLFs {
		require.NoError(t, p.Validate())
		assert.Equal(t, 10, p.Len())
	}
	assert.Equal(t, relax.UnitWeights(5), a.Constraint.Weights)
	assert.Equal(t, relax.LessEqual, a.Constraint.Sense)
	lo, hi := instance.ActivityRange(a.PLFs, a.Constraint.Weights)
	assert.GreaterOrEqual(t, a.Constraint.RHS, lo)
	assert.Less(t, a.Constraint.RHS, hi)

	c, err := instance.Generate(instance.Config{Dim: 5, Breakpoints: 10, Seed: 4})
	require.NoError(t, err)
	assert.NotEqual(t, a.Constraint.RHS, c.Constraint.RHS)

	named, err := instance.Generate(instance.Config{Functions: []int{13, 0}, Weights: []float64{2, -1}, Sense: relax.GreaterEqual})
	require.NoError(t, err)
	assert.Equal(t, []string{"quadratic", "rastrigin"}, named.Functions)
	assert.Equal(t, instance.DefaultBreakpoints, named.PLFs[0].Len())
	assert.Equal(t, relax.GreaterEqual, named.Constraint.Sense)
}

func TestGenerate_Errors(t *testing.T) {
	for _, cfg := range []instance.Config{
		{Dim: -1},
		{Dim: 2, Functions: []int{1}},
		{Dim: 2, Weights: []float64{1}},
		{Dim: 2, Breakpoints: 1},
		{Dim: 2, Weights: []float64{0, 0}},
	} {
		_, err := instance.Generate(cfg)
		require.Error(t, err, "%+v", cfg)
	}
	_, err := instance.Generate(instance.Config{Functions: []int{99}})
	require.ErrorIs(t, err, instance.ErrUnknownFunction)
}

func TestActivityRange(t *testing.T) {
	p1, err := plf.FromScalars([]float64{0, 4}, []float64{0, 0})
	require.NoError(t, err)
	p2, err := plf.FromScalars([]float64{-1, 1}, []float64{0, 0})
	require.NoError(t, err)

	lo, hi := instance.ActivityRange([]plf.PLF{p1, p2}, []float64{1, -2})
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 6.0, hi)

	rhs := instance.SampleRHS([]plf.PLF{p1, p2}, []float64{1, -2}, rand.New(rand.NewSource(1)))
	assert.GreaterOrEqual(t, rhs, -2.0)
	assert.Less(t, rhs, 6.0)
}

const demoYAML = `
name: demo
constraint: {weights: [1, 1], rhs: 4.2, sense: "<="}
dimensions:
  - breakpoints: [0, 1, 2]
    values: [[1, 1, 1], [0.5, 0, 2], 2]
  - function: quadratic
    breakpoints: [-1, 1, 3]
    values: [4, 0, 4]
`

func TestLoad(t *testing.T) {
	inst, err := instance.Load(strings.NewReader(demoYAML))
	require.NoError(t, err)
	assert.Equal(t, "demo", inst.Name)
	require.Len(t, inst.PLFs, 2)
	assert.Equal(t, plf.Triple{Left: 0.5, Mid: 0, Right: 2}, inst.PLFs[0].Values[1])
	assert.Equal(t, plf.Point(2), inst.PLFs[0].Values[2])
	assert.Equal(t, []string{"", "quadratic"}, inst.Functions)
	assert.Equal(t, relax.Knapsack([]float64{1, 1}, 4.2), inst.Constraint)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"no dimensions": {"constraint: {rhs: 1}\n", instance.ErrBadConfig},
		"bad triple": {
			"constraint: {rhs: 1}\ndimensions:\n  - breakpoints: [0, 1]\n    values: [[1, 2], 0]\n",
			instance.ErrBadConfig,
		},
		"bad plf": {
			"constraint: {rhs: 1}\ndimensions:\n  - breakpoints: [1, 0]\n    values: [0, 0]\n",
			plf.ErrValidation,
		},
		"bad sense": {
			"constraint: {rhs: 1, sense: \"<>\"}\ndimensions:\n  - breakpoints: [0, 1]\n    values: [0, 0]\n",
			relax.ErrInvalidConstraint,
		},
		"weights mismatch": {
			"constraint: {rhs: 1, weights: [1, 2]}\ndimensions:\n  - breakpoints: [0, 1]\n    values: [0, 0]\n",
			relax.ErrDimensionMismatch,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := instance.Load(strings.NewReader(tc.doc))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// TestEncode_RoundTrip writes a generated instance with jumps and reads it back.
func TestEncode_RoundTrip(t *testing.T) {
	inst, err := instance.Generate(instance.Config{
		Dim: 3, Breakpoints: 8, Seed: 11, Sense: relax.GreaterEqual,
		Sample: instance.SampleOptions{JumpEvery: 3, JumpSize: 0.25},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, inst.Encode(&buf))
	assert.Contains(t, buf.String(), "dimensions:")

	back, err := instance.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, inst, back)

	path := filepath.Join(t.TempDir(), "inst.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, inst.Encode(f))
	require.NoError(t, f.Close())

	back, err = instance.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, inst, back)

	_, err = instance.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
