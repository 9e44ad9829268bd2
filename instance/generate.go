// SPDX-License-Identifier: MIT

package instance

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/plfopt/plf"
	"github.com/katalvlaran/plfopt/relax"
)

// Default generator parameters.
const (
	DefaultDim         = 4
	DefaultBreakpoints = 20
)

// Instance is a separable PLF minimization problem under one linear
// constraint, the unit consumed by sbb.Problem.
type Instance struct {
	Name       string
	PLFs       []plf.PLF
	Constraint relax.Constraint
	// Functions records the catalogue names the PLFs were sampled from;
	// empty for hand-written instances.
	Functions []string
}

// Config describes a random instance.
//
//   - Dim         — number of dimensions; 0 ⇒ DefaultDim.
//   - Breakpoints — breakpoints per PLF; 0 ⇒ DefaultBreakpoints.
//   - Functions   — catalogue indices, one per dimension; empty ⇒ random.
//   - Weights     — constraint weights; empty ⇒ unit weights.
//   - Sense       — constraint sense (relax.LessEqual by default).
//   - Sample      — jump options forwarded to Sample.
//   - Seed        — RNG seed; 0 ⇒ fixed default.
type Config struct {
	Name        string
	Dim         int
	Breakpoints int
	Functions   []int
	Weights     []float64
	Sense       relax.Sense
	Sample      SampleOptions
	Seed        int64
}

// Generate draws a random instance. The same Config always yields the same
// instance.
//
// Errors: ErrBadConfig for inconsistent parameters, ErrUnknownFunction for a
// bad catalogue index.
func Generate(cfg Config) (Instance, error) {
	if cfg.Dim == 0 {
		cfg.Dim = DefaultDim
		if len(cfg.Functions) > 0 {
			cfg.Dim = len(cfg.Functions)
		}
	}
	if cfg.Breakpoints == 0 {
		cfg.Breakpoints = DefaultBreakpoints
	}
	switch {
	case cfg.Dim < 0:
		return Instance{}, fmt.Errorf("dimension %d: %w", cfg.Dim, ErrBadConfig)
	case len(cfg.Functions) > 0 && len(cfg.Functions) != cfg.Dim:
		return Instance{}, fmt.Errorf("%d functions for %d dimensions: %w", len(cfg.Functions), cfg.Dim, ErrBadConfig)
	case len(cfg.Weights) > 0 && len(cfg.Weights) != cfg.Dim:
		return Instance{}, fmt.Errorf("%d weights for %d dimensions: %w", len(cfg.Weights), cfg.Dim, ErrBadConfig)
	}

	base := rngFromSeed(cfg.Seed)
	inst := Instance{
		Name:      cfg.Name,
		PLFs:      make([]plf.PLF, cfg.Dim),
		Functions: make([]string, cfg.Dim),
	}
	for i := 0; i < cfg.Dim; i++ {
		idx := base.Intn(len(Catalogue))
		if len(cfg.Functions) > 0 {
			idx = cfg.Functions[i]
		}
		fn, err := ByIndex(idx)
		if err != nil {
			return Instance{}, fmt.Errorf("dimension %d: %w", i, err)
		}
		p, err := Sample(fn, cfg.Breakpoints, cfg.Sample)
		if err != nil {
			return Instance{}, fmt.Errorf("dimension %d: %w", i, err)
		}
		inst.PLFs[i] = p
		inst.Functions[i] = fn.Name
	}

	weights := cfg.Weights
	if len(weights) == 0 {
		weights = relax.UnitWeights(cfg.Dim)
	}
	weights = append([]float64(nil), weights...)
	r := rand.New(rand.NewSource(deriveSeed(cfg.Seed, uint64(cfg.Dim))))
	inst.Constraint = relax.Constraint{
		Weights: weights,
		RHS:     SampleRHS(inst.PLFs, weights, r),
		Sense:   cfg.Sense,
	}
	if err := inst.Constraint.Validate(cfg.Dim); err != nil {
		return Instance{}, fmt.Errorf("constraint: %w", err)
	}
	if inst.Name == "" {
		inst.Name = fmt.Sprintf("random-d%d-k%d-s%d", cfg.Dim, cfg.Breakpoints, cfg.Seed)
	}

	return inst, nil
}

// SampleRHS draws a right-hand side uniformly between the smallest and the
// largest activity Σ w_i·x_i over the box of PLF domains, so that both the
// ≤ and the ≥ form of the constraint are feasible and binding-prone.
func SampleRHS(plfs []plf.PLF, weights []float64, r *rand.Rand) float64 {
	lo, hi := ActivityRange(plfs, weights)

	return uniform(r, lo, hi)
}

// ActivityRange returns the minimal and maximal Σ w_i·x_i over the box of
// PLF domains.
func ActivityRange(plfs []plf.PLF, weights []float64) (lo, hi float64) {
	for i, p := range plfs {
		a, b := p.Domain()
		wa, wb := weights[i]*a, weights[i]*b
		lo += math.Min(wa, wb)
		hi += math.Max(wa, wb)
	}

	return lo, hi
}
