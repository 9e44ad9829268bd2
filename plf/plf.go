// SPDX-License-Identifier: MIT

package plf

import (
	"fmt"
	"math"
	"sort"
)

// Triple holds the left limit, the exact value and the right limit of a PLF
// at one breakpoint. For a continuous point all three coincide.
type Triple struct {
	Left  float64
	Mid   float64
	Right float64
}

// Point returns the degenerate triple (y, y, y) of a continuous breakpoint.
func Point(y float64) Triple { return Triple{Left: y, Mid: y, Right: y} }

// Min returns the smallest of the three entries.
func (t Triple) Min() float64 { return math.Min(t.Left, math.Min(t.Mid, t.Right)) }

// Continuous reports whether all three entries coincide.
func (t Triple) Continuous() bool { return t.Left == t.Mid && t.Mid == t.Right }

// PLF is a one-dimensional piecewise-linear function on [B[0], B[len(B)-1]].
type PLF struct {
	Breakpoints []float64
	Values      []Triple
}

// New validates and wraps breakpoints and triples. Inputs are not copied.
func New(breakpoints []float64, values []Triple) (PLF, error) {
	p := PLF{Breakpoints: breakpoints, Values: values}
	if err := p.Validate(); err != nil {
		return PLF{}, err
	}

	return p, nil
}

// FromScalars builds a continuous PLF from plain values (degenerate triples).
func FromScalars(breakpoints []float64, values []float64) (PLF, error) {
	if len(values) != len(breakpoints) {
		return PLF{}, ErrLengthMismatch
	}
	ts := make([]Triple, len(values))
	for i, y := range values {
		ts[i] = Point(y)
	}

	return New(breakpoints, ts)
}

// Validate checks the structural invariants:
//   - at least two breakpoints,
//   - len(Values) == len(Breakpoints),
//   - every breakpoint and triple entry finite,
//   - breakpoints strictly increasing.
//
// Complexity: O(len(B)).
func (p PLF) Validate() error {
	n := len(p.Breakpoints)
	if n < 2 {
		return ErrTooFewBreakpoints
	}
	if len(p.Values) != n {
		return ErrLengthMismatch
	}
	for i := 0; i < n; i++ {
		if !finite(p.Breakpoints[i]) {
			return fmt.Errorf("breakpoint %d: %w", i, ErrNonFinite)
		}
		v := p.Values[i]
		if !finite(v.Left) || !finite(v.Mid) || !finite(v.Right) {
			return fmt.Errorf("value %d: %w", i, ErrNonFinite)
		}
		if i > 0 && p.Breakpoints[i] <= p.Breakpoints[i-1] {
			return fmt.Errorf("breakpoint %d (%g <= %g): %w",
				i, p.Breakpoints[i], p.Breakpoints[i-1], ErrNotIncreasing)
		}
	}

	return nil
}

// Domain returns the closed interval the function is defined on.
func (p PLF) Domain() (lo, hi float64) {
	return p.Breakpoints[0], p.Breakpoints[len(p.Breakpoints)-1]
}

// Len returns the number of breakpoints.
func (p PLF) Len() int { return len(p.Breakpoints) }

// Lower returns min(V[i]), the continuous lower-bound value at breakpoint i.
func (p PLF) Lower(i int) float64 { return p.Values[i].Min() }

// Clone returns a deep copy.
func (p PLF) Clone() PLF {
	b := make([]float64, len(p.Breakpoints))
	copy(b, p.Breakpoints)
	v := make([]Triple, len(p.Values))
	copy(v, p.Values)

	return PLF{Breakpoints: b, Values: v}
}

// Evaluate returns the function value at x. See the package-level Evaluate.
func (p PLF) Evaluate(x float64) (float64, error) {
	return Evaluate(p.Breakpoints, p.Values, x)
}

// LimitsAt returns the one-sided limits and the exact value at x.
// At a breakpoint this is the stored triple; strictly between breakpoints the
// function is continuous and all three equal the interpolated value.
func (p PLF) LimitsAt(x float64) (Triple, error) {
	pos, exact, err := locate(p.Breakpoints, x)
	if err != nil {
		return Triple{}, err
	}
	if exact {
		return p.Values[pos], nil
	}

	return Point(interpolate(p.Breakpoints, p.Values, pos, x)), nil
}

// Evaluate computes the value of the PLF (B, V) at x.
//
// The segment containing x is located by binary search over B. If x equals a
// breakpoint, V[i].Mid is returned exactly; otherwise the value is the linear
// interpolation between V[i-1].Right and V[i].Left.
//
// Inputs are assumed valid (see Validate); only the domain is checked.
//
// Errors: ErrDomain if x is outside [B[0], B[len(B)-1]] or NaN.
//
// Complexity: O(log len(B)).
func Evaluate(b []float64, v []Triple, x float64) (float64, error) {
	pos, exact, err := locate(b, x)
	if err != nil {
		return 0, err
	}
	if exact {
		return v[pos].Mid, nil
	}

	return interpolate(b, v, pos, x), nil
}

// locate returns the index i with B[i] == x (exact) or the index of the right
// neighbour of the open segment (B[i-1], B[i]) containing x.
func locate(b []float64, x float64) (int, bool, error) {
	n := len(b)
	if n == 0 || math.IsNaN(x) || x < b[0] || x > b[n-1] {
		return 0, false, fmt.Errorf("x=%g: %w", x, ErrDomain)
	}
	pos := sort.SearchFloat64s(b, x)
	if b[pos] == x {
		return pos, true, nil
	}

	return pos, false, nil
}

// interpolate evaluates the open segment ending at breakpoint pos (pos >= 1).
func interpolate(b []float64, v []Triple, pos int, x float64) float64 {
	x0, x1 := b[pos-1], b[pos]
	y0, y1 := v[pos-1].Right, v[pos].Left

	return y0 + (y1-y0)/(x1-x0)*(x-x0)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
