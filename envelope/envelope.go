// SPDX-License-Identifier: MIT

// Package envelope — lower-hull construction and interval restriction.
//
// Rationale (succinct):
//  1. The envelope of a PLF on a box edge is the lower convex hull of its
//     min-triple points, so one monotone stack pass suffices.
//  2. Restrict re-anchors a PLF on a sub-interval through the one-sided
//     limits at the new ends; the restricted PLF evaluates like the original
//     on [lo, hi] and its envelope is the node's bounding function.
//
// Complexity: Build O(n), Restrict O(log n + m) for m kept breakpoints,
// Evaluate O(log n).
package envelope

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/plfopt/plf"
)

// ErrInterval is returned by Restrict when [lo, hi] is empty, non-finite or
// not contained in the function's domain.
var ErrInterval = errors.New("envelope: invalid restriction interval")

// Envelope is a convex piecewise-linear function with scalar values.
// Breakpoints are strictly increasing; slopes are non-decreasing.
type Envelope struct {
	Breakpoints []float64
	Values      []float64
}

// Build computes the convex envelope of the PLF (B, V) with a left-to-right lower-hull scan.
// The inputs are validated first; see plf.PLF.Validate.
//
// Complexity: O(len(B)) time and memory.
func Build(b []float64, v []plf.Triple) (Envelope, error) {
	if err := (plf.PLF{Breakpoints: b, Values: v}).Validate(); err != nil {
		return Envelope{}, err
	}
	var (
		n    = len(b)
		low  = make([]float64, n)
		bOut = make([]float64, 0, n)
		vOut = make([]float64, 0, n)
		i, k int
	)
	for i = 0; i < n; i++ {
		low[i] = v[i].Min()
	}

	bOut = append(bOut, b[0])
	vOut = append(vOut, low[0])
	for i = 1; i < n; i++ {
		for {
			k = len(bOut)
			if k < 2 {
				break
			}
			if (low[i]-vOut[k-1])/(b[i]-bOut[k-1]) >= (vOut[k-1]-vOut[k-2])/(bOut[k-1]-bOut[k-2]) {
				break
			}
			bOut = bOut[:k-1]
			vOut = vOut[:k-1]
		}
		bOut = append(bOut, b[i])
		vOut = append(vOut, low[i])
	}

	return Envelope{Breakpoints: bOut, Values: vOut}, nil
}

// BuildPLF is Build on a PLF value.
func BuildPLF(p plf.PLF) (Envelope, error) { return Build(p.Breakpoints, p.Values) }

// Restrict returns p restricted to [lo, hi].
//
// Breakpoints strictly inside (lo, hi) are kept. A boundary breakpoint is
// inserted at lo with triple (Mid, Mid, Right) and one at hi with triple
// (Left, Mid, Mid), taken from p's limits at those points, so the restricted
// function evaluates exactly like p on [lo, hi] while limits that lie outside
// the interval no longer pull the envelope down.
//
// Errors: ErrInterval for lo >= hi, non-finite bounds or bounds outside p's
// domain; validation errors of p.
//
// Complexity: O(log n + m) where m is the number of kept breakpoints.
func Restrict(p plf.PLF, lo, hi float64) (plf.PLF, error) {
	if err := p.Validate(); err != nil {
		return plf.PLF{}, err
	}
	dlo, dhi := p.Domain()
	if math.IsNaN(lo) || math.IsNaN(hi) || lo >= hi || lo < dlo || hi > dhi {
		return plf.PLF{}, fmt.Errorf("[%g, %g] in [%g, %g]: %w", lo, hi, dlo, dhi, ErrInterval)
	}
	left, err := p.LimitsAt(lo)
	if err != nil {
		return plf.PLF{}, err
	}
	right, err := p.LimitsAt(hi)
	if err != nil {
		return plf.PLF{}, err
	}

	first := sort.Search(len(p.Breakpoints), func(i int) bool { return p.Breakpoints[i] > lo })
	last := sort.Search(len(p.Breakpoints), func(i int) bool { return p.Breakpoints[i] >= hi })

	b := make([]float64, 0, last-first+2)
	v := make([]plf.Triple, 0, last-first+2)
	b = append(b, lo)
	v = append(v, plf.Triple{Left: left.Mid, Mid: left.Mid, Right: left.Right})
	b = append(b, p.Breakpoints[first:last]...)
	v = append(v, p.Values[first:last]...)
	b = append(b, hi)
	v = append(v, plf.Triple{Left: right.Left, Mid: right.Mid, Right: right.Mid})

	return plf.PLF{Breakpoints: b, Values: v}, nil
}

// Over returns the convex envelope of p restricted to [lo, hi].
func Over(p plf.PLF, lo, hi float64) (Envelope, error) {
	r, err := Restrict(p, lo, hi)
	if err != nil {
		return Envelope{}, err
	}

	return BuildPLF(r)
}

// Len returns the number of envelope breakpoints.
func (e Envelope) Len() int { return len(e.Breakpoints) }

// Domain returns the interval spanned by the envelope.
func (e Envelope) Domain() (lo, hi float64) {
	return e.Breakpoints[0], e.Breakpoints[len(e.Breakpoints)-1]
}

// Evaluate returns the envelope value at x by linear interpolation.
// Errors: plf.ErrDomain outside the envelope's domain.
func (e Envelope) Evaluate(x float64) (float64, error) {
	n := len(e.Breakpoints)
	if n == 0 || math.IsNaN(x) || x < e.Breakpoints[0] || x > e.Breakpoints[n-1] {
		return 0, fmt.Errorf("x=%g: %w", x, plf.ErrDomain)
	}
	pos := sort.SearchFloat64s(e.Breakpoints, x)
	if e.Breakpoints[pos] == x {
		return e.Values[pos], nil
	}
	x0, x1 := e.Breakpoints[pos-1], e.Breakpoints[pos]
	y0, y1 := e.Values[pos-1], e.Values[pos]

	return y0 + (y1-y0)/(x1-x0)*(x-x0), nil
}

// ToPLF re-triples the scalar values into a continuous PLF usable with
// plf.Evaluate.
func (e Envelope) ToPLF() plf.PLF {
	b := make([]float64, len(e.Breakpoints))
	copy(b, e.Breakpoints)
	v := make([]plf.Triple, len(e.Values))
	for i, y := range e.Values {
		v[i] = plf.Point(y)
	}

	return plf.PLF{Breakpoints: b, Values: v}
}

// Slopes returns the len-1 segment slopes.
func (e Envelope) Slopes() []float64 {
	if len(e.Breakpoints) < 2 {
		return nil
	}
	s := make([]float64, len(e.Breakpoints)-1)
	for i := range s {
		s[i] = (e.Values[i+1] - e.Values[i]) / (e.Breakpoints[i+1] - e.Breakpoints[i])
	}

	return s
}

// IsConvex reports whether consecutive slopes are non-decreasing.
func (e Envelope) IsConvex() bool {
	s := e.Slopes()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return false
		}
	}

	return true
}

// Minimum returns the index and value of the smallest envelope value.
// Ties resolve to the leftmost breakpoint.
func (e Envelope) Minimum() (int, float64) {
	best := 0
	for i := 1; i < len(e.Values); i++ {
		if e.Values[i] < e.Values[best] {
			best = i
		}
	}

	return best, e.Values[best]
}
