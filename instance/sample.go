// SPDX-License-Identifier: MIT

package instance

import (
	"fmt"
	"math"

	"github.com/katalvlaran/plfopt/plf"
)

// MinBreakpoints is the smallest K accepted by Sample.
const MinBreakpoints = 2

// SampleOptions tunes Sample.
//
//   - JumpEvery — every JumpEvery-th interior breakpoint becomes a
//     discontinuity; 0 ⇒ continuous.
//   - JumpSize  — the one-sided limits at a jump are y+JumpSize (left) and
//     y−JumpSize (right), the point value stays y.
type SampleOptions struct {
	JumpEvery int
	JumpSize  float64
}

// Sample discretizes fn on [fn.Lo, fn.Hi] with k uniformly spaced
// breakpoints. The last breakpoint is pinned to fn.Hi to avoid round-off.
//
// Errors: ErrBadConfig if k < MinBreakpoints or the options are negative;
// plf.ErrValidation if fn produces a non-finite value.
func Sample(fn Function, k int, opts SampleOptions) (plf.PLF, error) {
	if k < MinBreakpoints {
		return plf.PLF{}, fmt.Errorf("%d breakpoints: %w", k, ErrBadConfig)
	}
	if opts.JumpEvery < 0 || opts.JumpSize < 0 || math.IsNaN(opts.JumpSize) {
		return plf.PLF{}, fmt.Errorf("jump options %+v: %w", opts, ErrBadConfig)
	}

	var (
		b    = make([]float64, k)
		v    = make([]plf.Triple, k)
		step = (fn.Hi - fn.Lo) / float64(k-1)
		y    float64
	)
	for i := 0; i < k; i++ {
		b[i] = fn.Lo + float64(i)*step
		if i == k-1 {
			b[i] = fn.Hi
		}
		y = fn.F(b[i])
		v[i] = plf.Point(y)
		if opts.JumpEvery > 0 && i > 0 && i < k-1 && i%opts.JumpEvery == 0 {
			v[i] = plf.Triple{Left: y + opts.JumpSize, Mid: y, Right: y - opts.JumpSize}
		}
	}

	return plf.New(b, v)
}
