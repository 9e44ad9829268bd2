// SPDX-License-Identifier: MIT

package instance

import "math/rand"

// defaultSeed is used when callers pass seed == 0.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand.
// seed == 0 ⇒ defaultSeed; otherwise the seed is used verbatim.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream id (SplitMix64 finalizer), so
// that every dimension of an instance draws from its own stream and adding a
// dimension does not perturb the others.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// uniform draws from [lo, hi).
func uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
