// Package rand provides the seedable random source that every drawing
// operation takes explicitly. There is no package-level generator: two
// runs with the same seed make the same draws.
package rand

import (
	"time"

	"github.com/MichaelTJones/pcg"
)

type Rand struct {
	r    *pcg.PCG32
	seed int64
}

// New returns a generator seeded with s.
func New(s int64) *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	r.Seed(s)
	return r
}

// NewFromClock returns a generator seeded from the wall clock; Seed()
// reports the value so the run can be replayed.
func NewFromClock() *Rand {
	return New(time.Now().UnixNano())
}

func (r *Rand) Seed(s int64) {
	r.seed = s
	r.r.Seed(uint64(s), 0xda3e39cb94b95bdb)
}

// SeedValue returns the seed the generator was last seeded with.
func (r *Rand) SeedValue() int64 {
	return r.seed
}

// Intn returns a uniform int in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

// IntRange returns a uniform int in [lo, hi], both ends included.
func (r *Rand) IntRange(lo, hi int) int {
	return lo + r.Intn(hi-lo+1)
}

// Float64 returns a uniform value in [0, 1) with 53 bits of precision.
func (r *Rand) Float64() float64 {
	v := uint64(r.r.Random())<<32 | uint64(r.r.Random())
	return float64(v>>11) / (1 << 53)
}

// Uniform returns a uniform value in [lo, hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

func (r *Rand) Bool() bool {
	return r.r.Random()&1 == 1
}

// SampleSlice uniformly randomly samples an element of a non-empty slice.
func SampleSlice[T any](r *Rand, slice []T) T {
	return slice[r.Intn(len(slice))]
}

// SampleTwo returns two distinct indices in [0, n), uniformly over ordered
// pairs. n must be at least 2.
func SampleTwo(r *Rand, n int) (int, int) {
	i := r.Intn(n)
	j := r.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}
