package practice

import (
	"math/rand"
	"time"
)

// NewRand returns a generator seeded from the clock. Sessions own their generator, so it is
// only ever used under the session lock.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// shuffled returns a uniformly permuted copy of items
func shuffled[T any](r *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// sample picks n items without replacement
func sample[T any](r *rand.Rand, items []T, n int) []T {
	out := shuffled(r, items)
	if n < len(out) {
		out = out[:n]
	}
	return out
}
