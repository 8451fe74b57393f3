package utils

import "math/rand"

// NewRand returns a seeded *rand.Rand for game mechanics.
//
//nolint:gosec // G404: math/rand is acceptable for game mechanics, not for cryptographic purposes
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomIntIn returns a random integer between min and max (inclusive)
// drawn from rng.
func RandomIntIn(rng *rand.Rand, min, max int) int {
	if min > max {
		return min
	}
	return rng.Intn(max-min+1) + min
}
