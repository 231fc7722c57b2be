package rng

import (
	"crypto/rand"
	"math/big"
)

// Crypto is a Generator backed by crypto/rand
// It needs no seed and is safe for concurrent use.
type Crypto struct{}

// Intn returns a random number from 0 <= x < n
// It panics if n <= 0 or the system source fails.
func (Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}
