package rng

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// Math is a Generator backed by a seeded math/rand source
// It is safe for concurrent use.
type Math struct {
	lock sync.Mutex
	seed int64
	rng  *rand.Rand
}

// NewMath returns a Generator seeded with seed
// A seed of 0 seeds from the current time.
func NewMath(seed int64) *Math {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Math{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a random number from 0 <= x < n
func (m *Math) Intn(n int) int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.rng.Intn(n)
}

// Seed returns the seed the generator was created with
func (m *Math) Seed() int64 {
	return m.seed
}

// FromName returns a generator by name
// Known names are "math" (or empty) and "crypto".
func FromName(name string) (Generator, error) {
	switch name {
	case "", "math":
		return NewMath(0), nil
	case "crypto":
		return Crypto{}, nil
	}

	return nil, fmt.Errorf("unknown random generator: %s", name)
}
