package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedGenerator []int

func (f *fixedGenerator) Intn(n int) int {
	v := (*f)[0] % n
	*f = (*f)[1:]
	return v
}

func TestRandomName(t *testing.T) {
	gen := &fixedGenerator{0, 0, 1, 2}
	assert.Equal(t, "Fast Dog", RandomName(gen))
	assert.Equal(t, "Slow Mouse", RandomName(gen))
}
