package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(99)
	b := New(99)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestPTrueBounds(t *testing.T) {
	e := New(1)
	assert.False(t, e.PTrue(0))
	assert.False(t, e.PTrue(-0.5))
	assert.True(t, e.PTrue(1))
	assert.True(t, e.PTrue(1.5))
}

func TestWeightedIndex(t *testing.T) {
	e := New(7)
	assert.Equal(t, -1, e.WeightedIndex(nil))
	assert.Equal(t, -1, e.WeightedIndex([]float64{0, 0}))

	// A single positive weight always wins.
	for i := 0; i < 20; i++ {
		assert.Equal(t, 1, e.WeightedIndex([]float64{0, 5, 0}))
	}
}
