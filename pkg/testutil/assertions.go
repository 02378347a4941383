package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertDistribution checks that probs is a probability distribution.
func AssertDistribution(t *testing.T, probs []float64) {
	t.Helper()

	var sum float64
	for i, p := range probs {
		assert.GreaterOrEqual(t, p, 0.0, "probability %d", i)
		assert.LessOrEqual(t, p, 1.0, "probability %d", i)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
