package testutil

import (
	"testing"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertInDelta(t *testing.T) {
	t.Parallel()
	AssertInDelta(t, "exact", 1.0, 1.0, 0)
	AssertInDelta(t, "within", 59.6, 60, 0.5)
}

func TestAssertNonIncreasing(t *testing.T) {
	t.Parallel()
	AssertNonIncreasing(t, "gap", []float64{10, 8.5, 8.5, 3, 0}, 0)
	AssertNonIncreasing(t, "tolerated", []float64{10, 10.0000001, 9}, 1e-6)
}
