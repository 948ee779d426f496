// Package testutil provides shared test utilities and fixtures.
//
// This package centralises numeric assertions used across the telemetry,
// sensor and quality test suites.
package testutil

import (
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta fails the test if got is further than delta from want.
func AssertInDelta(t testing.TB, name string, got, want, delta float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > delta {
		t.Errorf("%s = %v, want %v ±%v", name, got, want, delta)
	}
}

// AssertNonIncreasing fails the test if any element of seq is greater than
// its predecessor by more than tol.
func AssertNonIncreasing(t testing.TB, name string, seq []float64, tol float64) {
	t.Helper()
	for i := 1; i < len(seq); i++ {
		if seq[i] > seq[i-1]+tol {
			t.Errorf("%s increased at index %d: %v -> %v", name, i, seq[i-1], seq[i])
			return
		}
	}
}
