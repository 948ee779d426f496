package telemetry

import "math"

// EMA is an exponential moving average: v' = v + alpha*(x - v).
// The zero value has alpha 0 and never moves; use NewEMA.
type EMA struct {
	alpha      float64
	value      float64
	roundState bool
}

// NewEMA creates a filter seeded at initial.
func NewEMA(alpha, initial float64) EMA {
	return EMA{alpha: alpha, value: initial}
}

// NewRoundingEMA creates a filter whose state is rounded to a whole number
// after every update. Whole-number state is lossy: with small alpha the
// filter can stall a few units short of a constant input.
func NewRoundingEMA(alpha, initial float64) EMA {
	return EMA{alpha: alpha, value: initial, roundState: true}
}

// Update feeds x and returns the new state.
func (f *EMA) Update(x float64) float64 {
	f.value += f.alpha * (x - f.value)
	if f.roundState {
		f.value = math.Round(f.value)
	}
	return f.value
}

// Value returns the current state.
func (f *EMA) Value() float64 { return f.value }

// Reset reseeds the state.
func (f *EMA) Reset(v float64) { f.value = v }
