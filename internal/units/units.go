// Package units provides angle conversion and the speed units used for
// synthesized sensor output.
package units

import "math"

// Speed unit constants. Synthesized speed is natively millimetres per second.
const (
	MMPS = "mmps"
	MPS  = "mps"
	MPM  = "mpm"
)

// ValidUnits contains all valid speed unit values.
var ValidUnits = []string{MMPS, MPS, MPM}

// IsValid checks if the given unit is in the list of valid units.
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages.
func GetValidUnitsString() string {
	return "mmps, mps, mpm"
}

// ConvertSpeed converts a speed from millimetres per second to the target units.
func ConvertSpeed(speedMMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPS:
		return speedMMPS / 1000
	case MPM:
		return speedMMPS * 60 / 1000
	default:
		return speedMMPS
	}
}

// Label returns a short axis label for a speed unit.
func Label(unit string) string {
	switch unit {
	case MPS:
		return "m/s"
	case MPM:
		return "m/min"
	default:
		return "mm/s"
	}
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
