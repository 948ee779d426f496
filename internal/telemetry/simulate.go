package telemetry

import (
	"math"
	"time"
)

type channelWave struct {
	amplitude float64 // degrees
	frequency float64 // Hz
	phase     float64 // radians
	offset    float64 // degrees
}

// Distinct frequency, amplitude and phase per joint keep the simulated
// channels visibly decorrelated.
var simulatedWaves = [JointCount]channelWave{
	{amplitude: 45, frequency: 0.05, phase: 0.0, offset: 0},
	{amplitude: 30, frequency: 0.08, phase: 0.9, offset: -20},
	{amplitude: 40, frequency: 0.11, phase: 1.7, offset: 35},
	{amplitude: 25, frequency: 0.17, phase: 2.4, offset: 0},
	{amplitude: 60, frequency: 0.07, phase: 3.1, offset: 0},
	{amplitude: 15, frequency: 0.23, phase: 4.2, offset: 15},
}

// SimulatedAngle returns the fallback angle in degrees for channel i at elapsed.
func SimulatedAngle(i int, elapsed time.Duration) float64 {
	if i < 0 || i >= JointCount {
		return 0
	}
	w := simulatedWaves[i]
	t := elapsed.Seconds()
	return w.offset + w.amplitude*math.Sin(2*math.Pi*w.frequency*t+w.phase)
}

// SimulatedBound returns the largest absolute angle channel i can produce.
func SimulatedBound(i int) float64 {
	if i < 0 || i >= JointCount {
		return 0
	}
	w := simulatedWaves[i]
	return math.Abs(w.offset) + w.amplitude
}
