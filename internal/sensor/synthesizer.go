// Package sensor derives synthetic load, speed and cycle-time readings
// from joint angular motion.
package sensor

import (
	"math"

	"github.com/banshee-data/digital-twin/internal/telemetry"
)

// Derived sensor constants.
const (
	DefaultAlpha        = 0.10
	DefaultOutlierDelta = 30.0 // degrees

	IdleLoad     = 20.0
	MaxLoad      = 80.0
	LoadPerDeg   = 3.0
	IdleSpeed    = 100.0
	MaxSpeed     = 800.0
	SpeedPerDeg  = 50.0
	CycleTimeSec = 12.0
)

// Sample is one derived sensor reading.
type Sample struct {
	Load      float64 `json:"load"`       // percent, 0-100
	Speed     float64 `json:"speed"`      // mm/s
	CycleTime float64 `json:"cycle_time"` // seconds
}

// IdleSample is the reading of a motionless model, and the seed for
// smoothed state.
var IdleSample = Sample{Load: IdleLoad, Speed: IdleSpeed, CycleTime: CycleTimeSec}

// Config configures a Synthesizer.
type Config struct {
	Alpha        float64
	OutlierDelta float64
}

// Synthesizer turns successive smoothed angle sets into smoothed sensor
// samples. It keeps one step of angle memory.
type Synthesizer struct {
	outlier  float64
	load     telemetry.EMA
	speed    telemetry.EMA
	prev     telemetry.JointAngleSet
	last     Sample
	activity float64
}

// NewSynthesizer creates a Synthesizer seeded at IdleSample with a zero
// previous angle set.
func NewSynthesizer(cfg Config) *Synthesizer {
	alpha := cfg.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	outlier := cfg.OutlierDelta
	if outlier <= 0 {
		outlier = DefaultOutlierDelta
	}
	return &Synthesizer{
		outlier: outlier,
		load:    telemetry.NewEMA(alpha, IdleLoad),
		speed:   telemetry.NewEMA(alpha, IdleSpeed),
		last:    IdleSample,
	}
}

// Activity sums the absolute per-joint deltas between cur and prev,
// skipping any delta at or above outlier as an extraction glitch.
func Activity(cur, prev telemetry.JointAngleSet, outlier float64) float64 {
	var sum float64
	for i := range cur {
		d := math.Abs(cur[i] - prev[i])
		if math.IsNaN(d) || d >= outlier {
			continue
		}
		sum += d
	}
	return sum
}

// RawSample maps an activity value to an unsmoothed reading.
func RawSample(activity float64) Sample {
	return Sample{
		Load:      math.Min(MaxLoad, IdleLoad+activity*LoadPerDeg),
		Speed:     math.Min(MaxSpeed, IdleSpeed+activity*SpeedPerDeg),
		CycleTime: CycleTimeSec,
	}
}

// Update consumes this tick's smoothed angles and returns the smoothed sample.
func (s *Synthesizer) Update(angles telemetry.JointAngleSet) Sample {
	s.activity = Activity(angles, s.prev, s.outlier)
	raw := RawSample(s.activity)

	s.last = Sample{
		Load:      s.load.Update(raw.Load),
		Speed:     s.speed.Update(raw.Speed),
		CycleTime: raw.CycleTime,
	}
	s.prev = angles
	return s.last
}

// Last returns the most recent smoothed sample.
func (s *Synthesizer) Last() Sample { return s.last }

// LastActivity returns the activity computed on the most recent Update.
func (s *Synthesizer) LastActivity() float64 { return s.activity }
