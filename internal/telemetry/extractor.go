package telemetry

import (
	"math"
	"time"

	"github.com/banshee-data/digital-twin/internal/monitoring"
	"github.com/banshee-data/digital-twin/internal/units"
)

var logf = monitoring.Component("Telemetry")

// DefaultAngleAlpha is the joint-angle smoothing factor.
const DefaultAngleAlpha = 0.15

// ExtractorConfig configures an Extractor.
type ExtractorConfig struct {
	Alpha float64
	// RoundState rounds the filter state itself each tick instead of only
	// the reported value.
	RoundState bool
}

// Source says where a channel's raw reading came from.
type Source int

const (
	SourceSkeleton Source = iota
	SourceSimulated
)

// Reading is one tick of joint telemetry.
type Reading struct {
	Raw      JointAngleSet
	Smoothed JointAngleSet
	Sources  [JointCount]Source
}

// Simulated reports whether every channel fell back to simulation.
func (r Reading) Simulated() bool {
	for _, s := range r.Sources {
		if s != SourceSimulated {
			return false
		}
	}
	return true
}

type inputMode int

const (
	modeUnknown inputMode = iota
	modeSkeleton
	modeSimulated
)

// Extractor converts bone input into smoothed joint angles. Filter state
// starts at zero on every channel and persists for the Extractor's life.
type Extractor struct {
	filters [JointCount]EMA
	mode    inputMode
}

// NewExtractor creates an Extractor with all channels seeded to zero.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	alpha := cfg.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAngleAlpha
	}
	e := &Extractor{}
	for i := range e.filters {
		if cfg.RoundState {
			e.filters[i] = NewRoundingEMA(alpha, 0)
		} else {
			e.filters[i] = NewEMA(alpha, 0)
		}
	}
	return e
}

// DominantAngle returns the Euler component with the greatest magnitude,
// converted to degrees with its sign kept.
func DominantAngle(j Joint) float64 {
	best := j.Euler.X
	if math.Abs(j.Euler.Y) > math.Abs(best) {
		best = j.Euler.Y
	}
	if math.Abs(j.Euler.Z) > math.Abs(best) {
		best = j.Euler.Z
	}
	return units.RadToDeg(best)
}

// Raw reads the unfiltered angles for this tick. Channels without a
// usable joint are simulated at elapsed.
func Raw(input BoneInput, elapsed time.Duration) (JointAngleSet, [JointCount]Source) {
	var raw JointAngleSet
	var sources [JointCount]Source

	switch in := input.(type) {
	case Skeleton:
		for i := range raw {
			if j, ok := in.JointAt(i); ok {
				raw[i] = DominantAngle(j)
				sources[i] = SourceSkeleton
				continue
			}
			raw[i] = SimulatedAngle(i, elapsed)
			sources[i] = SourceSimulated
		}
	default:
		for i := range raw {
			raw[i] = SimulatedAngle(i, elapsed)
			sources[i] = SourceSimulated
		}
	}
	return raw, sources
}

// Extract reads input, advances every channel's filter and returns the
// raw and smoothed angles. Smoothed values are rounded to whole degrees.
func (e *Extractor) Extract(input BoneInput, elapsed time.Duration) Reading {
	raw, sources := Raw(input, elapsed)

	r := Reading{Raw: raw, Sources: sources}
	for i := range e.filters {
		r.Smoothed[i] = math.Round(e.filters[i].Update(raw[i]))
	}

	e.noteMode(r.Simulated())
	return r
}

// Smoothed returns the current smoothed angles without advancing the filters.
func (e *Extractor) Smoothed() JointAngleSet {
	var out JointAngleSet
	for i := range e.filters {
		out[i] = math.Round(e.filters[i].Value())
	}
	return out
}

func (e *Extractor) noteMode(simulated bool) {
	next := modeSkeleton
	if simulated {
		next = modeSimulated
	}
	if next == e.mode {
		return
	}
	switch {
	case next == modeSimulated:
		logf("no skeleton joints available, simulating all channels")
	case e.mode == modeSimulated:
		logf("skeleton joints available, leaving simulation")
	}
	e.mode = next
}
