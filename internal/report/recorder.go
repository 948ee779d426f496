package report

import (
	"errors"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/digital-twin/internal/alerts"
	"github.com/banshee-data/digital-twin/internal/device"
	"github.com/banshee-data/digital-twin/internal/telemetry"
	"github.com/banshee-data/digital-twin/internal/twin"
)

// ErrNoSamples is returned when rendering a recorder that saw no frames.
var ErrNoSamples = errors.New("report: no samples recorded")

// Sample is one recorded frame.
type Sample struct {
	Frame     uint64
	FrameRate float64
	Tier      device.Tier
	Load      float64
	Speed     float64
	CycleTime float64
	Angles    telemetry.JointAngleSet
	Simulated bool
	Warnings  int
	Dangers   int
}

// Recorder accumulates samples from TickResults.
type Recorder struct {
	mu      sync.Mutex
	samples []Sample
}

// NewRecorder creates an empty recorder. capacity is a hint.
func NewRecorder(capacity int) *Recorder {
	if capacity < 0 {
		capacity = 0
	}
	return &Recorder{samples: make([]Sample, 0, capacity)}
}

// Record appends one frame.
func (r *Recorder) Record(res twin.TickResult) {
	s := Sample{
		Frame:     res.Frame,
		FrameRate: res.FrameRate,
		Tier:      res.Quality.Tier,
		Load:      res.Telemetry.Load,
		Speed:     res.Telemetry.Speed,
		CycleTime: res.Telemetry.CycleTime,
		Angles:    res.Angles,
		Simulated: res.Simulated,
	}
	for _, a := range res.Alerts.Alerts {
		if a.Severity == alerts.SeverityDanger {
			s.Dangers++
		} else {
			s.Warnings++
		}
	}

	r.mu.Lock()
	r.samples = append(r.samples, s)
	r.mu.Unlock()
}

// Samples returns a copy of everything recorded so far.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.samples...)
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Summary aggregates a run.
type Summary struct {
	Frames          int         `json:"frames"`
	MeanFrameRate   float64     `json:"mean_frame_rate"`
	StdDevFrameRate float64     `json:"stddev_frame_rate"`
	MinFrameRate    float64     `json:"min_frame_rate"`
	MeanLoad        float64     `json:"mean_load"`
	MaxLoad         float64     `json:"max_load"`
	MaxSpeed        float64     `json:"max_speed"`
	WarningAlerts   int         `json:"warning_alerts"`
	DangerAlerts    int         `json:"danger_alerts"`
	Transitions     int         `json:"transitions"`
	SimulatedFrames int         `json:"simulated_frames"`
	FinalTier       device.Tier `json:"final_tier"`
}

// Summary computes run statistics. An empty recorder yields a zero Summary.
func (r *Recorder) Summary() Summary {
	samples := r.Samples()
	if len(samples) == 0 {
		return Summary{}
	}

	rates := make([]float64, len(samples))
	loads := make([]float64, len(samples))
	speeds := make([]float64, len(samples))
	sum := Summary{Frames: len(samples), FinalTier: samples[len(samples)-1].Tier}
	for i, s := range samples {
		rates[i] = s.FrameRate
		loads[i] = s.Load
		speeds[i] = s.Speed
		sum.WarningAlerts += s.Warnings
		sum.DangerAlerts += s.Dangers
		if s.Simulated {
			sum.SimulatedFrames++
		}
		if i > 0 && s.Tier != samples[i-1].Tier {
			sum.Transitions++
		}
	}

	mean, std := stat.MeanStdDev(rates, nil)
	if len(rates) < 2 || math.IsNaN(std) {
		std = 0
	}
	sum.MeanFrameRate = mean
	sum.StdDevFrameRate = std
	sum.MinFrameRate = floats.Min(rates)
	sum.MeanLoad = stat.Mean(loads, nil)
	sum.MaxLoad = floats.Max(loads)
	sum.MaxSpeed = floats.Max(speeds)
	return sum
}
