// Package twin wires the telemetry and quality components into a scene
// session driven once per rendered frame.
package twin

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/digital-twin/internal/alerts"
	"github.com/banshee-data/digital-twin/internal/config"
	"github.com/banshee-data/digital-twin/internal/device"
	"github.com/banshee-data/digital-twin/internal/monitoring"
	"github.com/banshee-data/digital-twin/internal/projection"
	"github.com/banshee-data/digital-twin/internal/quality"
	"github.com/banshee-data/digital-twin/internal/sensor"
	"github.com/banshee-data/digital-twin/internal/telemetry"
	"github.com/banshee-data/digital-twin/internal/timeutil"
)

var logf = monitoring.Component("Twin")

// FrameContext is what the scene layer hands the core each frame.
type FrameContext struct {
	Bones    telemetry.BoneInput
	Camera   projection.Camera
	Viewport projection.Viewport

	// Anchors are the fixed label positions, one per tracked joint.
	Anchors []r2.Vec
}

// TickResult is everything the presentation layer needs for one frame.
type TickResult struct {
	Frame      uint64                      `json:"frame"`
	Telemetry  sensor.Sample               `json:"telemetry"`
	Angles     telemetry.JointAngleSet     `json:"angles"`
	RawAngles  telemetry.JointAngleSet     `json:"raw_angles"`
	Simulated  bool                        `json:"simulated"`
	Alerts     alerts.Result               `json:"alerts"`
	Quality    quality.Settings            `json:"quality"`
	FrameRate  float64                     `json:"frame_rate"`
	Projected  []projection.ProjectedJoint `json:"projected"`
	TierChange bool                        `json:"tier_change"`
}

// Options supplies the session's collaborators. Zero values select
// production defaults.
type Options struct {
	Config  *config.TuningConfig
	Clock   timeutil.Clock
	Display quality.Display
	Signals *device.Signals // nil reads HostSignals
	Probe   device.GPUProbe
	Metrics *monitoring.Metrics

	// Fallback overrides the projector's fallback world positions.
	Fallback []r3.Vec
}

// Session owns all per-scene state. It is driven by a single render loop
// and is not safe for concurrent use.
type Session struct {
	id      string
	clock   timeutil.Clock
	started time.Time
	last    time.Time
	signals device.Signals
	probe   device.GPUProbe
	metrics *monitoring.Metrics

	maxDelta time.Duration
	elapsed  time.Duration
	frame    uint64

	presets    *quality.PresetTable
	controller *quality.Controller
	extractor  *telemetry.Extractor
	synth      *sensor.Synthesizer
	projector  *projection.Projector
	thresholds alerts.Thresholds
}

// NewSession classifies the device (unless the config pins a tier) and
// seeds every filter.
func NewSession(opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	s := &Session{
		id:       uuid.NewString(),
		clock:    clock,
		maxDelta: cfg.GetMaxFrameDelta(),
		presets:  quality.NewPresetTable(opts.Display),
		extractor: telemetry.NewExtractor(telemetry.ExtractorConfig{
			Alpha:      cfg.GetAngleSmoothingAlpha(),
			RoundState: cfg.GetRoundFilterState(),
		}),
		synth: sensor.NewSynthesizer(sensor.Config{
			Alpha:        cfg.GetSensorSmoothingAlpha(),
			OutlierDelta: cfg.GetOutlierDeltaDegrees(),
		}),
		projector:  projection.NewProjector(opts.Fallback),
		thresholds: ThresholdsFromConfig(cfg),
		probe:      opts.Probe,
		metrics:    opts.Metrics,
	}
	if opts.Signals != nil {
		s.signals = *opts.Signals
	} else {
		s.signals = device.HostSignals()
	}

	tier := s.initialTier(cfg)
	monitor := quality.NewFrameRateMonitor(clock, cfg.GetFrameWindow())
	s.controller = quality.NewController(tier, s.presets, monitor, quality.ControllerConfig{
		DowngradeRatio:  cfg.GetDowngradeRatio(),
		UpgradeRatio:    cfg.GetUpgradeRatio(),
		DowngradeStreak: cfg.GetDowngradeStreak(),
		UpgradeStreak:   cfg.GetUpgradeStreak(),
	})

	if s.metrics != nil {
		s.controller.Subscribe(func(from, to device.Tier, _ quality.Settings) {
			s.metrics.ObserveTransition(to > from)
		})
	}

	s.started = clock.Now()
	s.last = s.started
	logf("session %s started at tier %s", s.id, tier)
	return s
}

func (s *Session) initialTier(cfg *config.TuningConfig) device.Tier {
	if name := cfg.GetTierOverride(); name != "" {
		var t device.Tier
		if err := t.UnmarshalText([]byte(name)); err == nil {
			logf("session %s tier pinned to %s by config", s.id, t)
			return t
		}
		logf("session %s ignoring tier override %q", s.id, name)
	}
	return s.ClassifyDevice()
}

// ClassifyDevice runs the capability classifier against the session's
// host signals and GPU probe. It does not change the current tier.
func (s *Session) ClassifyDevice() device.Tier {
	return device.ClassifyDevice(s.signals, s.probe)
}

// ThresholdsFromConfig builds alert thresholds from cfg.
func ThresholdsFromConfig(cfg *config.TuningConfig) alerts.Thresholds {
	return alerts.Thresholds{
		Load:      alerts.Threshold{Warning: cfg.GetLoadWarning(), Danger: cfg.GetLoadDanger()},
		Speed:     alerts.Threshold{Warning: cfg.GetSpeedWarning(), Danger: cfg.GetSpeedDanger()},
		CycleTime: alerts.Threshold{Warning: cfg.GetCycleTimeWarning(), Danger: cfg.GetCycleTimeDanger()},
	}
}

// Tick runs one frame: extract angles, synthesize sensors, evaluate
// alerts, sample frame rate and adapt quality, then project joints. The
// clock is read once and that reading drives every timed component.
func (s *Session) Tick(fc FrameContext) TickResult {
	now := s.clock.Now()
	dt := now.Sub(s.last)
	s.last = now
	if dt > s.maxDelta {
		dt = s.maxDelta
	}
	if dt > 0 {
		s.elapsed += dt
	}
	s.frame++

	reading := s.extractor.Extract(fc.Bones, s.elapsed)
	sample := s.synth.Update(reading.Smoothed)
	alertRes := alerts.Evaluate(sample, s.thresholds)

	before := s.controller.Tier()
	settings, rate := s.controller.TickAt(now)

	s.metrics.ObserveFrame(rate, int(settings.Tier), sample.Load, sample.Speed, dt.Seconds())
	for _, a := range alertRes.Alerts {
		s.metrics.ObserveAlert(a.Sensor, string(a.Severity))
	}

	return TickResult{
		Frame:      s.frame,
		Telemetry:  sample,
		Angles:     reading.Smoothed,
		RawAngles:  reading.Raw,
		Simulated:  reading.Simulated(),
		Alerts:     alertRes,
		Quality:    settings,
		FrameRate:  rate,
		Projected:  s.projector.Project(jointPositions(fc.Bones), fc.Anchors, fc.Camera, fc.Viewport),
		TierChange: settings.Tier != before,
	}
}

func jointPositions(in telemetry.BoneInput) []projection.JointPosition {
	out := make([]projection.JointPosition, telemetry.JointCount)
	skel, ok := in.(telemetry.Skeleton)
	if !ok {
		return out
	}
	for i := range out {
		if i < len(skel.Joints) && skel.Joints[i].Valid && finiteVec(skel.Joints[i].World) {
			out[i] = projection.JointPosition{World: skel.Joints[i].World, Valid: true}
		}
	}
	return out
}

func finiteVec(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// OnQualityChange registers an observer for tier transitions.
func (s *Session) OnQualityChange(o quality.Observer) {
	s.controller.Subscribe(o)
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Tier returns the current tier.
func (s *Session) Tier() device.Tier { return s.controller.Tier() }

// Quality returns the current settings.
func (s *Session) Quality() quality.Settings { return s.controller.Settings() }

// ControllerState returns the adaptive controller's diagnostic snapshot.
func (s *Session) ControllerState() quality.ControllerState { return s.controller.State() }

// Presets returns every tier's settings as seen by this session's display.
func (s *Session) Presets() map[device.Tier]quality.Settings { return s.presets.All() }

// Uptime returns clock time since the session started, unclamped.
func (s *Session) Uptime() time.Duration { return s.clock.Since(s.started) }

// Elapsed returns the clamped animation time accumulated so far.
func (s *Session) Elapsed() time.Duration { return s.elapsed }
