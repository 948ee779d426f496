package quality

import (
	"time"

	"github.com/banshee-data/digital-twin/internal/device"
	"github.com/banshee-data/digital-twin/internal/monitoring"
)

var logf = monitoring.Component("Quality")

// ControllerConfig holds the hysteresis parameters of a Controller.
type ControllerConfig struct {
	// DowngradeRatio and UpgradeRatio bound the dead band as fractions of
	// the current tier's target frame rate.
	DowngradeRatio float64
	UpgradeRatio   float64
	// A streak must exceed these tick counts before a transition fires.
	DowngradeStreak int
	UpgradeStreak   int
}

// DefaultControllerConfig returns production-default hysteresis parameters.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		DowngradeRatio:  0.70,
		UpgradeRatio:    0.95,
		DowngradeStreak: 120,
		UpgradeStreak:   300,
	}
}

// Observer is notified with the new settings after every tier change.
type Observer func(from, to device.Tier, settings Settings)

// ControllerState is a diagnostic snapshot of a Controller.
type ControllerState struct {
	Tier        device.Tier `json:"tier"`
	LowStreak   int         `json:"low_streak"`
	HighStreak  int         `json:"high_streak"`
	LastRate    float64     `json:"last_rate"`
	Transitions int         `json:"transitions"`
}

// Controller moves between tiers with a hysteresis dead band so that a
// frame rate hovering near a boundary does not cause oscillation.
type Controller struct {
	cfg      ControllerConfig
	presets  *PresetTable
	monitor  *FrameRateMonitor
	settings Settings

	lowStreak   int
	highStreak  int
	lastRate    float64
	transitions int

	observers []Observer
}

// NewController starts at tier. monitor may be nil when the caller drives
// the controller with Step directly.
func NewController(tier device.Tier, presets *PresetTable, monitor *FrameRateMonitor, cfg ControllerConfig) *Controller {
	if presets == nil {
		presets = NewPresetTable(nil)
	}
	def := DefaultControllerConfig()
	if cfg.DowngradeRatio <= 0 {
		cfg.DowngradeRatio = def.DowngradeRatio
	}
	if cfg.UpgradeRatio <= 0 {
		cfg.UpgradeRatio = def.UpgradeRatio
	}
	if cfg.DowngradeStreak <= 0 {
		cfg.DowngradeStreak = def.DowngradeStreak
	}
	if cfg.UpgradeStreak <= 0 {
		cfg.UpgradeStreak = def.UpgradeStreak
	}
	return &Controller{
		cfg:      cfg,
		presets:  presets,
		monitor:  monitor,
		settings: presets.Settings(tier),
	}
}

// Subscribe registers an observer for tier changes.
func (c *Controller) Subscribe(o Observer) {
	if o != nil {
		c.observers = append(c.observers, o)
	}
}

// Tick samples the monitor and advances the state machine. It returns the
// settings in force after this tick and the smoothed frame rate.
func (c *Controller) Tick() (Settings, float64) {
	if c.monitor == nil {
		return c.Settings(), c.lastRate
	}
	return c.advance(c.monitor.Tick())
}

// TickAt is Tick with a frame timestamp supplied by the caller.
func (c *Controller) TickAt(now time.Time) (Settings, float64) {
	if c.monitor == nil {
		return c.Settings(), c.lastRate
	}
	return c.advance(c.monitor.ObserveAt(now))
}

func (c *Controller) advance(rate float64) (Settings, float64) {
	c.Step(rate)
	return c.Settings(), rate
}

// Step advances the state machine with an already smoothed rate and
// reports whether the tier changed. At most one transition happens per
// call because the target is read before any transition.
func (c *Controller) Step(rate float64) bool {
	c.lastRate = rate
	target := c.settings.TargetFrameRate

	switch {
	case rate < c.cfg.DowngradeRatio*target:
		c.highStreak = 0
		c.lowStreak++
		if c.lowStreak > c.cfg.DowngradeStreak {
			return c.transition(c.settings.Tier.Down())
		}
	case rate > c.cfg.UpgradeRatio*target:
		c.lowStreak = 0
		c.highStreak++
		if c.highStreak > c.cfg.UpgradeStreak {
			return c.transition(c.settings.Tier.Up())
		}
	default:
		c.lowStreak = 0
		c.highStreak = 0
	}
	return false
}

// transition resets both streaks. Saturated moves (down from low, up from
// high) reset streaks but do not notify.
func (c *Controller) transition(to device.Tier) bool {
	c.lowStreak = 0
	c.highStreak = 0

	from := c.settings.Tier
	if to == from {
		return false
	}

	c.settings = c.presets.Settings(to)
	c.transitions++
	logf("tier %s -> %s at %.1f fps (target now %.0f)", from, to, c.lastRate, c.settings.TargetFrameRate)
	for _, o := range c.observers {
		o(from, to, c.settings)
	}
	return true
}

// Tier returns the current tier.
func (c *Controller) Tier() device.Tier { return c.settings.Tier }

// Settings returns the current tier's settings, re-resolved so pixel ratio
// tracks the live display.
func (c *Controller) Settings() Settings {
	return c.presets.Settings(c.settings.Tier)
}

// State returns a diagnostic snapshot.
func (c *Controller) State() ControllerState {
	return ControllerState{
		Tier:        c.settings.Tier,
		LowStreak:   c.lowStreak,
		HighStreak:  c.highStreak,
		LastRate:    c.lastRate,
		Transitions: c.transitions,
	}
}
