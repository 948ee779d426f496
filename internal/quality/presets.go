package quality

import (
	"math"

	"github.com/banshee-data/digital-twin/internal/device"
)

// Settings is the rendering configuration for one tier.
type Settings struct {
	Tier            device.Tier `json:"tier"`
	PixelRatio      float64     `json:"pixel_ratio"`
	ShadowMapSize   int         `json:"shadow_map_size"`
	Antialias       bool        `json:"antialias"`
	Shadows         bool        `json:"shadows"`
	MaxLights       int         `json:"max_lights"`
	TargetFrameRate float64     `json:"target_frame_rate"`
}

// Display reports the live device pixel ratio. It may change during a
// session, e.g. when a window moves between monitors.
type Display interface {
	PixelRatio() float64
}

// FixedDisplay is a Display with a constant pixel ratio.
type FixedDisplay float64

// PixelRatio returns the fixed ratio.
func (d FixedDisplay) PixelRatio() float64 { return float64(d) }

type preset struct {
	pixelRatioCap   float64
	fixedPixelRatio bool
	shadowMapSize   int
	antialias       bool
	shadows         bool
	maxLights       int
	targetFrameRate float64
}

var presets = map[device.Tier]preset{
	device.TierHigh: {
		pixelRatioCap:   2.0,
		shadowMapSize:   2048,
		antialias:       true,
		shadows:         true,
		maxLights:       4,
		targetFrameRate: 60,
	},
	device.TierMedium: {
		pixelRatioCap:   1.5,
		shadowMapSize:   1024,
		antialias:       true,
		shadows:         true,
		maxLights:       2,
		targetFrameRate: 60,
	},
	device.TierLow: {
		pixelRatioCap:   1.0,
		fixedPixelRatio: true,
		shadowMapSize:   512,
		antialias:       false,
		shadows:         false,
		maxLights:       1,
		targetFrameRate: 30,
	},
}

// PresetTable resolves Settings for a tier. Pixel ratio is read from the
// display on every lookup; everything else is static per tier.
type PresetTable struct {
	display Display
}

// NewPresetTable creates a table backed by display. A nil display behaves
// as a 1.0 ratio screen.
func NewPresetTable(display Display) *PresetTable {
	if display == nil {
		display = FixedDisplay(1)
	}
	return &PresetTable{display: display}
}

// Settings returns the settings for tier. Out-of-range tiers resolve to
// the low preset so callers never see ad-hoc values.
func (p *PresetTable) Settings(tier device.Tier) Settings {
	pr, ok := presets[tier]
	if !ok {
		tier = device.TierLow
		pr = presets[tier]
	}

	ratio := pr.pixelRatioCap
	if !pr.fixedPixelRatio {
		live := p.display.PixelRatio()
		if math.IsNaN(live) || live <= 0 {
			live = 1
		}
		ratio = math.Min(live, pr.pixelRatioCap)
	}

	return Settings{
		Tier:            tier,
		PixelRatio:      ratio,
		ShadowMapSize:   pr.shadowMapSize,
		Antialias:       pr.antialias,
		Shadows:         pr.shadows,
		MaxLights:       pr.maxLights,
		TargetFrameRate: pr.targetFrameRate,
	}
}

// All returns the resolved settings for every tier.
func (p *PresetTable) All() map[device.Tier]Settings {
	out := make(map[device.Tier]Settings, len(device.Tiers))
	for _, t := range device.Tiers {
		out[t] = p.Settings(t)
	}
	return out
}
