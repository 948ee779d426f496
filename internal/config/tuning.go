package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/banshee-data/digital-twin/internal/fsutil"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds every tunable of the telemetry and quality engine.
// All fields are optional; the Get* accessors supply defaults for anything
// omitted, so partial configs are safe.
type TuningConfig struct {
	// Filters
	AngleSmoothingAlpha  *float64 `json:"angle_smoothing_alpha,omitempty"`
	SensorSmoothingAlpha *float64 `json:"sensor_smoothing_alpha,omitempty"`
	OutlierDeltaDegrees  *float64 `json:"outlier_delta_degrees,omitempty"`
	RoundFilterState     *bool    `json:"round_filter_state,omitempty"`
	MaxFrameDelta        *string  `json:"max_frame_delta,omitempty"` // duration string like "250ms"

	// Adaptive quality
	FrameWindow     *int     `json:"frame_window,omitempty"`
	DowngradeRatio  *float64 `json:"downgrade_ratio,omitempty"`
	UpgradeRatio    *float64 `json:"upgrade_ratio,omitempty"`
	DowngradeStreak *int     `json:"downgrade_streak,omitempty"`
	UpgradeStreak   *int     `json:"upgrade_streak,omitempty"`
	TierOverride    *string  `json:"tier_override,omitempty"` // "", "low", "medium" or "high"

	// Alert thresholds
	LoadWarning      *float64 `json:"load_warning,omitempty"`
	LoadDanger       *float64 `json:"load_danger,omitempty"`
	SpeedWarning     *float64 `json:"speed_warning,omitempty"`
	SpeedDanger      *float64 `json:"speed_danger,omitempty"`
	CycleTimeWarning *float64 `json:"cycle_time_warning,omitempty"`
	CycleTimeDanger  *float64 `json:"cycle_time_danger,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field populated
// with the value its getter would fall back to.
func DefaultTuningConfig() *TuningConfig {
	empty := EmptyTuningConfig()
	return &TuningConfig{
		AngleSmoothingAlpha:  ptrFloat64(empty.GetAngleSmoothingAlpha()),
		SensorSmoothingAlpha: ptrFloat64(empty.GetSensorSmoothingAlpha()),
		OutlierDeltaDegrees:  ptrFloat64(empty.GetOutlierDeltaDegrees()),
		RoundFilterState:     ptrBool(empty.GetRoundFilterState()),
		MaxFrameDelta:        ptrString(empty.GetMaxFrameDelta().String()),
		FrameWindow:          ptrInt(empty.GetFrameWindow()),
		DowngradeRatio:       ptrFloat64(empty.GetDowngradeRatio()),
		UpgradeRatio:         ptrFloat64(empty.GetUpgradeRatio()),
		DowngradeStreak:      ptrInt(empty.GetDowngradeStreak()),
		UpgradeStreak:        ptrInt(empty.GetUpgradeStreak()),
		TierOverride:         ptrString(empty.GetTierOverride()),
		LoadWarning:          ptrFloat64(empty.GetLoadWarning()),
		LoadDanger:           ptrFloat64(empty.GetLoadDanger()),
		SpeedWarning:         ptrFloat64(empty.GetSpeedWarning()),
		SpeedDanger:          ptrFloat64(empty.GetSpeedDanger()),
		CycleTimeWarning:     ptrFloat64(empty.GetCycleTimeWarning()),
		CycleTimeDanger:      ptrFloat64(empty.GetCycleTimeDanger()),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file on fsys.
// The file must have a .json extension and be under 1MB.
func LoadTuningConfig(fsys fsutil.FileSystem, path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the set configuration values are valid.
func (c *TuningConfig) Validate() error {
	for name, alpha := range map[string]*float64{
		"angle_smoothing_alpha":  c.AngleSmoothingAlpha,
		"sensor_smoothing_alpha": c.SensorSmoothingAlpha,
	} {
		if alpha != nil && (*alpha <= 0 || *alpha > 1) {
			return fmt.Errorf("%s must be in (0, 1], got %f", name, *alpha)
		}
	}

	if c.OutlierDeltaDegrees != nil && *c.OutlierDeltaDegrees <= 0 {
		return fmt.Errorf("outlier_delta_degrees must be positive, got %f", *c.OutlierDeltaDegrees)
	}

	if c.MaxFrameDelta != nil && *c.MaxFrameDelta != "" {
		d, err := time.ParseDuration(*c.MaxFrameDelta)
		if err != nil {
			return fmt.Errorf("invalid max_frame_delta '%s': %w", *c.MaxFrameDelta, err)
		}
		if d <= 0 {
			return fmt.Errorf("max_frame_delta must be positive, got %s", d)
		}
	}

	if c.FrameWindow != nil && (*c.FrameWindow < 1 || *c.FrameWindow > 1000) {
		return fmt.Errorf("frame_window must be between 1 and 1000, got %d", *c.FrameWindow)
	}

	down, up := c.GetDowngradeRatio(), c.GetUpgradeRatio()
	if down <= 0 || up > 2 || down >= up {
		return fmt.Errorf("downgrade_ratio (%f) must be positive and below upgrade_ratio (%f)", down, up)
	}

	if c.DowngradeStreak != nil && *c.DowngradeStreak < 1 {
		return fmt.Errorf("downgrade_streak must be at least 1, got %d", *c.DowngradeStreak)
	}
	if c.UpgradeStreak != nil && *c.UpgradeStreak < 1 {
		return fmt.Errorf("upgrade_streak must be at least 1, got %d", *c.UpgradeStreak)
	}

	switch c.GetTierOverride() {
	case "", "low", "medium", "high":
	default:
		return fmt.Errorf("tier_override must be one of low, medium, high, got %q", c.GetTierOverride())
	}

	pairs := []struct {
		name            string
		warning, danger float64
	}{
		{"load", c.GetLoadWarning(), c.GetLoadDanger()},
		{"speed", c.GetSpeedWarning(), c.GetSpeedDanger()},
		{"cycle_time", c.GetCycleTimeWarning(), c.GetCycleTimeDanger()},
	}
	for _, p := range pairs {
		if p.warning >= p.danger {
			return fmt.Errorf("%s_warning (%g) must be below %s_danger (%g)", p.name, p.warning, p.name, p.danger)
		}
	}

	return nil
}

// GetAngleSmoothingAlpha returns the joint angle EMA factor or the default.
func (c *TuningConfig) GetAngleSmoothingAlpha() float64 {
	if c.AngleSmoothingAlpha == nil {
		return 0.15
	}
	return *c.AngleSmoothingAlpha
}

// GetSensorSmoothingAlpha returns the load/speed EMA factor or the default.
func (c *TuningConfig) GetSensorSmoothingAlpha() float64 {
	if c.SensorSmoothingAlpha == nil {
		return 0.10
	}
	return *c.SensorSmoothingAlpha
}

// GetOutlierDeltaDegrees returns the per-joint delta at which a reading is
// treated as an extraction glitch.
func (c *TuningConfig) GetOutlierDeltaDegrees() float64 {
	if c.OutlierDeltaDegrees == nil {
		return 30
	}
	return *c.OutlierDeltaDegrees
}

// GetRoundFilterState reports whether the angle filter state itself is
// rounded each tick instead of only its output.
func (c *TuningConfig) GetRoundFilterState() bool {
	if c.RoundFilterState == nil {
		return false
	}
	return *c.RoundFilterState
}

// GetMaxFrameDelta parses and returns MaxFrameDelta as a time.Duration.
func (c *TuningConfig) GetMaxFrameDelta() time.Duration {
	if c.MaxFrameDelta == nil || *c.MaxFrameDelta == "" {
		return 250 * time.Millisecond // default
	}
	d, err := time.ParseDuration(*c.MaxFrameDelta)
	if err != nil || d <= 0 {
		return 250 * time.Millisecond // default on parse error
	}
	return d
}

// GetFrameWindow returns the frame-rate sliding window size or the default.
func (c *TuningConfig) GetFrameWindow() int {
	if c.FrameWindow == nil {
		return 60
	}
	return *c.FrameWindow
}

// GetDowngradeRatio returns the fraction of target rate below which a tick counts toward a downgrade.
func (c *TuningConfig) GetDowngradeRatio() float64 {
	if c.DowngradeRatio == nil {
		return 0.70
	}
	return *c.DowngradeRatio
}

// GetUpgradeRatio returns the fraction of target rate above which a tick counts toward an upgrade.
func (c *TuningConfig) GetUpgradeRatio() float64 {
	if c.UpgradeRatio == nil {
		return 0.95
	}
	return *c.UpgradeRatio
}

// GetDowngradeStreak returns the consecutive-tick count a low streak must exceed.
func (c *TuningConfig) GetDowngradeStreak() int {
	if c.DowngradeStreak == nil {
		return 120
	}
	return *c.DowngradeStreak
}

// GetUpgradeStreak returns the consecutive-tick count a high streak must exceed.
func (c *TuningConfig) GetUpgradeStreak() int {
	if c.UpgradeStreak == nil {
		return 300
	}
	return *c.UpgradeStreak
}

// GetTierOverride returns the pinned initial tier name, or "" to classify.
func (c *TuningConfig) GetTierOverride() string {
	if c.TierOverride == nil {
		return ""
	}
	return *c.TierOverride
}

// GetLoadWarning returns the load warning threshold or the default.
func (c *TuningConfig) GetLoadWarning() float64 {
	if c.LoadWarning == nil {
		return 70
	}
	return *c.LoadWarning
}

// GetLoadDanger returns the load danger threshold or the default.
func (c *TuningConfig) GetLoadDanger() float64 {
	if c.LoadDanger == nil {
		return 85
	}
	return *c.LoadDanger
}

// GetSpeedWarning returns the speed warning threshold or the default.
func (c *TuningConfig) GetSpeedWarning() float64 {
	if c.SpeedWarning == nil {
		return 600
	}
	return *c.SpeedWarning
}

// GetSpeedDanger returns the speed danger threshold or the default.
func (c *TuningConfig) GetSpeedDanger() float64 {
	if c.SpeedDanger == nil {
		return 750
	}
	return *c.SpeedDanger
}

// GetCycleTimeWarning returns the cycle time warning threshold or the default.
func (c *TuningConfig) GetCycleTimeWarning() float64 {
	if c.CycleTimeWarning == nil {
		return 15
	}
	return *c.CycleTimeWarning
}

// GetCycleTimeDanger returns the cycle time danger threshold or the default.
func (c *TuningConfig) GetCycleTimeDanger() float64 {
	if c.CycleTimeDanger == nil {
		return 20
	}
	return *c.CycleTimeDanger
}
