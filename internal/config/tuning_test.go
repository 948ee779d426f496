package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/digital-twin/internal/fsutil"
	"github.com/banshee-data/digital-twin/internal/testutil"
)

func TestDefaultTuningConfig(t *testing.T) {
	cfg := DefaultTuningConfig()

	if cfg.AngleSmoothingAlpha == nil || *cfg.AngleSmoothingAlpha != 0.15 {
		t.Errorf("Expected AngleSmoothingAlpha 0.15, got %v", cfg.AngleSmoothingAlpha)
	}
	if cfg.SensorSmoothingAlpha == nil || *cfg.SensorSmoothingAlpha != 0.10 {
		t.Errorf("Expected SensorSmoothingAlpha 0.10, got %v", cfg.SensorSmoothingAlpha)
	}
	if cfg.MaxFrameDelta == nil || *cfg.MaxFrameDelta != "250ms" {
		t.Errorf("Expected MaxFrameDelta '250ms', got %v", cfg.MaxFrameDelta)
	}
	if cfg.GetDowngradeStreak() != 120 {
		t.Errorf("GetDowngradeStreak() = %d, want 120", cfg.GetDowngradeStreak())
	}
	if cfg.GetUpgradeStreak() != 300 {
		t.Errorf("GetUpgradeStreak() = %d, want 300", cfg.GetUpgradeStreak())
	}
	if cfg.GetLoadDanger() != 85 || cfg.GetLoadWarning() != 70 {
		t.Errorf("unexpected load thresholds %v/%v", cfg.GetLoadWarning(), cfg.GetLoadDanger())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefaultsFileMatchesGetters(t *testing.T) {
	path := filepath.Join("..", "..", DefaultConfigPath)
	cfg, err := LoadTuningConfig(fsutil.OSFileSystem{}, path)
	testutil.AssertNoError(t, err)

	if diff := cmp.Diff(DefaultTuningConfig(), cfg); diff != "" {
		t.Errorf("defaults file drifted from getters (-want +got):\n%s", diff)
	}
}

func TestLoadTuningConfig(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/etc/twin/tuning.json", []byte(`{
  "angle_smoothing_alpha": 0.3,
  "frame_window": 30,
  "tier_override": "low",
  "max_frame_delta": "100ms"
}`))

	cfg, err := LoadTuningConfig(mfs, "/etc/twin/tuning.json")
	testutil.AssertNoError(t, err)

	if cfg.GetAngleSmoothingAlpha() != 0.3 {
		t.Errorf("GetAngleSmoothingAlpha() = %v, want 0.3", cfg.GetAngleSmoothingAlpha())
	}
	if cfg.GetFrameWindow() != 30 {
		t.Errorf("GetFrameWindow() = %d, want 30", cfg.GetFrameWindow())
	}
	if cfg.GetTierOverride() != "low" {
		t.Errorf("GetTierOverride() = %q, want low", cfg.GetTierOverride())
	}
	if cfg.GetMaxFrameDelta() != 100*time.Millisecond {
		t.Errorf("GetMaxFrameDelta() = %v, want 100ms", cfg.GetMaxFrameDelta())
	}
	// Omitted fields keep their defaults.
	if cfg.GetSensorSmoothingAlpha() != 0.10 {
		t.Errorf("GetSensorSmoothingAlpha() = %v, want 0.10", cfg.GetSensorSmoothingAlpha())
	}
}

func TestLoadTuningConfig_Errors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/cfg/bad.json", []byte(`{not json`))
	mfs.WriteFile("/cfg/tuning.yaml", []byte(`frame_window: 3`))
	mfs.WriteFile("/cfg/invalid.json", []byte(`{"frame_window": 0}`))
	mfs.WriteFile("/cfg/huge.json", []byte("{"+strings.Repeat(" ", 1024*1024)+"}"))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", "/cfg/tuning.yaml", "extension"},
		{"missing file", "/cfg/missing.json", "stat"},
		{"malformed json", "/cfg/bad.json", "parse"},
		{"invalid values", "/cfg/invalid.json", "frame_window"},
		{"too large", "/cfg/huge.json", "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTuningConfig(mfs, tt.path)
			testutil.AssertError(t, err)
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   TuningConfig
		valid bool
	}{
		{"empty", TuningConfig{}, true},
		{"alpha zero", TuningConfig{AngleSmoothingAlpha: ptrFloat64(0)}, false},
		{"alpha one", TuningConfig{SensorSmoothingAlpha: ptrFloat64(1)}, true},
		{"alpha above one", TuningConfig{SensorSmoothingAlpha: ptrFloat64(1.2)}, false},
		{"negative outlier", TuningConfig{OutlierDeltaDegrees: ptrFloat64(-1)}, false},
		{"bad duration", TuningConfig{MaxFrameDelta: ptrString("soon")}, false},
		{"negative duration", TuningConfig{MaxFrameDelta: ptrString("-5ms")}, false},
		{"window too big", TuningConfig{FrameWindow: ptrInt(5000)}, false},
		{"ratios inverted", TuningConfig{DowngradeRatio: ptrFloat64(0.96)}, false},
		{"zero streak", TuningConfig{UpgradeStreak: ptrInt(0)}, false},
		{"unknown tier", TuningConfig{TierOverride: ptrString("ultra")}, false},
		{"known tier", TuningConfig{TierOverride: ptrString("medium")}, true},
		{"warning above danger", TuningConfig{LoadWarning: ptrFloat64(90)}, false},
		{"cycle warning at danger", TuningConfig{CycleTimeWarning: ptrFloat64(20)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetMaxFrameDelta_FallsBackOnGarbage(t *testing.T) {
	cfg := &TuningConfig{MaxFrameDelta: ptrString("garbage")}
	if cfg.GetMaxFrameDelta() != 250*time.Millisecond {
		t.Errorf("GetMaxFrameDelta() = %v, want 250ms", cfg.GetMaxFrameDelta())
	}
}
