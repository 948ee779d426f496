package quality

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/digital-twin/internal/device"
)

type liveDisplay struct{ ratio float64 }

func (d *liveDisplay) PixelRatio() float64 { return d.ratio }

func TestPresetTable_Settings(t *testing.T) {
	table := NewPresetTable(FixedDisplay(3))

	want := map[device.Tier]Settings{
		device.TierHigh: {
			Tier: device.TierHigh, PixelRatio: 2.0, ShadowMapSize: 2048,
			Antialias: true, Shadows: true, MaxLights: 4, TargetFrameRate: 60,
		},
		device.TierMedium: {
			Tier: device.TierMedium, PixelRatio: 1.5, ShadowMapSize: 1024,
			Antialias: true, Shadows: true, MaxLights: 2, TargetFrameRate: 60,
		},
		device.TierLow: {
			Tier: device.TierLow, PixelRatio: 1.0, ShadowMapSize: 512,
			Antialias: false, Shadows: false, MaxLights: 1, TargetFrameRate: 30,
		},
	}

	if diff := cmp.Diff(want, table.All()); diff != "" {
		t.Errorf("preset table mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetTable_PixelRatioTracksLiveDisplay(t *testing.T) {
	display := &liveDisplay{ratio: 1.25}
	table := NewPresetTable(display)

	if got := table.Settings(device.TierHigh).PixelRatio; got != 1.25 {
		t.Errorf("high pixel ratio = %v, want 1.25", got)
	}

	display.ratio = 2.5
	if got := table.Settings(device.TierHigh).PixelRatio; got != 2.0 {
		t.Errorf("high pixel ratio = %v, want capped 2.0", got)
	}
	if got := table.Settings(device.TierMedium).PixelRatio; got != 1.5 {
		t.Errorf("medium pixel ratio = %v, want capped 1.5", got)
	}

	display.ratio = 0.5
	if got := table.Settings(device.TierLow).PixelRatio; got != 1.0 {
		t.Errorf("low pixel ratio = %v, want fixed 1.0", got)
	}
}

func TestPresetTable_BadInputs(t *testing.T) {
	table := NewPresetTable(FixedDisplay(-1))
	if got := table.Settings(device.TierHigh).PixelRatio; got != 1 {
		t.Errorf("non-positive display ratio should resolve to 1, got %v", got)
	}

	got := NewPresetTable(nil).Settings(device.Tier(42))
	if got.Tier != device.TierLow {
		t.Errorf("unknown tier should resolve to low preset, got %v", got.Tier)
	}
}
