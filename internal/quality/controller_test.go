package quality

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/digital-twin/internal/device"
	"github.com/banshee-data/digital-twin/internal/timeutil"
)

type transition struct{ from, to device.Tier }

func newTestController(tier device.Tier) (*Controller, *[]transition) {
	c := NewController(tier, NewPresetTable(FixedDisplay(1)), nil, DefaultControllerConfig())
	var seen []transition
	c.Subscribe(func(from, to device.Tier, s Settings) {
		seen = append(seen, transition{from, to})
	})
	return c, &seen
}

func TestController_DowngradeAfterLowStreak(t *testing.T) {
	t.Parallel()
	c, seen := newTestController(device.TierHigh)
	rate := 0.5 * c.Settings().TargetFrameRate

	for i := 0; i < 120; i++ {
		require.False(t, c.Step(rate), "tick %d should not transition", i+1)
	}
	assert.True(t, c.Step(rate), "tick 121 should downgrade")

	assert.Equal(t, device.TierMedium, c.Tier())
	assert.Equal(t, []transition{{device.TierHigh, device.TierMedium}}, *seen)
	assert.Equal(t, 0, c.State().LowStreak)
	assert.Equal(t, 1, c.State().Transitions)
}

func TestController_UpgradeAfterHighStreak(t *testing.T) {
	t.Parallel()
	c, seen := newTestController(device.TierLow)
	rate := 0.96 * c.Settings().TargetFrameRate

	for i := 0; i < 301; i++ {
		c.Step(rate)
	}

	assert.Equal(t, device.TierMedium, c.Tier())
	assert.Equal(t, []transition{{device.TierLow, device.TierMedium}}, *seen)
}

func TestController_DeadBandNeverTransitions(t *testing.T) {
	t.Parallel()
	for _, tier := range device.Tiers {
		c, seen := newTestController(tier)
		target := c.Settings().TargetFrameRate
		for i := 0; i < 5000; i++ {
			ratio := 0.71 + 0.23*float64(i%11)/10 // sweeps the dead band
			c.Step(ratio * target)
			c.Step(0.70 * target)
			c.Step(0.95 * target)
		}
		assert.Equal(t, tier, c.Tier())
		assert.Empty(t, *seen)
		assert.Zero(t, c.State().LowStreak)
		assert.Zero(t, c.State().HighStreak)
	}
}

func TestController_DeadBandResetsStreaks(t *testing.T) {
	t.Parallel()
	c, seen := newTestController(device.TierHigh)
	target := c.Settings().TargetFrameRate

	for round := 0; round < 10; round++ {
		for i := 0; i < 100; i++ {
			c.Step(0.5 * target)
		}
		c.Step(0.8 * target)
	}
	assert.Empty(t, *seen)

	// An upgrade-side reading also clears the low streak.
	for i := 0; i < 100; i++ {
		c.Step(0.5 * target)
	}
	c.Step(target)
	assert.Equal(t, 0, c.State().LowStreak)
	assert.Equal(t, 1, c.State().HighStreak)
}

func TestController_SaturatesAtBounds(t *testing.T) {
	t.Parallel()
	low, lowSeen := newTestController(device.TierLow)
	for i := 0; i < 500; i++ {
		low.Step(1)
	}
	assert.Equal(t, device.TierLow, low.Tier())
	assert.Empty(t, *lowSeen)

	high, highSeen := newTestController(device.TierHigh)
	for i := 0; i < 1000; i++ {
		high.Step(120)
	}
	assert.Equal(t, device.TierHigh, high.Tier())
	assert.Empty(t, *highSeen)
}

func TestController_OneTransitionPerTick(t *testing.T) {
	t.Parallel()
	// With a streak threshold of one, every second qualifying tick moves
	// exactly one level.
	c := NewController(device.TierHigh, NewPresetTable(nil), nil, ControllerConfig{DowngradeStreak: 1})
	c.Step(1)
	assert.Equal(t, device.TierHigh, c.Tier())
	c.Step(1)
	assert.Equal(t, device.TierMedium, c.Tier())
	c.Step(1)
	assert.Equal(t, device.TierMedium, c.Tier())
	c.Step(1)
	assert.Equal(t, device.TierLow, c.Tier())
}

func TestController_TickUsesMonitor(t *testing.T) {
	t.Parallel()
	clock := timeutil.NewMockClock(epoch)
	monitor := NewFrameRateMonitor(clock, 30)
	c := NewController(device.TierHigh, NewPresetTable(nil), monitor, DefaultControllerConfig())

	var changed []Settings
	c.Subscribe(func(_, _ device.Tier, s Settings) { changed = append(changed, s) })

	// 25 fps against a 60 fps target for long enough to downgrade once.
	for i := 0; i < 200; i++ {
		clock.Advance(40 * time.Millisecond)
		c.Tick()
	}

	require.Len(t, changed, 1)
	assert.Equal(t, device.TierMedium, changed[0].Tier)
	assert.Equal(t, 1024, changed[0].ShadowMapSize)

	clock.Advance(40 * time.Millisecond)
	settings, rate := c.Tick()
	assert.Equal(t, device.TierMedium, settings.Tier)
	assert.InDelta(t, 25.0, rate, 0.01)
}

func TestController_RepeatedTimestampKeepsDowngradeStreak(t *testing.T) {
	t.Parallel()
	clock := timeutil.NewMockClock(epoch)
	monitor := NewFrameRateMonitor(clock, 30)
	c := NewController(device.TierHigh, NewPresetTable(nil), monitor, DefaultControllerConfig())

	for i := 0; i < 100; i++ {
		clock.Advance(40 * time.Millisecond)
		c.Tick()
	}
	require.Equal(t, 100, c.State().LowStreak)

	// A second tick at the same instant must not read as a burst of speed.
	_, rate := c.Tick()
	assert.InDelta(t, 25.0, rate, 1e-9)
	assert.Equal(t, 101, c.State().LowStreak)
	assert.Zero(t, c.State().HighStreak)

	for i := 0; i < 20; i++ {
		clock.Advance(40 * time.Millisecond)
		c.Tick()
	}
	assert.Equal(t, device.TierMedium, c.Tier())
}

func TestController_TickAtUsesCallerTimestamp(t *testing.T) {
	t.Parallel()
	// The monitor's own clock never moves; only TickAt timestamps count.
	monitor := NewFrameRateMonitor(timeutil.NewMockClock(epoch), 10)
	c := NewController(device.TierMedium, nil, monitor, ControllerConfig{})

	var rate float64
	now := epoch
	for i := 0; i < 10; i++ {
		now = now.Add(20 * time.Millisecond)
		_, rate = c.TickAt(now)
	}
	assert.InDelta(t, 50.0, rate, 1e-9)
	assert.Equal(t, 10, monitor.Len())
}

func TestController_TickWithoutMonitor(t *testing.T) {
	t.Parallel()
	c := NewController(device.TierMedium, nil, nil, ControllerConfig{})
	s, rate := c.Tick()
	assert.Equal(t, device.TierMedium, s.Tier)
	assert.Zero(t, rate)
}
