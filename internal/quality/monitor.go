package quality

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/digital-twin/internal/timeutil"
)

// DefaultFrameWindow is the number of samples averaged by a FrameRateMonitor.
const DefaultFrameWindow = 60

// minFrameDelta is the shortest frame time recorded. Shorter deltas, such
// as two ticks sharing a clock reading, are dropped rather than sampled.
const minFrameDelta = 100 * time.Microsecond

// FrameRateMonitor keeps a fixed-capacity FIFO window of instantaneous
// frame rates and reports their arithmetic mean.
type FrameRateMonitor struct {
	clock timeutil.Clock
	last  time.Time

	samples []float64 // ring storage, len == capacity
	head    int       // index of the oldest sample
	count   int
	mean    float64
}

// NewFrameRateMonitor creates a monitor whose first delta is measured from
// construction time. window <= 0 selects DefaultFrameWindow.
func NewFrameRateMonitor(clock timeutil.Clock, window int) *FrameRateMonitor {
	if window <= 0 {
		window = DefaultFrameWindow
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &FrameRateMonitor{
		clock:   clock,
		last:    clock.Now(),
		samples: make([]float64, window),
	}
}

// Tick measures the time since the previous recorded frame (or
// construction), records the instantaneous rate and returns the smoothed
// rate. Call exactly once per rendered frame.
func (m *FrameRateMonitor) Tick() float64 {
	return m.ObserveAt(m.clock.Now())
}

// ObserveAt is Tick with a clock reading taken by the caller, so one read
// can drive every consumer in a frame.
func (m *FrameRateMonitor) ObserveAt(now time.Time) float64 {
	dt := now.Sub(m.last)
	if dt < minFrameDelta {
		return m.mean
	}
	m.last = now
	return m.Observe(dt)
}

// Observe records a frame that took dt and returns the smoothed rate.
// Frames shorter than minFrameDelta leave the window untouched.
func (m *FrameRateMonitor) Observe(dt time.Duration) float64 {
	if dt < minFrameDelta {
		return m.mean
	}
	rate := 1000 / (float64(dt) / float64(time.Millisecond))

	capacity := len(m.samples)
	if m.count < capacity {
		m.samples[(m.head+m.count)%capacity] = rate
		m.count++
	} else {
		m.samples[m.head] = rate
		m.head = (m.head + 1) % capacity
	}

	m.mean = stat.Mean(m.window(), nil)
	return m.mean
}

// window returns the filled portion of the ring. Order is irrelevant to
// the mean, so the backing slice is returned without unrolling.
func (m *FrameRateMonitor) window() []float64 {
	if m.count < len(m.samples) {
		return m.samples[:m.count]
	}
	return m.samples
}

// Rate returns the most recently computed smoothed rate.
func (m *FrameRateMonitor) Rate() float64 { return m.mean }

// Len returns the number of samples currently in the window.
func (m *FrameRateMonitor) Len() int { return m.count }

// Capacity returns the window size.
func (m *FrameRateMonitor) Capacity() int { return len(m.samples) }

// Samples returns the window contents oldest first.
func (m *FrameRateMonitor) Samples() []float64 {
	out := make([]float64, m.count)
	for i := 0; i < m.count; i++ {
		out[i] = m.samples[(m.head+i)%len(m.samples)]
	}
	return out
}
