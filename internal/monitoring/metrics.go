package monitoring

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the per-session Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	FrameRate   prometheus.Gauge
	Tier        prometheus.Gauge
	Load        prometheus.Gauge
	Speed       prometheus.Gauge
	Transitions *prometheus.CounterVec
	Alerts      *prometheus.CounterVec
	FrameDelta  prometheus.Histogram
}

// NewMetrics registers the twin collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FrameRate: f.NewGauge(prometheus.GaugeOpts{
			Name: "twin_frame_rate_fps",
			Help: "Smoothed frame rate over the monitor window",
		}),
		Tier: f.NewGauge(prometheus.GaugeOpts{
			Name: "twin_quality_tier",
			Help: "Current quality tier (0=low, 1=medium, 2=high)",
		}),
		Load: f.NewGauge(prometheus.GaugeOpts{
			Name: "twin_sensor_load_percent",
			Help: "Smoothed synthesized load",
		}),
		Speed: f.NewGauge(prometheus.GaugeOpts{
			Name: "twin_sensor_speed_mmps",
			Help: "Smoothed synthesized speed in mm/s",
		}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "twin_quality_transitions_total",
			Help: "Quality tier changes by direction",
		}, []string{"direction"}),
		Alerts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "twin_alerts_total",
			Help: "Frames with an active alert, by sensor and severity",
		}, []string{"sensor", "severity"}),
		FrameDelta: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "twin_frame_delta_seconds",
			Help:    "Clamped time between ticks",
			Buckets: []float64{0.008, 0.0167, 0.025, 0.0333, 0.05, 0.1, 0.25},
		}),
	}
}

// ObserveFrame records one tick's gauges.
func (m *Metrics) ObserveFrame(rate float64, tier int, load, speed, deltaSec float64) {
	if m == nil {
		return
	}
	m.FrameRate.Set(rate)
	m.Tier.Set(float64(tier))
	m.Load.Set(load)
	m.Speed.Set(speed)
	m.FrameDelta.Observe(deltaSec)
}

// ObserveTransition counts a tier change. up is true for upgrades.
func (m *Metrics) ObserveTransition(up bool) {
	if m == nil {
		return
	}
	dir := "down"
	if up {
		dir = "up"
	}
	m.Transitions.WithLabelValues(dir).Inc()
}

// ObserveAlert counts an active alert for one frame.
func (m *Metrics) ObserveAlert(sensor, severity string) {
	if m == nil {
		return
	}
	m.Alerts.WithLabelValues(sensor, severity).Inc()
}

// WriteText gathers g and writes every metric family to w in the
// Prometheus text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
