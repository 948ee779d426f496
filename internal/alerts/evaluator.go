// Package alerts classifies derived sensor readings against static
// warning and danger thresholds.
package alerts

import (
	"fmt"

	"github.com/banshee-data/digital-twin/internal/sensor"
)

// Severity is the alert level.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Metric names.
const (
	MetricLoad      = "load"
	MetricSpeed     = "speed"
	MetricCycleTime = "cycle_time"
)

// Default thresholds.
const (
	DefaultLoadWarning      = 70.0
	DefaultLoadDanger       = 85.0
	DefaultSpeedWarning     = 600.0
	DefaultSpeedDanger      = 750.0
	DefaultCycleTimeWarning = 15.0
	DefaultCycleTimeDanger  = 20.0
)

// Threshold is a warning/danger pair for one metric. Danger must be
// above Warning.
type Threshold struct {
	Warning float64 `json:"warning"`
	Danger  float64 `json:"danger"`
}

// Thresholds configures every metric.
type Thresholds struct {
	Load      Threshold `json:"load"`
	Speed     Threshold `json:"speed"`
	CycleTime Threshold `json:"cycle_time"`
}

// DefaultThresholds returns the production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Load:      Threshold{Warning: DefaultLoadWarning, Danger: DefaultLoadDanger},
		Speed:     Threshold{Warning: DefaultSpeedWarning, Danger: DefaultSpeedDanger},
		CycleTime: Threshold{Warning: DefaultCycleTimeWarning, Danger: DefaultCycleTimeDanger},
	}
}

// Alert is one threshold crossing. Alerts are recomputed every evaluation.
type Alert struct {
	ID        string   `json:"id"`
	Severity  Severity `json:"severity"`
	Sensor    string   `json:"sensor"`
	Message   string   `json:"message"`
	Value     float64  `json:"value"`
	Threshold float64  `json:"threshold"`
}

// Result is the outcome of one evaluation.
type Result struct {
	Alerts     []Alert `json:"alerts"`
	HasWarning bool    `json:"has_warning"`
	HasDanger  bool    `json:"has_danger"`
}

var labels = map[string]string{
	MetricLoad:      "Load",
	MetricSpeed:     "Speed",
	MetricCycleTime: "Cycle time",
}

// Evaluate checks s against th. Each metric yields at most one alert:
// danger when value >= Danger, else warning when value >= Warning.
func Evaluate(s sensor.Sample, th Thresholds) Result {
	var res Result
	checks := []struct {
		metric string
		value  float64
		th     Threshold
	}{
		{MetricLoad, s.Load, th.Load},
		{MetricSpeed, s.Speed, th.Speed},
		{MetricCycleTime, s.CycleTime, th.CycleTime},
	}

	for _, c := range checks {
		a, ok := check(c.metric, c.value, c.th)
		if !ok {
			continue
		}
		switch a.Severity {
		case SeverityDanger:
			res.HasDanger = true
		case SeverityWarning:
			res.HasWarning = true
		}
		res.Alerts = append(res.Alerts, a)
	}
	return res
}

func check(metric string, value float64, th Threshold) (Alert, bool) {
	var sev Severity
	var limit float64
	switch {
	case value >= th.Danger:
		sev, limit = SeverityDanger, th.Danger
	case value >= th.Warning:
		sev, limit = SeverityWarning, th.Warning
	default:
		return Alert{}, false
	}

	return Alert{
		ID:        metric + "-" + string(sev),
		Severity:  sev,
		Sensor:    metric,
		Message:   fmt.Sprintf("%s %.1f at or above %s threshold %.1f", labels[metric], value, sev, limit),
		Value:     value,
		Threshold: limit,
	}, true
}
