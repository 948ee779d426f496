package report

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/digital-twin/internal/fsutil"
	"github.com/banshee-data/digital-twin/internal/monitoring"
	"github.com/banshee-data/digital-twin/internal/telemetry"
)

var logf = monitoring.Component("Report")

// RenderHTML renders the dashboard page: frame rate and tier, derived
// sensors, and smoothed joint angles.
func (r *Recorder) RenderHTML(title string) ([]byte, error) {
	samples := r.Samples()
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	frames := make([]uint64, len(samples))
	rate := make([]opts.LineData, len(samples))
	tier := make([]opts.LineData, len(samples))
	load := make([]opts.LineData, len(samples))
	speed := make([]opts.LineData, len(samples))
	angles := make([][]opts.LineData, telemetry.JointCount)
	for j := range angles {
		angles[j] = make([]opts.LineData, len(samples))
	}
	for i, s := range samples {
		frames[i] = s.Frame
		rate[i] = opts.LineData{Value: s.FrameRate}
		tier[i] = opts.LineData{Value: int(s.Tier)}
		load[i] = opts.LineData{Value: s.Load}
		speed[i] = opts.LineData{Value: s.Speed}
		for j, a := range s.Angles {
			angles[j][i] = opts.LineData{Value: a}
		}
	}

	perf := newLineChart("Frame rate", fmt.Sprintf("%d frames", len(samples)), "fps")
	perf.SetXAxis(frames).
		AddSeries("frame rate", rate).
		AddSeries("tier (0=low 2=high)", tier)

	sensors := newLineChart("Derived sensors", "load % and speed mm/s", "")
	sensors.SetXAxis(frames).
		AddSeries("load", load).
		AddSeries("speed", speed)

	joints := newLineChart("Joint angles", "smoothed, whole degrees", "deg")
	joints.SetXAxis(frames)
	for j, name := range telemetry.JointNames {
		joints.AddSeries(name, angles[j])
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(perf, sensors, joints)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}
	return buf.Bytes(), nil
}

func newLineChart(title, subtitle, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "5%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	return line
}

// WriteHTML renders the dashboard and writes it to path on fsys.
func (r *Recorder) WriteHTML(fsys fsutil.FileSystem, path, title string) error {
	html, err := r.RenderHTML(title)
	if err != nil {
		return err
	}
	if err := writeFile(fsys, path, html); err != nil {
		return err
	}
	logf("wrote dashboard %s (%d bytes)", path, len(html))
	return nil
}

func writeFile(fsys fsutil.FileSystem, path string, data []byte) error {
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
