package report

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/digital-twin/internal/fsutil"
)

// RenderPNG draws frame rate and load against frame index.
func (r *Recorder) RenderPNG(title string) ([]byte, error) {
	samples := r.Samples()
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	ratePts := make(plotter.XYs, len(samples))
	loadPts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		ratePts[i] = plotter.XY{X: float64(s.Frame), Y: s.FrameRate}
		loadPts[i] = plotter.XY{X: float64(s.Frame), Y: s.Load}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "fps / load %"

	for i, series := range []struct {
		name string
		pts  plotter.XYs
	}{
		{"frame rate", ratePts},
		{"load", loadPts},
	} {
		line, err := plotter.NewLine(series.pts)
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", series.name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(series.name, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	w, err := p.WriterTo(14*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("png canvas: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNG renders the chart and writes it to path on fsys.
func (r *Recorder) WritePNG(fsys fsutil.FileSystem, path, title string) error {
	img, err := r.RenderPNG(title)
	if err != nil {
		return err
	}
	if err := writeFile(fsys, path, img); err != nil {
		return err
	}
	logf("wrote chart %s (%d bytes)", path, len(img))
	return nil
}
