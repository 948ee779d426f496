// Command twin-sim runs a headless digital-twin session against a
// synthetic frame-time profile and reports telemetry, alerts and
// quality-tier behaviour.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/banshee-data/digital-twin/internal/config"
	"github.com/banshee-data/digital-twin/internal/device"
	"github.com/banshee-data/digital-twin/internal/fsutil"
	"github.com/banshee-data/digital-twin/internal/monitoring"
	"github.com/banshee-data/digital-twin/internal/quality"
	"github.com/banshee-data/digital-twin/internal/report"
	"github.com/banshee-data/digital-twin/internal/timeutil"
	"github.com/banshee-data/digital-twin/internal/twin"
	"github.com/banshee-data/digital-twin/internal/units"
	"github.com/banshee-data/digital-twin/internal/version"
)

type options struct {
	configPath  string
	ticks       int
	profile     string
	skeleton    bool
	htmlPath    string
	pngPath     string
	renderer    string
	speedUnits  string
	metricsPath string
	showVersion bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("twin-sim", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "path to tuning JSON (defaults built in)")
	fs.IntVar(&o.ticks, "ticks", 600, "number of frames to simulate")
	fs.StringVar(&o.profile, "profile", "steady", "frame-time profile: steady, degrading or recovering")
	fs.BoolVar(&o.skeleton, "skeleton", false, "drive an animated skeleton instead of the fallback simulation")
	fs.StringVar(&o.htmlPath, "html", "", "write an HTML dashboard to this path")
	fs.StringVar(&o.pngPath, "png", "", "write a PNG chart to this path")
	fs.StringVar(&o.renderer, "renderer", "", "GPU renderer string to classify (empty probes nothing)")
	fs.StringVar(&o.metricsPath, "metrics", "", "write final Prometheus metrics in text format to this path")
	fs.StringVar(&o.speedUnits, "units", units.MMPS, "speed units for the summary: "+units.GetValidUnitsString())
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.ticks <= 0 {
		return o, fmt.Errorf("-ticks must be positive, got %d", o.ticks)
	}
	if !units.IsValid(o.speedUnits) {
		return o, fmt.Errorf("-units must be one of %s, got %q", units.GetValidUnitsString(), o.speedUnits)
	}
	return o, nil
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if o.showVersion {
		fmt.Println("twin-sim", version.String())
		return
	}
	if err := run(o, fsutil.OSFileSystem{}); err != nil {
		log.Fatal(err)
	}
}

func run(o options, fsys fsutil.FileSystem) error {
	prof, err := lookupProfile(o.profile)
	if err != nil {
		return err
	}

	cfg := config.DefaultTuningConfig()
	if o.configPath != "" {
		if cfg, err = config.LoadTuningConfig(fsys, o.configPath); err != nil {
			return err
		}
		monitoring.Logf("loaded tuning from %s", o.configPath)
	}

	var probe device.GPUProbe
	if o.renderer != "" {
		probe = device.StaticProbe(o.renderer)
	}

	reg := prometheus.NewRegistry()
	clock := timeutil.NewMockClock(time.Unix(0, 0).UTC())
	sess := twin.NewSession(twin.Options{
		Config:  cfg,
		Clock:   clock,
		Probe:   probe,
		Metrics: monitoring.NewMetrics(reg),
	})
	frame := 0
	sess.OnQualityChange(func(from, to device.Tier, s quality.Settings) {
		monitoring.Logf("frame %d: quality %s -> %s (%.0f fps target)", frame, from, to, s.TargetFrameRate)
	})

	rec := report.NewRecorder(o.ticks)
	cam := sceneCamera()
	anchors := sceneAnchors()
	for i := 0; i < o.ticks; i++ {
		frame = i + 1
		clock.Advance(prof(i, o.ticks))
		rec.Record(sess.Tick(frameContext(o.skeleton, sess.Elapsed(), cam, anchors)))
	}

	sum := rec.Summary()
	monitoring.Logf("session %s: %d frames, %.1f±%.1f fps (min %.1f), final tier %s after %d transitions",
		sess.ID(), sum.Frames, sum.MeanFrameRate, sum.StdDevFrameRate, sum.MinFrameRate, sum.FinalTier, sum.Transitions)
	monitoring.Logf("load mean %.1f%% max %.1f%%, speed max %.2f %s, alerts %d warning %d danger, %d simulated frames",
		sum.MeanLoad, sum.MaxLoad, units.ConvertSpeed(sum.MaxSpeed, o.speedUnits), units.Label(o.speedUnits),
		sum.WarningAlerts, sum.DangerAlerts, sum.SimulatedFrames)

	monitoring.Logf("simulated %s of wall time (%s animation time after clamping)", sess.Uptime(), sess.Elapsed())

	title := fmt.Sprintf("twin-sim %s (%d frames)", o.profile, sum.Frames)
	if o.htmlPath != "" {
		if err := rec.WriteHTML(fsys, o.htmlPath, title); err != nil {
			return err
		}
	}
	if o.pngPath != "" {
		if err := rec.WritePNG(fsys, o.pngPath, title); err != nil {
			return err
		}
	}
	if o.metricsPath != "" {
		if err := writeMetrics(fsys, o.metricsPath, reg); err != nil {
			return err
		}
	}
	return nil
}

func writeMetrics(fsys fsutil.FileSystem, path string, g prometheus.Gatherer) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := monitoring.WriteText(f, g); err != nil {
		f.Close()
		return fmt.Errorf("write metrics: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	monitoring.Logf("wrote metrics %s", path)
	return nil
}
