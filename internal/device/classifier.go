package device

import (
	"errors"
	"strings"

	"github.com/banshee-data/digital-twin/internal/monitoring"
)

var logf = monitoring.Component("Device")

// ErrNoRenderer is returned by probes that cannot create a rendering context.
var ErrNoRenderer = errors.New("rendering context unavailable")

// GPUClass is the coarse class inferred from a renderer string.
type GPUClass int

const (
	GPUClassLow GPUClass = iota
	GPUClassMedium
	GPUClassHigh
)

func (c GPUClass) String() string {
	switch c {
	case GPUClassLow:
		return "low"
	case GPUClassHigh:
		return "high"
	default:
		return "medium"
	}
}

// GPUProbe reports the unmasked renderer string of a throwaway rendering context.
type GPUProbe interface {
	Renderer() (string, error)
}

// GPUProbeFunc adapts a function to GPUProbe.
type GPUProbeFunc func() (string, error)

// Renderer calls f.
func (f GPUProbeFunc) Renderer() (string, error) { return f() }

// StaticProbe always reports the same renderer string.
type StaticProbe string

// Renderer returns the static renderer string.
func (p StaticProbe) Renderer() (string, error) { return string(p), nil }

// Signals are the hardware hints available at session start.
// Zero CPUCores or MemoryGB means the value is unknown.
type Signals struct {
	CPUCores int
	MemoryGB float64
	Mobile   bool
}

// Unknown signals fall back to these values.
const (
	DefaultCPUCores = 4
	DefaultMemoryGB = 4
)

var softwareRenderers = []string{"swiftshader", "llvmpipe", "softpipe", "software", "microsoft basic"}

var discreteRenderers = []string{"nvidia", "geforce", "rtx", "quadro", "radeon rx", "radeon pro", "apple m"}

// ClassifyRenderer maps a renderer string to a GPUClass. Matching is
// case-insensitive; software rasterisers win over discrete keywords.
func ClassifyRenderer(renderer string) GPUClass {
	r := strings.ToLower(renderer)
	if strings.TrimSpace(r) == "" {
		return GPUClassMedium
	}
	for _, k := range softwareRenderers {
		if strings.Contains(r, k) {
			return GPUClassLow
		}
	}
	for _, k := range discreteRenderers {
		if strings.Contains(r, k) {
			return GPUClassHigh
		}
	}
	return GPUClassMedium
}

// ProbeGPU runs probe and classifies its renderer. A nil probe, a probe
// error or a panic inside the probe all degrade to GPUClassMedium.
func ProbeGPU(probe GPUProbe) (class GPUClass) {
	if probe == nil {
		return GPUClassMedium
	}
	defer func() {
		if r := recover(); r != nil {
			logf("GPU probe panicked, assuming medium renderer: %v", r)
			class = GPUClassMedium
		}
	}()

	renderer, err := probe.Renderer()
	if err != nil {
		logf("GPU probe failed, assuming medium renderer: %v", err)
		return GPUClassMedium
	}
	return ClassifyRenderer(renderer)
}

// Classify applies the tier policy to the given signals and GPU class.
// Rules are ordered; the first match wins.
func Classify(s Signals, gpu GPUClass) Tier {
	cores := s.CPUCores
	if cores <= 0 {
		cores = DefaultCPUCores
	}
	mem := s.MemoryGB
	if mem <= 0 {
		mem = DefaultMemoryGB
	}

	switch {
	case s.Mobile && mem < 4:
		return TierLow
	case cores >= 8 && mem >= 8 && gpu == GPUClassHigh:
		return TierHigh
	case cores >= 4 && mem >= 4:
		return TierMedium
	default:
		return TierLow
	}
}

// ClassifyDevice probes the GPU and classifies the device in one step.
func ClassifyDevice(s Signals, probe GPUProbe) Tier {
	gpu := ProbeGPU(probe)
	tier := Classify(s, gpu)
	logf("classified device cores=%d memory=%.1fGB mobile=%v gpu=%s tier=%s",
		s.CPUCores, s.MemoryGB, s.Mobile, gpu, tier)
	return tier
}
