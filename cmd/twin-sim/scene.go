package main

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/digital-twin/internal/projection"
	"github.com/banshee-data/digital-twin/internal/telemetry"
	"github.com/banshee-data/digital-twin/internal/twin"
)

// profile yields the wall-clock duration of frame i out of n.
type profile func(i, n int) time.Duration

var profiles = map[string]profile{
	// steady renders at 60 fps throughout.
	"steady": func(i, n int) time.Duration { return 16667 * time.Microsecond },
	// degrading drops to 25 fps after the first third of the run.
	"degrading": func(i, n int) time.Duration {
		if i < n/3 {
			return 16667 * time.Microsecond
		}
		return 40 * time.Millisecond
	},
	// recovering starts at 20 fps and returns to 60 fps halfway.
	"recovering": func(i, n int) time.Duration {
		if i < n/2 {
			return 50 * time.Millisecond
		}
		return 16667 * time.Microsecond
	},
}

func lookupProfile(name string) (profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (want steady, degrading or recovering)", name)
	}
	return p, nil
}

const (
	viewWidth  = 1280
	viewHeight = 720
	linkLength = 0.35 // metres between joint origins
)

func sceneCamera() projection.Camera {
	return projection.NewPerspectiveCamera(
		r3.Vec{X: 2.5, Y: 1.8, Z: 3.5}, r3.Vec{Y: 0.8}, r3.Vec{Y: 1},
		45, float64(viewWidth)/viewHeight, 0.1, 100,
	)
}

func sceneAnchors() []r2.Vec {
	anchors := make([]r2.Vec, telemetry.JointCount)
	for i := range anchors {
		anchors[i] = r2.Vec{X: 24, Y: 80 + float64(i)*72}
	}
	return anchors
}

// animatedSkeleton poses each joint with a slow rotation about its own
// axis. Joints alternate between X and Z rotation axes.
func animatedSkeleton(t time.Duration) telemetry.Skeleton {
	sec := t.Seconds()
	joints := make([]telemetry.Joint, telemetry.JointCount)
	for i := range joints {
		angle := 0.6 * math.Sin(sec*0.4*float64(i+1))
		half := angle / 2
		q := quat.Number{Real: math.Cos(half)}
		if i%2 == 0 {
			q.Imag = math.Sin(half)
		} else {
			q.Kmag = math.Sin(half)
		}
		joints[i] = telemetry.JointFromQuat(q, r3.Vec{Y: float64(i) * linkLength})
	}
	return telemetry.Skeleton{Joints: joints}
}

func frameContext(skeleton bool, t time.Duration, cam projection.Camera, anchors []r2.Vec) twin.FrameContext {
	fc := twin.FrameContext{
		Bones:    telemetry.NoSkeleton{},
		Camera:   cam,
		Viewport: projection.Viewport{Width: viewWidth, Height: viewHeight},
		Anchors:  anchors,
	}
	if skeleton {
		fc.Bones = animatedSkeleton(t)
	}
	return fc
}
