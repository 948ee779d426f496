package projection

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultFallback is the world position used for each tracked joint when
// its transform is unavailable: a rough arm pose beside the model origin.
var DefaultFallback = []r3.Vec{
	{X: 0, Y: 0.1, Z: 0},
	{X: 0, Y: 0.5, Z: 0},
	{X: 0.3, Y: 0.9, Z: 0},
	{X: 0.6, Y: 1.0, Z: 0},
	{X: 0.75, Y: 0.95, Z: 0},
	{X: 0.9, Y: 0.85, Z: 0},
}

// JointPosition is a tracked joint's world position for this tick.
type JointPosition struct {
	World r3.Vec
	Valid bool
}

// ProjectedJoint describes one connector line from a label anchor to a
// projected joint.
type ProjectedJoint struct {
	Start   r2.Vec `json:"start"`
	End     r2.Vec `json:"end"`
	Visible bool   `json:"visible"`
}

// Projector places connector lines. It holds only the fallback table.
type Projector struct {
	fallback []r3.Vec
}

// NewProjector creates a Projector. A nil fallback selects DefaultFallback.
func NewProjector(fallback []r3.Vec) *Projector {
	if fallback == nil {
		fallback = DefaultFallback
	}
	return &Projector{fallback: append([]r3.Vec(nil), fallback...)}
}

// Fallback returns the fallback world position for index i.
func (p *Projector) Fallback(i int) r3.Vec {
	if i >= 0 && i < len(p.fallback) {
		return p.fallback[i]
	}
	return r3.Vec{}
}

// Project emits one connector per index up to the longer of joints and
// anchors. Invalid or missing joints use the fallback position so the
// label layout never collapses. A degenerate projection is reported
// invisible with End equal to Start.
func (p *Projector) Project(joints []JointPosition, anchors []r2.Vec, cam Camera, vp Viewport) []ProjectedJoint {
	n := len(joints)
	if len(anchors) > n {
		n = len(anchors)
	}

	out := make([]ProjectedJoint, n)
	for i := range out {
		var anchor r2.Vec
		if i < len(anchors) {
			anchor = anchors[i]
		}

		world := p.Fallback(i)
		if i < len(joints) && joints[i].Valid {
			world = joints[i].World
		}

		out[i] = projectOne(anchor, world, cam, vp)
	}
	return out
}

func projectOne(anchor r2.Vec, world r3.Vec, cam Camera, vp Viewport) ProjectedJoint {
	ndc, w, ok := cam.ToNDC(world)
	if !ok {
		return ProjectedJoint{Start: anchor, End: anchor, Visible: false}
	}
	return ProjectedJoint{
		Start:   anchor,
		End:     ToPixels(ndc, vp),
		Visible: w > 0 && ndc.Z < 1,
	}
}

// ToPixels maps NDC x/y to viewport pixels with y pointing down.
func ToPixels(ndc r3.Vec, vp Viewport) r2.Vec {
	return r2.Vec{
		X: (ndc.X/2 + 0.5) * vp.Width,
		Y: (-ndc.Y/2 + 0.5) * vp.Height,
	}
}
