package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	eye      = r3.Vec{X: 0, Y: 0, Z: 5}
	up       = r3.Vec{Y: 1}
	viewport = Viewport{Width: 800, Height: 600}
)

func testCamera() Camera {
	return NewPerspectiveCamera(eye, r3.Vec{}, up, 60, viewport.Width/viewport.Height, 0.1, 100)
}

func TestToPixels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, r2.Vec{X: 400, Y: 300}, ToPixels(r3.Vec{}, viewport))
	assert.Equal(t, r2.Vec{X: 800, Y: 0}, ToPixels(r3.Vec{X: 1, Y: 1}, viewport))
	assert.Equal(t, r2.Vec{X: 0, Y: 600}, ToPixels(r3.Vec{X: -1, Y: -1}, viewport))
}

func TestProject_CentreAndOffsets(t *testing.T) {
	t.Parallel()

	p := NewProjector(nil)
	joints := []JointPosition{
		{World: r3.Vec{}, Valid: true},
		{World: r3.Vec{X: 1}, Valid: true},
		{World: r3.Vec{Y: 1}, Valid: true},
	}
	anchors := []r2.Vec{{X: 10, Y: 10}, {X: 10, Y: 50}, {X: 10, Y: 90}}

	got := p.Project(joints, anchors, testCamera(), viewport)
	require.Len(t, got, 3)

	assert.True(t, got[0].Visible)
	assert.InDelta(t, 400, got[0].End.X, 1e-6)
	assert.InDelta(t, 300, got[0].End.Y, 1e-6)
	assert.Equal(t, anchors[0], got[0].Start)

	assert.True(t, got[1].Visible)
	assert.Greater(t, got[1].End.X, 400.0, "+X should land right of centre")
	assert.InDelta(t, 300, got[1].End.Y, 1e-6)

	assert.True(t, got[2].Visible)
	assert.Less(t, got[2].End.Y, 300.0, "+Y should land above centre")
}

func TestProject_PointAtCameraIsInvisible(t *testing.T) {
	t.Parallel()

	p := NewProjector(nil)
	anchor := r2.Vec{X: 20, Y: 30}

	var got []ProjectedJoint
	require.NotPanics(t, func() {
		got = p.Project([]JointPosition{{World: eye, Valid: true}}, []r2.Vec{anchor}, testCamera(), viewport)
	})
	require.Len(t, got, 1)
	assert.False(t, got[0].Visible)
	assert.Equal(t, anchor, got[0].End)
}

func TestProject_BehindAndBeyondFarAreInvisible(t *testing.T) {
	t.Parallel()

	p := NewProjector(nil)
	joints := []JointPosition{
		{World: r3.Vec{Z: 10}, Valid: true},   // behind the camera
		{World: r3.Vec{Z: -200}, Valid: true}, // past the far plane
		{World: r3.Vec{Z: -50}, Valid: true},  // inside the frustum
	}
	got := p.Project(joints, nil, testCamera(), viewport)
	require.Len(t, got, 3)
	assert.False(t, got[0].Visible)
	assert.False(t, got[1].Visible)
	assert.True(t, got[2].Visible)
}

func TestProject_MissingJointsUseFallback(t *testing.T) {
	t.Parallel()

	p := NewProjector(nil)
	anchors := make([]r2.Vec, len(DefaultFallback))
	joints := []JointPosition{{World: r3.Vec{X: 5}, Valid: false}}

	got := p.Project(joints, anchors, testCamera(), viewport)
	require.Len(t, got, len(DefaultFallback))

	want := make([]JointPosition, len(DefaultFallback))
	for i, w := range DefaultFallback {
		want[i] = JointPosition{World: w, Valid: true}
	}
	assert.Equal(t, p.Project(want, anchors, testCamera(), viewport), got)
	for i, pj := range got {
		assert.True(t, pj.Visible, "fallback %d should be on screen", i)
	}
}

func TestProject_NoCameraIsTotal(t *testing.T) {
	t.Parallel()

	p := NewProjector([]r3.Vec{{X: 1}})
	got := p.Project([]JointPosition{{Valid: true}, {}}, nil, Camera{}, viewport)
	require.Len(t, got, 2)
	for _, pj := range got {
		assert.False(t, pj.Visible)
	}
	assert.Equal(t, r3.Vec{}, p.Fallback(5))

	bad := Camera{ViewProjection: mat.NewDense(3, 3, nil)}
	_, _, ok := bad.ToNDC(r3.Vec{})
	assert.False(t, ok)
}

func TestLookAt_DegenerateEyeIsInvisible(t *testing.T) {
	t.Parallel()

	cam := NewPerspectiveCamera(eye, eye, up, 60, 1, 0.1, 100)
	got := NewProjector(nil).Project([]JointPosition{{World: r3.Vec{}, Valid: true}}, nil, cam, viewport)
	require.Len(t, got, 1)
	assert.False(t, got[0].Visible)
}
