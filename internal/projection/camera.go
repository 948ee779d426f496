// Package projection maps 3D joint positions to 2D overlay coordinates for
// connector lines between labels and the model.
package projection

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// degenerateW is the smallest clip-space w treated as projectable.
const degenerateW = 1e-9

// Camera holds a combined view-projection matrix. Points are column
// vectors: clip = ViewProjection * [x y z 1]^T.
type Camera struct {
	ViewProjection mat.Matrix
}

// Viewport is the overlay size in pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// Perspective returns an OpenGL-style projection matrix mapping the view
// frustum to normalized device coordinates in [-1, 1].
func Perspective(fovYDeg, aspect, near, far float64) *mat.Dense {
	f := 1 / math.Tan(fovYDeg*math.Pi/360)
	return mat.NewDense(4, 4, []float64{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), 2 * far * near / (near - far),
		0, 0, -1, 0,
	})
}

// LookAt returns a view matrix for a camera at eye facing target.
func LookAt(eye, target, up r3.Vec) *mat.Dense {
	z := r3.Unit(r3.Sub(eye, target))
	x := r3.Unit(r3.Cross(up, z))
	y := r3.Cross(z, x)
	return mat.NewDense(4, 4, []float64{
		x.X, x.Y, x.Z, -r3.Dot(x, eye),
		y.X, y.Y, y.Z, -r3.Dot(y, eye),
		z.X, z.Y, z.Z, -r3.Dot(z, eye),
		0, 0, 0, 1,
	})
}

// NewPerspectiveCamera builds a Camera from look-at and perspective parameters.
func NewPerspectiveCamera(eye, target, up r3.Vec, fovYDeg, aspect, near, far float64) Camera {
	var vp mat.Dense
	vp.Mul(Perspective(fovYDeg, aspect, near, far), LookAt(eye, target, up))
	return Camera{ViewProjection: &vp}
}

// ToNDC projects world into normalized device coordinates. ok is false
// when the camera is unset or the projection is degenerate (w near zero,
// non-finite output), e.g. a point coincident with the camera.
func (c Camera) ToNDC(world r3.Vec) (ndc r3.Vec, w float64, ok bool) {
	if c.ViewProjection == nil {
		return r3.Vec{}, 0, false
	}
	if r, cols := c.ViewProjection.Dims(); r != 4 || cols != 4 {
		return r3.Vec{}, 0, false
	}

	var clip mat.VecDense
	clip.MulVec(c.ViewProjection, mat.NewVecDense(4, []float64{world.X, world.Y, world.Z, 1}))

	w = clip.AtVec(3)
	if math.Abs(w) < degenerateW || !finite(w) {
		return r3.Vec{}, w, false
	}
	ndc = r3.Vec{X: clip.AtVec(0) / w, Y: clip.AtVec(1) / w, Z: clip.AtVec(2) / w}
	if !finite(ndc.X) || !finite(ndc.Y) || !finite(ndc.Z) {
		return r3.Vec{}, w, false
	}
	return ndc, w, true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
