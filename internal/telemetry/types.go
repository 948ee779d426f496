package telemetry

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// JointCount is the number of tracked joints and telemetry channels.
const JointCount = 6

// JointNames names the tracked joints in channel order, base to tool.
var JointNames = [JointCount]string{"base", "shoulder", "elbow", "wrist_pitch", "wrist_roll", "gripper"}

// JointAngleSet holds one angle in degrees per tracked joint.
type JointAngleSet [JointCount]float64

// Map returns the angles keyed by joint name.
func (s JointAngleSet) Map() map[string]float64 {
	out := make(map[string]float64, JointCount)
	for i, name := range JointNames {
		out[name] = s[i]
	}
	return out
}

// Joint is one tracked bone's transform for the current frame.
type Joint struct {
	// Euler is the local rotation in radians, XYZ order.
	Euler r3.Vec
	// World is the bone origin in world space.
	World r3.Vec
	// Valid is false when the transform could not be read this frame.
	Valid bool
}

// usable reports whether the joint carries a finite rotation.
func (j Joint) usable() bool {
	return j.Valid && finite(j.Euler.X) && finite(j.Euler.Y) && finite(j.Euler.Z)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// JointFromQuat builds a valid Joint from a rotation quaternion and world position.
func JointFromQuat(q quat.Number, world r3.Vec) Joint {
	return Joint{Euler: EulerFromQuat(q), World: world, Valid: true}
}

// EulerFromQuat converts a rotation quaternion to XYZ-order Euler angles in
// radians. The quaternion need not be normalised.
func EulerFromQuat(q quat.Number) r3.Vec {
	if n := quat.Abs(q); n > 0 {
		q = quat.Scale(1/n, q)
	}
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	m11 := 1 - 2*(y*y+z*z)
	m12 := 2 * (x*y - w*z)
	m13 := 2 * (x*z + w*y)
	m22 := 1 - 2*(x*x+z*z)
	m23 := 2 * (y*z - w*x)
	m32 := 2 * (y*z + w*x)
	m33 := 1 - 2*(x*x+y*y)

	var e r3.Vec
	e.Y = math.Asin(math.Max(-1, math.Min(1, m13)))
	if math.Abs(m13) < 0.9999999 {
		e.X = math.Atan2(-m23, m33)
		e.Z = math.Atan2(-m12, m11)
	} else {
		// Gimbal lock: fold Z into X.
		e.X = math.Atan2(m32, m22)
		e.Z = 0
	}
	return e
}

// BoneInput is what the scene supplies each tick: either a Skeleton or
// NoSkeleton. The set of implementations is closed.
type BoneInput interface {
	isBoneInput()
}

// Skeleton carries up to JointCount tracked joints in channel order.
type Skeleton struct {
	Joints []Joint
}

// NoSkeleton signals that the model has no usable skeleton.
type NoSkeleton struct{}

func (Skeleton) isBoneInput()   {}
func (NoSkeleton) isBoneInput() {}

// JointAt returns the joint for channel i and whether it is usable.
func (s Skeleton) JointAt(i int) (Joint, bool) {
	if i < 0 || i >= len(s.Joints) {
		return Joint{}, false
	}
	j := s.Joints[i]
	return j, j.usable()
}
