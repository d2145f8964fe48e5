// pkg/core/vector.go
package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RotationScale is the fixed-point factor quaternion components are stored with.
const RotationScale = 1000

// Axis indexes a vector component. R, G and B are the X, Y and Z slots.
type Axis int

const (
	AxisR Axis = iota
	AxisG
	AxisB
)

// Vec3i is an integer 3-vector in raw engine units (positions, scalings).
type Vec3i struct {
	X, Y, Z int32
}

// Get returns the component at axis a.
func (v Vec3i) Get(a Axis) int32 {
	switch a {
	case AxisR:
		return v.X
	case AxisG:
		return v.Y
	default:
		return v.Z
	}
}

// Set replaces the component at axis a.
func (v *Vec3i) Set(a Axis, n int32) {
	switch a {
	case AxisR:
		v.X = n
	case AxisG:
		v.Y = n
	default:
		v.Z = n
	}
}

// Components returns the vector as R, G, B.
func (v Vec3i) Components() [3]int32 {
	return [3]int32{v.X, v.Y, v.Z}
}

// Quat4i is a quaternion stored with components scaled by RotationScale.
type Quat4i struct {
	W, X, Y, Z int32
}

// IdentityRotation is the unit quaternion in stored form.
var IdentityRotation = Quat4i{W: RotationScale}

// Components returns the quaternion as W, X, Y, Z.
func (q Quat4i) Components() [4]int32 {
	return [4]int32{q.W, q.X, q.Y, q.Z}
}

// Quat decodes the stored quaternion.
func (q Quat4i) Quat() mgl64.Quat {
	return mgl64.Quat{
		W: float64(q.W) / RotationScale,
		V: mgl64.Vec3{
			float64(q.X) / RotationScale,
			float64(q.Y) / RotationScale,
			float64(q.Z) / RotationScale,
		},
	}
}

// EncodeQuat re-encodes q in stored form, rounding half away from zero.
func EncodeQuat(q mgl64.Quat) Quat4i {
	return Quat4i{
		W: Round(q.W * RotationScale),
		X: Round(q.V[0] * RotationScale),
		Y: Round(q.V[1] * RotationScale),
		Z: Round(q.V[2] * RotationScale),
	}
}

// QuatFromAxisAngle builds a rotation of deg degrees around axis.
func QuatFromAxisAngle(deg float64, axis mgl64.Vec3) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), axis.Normalize())
}

// Round rounds half away from zero and clamps to the int32 range.
func Round(f float64) int32 {
	r := math.Round(f)
	switch {
	case r > math.MaxInt32:
		return math.MaxInt32
	case r < math.MinInt32:
		return math.MinInt32
	}
	return int32(r)
}
