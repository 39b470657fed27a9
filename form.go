package sost

import (
	"math"

	"github.com/soypat/geometry/md3"
)

// Angle is a camera orientation in radians. Theta rotates over the XY plane
// (about the vertical Z axis) and Phi rotates over the YZ plane (about the X axis).
// Theta is always applied first.
type Angle struct {
	Theta float64
	Phi   float64
}

// Neg returns the angle with both components negated.
func (a Angle) Neg() Angle {
	return Angle{Theta: -a.Theta, Phi: -a.Phi}
}

// IsFinite reports whether both components of a are finite.
func (a Angle) IsFinite() bool {
	return isFinite(a.Theta) && isFinite(a.Phi)
}

// RotateXY rotates v over the XY plane by theta radians. Z is unchanged.
func RotateXY(v md3.Vec, theta float64) md3.Vec {
	s, c := math.Sincos(theta)
	return md3.Vec{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
		Z: v.Z,
	}
}

// RotateYZ rotates v over the YZ plane by phi radians. X is unchanged.
func RotateYZ(v md3.Vec, phi float64) md3.Vec {
	s, c := math.Sincos(phi)
	return md3.Vec{
		X: v.X,
		Y: v.Y*c - v.Z*s,
		Z: v.Y*s + v.Z*c,
	}
}

// RotateXZ rotates v over the XZ plane by a radians. Y is unchanged.
// The camera does not use it; it is provided for building object space geometry.
func RotateXZ(v md3.Vec, a float64) md3.Vec {
	s, c := math.Sincos(a)
	return md3.Vec{
		X: v.X*c - v.Z*s,
		Y: v.Y,
		Z: v.X*s + v.Z*c,
	}
}

// Rotate rotates v over the XY plane by angle.Theta and then over the YZ plane by angle.Phi.
// The order is significant.
func Rotate(v md3.Vec, angle Angle) md3.Vec {
	return RotateYZ(RotateXY(v, angle.Theta), angle.Phi)
}
