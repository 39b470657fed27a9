package sost

import (
	"github.com/soypat/geometry/md3"
)

// Camera maps object space to view space and back. It orbits the scene with a yaw/pitch
// [Angle], pans to a center point and zooms by a non-zero factor.
//
// The forward transform applies Rotate, Translate and Scale in that order.
// The inverse transform applies InverseScale, InverseTranslate and InverseRotate in that order.
type Camera struct {
	angle  Angle
	center md3.Vec
	zoom   float64
}

// NewCamera returns a camera with the given orientation, centered at the origin with zoom 1.
// The zero Angle looks at the XZ plane along the Y axis.
func NewCamera(angle Angle) (*Camera, error) {
	cam := &Camera{zoom: 1}
	err := cam.SetAngle(angle)
	if err != nil {
		return nil, err
	}
	return cam, nil
}

// Angle returns the current camera orientation.
func (cam *Camera) Angle() Angle { return cam.angle }

// Center returns the object space point the camera is centered on.
func (cam *Camera) Center() md3.Vec { return cam.center }

// Zoom returns the zoom factor. Values greater than one zoom out.
func (cam *Camera) Zoom() float64 { return cam.zoom }

// SetAngle replaces the camera orientation. It does not trigger a redraw.
func (cam *Camera) SetAngle(angle Angle) error {
	if !angle.IsFinite() {
		return argErrorf("non-finite camera angle %v", angle)
	}
	cam.angle = angle
	return nil
}

// SetCenter pans the camera so that center maps to the view space origin.
func (cam *Camera) SetCenter(center md3.Vec) error {
	if !IsFinite(center) {
		return argErrorf("non-finite camera center %v", center)
	}
	cam.center = center
	return nil
}

// SetZoom sets the zoom factor. Zoom must be finite and non-zero.
func (cam *Camera) SetZoom(zoom float64) error {
	if zoom == 0 || !isFinite(zoom) {
		return argErrorf("camera zoom must be finite and non-zero, got %v", zoom)
	}
	cam.zoom = zoom
	return nil
}

// Rotate aligns the scene to the fixed viewing direction of view space,
// which is the negated camera angle.
func (cam *Camera) Rotate(v md3.Vec) md3.Vec {
	return Rotate(v, cam.angle.Neg())
}

// Translate moves v so that the camera center is at the origin.
func (cam *Camera) Translate(v md3.Vec) md3.Vec {
	return md3.Sub(v, cam.center)
}

// Scale divides v by the zoom factor.
func (cam *Camera) Scale(v md3.Vec) md3.Vec {
	return md3.Scale(1/cam.zoom, v)
}

// InverseRotate is the inverse of [Camera.Rotate].
func (cam *Camera) InverseRotate(v md3.Vec) md3.Vec {
	// RotateYZ undone before RotateXY.
	v = RotateYZ(v, cam.angle.Phi)
	return RotateXY(v, cam.angle.Theta)
}

// InverseTranslate is the inverse of [Camera.Translate].
func (cam *Camera) InverseTranslate(v md3.Vec) md3.Vec {
	return md3.Add(v, cam.center)
}

// InverseScale is the inverse of [Camera.Scale].
func (cam *Camera) InverseScale(v md3.Vec) md3.Vec {
	return md3.Scale(cam.zoom, v)
}
