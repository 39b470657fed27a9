package sost

import (
	"github.com/soypat/geometry/md2"
	"github.com/soypat/geometry/md3"
)

// ViewSpace converts coordinates into the normalized view space of a [Canvas3D].
// View space is bounded by the canvas box dimensions and centered on the box.
type ViewSpace struct {
	c *Canvas3D
}

// FromObject transforms an object space point into view space using the canvas camera.
func (vs ViewSpace) FromObject(v md3.Vec) md3.Vec {
	cam := vs.c.cam
	return cam.Scale(cam.Translate(cam.Rotate(v)))
}

// ObjectSpace converts coordinates into the camera independent object space of a [Canvas3D].
type ObjectSpace struct {
	c *Canvas3D
}

// FromView transforms a view space point back into object space.
// It is the exact inverse of [ViewSpace.FromObject].
func (obj ObjectSpace) FromView(v md3.Vec) md3.Vec {
	cam := obj.c.cam
	return cam.InverseRotate(cam.InverseTranslate(cam.InverseScale(v)))
}

// RasterSpace converts coordinates into pixel coordinates of the [Canvas3D] surface.
// Raster space is two dimensional so there is no conversion out of it:
// infinitely many 3D points project onto the same pixel.
type RasterSpace struct {
	c *Canvas3D
}

// FromView projects a view space point onto the surface. View space X maps to raster X,
// view space Z maps to raster Y flipped to a top-left origin. The Y (depth) component is dropped.
func (rs RasterSpace) FromView(v md3.Vec) md2.Vec {
	c := rs.c
	sw, sh := float64(c.swidth), float64(c.sheight)
	x := (v.X + c.box.X/2) * (sw / c.box.X)
	y := (v.Z + c.box.Z/2) * (sh / c.box.Z)
	return md2.Vec{X: x, Y: sh - y}
}

// FromObject projects an object space point onto the surface.
func (rs RasterSpace) FromObject(v md3.Vec) md2.Vec {
	return rs.FromView(ViewSpace(rs).FromObject(v))
}
