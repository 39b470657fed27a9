// Package sost draws points, lines and polygons given in 3D Cartesian coordinates
// onto a 2D raster surface through an orbit camera with orthographic projection.
//
// Coordinates flow through three spaces:
//   - Object space: caller supplied Cartesian coordinates.
//   - View space: coordinates after the camera's rotation, translation and zoom,
//     bounded by the [Canvas3D] box dimensions with the origin at the box center.
//   - Raster space: pixel coordinates of the [Surface], origin at the top left.
//
// Drawing is immediate mode: every call draws synchronously on the surface using
// the current [Style]. Redrawing after a camera change is up to the caller.
package sost

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/geometry/md3"
)

// ErrInvalidArgument is wrapped by all argument validation errors returned by this package.
var ErrInvalidArgument = errors.New("invalid argument")

func argErrorf(msg string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(msg, args...))
}

// IsFinite reports whether all components of v are neither NaN nor infinite.
func IsFinite(v md3.Vec) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
