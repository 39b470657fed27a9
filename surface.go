package sost

import (
	"image/color"

	"github.com/soypat/geometry/md2"
)

// Surface is an immediate mode 2D drawing target in raster space.
// It keeps a single current path built with MoveTo/LineTo/ClosePath.
// Stroke and Fill render the current path without discarding it so a path may be
// filled and then stroked. BeginPath discards the current path.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)
	BeginPath()
	MoveTo(p md2.Vec)
	LineTo(p md2.Vec)
	// ClosePath adds a segment from the current point back to the start of the subpath.
	ClosePath()
	Stroke(c color.Color, width float64)
	Fill(c color.Color)
	// FillCircle draws a filled disc. It does not modify the current path.
	FillCircle(center md2.Vec, radius float64, c color.Color)
	// Clear sets every pixel of the surface to c.
	Clear(c color.Color)
}

// TextSurface is a [Surface] that can also draw text. at is the left end of the text baseline.
type TextSurface interface {
	Surface
	DrawText(s string, at md2.Vec, c color.Color) error
}
