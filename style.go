package sost

import (
	"image/color"
)

// Style is the pen used by [Canvas3D] primitives. It is read at the moment a
// primitive is drawn and is not attached to the drawn geometry.
type Style struct {
	// PointRadius is the radius in pixels of discs drawn for points.
	PointRadius float64
	PointColor  color.Color
	StrokeColor color.Color
	// LineWidth is the stroke width in pixels.
	LineWidth float64
	FillColor color.Color
	// Stroke enables stroking of lines and polygon outlines.
	Stroke bool
	// Fill enables filling of polygons.
	Fill bool
}

// DefaultStyle returns the style a new [Canvas3D] starts with:
// red points, white strokes and a light blue fill.
func DefaultStyle() Style {
	return Style{
		PointRadius: 2.5,
		PointColor:  color.RGBA{R: 0xff, A: 0xff},
		StrokeColor: color.White,
		LineWidth:   2.5,
		FillColor:   color.RGBA{R: 0x4c, G: 0xa9, B: 0xd4, A: 0xff},
		Stroke:      true,
		Fill:        true,
	}
}

// Validate returns an error wrapping [ErrInvalidArgument] if the style cannot be drawn with.
func (s Style) Validate() error {
	switch {
	case !isFinite(s.PointRadius) || s.PointRadius < 0:
		return argErrorf("bad point radius %v", s.PointRadius)
	case !isFinite(s.LineWidth) || s.LineWidth < 0:
		return argErrorf("bad line width %v", s.LineWidth)
	case s.PointColor == nil || s.StrokeColor == nil || s.FillColor == nil:
		return argErrorf("nil style color")
	}
	return nil
}
