package sost

import (
	"errors"
	"image/color"

	"github.com/soypat/geometry/md2"
	"github.com/soypat/geometry/md3"
)

// Canvas3D turns a 2D [Surface] into a 3D one. It owns a [Camera], the current [Style]
// and the three coordinate space adapters. Box and surface dimensions are fixed at
// construction; drawing on a differently sized target requires a new Canvas3D.
//
// Canvas3D is not safe for concurrent use.
type Canvas3D struct {
	s       Surface
	swidth  int
	sheight int
	// box dimensions of view space: X is width, Y is depth, Z is height.
	box    md3.Vec
	cam    *Camera
	style  Style
	saved  []Style
	bg     color.Color
	rbuf   []md2.Vec
	vbuf   []md3.Vec
	object ObjectSpace
	view   ViewSpace
	raster RasterSpace
}

// NewCanvas3D creates a 3D canvas drawing on s. width (X), height (Z) and depth (Y)
// are the view space box dimensions which are mapped onto the full surface.
// The surface is painted black on creation.
func NewCanvas3D(s Surface, width, height, depth float64) (*Canvas3D, error) {
	if s == nil {
		return nil, errors.New("nil surface")
	}
	for _, dim := range [3]float64{width, height, depth} {
		if !isFinite(dim) || dim <= 0 {
			return nil, argErrorf("canvas box dimensions must be finite and positive, got %v,%v,%v", width, height, depth)
		}
	}
	sw, sh := s.Size()
	if sw <= 0 || sh <= 0 {
		return nil, argErrorf("empty surface %dx%d", sw, sh)
	}
	cam, err := NewCamera(Angle{})
	if err != nil {
		return nil, err
	}
	c := &Canvas3D{
		s:       s,
		swidth:  sw,
		sheight: sh,
		box:     md3.Vec{X: width, Y: depth, Z: height},
		cam:     cam,
		style:   DefaultStyle(),
		bg:      color.Black,
	}
	c.object = ObjectSpace{c: c}
	c.view = ViewSpace{c: c}
	c.raster = RasterSpace{c: c}
	s.Clear(c.bg)
	return c, nil
}

// Surface returns the surface the canvas draws on.
func (c *Canvas3D) Surface() Surface { return c.s }

// SurfaceSize returns the surface size in pixels as read on construction.
func (c *Canvas3D) SurfaceSize() (width, height int) { return c.swidth, c.sheight }

// Box returns the view space box dimensions passed to [NewCanvas3D].
func (c *Canvas3D) Box() (width, height, depth float64) { return c.box.X, c.box.Z, c.box.Y }

// Camera returns the canvas camera. Changing it takes effect on the next draw call.
func (c *Canvas3D) Camera() *Camera { return c.cam }

// ObjectSpace returns the adapter converting into object space.
func (c *Canvas3D) ObjectSpace() ObjectSpace { return c.object }

// ViewSpace returns the adapter converting into view space.
func (c *Canvas3D) ViewSpace() ViewSpace { return c.view }

// RasterSpace returns the adapter converting into raster space.
func (c *Canvas3D) RasterSpace() RasterSpace { return c.raster }

// Style returns a copy of the current style.
func (c *Canvas3D) Style() Style { return c.style }

// SetStyle replaces the current style. An invalid style is rejected and the current style kept.
func (c *Canvas3D) SetStyle(s Style) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.style = s
	return nil
}

// Save pushes a copy of the current style onto the style stack.
func (c *Canvas3D) Save() {
	c.saved = append(c.saved, c.style)
}

// Restore pops the last saved style and makes it current. It does nothing if no style was saved.
func (c *Canvas3D) Restore() {
	if len(c.saved) == 0 {
		return
	}
	c.style = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
}

// Background returns the color used by [Canvas3D.Clear].
func (c *Canvas3D) Background() color.Color { return c.bg }

// SetBackground sets the color used by [Canvas3D.Clear]. Use [color.Transparent] for an empty surface.
func (c *Canvas3D) SetBackground(bg color.Color) error {
	if bg == nil {
		return argErrorf("nil background color")
	}
	c.bg = bg
	return nil
}

// Clear resets the whole surface to the background color. Camera and style are unaffected.
func (c *Canvas3D) Clear() {
	c.s.Clear(c.bg)
}

// Point draws a disc with the current point radius and color at object space point v.
func (c *Canvas3D) Point(v md3.Vec) error {
	if !IsFinite(v) {
		return argErrorf("non-finite point %v", v)
	}
	return c.ViewPoint(c.view.FromObject(v))
}

// Line draws the segment between object space points u and v with the current stroke
// color and width. Nothing is drawn when stroking is disabled.
func (c *Canvas3D) Line(u, v md3.Vec) error {
	if !IsFinite(u) || !IsFinite(v) {
		return argErrorf("non-finite line endpoint %v %v", u, v)
	}
	return c.ViewLine(c.view.FromObject(u), c.view.FromObject(v))
}

// Polygon draws the closed polygon through object space points. The path is filled
// when filling is enabled and then stroked when stroking is enabled. At least one point is required;
// one or two points draw a degenerate polygon.
func (c *Canvas3D) Polygon(points []md3.Vec) error {
	if err := validatePoly(points); err != nil {
		return err
	}
	c.vbuf = c.vbuf[:0]
	for _, p := range points {
		c.vbuf = append(c.vbuf, c.view.FromObject(p))
	}
	return c.ViewPolygon(c.vbuf)
}

// Text draws s with its baseline starting at object space point v using the current stroke color.
// The canvas surface must implement [TextSurface].
func (c *Canvas3D) Text(v md3.Vec, s string) error {
	ts, ok := c.s.(TextSurface)
	if !ok {
		return errors.New("surface does not support text")
	}
	if !IsFinite(v) {
		return argErrorf("non-finite text anchor %v", v)
	}
	p, err := c.project(c.view.FromObject(v))
	if err != nil {
		return err
	}
	return ts.DrawText(s, p, c.style.StrokeColor)
}

// ViewPoint is like [Canvas3D.Point] for a point already in view space.
func (c *Canvas3D) ViewPoint(v md3.Vec) error {
	p, err := c.project(v)
	if err != nil {
		return err
	}
	c.s.FillCircle(p, c.style.PointRadius, c.style.PointColor)
	return nil
}

// ViewLine is like [Canvas3D.Line] for points already in view space.
func (c *Canvas3D) ViewLine(u, v md3.Vec) error {
	pu, err := c.project(u)
	if err != nil {
		return err
	}
	pv, err := c.project(v)
	if err != nil {
		return err
	}
	if !c.style.Stroke {
		return nil
	}
	c.s.BeginPath()
	c.s.MoveTo(pu)
	c.s.LineTo(pv)
	c.s.Stroke(c.style.StrokeColor, c.style.LineWidth)
	return nil
}

// ViewPolygon is like [Canvas3D.Polygon] for points already in view space.
func (c *Canvas3D) ViewPolygon(points []md3.Vec) error {
	if err := validatePoly(points); err != nil {
		return err
	}
	// Project everything before touching the surface so a failure draws nothing.
	c.rbuf = c.rbuf[:0]
	for _, v := range points {
		p, err := c.project(v)
		if err != nil {
			return err
		}
		c.rbuf = append(c.rbuf, p)
	}
	c.s.BeginPath()
	c.s.MoveTo(c.rbuf[0])
	for _, p := range c.rbuf[1:] {
		c.s.LineTo(p)
	}
	c.s.ClosePath()
	if c.style.Fill {
		c.s.Fill(c.style.FillColor)
	}
	if c.style.Stroke {
		c.s.Stroke(c.style.StrokeColor, c.style.LineWidth)
	}
	return nil
}

// project maps a view space point to raster space and rejects results that cannot be drawn.
func (c *Canvas3D) project(v md3.Vec) (md2.Vec, error) {
	p := c.raster.FromView(v)
	if !isFinite(p.X) || !isFinite(p.Y) {
		return md2.Vec{}, argErrorf("view point %v projects to non-finite raster point", v)
	}
	return p, nil
}

func validatePoly(points []md3.Vec) error {
	if len(points) == 0 {
		return argErrorf("polygon requires at least one point")
	}
	for i, p := range points {
		if !IsFinite(p) {
			return argErrorf("non-finite polygon point %d: %v", i, p)
		}
	}
	return nil
}
