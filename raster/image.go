package raster

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/soypat/geometry/md2"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/sost"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// ImageConfig configures an [Image] surface. The zero value is ready to use.
type ImageConfig struct {
	// FontSize is the text size in points at 72 DPI. Defaults to 12.
	FontSize float64
	// TTF is a TrueType font file used for text. Defaults to Go Regular.
	TTF []byte
}

// Image is a [sost.TextSurface] that rasterizes onto an [image.RGBA] with anti-aliasing.
// Strokes use round joins and caps. Geometry may lie arbitrarily far outside the image:
// it is clipped before rasterization so drawing cost is bounded by the image size.
type Image struct {
	img  *image.RGBA
	ras  vector.Rasterizer
	path []subpath
	// Scratch space for stroke outlines and clipping.
	quad       [4]md2.Vec
	arc        []md2.Vec
	clip, ctmp []md2.Vec
	cfg        ImageConfig
	face       font.Face
}

type subpath struct {
	pts    []md2.Vec
	closed bool
}

var _ sost.TextSurface = (*Image)(nil)

// NewImage returns a surface drawing on img. A nil img is not allowed.
func NewImage(img *image.RGBA, cfg ImageConfig) (*Image, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	if cfg.FontSize < 0 {
		return nil, errors.New("negative font size")
	}
	if cfg.FontSize == 0 {
		cfg.FontSize = 12
	}
	if cfg.TTF == nil {
		cfg.TTF = goregular.TTF
	}
	return &Image{img: img, cfg: cfg}, nil
}

// RGBA returns the underlying image.
func (im *Image) RGBA() *image.RGBA { return im.img }

func (im *Image) Size() (int, int) {
	bb := im.img.Bounds()
	return bb.Dx(), bb.Dy()
}

func (im *Image) BeginPath() {
	for i := range im.path {
		im.path[i].pts = im.path[i].pts[:0]
	}
	im.path = im.path[:0]
}

func (im *Image) MoveTo(p md2.Vec) {
	im.newSubpath(p)
}

func (im *Image) LineTo(p md2.Vec) {
	sp := im.current()
	if sp == nil {
		im.newSubpath(p)
		return
	}
	if sp.closed {
		// Drawing continues from the start of the closed subpath.
		start := sp.pts[0]
		sp = im.newSubpath(start)
	}
	sp.pts = append(sp.pts, p)
}

func (im *Image) ClosePath() {
	if sp := im.current(); sp != nil {
		sp.closed = true
	}
}

// Fill fills the current path using the non-zero winding rule.
func (im *Image) Fill(c color.Color) {
	im.resetRaster()
	filled := false
	for _, sp := range im.path {
		if len(sp.pts) < 3 {
			continue // No area.
		}
		filled = im.addPolygon(sp.pts) || filled
	}
	if filled {
		im.draw(c)
	}
}

// Stroke outlines the current path with the given width.
func (im *Image) Stroke(c color.Color, width float64) {
	hw := width / 2
	if !(hw > 0) || math.IsInf(hw, 0) {
		return
	}
	im.resetRaster()
	for _, sp := range im.path {
		n := len(sp.pts)
		for i := 0; i < n-1; i++ {
			im.addSegment(sp.pts[i], sp.pts[i+1], hw)
		}
		if sp.closed && n > 2 {
			im.addSegment(sp.pts[n-1], sp.pts[0], hw)
		}
		// Round joins and caps. Outlines all share winding so overlaps do not cancel.
		for _, p := range sp.pts {
			im.addCircle(p, hw)
		}
	}
	im.draw(c)
}

func (im *Image) FillCircle(center md2.Vec, radius float64, c color.Color) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return
	}
	im.resetRaster()
	im.addCircle(center, radius)
	im.draw(c)
}

func (im *Image) Clear(c color.Color) {
	draw.Draw(im.img, im.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Text anchors further than this from the origin are not drawn. Keeps the
// 26.6 fixed point dot from overflowing.
const maxTextOffset = 1 << 20

// DrawText draws s with the left end of its baseline at the given point.
func (im *Image) DrawText(s string, at md2.Vec, c color.Color) error {
	if im.face == nil {
		ttf, err := truetype.Parse(im.cfg.TTF)
		if err != nil {
			return err
		}
		im.face = truetype.NewFace(ttf, &truetype.Options{
			Size:    im.cfg.FontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	if !(math.Abs(at.X) < maxTextOffset && math.Abs(at.Y) < maxTextOffset) {
		return nil
	}
	origin := im.img.Bounds().Min
	d := font.Drawer{
		Dst:  im.img,
		Src:  image.NewUniform(c),
		Face: im.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6((at.X + float64(origin.X)) * 64),
			Y: fixed.Int26_6((at.Y + float64(origin.Y)) * 64),
		},
	}
	d.DrawString(s)
	return nil
}

func (im *Image) current() *subpath {
	if len(im.path) == 0 {
		return nil
	}
	return &im.path[len(im.path)-1]
}

func (im *Image) newSubpath(start md2.Vec) *subpath {
	if len(im.path) < cap(im.path) {
		// Reuse point buffers left over from previous paths.
		im.path = im.path[:len(im.path)+1]
		sp := &im.path[len(im.path)-1]
		sp.pts = append(sp.pts[:0], start)
		sp.closed = false
		return sp
	}
	im.path = append(im.path, subpath{pts: []md2.Vec{start}})
	return &im.path[len(im.path)-1]
}

// guard returns the image rectangle in rasterizer coordinates padded by p.
func (im *Image) guard(p float64) rect {
	w, h := im.Size()
	return rect{max: md2.Vec{X: float64(w), Y: float64(h)}}.pad(p)
}

// addPolygon clips the closed polygon pts to the image and adds what remains to
// the rasterizer. It reports whether anything was added.
func (im *Image) addPolygon(pts []md2.Vec) bool {
	im.clip, im.ctmp = clipPolygon(im.clip, im.ctmp, pts, im.guard(1))
	if len(im.clip) < 3 {
		return false
	}
	for _, p := range im.clip {
		if !finite(p) {
			return false
		}
	}
	p0 := tof32(im.clip[0])
	im.ras.MoveTo(p0.X, p0.Y)
	for _, p := range im.clip[1:] {
		q := tof32(p)
		im.ras.LineTo(q.X, q.Y)
	}
	im.ras.ClosePath()
	return true
}

// addSegment adds the rectangle covering the segment a-b with half width hw.
func (im *Image) addSegment(a, b md2.Vec, hw float64) {
	a, b, ok := clipSegment(a, b, im.guard(hw+1))
	if !ok {
		return
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 || math.IsInf(length, 0) || math.IsNaN(length) {
		return
	}
	// Normal rotated the same way for every segment keeps winding consistent.
	k := hw / length
	nrm := md2.Vec{X: -dy * k, Y: dx * k}
	im.quad = [4]md2.Vec{
		{X: a.X + nrm.X, Y: a.Y + nrm.Y},
		{X: b.X + nrm.X, Y: b.Y + nrm.Y},
		{X: b.X - nrm.X, Y: b.Y - nrm.Y},
		{X: a.X - nrm.X, Y: a.Y - nrm.Y},
	}
	im.addPolygon(im.quad[:])
}

// Maximum distance in pixels between a flattened circle and the true circle.
const flatTolerance = 0.1

// addCircle adds a circle with the same winding as addSegment outlines. Circles well
// within reach of the image are four cubic Bézier arcs. Others are flattened over the
// angular range that faces the image and clipped.
func (im *Image) addCircle(c md2.Vec, r float64) {
	vis := im.guard(1)
	bb := rect{min: md2.Vec{X: c.X - r, Y: c.Y - r}, max: md2.Vec{X: c.X + r, Y: c.Y + r}}
	if !vis.overlaps(bb) {
		return
	}
	w, h := im.Size()
	if vis.pad(float64(w + h)).containsRect(bb) {
		im.addBezierCircle(tof32(c), float32(r))
		return
	}
	// Arc angles decrease to match the Bézier circle's direction.
	hi, lo := 0.0, -2*math.Pi
	wedge := !vis.contains(c)
	if wedge {
		mid := lerp(vis.min, vis.max, 0.5)
		base := math.Atan2(half(mid).Y-half(c).Y, half(mid).X-half(c).X)
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, corner := range vis.corners() {
			a := math.Atan2(half(corner).Y-half(c).Y, half(corner).X-half(c).X) - base
			a = math.Remainder(a, 2*math.Pi)
			lo, hi = min(lo, a), max(hi, a)
		}
		lo, hi = lo+base, hi+base
	}
	step := math.Sqrt(8 * flatTolerance / r)
	n := int(min(math.Ceil((hi-lo)/step), 1024))
	n = max(n, 8)
	im.arc = im.arc[:0]
	for i := 0; i <= n; i++ {
		if i == n && !wedge {
			break // Full circle is closed by the polygon.
		}
		s, co := math.Sincos(hi - (hi-lo)*float64(i)/float64(n))
		im.arc = append(im.arc, md2.Vec{X: c.X + r*co, Y: c.Y + r*s})
	}
	if wedge {
		im.arc = append(im.arc, c)
	}
	im.addPolygon(im.arc)
}

// Bezier control point distance for a quarter circle of unit radius.
const circleKappa = 0.5522847498307936

func (im *Image) addBezierCircle(c ms2.Vec, r float32) {
	k := r * circleKappa
	im.ras.MoveTo(c.X+r, c.Y)
	im.ras.CubeTo(c.X+r, c.Y-k, c.X+k, c.Y-r, c.X, c.Y-r)
	im.ras.CubeTo(c.X-k, c.Y-r, c.X-r, c.Y-k, c.X-r, c.Y)
	im.ras.CubeTo(c.X-r, c.Y+k, c.X-k, c.Y+r, c.X, c.Y+r)
	im.ras.CubeTo(c.X+k, c.Y+r, c.X+r, c.Y+k, c.X+r, c.Y)
	im.ras.ClosePath()
}

func (im *Image) resetRaster() {
	w, h := im.Size()
	im.ras.Reset(w, h)
	im.ras.DrawOp = draw.Over
}

func (im *Image) draw(c color.Color) {
	im.ras.Draw(im.img, im.img.Bounds(), image.NewUniform(c), image.Point{})
}

func tof32(p md2.Vec) ms2.Vec {
	return ms2.Vec{X: float32(p.X), Y: float32(p.Y)}
}
