package raster

import (
	"math"

	"github.com/soypat/geometry/md2"
)

// Geometry handed to the rasterizer is first clipped to a guard rectangle slightly
// larger than the image. The rasterizer works in float32 and its cost grows with
// the extent of the path, so unclipped far away geometry overflows or stalls it.
//
// Clipping math runs on halved coordinates so that differences of values near
// the float64 limit stay finite.

// rect is an axis aligned rectangle in raster space.
type rect struct {
	min, max md2.Vec
}

func (r rect) pad(p float64) rect {
	return rect{
		min: md2.Vec{X: r.min.X - p, Y: r.min.Y - p},
		max: md2.Vec{X: r.max.X + p, Y: r.max.Y + p},
	}
}

func (r rect) contains(p md2.Vec) bool {
	return p.X >= r.min.X && p.X <= r.max.X && p.Y >= r.min.Y && p.Y <= r.max.Y
}

func (r rect) overlaps(s rect) bool {
	return r.min.X <= s.max.X && s.min.X <= r.max.X && r.min.Y <= s.max.Y && s.min.Y <= r.max.Y
}

func (r rect) containsRect(s rect) bool {
	return r.contains(s.min) && r.contains(s.max)
}

func (r rect) corners() [4]md2.Vec {
	return [4]md2.Vec{r.min, {X: r.max.X, Y: r.min.Y}, r.max, {X: r.min.X, Y: r.max.Y}}
}

func half(v md2.Vec) md2.Vec { return md2.Vec{X: v.X / 2, Y: v.Y / 2} }

// lerp returns a + t*(b-a).
func lerp(a, b md2.Vec, t float64) md2.Vec {
	ha, hb := half(a), half(b)
	return md2.Vec{
		X: 2 * (ha.X + t*(hb.X-ha.X)),
		Y: 2 * (ha.Y + t*(hb.Y-ha.Y)),
	}
}

func finite(v md2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// clipSegment clips segment a-b to r using the Liang-Barsky algorithm.
// ok is false when no part of the segment lies within r.
func clipSegment(a, b md2.Vec, r rect) (ca, cb md2.Vec, ok bool) {
	ha, hb := half(a), half(b)
	hr := rect{min: half(r.min), max: half(r.max)}
	dx, dy := hb.X-ha.X, hb.Y-ha.Y
	t0, t1 := 0.0, 1.0
	clipT := func(p, q float64) bool {
		if p == 0 {
			return q >= 0 // Parallel to the edge.
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = min(t1, t)
		}
		return true
	}
	if !clipT(-dx, ha.X-hr.min.X) || !clipT(dx, hr.max.X-ha.X) ||
		!clipT(-dy, ha.Y-hr.min.Y) || !clipT(dy, hr.max.Y-ha.Y) {
		return a, b, false
	}
	ca, cb = a, b
	if t0 > 0 {
		ca = lerp(a, b, t0)
	}
	if t1 < 1 {
		cb = lerp(a, b, t1)
	}
	return ca, cb, true
}

// clipPolygon clips the closed polygon pts to r with the Sutherland-Hodgman algorithm.
// Winding numbers of points inside r are preserved, so nonzero fills are unchanged
// within r. The result is built in dst using tmp as scratch; both are returned for reuse.
func clipPolygon(dst, tmp, pts []md2.Vec, r rect) (clipped, scratch []md2.Vec) {
	in := append(tmp[:0], pts...)
	out := dst[:0]
	for edge := 0; edge < 4; edge++ {
		out = clipEdge(out[:0], in, r, edge)
		in, out = out, in
		if len(in) == 0 {
			break
		}
	}
	return in, out
}

// clipEdge keeps the part of polygon in that lies on the inner side of one edge of r.
// Edges are numbered left, right, top, bottom.
func clipEdge(out, in []md2.Vec, r rect, edge int) []md2.Vec {
	var (
		axisY = edge >= 2
		bound float64
		less  = edge == 1 || edge == 3
	)
	switch edge {
	case 0:
		bound = r.min.X
	case 1:
		bound = r.max.X
	case 2:
		bound = r.min.Y
	case 3:
		bound = r.max.Y
	}
	coord := func(p md2.Vec) float64 {
		if axisY {
			return p.Y
		}
		return p.X
	}
	inside := func(p md2.Vec) bool {
		if less {
			return coord(p) <= bound
		}
		return coord(p) >= bound
	}
	cross := func(a, b md2.Vec) md2.Vec {
		ca, cb := coord(a)/2, coord(b)/2
		p := lerp(a, b, (bound/2-ca)/(cb-ca))
		if axisY {
			p.Y = bound
		} else {
			p.X = bound
		}
		return p
	}
	n := len(in)
	for i := 0; i < n; i++ {
		prev, cur := in[(i+n-1)%n], in[i]
		curIn, prevIn := inside(cur), inside(prev)
		switch {
		case curIn && !prevIn:
			out = append(out, cross(prev, cur), cur)
		case curIn:
			out = append(out, cur)
		case prevIn:
			out = append(out, cross(prev, cur))
		}
	}
	return out
}
