package sostaux

import (
	"math"

	"github.com/soypat/sost"
)

// OrbitDelta returns angle rotated by a pointer drag of (dx, dy) pixels over a viewport
// of size pixels. Dragging across the full viewport turns the camera speed full turns:
// horizontal drags change Theta and vertical drags change Phi.
func OrbitDelta(angle sost.Angle, dx, dy, size, speed float64) sost.Angle {
	if size <= 0 {
		return angle
	}
	k := 2 * math.Pi * speed / size
	angle.Theta += dx * k
	angle.Phi += dy * k
	return angle
}

// ZoomDelta returns zoom changed by scroll amount yoff. Positive offsets zoom in.
// The result is clamped to [minZoom, maxZoom].
func ZoomDelta(zoom, yoff, minZoom, maxZoom float64) float64 {
	zoom -= yoff * (zoom*.1 + .01)
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	return zoom
}
