package sostaux

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"golang.org/x/image/colornames"
)

// HSV interpolation logic in this file taken from Esme Lamb's (@dedelala)
// excellent color manipulation work presented at Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

// ParseColor parses a CSS style color string. Accepted forms are SVG color names
// ("red", "white"), "transparent", hex notation ("#4ca9d4", "#fff", "#ff000080", "#f008")
// and functional notation ("rgb(255, 0, 255)", "rgba(255, 0, 255, 0.25)").
// The returned color is a [color.NRGBA].
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return color.NRGBA{}, fmt.Errorf("empty color string")
	case s == "transparent":
		return color.NRGBA{}, nil
	case s[0] == '#':
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	}
	c, ok := colornames.Map[s]
	if !ok {
		return color.NRGBA{}, fmt.Errorf("unknown color name %q", s)
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

// MustParseColor is like [ParseColor] but panics on error. Intended for color literals.
func MustParseColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(x string) (color.NRGBA, error) {
	var short bool
	switch len(x) {
	case 3, 4:
		short = true
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("bad hex color length %q", x)
	}
	v, err := strconv.ParseUint(x, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad hex color %q: %w", x, err)
	}
	var ch [4]uint8
	ch[3] = 0xff
	ndigits := len(x)
	if short {
		for i := 0; i < ndigits; i++ {
			d := uint8(v>>(4*(ndigits-1-i))) & 0xf
			ch[i] = d<<4 | d
		}
	} else {
		for i := 0; i < ndigits/2; i++ {
			ch[i] = uint8(v >> (8 * (ndigits/2 - 1 - i)))
		}
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func parseRGBFunc(s string) (color.NRGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, fmt.Errorf("malformed color function %q", s)
	}
	name := strings.TrimSpace(s[:open])
	args := strings.Split(s[open+1:len(s)-1], ",")
	if (name == "rgb" && len(args) != 3) || (name == "rgba" && len(args) != 4) || (name != "rgb" && name != "rgba") {
		return color.NRGBA{}, fmt.Errorf("bad color function %q", s)
	}
	var ch [4]uint8
	ch[3] = 0xff
	for i, arg := range args {
		arg = strings.TrimSpace(arg)
		percent := strings.HasSuffix(arg, "%")
		arg = strings.TrimSuffix(arg, "%")
		f, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("bad color component %q: %w", args[i], err)
		}
		var unit float32 // Component normalized to 0..1.
		switch {
		case percent:
			unit = float32(f) / 100
		case i == 3:
			unit = float32(f)
		default:
			unit = float32(f) / math.MaxUint8
		}
		ch[i] = uint8(math.Floor(ms1.Clamp(unit, 0, 1)*math.MaxUint8 + 0.5))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// ColorLerp interpolates between c0 and c1 through HSV space taking the shortest
// path around the hue circle. t=0 returns c0 and t=1 returns c1. Alpha is interpolated linearly.
func ColorLerp(c0, c1 color.Color, t float32) color.NRGBA {
	t = ms1.Clamp(t, 0, 1)
	h0, s0, v0, a0 := colorToHSVA(c0)
	h1, s1, v1, a1 := colorToHSVA(c1)
	h, s, v := interpHSV(h0, s0, v0, h1, s1, v1, t)
	r, g, b := hsvToRGB(h, s, v)
	return color.NRGBA{
		R: uint8(ms1.Clamp(r, 0, 1) * math.MaxUint8),
		G: uint8(ms1.Clamp(g, 0, 1) * math.MaxUint8),
		B: uint8(ms1.Clamp(b, 0, 1) * math.MaxUint8),
		A: uint8(ms1.Interp(a0, a1, t) * math.MaxUint8),
	}
}

func interpHSV(h0, s0, v0, h1, s1, v1, t float32) (h, s, v float32) {
	switch {
	case h1-h0 > 0.5:
		h0 += 1.0
	case h1-h0 < -0.5:
		h1 += 1.0
	}
	h = ms1.Interp(h0, h1, t)
	if h >= 1 {
		h -= 1
	}
	s = ms1.Interp(s0, s1, t)
	v = ms1.Interp(v0, v1, t)
	return h, s, v
}

func colorToHSVA(c color.Color) (h, s, v, a float32) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	h, s, v = rgbToHSV(float32(n.R)/math.MaxUint8, float32(n.G)/math.MaxUint8, float32(n.B)/math.MaxUint8)
	return h, s, v, float32(n.A) / math.MaxUint8
}

// hsvToRGB expects and returns values in 0..1.
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	var (
		c = s * v
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = v - c
	)

	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}

	r, g, b = r+m, g+m, b+m
	return r, g, b
}

func rgbToHSV(r, g, b float32) (h, s, v float32) {
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		c    = xmax - xmin
	)
	v = xmax
	switch {
	case c == 0:
		h = 0
	case v == r:
		h = (g - b) / c / 6
	case v == g:
		h = (2 + (b-r)/c) / 6
	case v == b:
		h = (4 + (r-g)/c) / 6
	}
	if h < 0 {
		h += 1
	}
	if v != 0 {
		s = c / v
	}
	return h, s, v
}
