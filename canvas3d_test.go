package sost_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/soypat/geometry/md2"
	"github.com/soypat/geometry/md3"
	"github.com/soypat/sost"
	"github.com/soypat/sost/raster"
)

func newRecCanvas(t *testing.T, sw, sh int, bw, bh, bd float64) (*sost.Canvas3D, *raster.Recorder) {
	t.Helper()
	rec := raster.NewRecorder(sw, sh)
	c, err := sost.NewCanvas3D(rec, bw, bh, bd)
	if err != nil {
		t.Fatal(err)
	}
	rec.Reset() // Discard the initial background paint.
	return c, rec
}

func rasterNear(a, b md2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestIdentityCamera(t *testing.T) {
	c, _ := newRecCanvas(t, 100, 100, 1, 1, 1)
	rng := rand.New(rand.NewSource(1))
	vs := c.ViewSpace()
	for i := 0; i < 100; i++ {
		v := randVec(rng, 10)
		if got := vs.FromObject(v); got != v {
			t.Fatalf("identity camera FromObject(%v) = %v", v, got)
		}
	}
}

func TestSpaceRoundTrip(t *testing.T) {
	const tol = 1e-9
	c, _ := newRecCanvas(t, 300, 200, 3, 2, 5)
	cam := c.Camera()
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		cam.SetAngle(sost.Angle{Theta: rng.Float64() * 7, Phi: rng.Float64() * -7})
		cam.SetCenter(randVec(rng, 3))
		cam.SetZoom(0.1 + rng.Float64()*4)
		v := randVec(rng, 10)
		got := c.ObjectSpace().FromView(c.ViewSpace().FromObject(v))
		if !vecNear(got, v, tol) {
			t.Fatalf("FromView(FromObject(%v)) = %v", v, got)
		}
	}
}

func TestCenterProjection(t *testing.T) {
	const tol = 1e-9
	for _, dims := range []struct {
		sw, sh     int
		bw, bh, bd float64
	}{
		{256, 256, 2, 2, 2},
		{640, 480, 3, 1.7, 0.3},
		{33, 77, 0.1, 9, 4},
	} {
		c, _ := newRecCanvas(t, dims.sw, dims.sh, dims.bw, dims.bh, dims.bd)
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 20; i++ {
			c.Camera().SetAngle(sost.Angle{Theta: rng.NormFloat64(), Phi: rng.NormFloat64()})
			c.Camera().SetZoom(0.5 + rng.Float64())
			got := c.RasterSpace().FromObject(md3.Vec{})
			want := md2.Vec{X: float64(dims.sw) / 2, Y: float64(dims.sh) / 2}
			if !rasterNear(got, want, tol) {
				t.Fatalf("origin projected to %v, want %v", got, want)
			}
		}
	}
}

func TestScenarioProjection(t *testing.T) {
	c, rec := newRecCanvas(t, 256, 256, 2, 2, 2)
	err := c.Camera().SetAngle(sost.Angle{Theta: math.Pi / 4, Phi: math.Pi / 4})
	if err != nil {
		t.Fatal(err)
	}
	// Rotating (1,0,0) by (-π/4, -π/4) gives view point (√2/2, -1/2, 1/2).
	want := md2.Vec{X: (math.Sqrt2/2 + 1) * 128, Y: 256 - 1.5*128}
	got := c.RasterSpace().FromObject(md3.Vec{X: 1})
	if !rasterNear(got, want, 1e-6) {
		t.Fatalf("got %v, want %v", got, want)
	}
	err = c.Point(md3.Vec{X: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Commands) != 1 || rec.Commands[0].Op != raster.OpFillCircle {
		t.Fatalf("unexpected commands %v", rec.Commands)
	}
	style := sost.DefaultStyle()
	cmd := rec.Commands[0]
	if !rasterNear(cmd.P, want, 1e-6) || cmd.Size != style.PointRadius || cmd.Color != style.PointColor {
		t.Errorf("unexpected point command %v", cmd)
	}
}

func TestRasterAxes(t *testing.T) {
	const tol = 1e-12
	c, _ := newRecCanvas(t, 200, 100, 4, 2, 8)
	rs := c.RasterSpace()
	for _, test := range []struct {
		v    md3.Vec
		want md2.Vec
	}{
		{md3.Vec{X: -2, Z: 1}, md2.Vec{X: 0, Y: 0}},     // Top left.
		{md3.Vec{X: 2, Z: -1}, md2.Vec{X: 200, Y: 100}}, // Bottom right.
		{md3.Vec{X: 1, Y: 3, Z: 0.5}, md2.Vec{X: 150, Y: 25}},
		{md3.Vec{X: 1, Y: -3, Z: 0.5}, md2.Vec{X: 150, Y: 25}}, // Depth is dropped.
	} {
		got := rs.FromView(test.v)
		if !rasterNear(got, test.want, tol) {
			t.Errorf("FromView(%v) = %v, want %v", test.v, got, test.want)
		}
	}
}

func TestZoomHalvesView(t *testing.T) {
	const tol = 1e-12
	c, _ := newRecCanvas(t, 100, 100, 2, 2, 2)
	cam := c.Camera()
	cam.SetAngle(sost.Angle{Theta: 0.7, Phi: -0.4})
	cam.SetCenter(md3.Vec{X: 0.5, Y: -1, Z: 2})
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		v := randVec(rng, 5)
		cam.SetZoom(1.5)
		base := c.ViewSpace().FromObject(v)
		cam.SetZoom(3)
		half := c.ViewSpace().FromObject(v)
		if !vecNear(half, md3.Scale(0.5, base), tol) {
			t.Fatalf("doubling zoom: got %v, want %v", half, md3.Scale(0.5, base))
		}
		// Direction relative to the center is preserved.
		nb, nh := md3.Norm(base), md3.Norm(half)
		if nb > 0 && math.Abs(md3.Dot(base, half)/(nb*nh)-1) > 1e-12 {
			t.Fatalf("zoom changed direction of %v", v)
		}
	}
}

func TestPolygonClosure(t *testing.T) {
	c, rec := newRecCanvas(t, 256, 256, 2, 2, 2)
	c.Camera().SetAngle(sost.Angle{Theta: math.Pi / 4, Phi: math.Pi / 4})
	pts := []md3.Vec{
		{X: -0.25, Y: -0.25},
		{X: -0.25, Y: 0.25},
		{X: 0.25, Y: 0.25},
		{X: 0.25, Y: -0.25},
	}
	err := c.Polygon(pts)
	if err != nil {
		t.Fatal(err)
	}
	wantOps := []raster.Op{
		raster.OpBeginPath, raster.OpMoveTo, raster.OpLineTo, raster.OpLineTo, raster.OpLineTo,
		raster.OpClosePath, raster.OpFill, raster.OpStroke,
	}
	ops := rec.Ops()
	if len(ops) != len(wantOps) {
		t.Fatalf("got ops %v, want %v", ops, wantOps)
	}
	for i := range wantOps {
		if ops[i] != wantOps[i] {
			t.Fatalf("op %d: got %v, want %v", i, ops[i], wantOps[i])
		}
	}
	rs := c.RasterSpace()
	for i, p := range pts {
		got := rec.Commands[i+1].P
		if want := rs.FromObject(p); got != want {
			t.Errorf("path point %d: got %v, want %v", i, got, want)
		}
	}
	style := c.Style()
	if rec.Commands[6].Color != style.FillColor {
		t.Error("fill did not use fill color")
	}
	if rec.Commands[7].Color != style.StrokeColor || rec.Commands[7].Size != style.LineWidth {
		t.Error("stroke did not use stroke style")
	}
}

func TestPolygonToggles(t *testing.T) {
	c, rec := newRecCanvas(t, 64, 64, 2, 2, 2)
	tri := []md3.Vec{{X: -0.5}, {X: 0.5}, {Z: 0.5}}
	for _, test := range []struct {
		stroke, fill bool
		last         []raster.Op
	}{
		{true, true, []raster.Op{raster.OpClosePath, raster.OpFill, raster.OpStroke}},
		{true, false, []raster.Op{raster.OpLineTo, raster.OpClosePath, raster.OpStroke}},
		{false, true, []raster.Op{raster.OpLineTo, raster.OpClosePath, raster.OpFill}},
		{false, false, []raster.Op{raster.OpLineTo, raster.OpLineTo, raster.OpClosePath}},
	} {
		rec.Reset()
		style := c.Style()
		style.Stroke, style.Fill = test.stroke, test.fill
		if err := c.SetStyle(style); err != nil {
			t.Fatal(err)
		}
		if err := c.Polygon(tri); err != nil {
			t.Fatal(err)
		}
		ops := rec.Ops()
		tail := ops[len(ops)-len(test.last):]
		for i := range tail {
			if tail[i] != test.last[i] {
				t.Errorf("stroke=%v fill=%v: got ops %v", test.stroke, test.fill, ops)
				break
			}
		}
	}
}

func TestDegeneratePolygons(t *testing.T) {
	c, rec := newRecCanvas(t, 64, 64, 2, 2, 2)
	err := c.Polygon(nil)
	if !errors.Is(err, sost.ErrInvalidArgument) {
		t.Errorf("empty polygon: expected ErrInvalidArgument, got %v", err)
	}
	err = c.ViewPolygon([]md3.Vec{})
	if !errors.Is(err, sost.ErrInvalidArgument) {
		t.Errorf("empty view polygon: expected ErrInvalidArgument, got %v", err)
	}
	if len(rec.Commands) != 0 {
		t.Errorf("failed polygon issued commands %v", rec.Commands)
	}
	err = c.Polygon([]md3.Vec{{X: 0.1}})
	if err != nil {
		t.Errorf("single point polygon: %v", err)
	}
	err = c.Polygon([]md3.Vec{{X: 0.1}, {Z: 0.3}})
	if err != nil {
		t.Errorf("two point polygon: %v", err)
	}
	ops := rec.Ops()
	if len(ops) == 0 || ops[0] != raster.OpBeginPath || ops[1] != raster.OpMoveTo || ops[2] != raster.OpClosePath {
		t.Errorf("unexpected single point ops %v", ops)
	}
}

func TestNonFiniteInput(t *testing.T) {
	c, rec := newRecCanvas(t, 64, 64, 2, 2, 2)
	before := c.Style()
	nan := md3.Vec{Y: math.NaN()}
	inf := md3.Vec{Z: math.Inf(-1)}
	ok := md3.Vec{X: 0.5}
	for _, err := range []error{
		c.Point(nan),
		c.Line(ok, inf),
		c.Line(nan, ok),
		c.Polygon([]md3.Vec{ok, ok, nan}),
		c.ViewPoint(inf),
		c.ViewLine(ok, nan),
		c.ViewPolygon([]md3.Vec{ok, inf}),
		c.Text(nan, "label"),
		// Finite input overflowing during projection.
		c.Point(md3.Vec{X: math.MaxFloat64, Z: math.MaxFloat64}),
	} {
		if !errors.Is(err, sost.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	}
	if len(rec.Commands) != 0 {
		t.Errorf("failed draws issued commands %v", rec.Commands)
	}
	if c.Style() != before {
		t.Error("failed draws modified style")
	}
}

func TestLineStrokeToggle(t *testing.T) {
	c, rec := newRecCanvas(t, 64, 64, 2, 2, 2)
	u, v := md3.Vec{X: -1}, md3.Vec{X: 1}
	if err := c.Line(u, v); err != nil {
		t.Fatal(err)
	}
	want := []raster.Op{raster.OpBeginPath, raster.OpMoveTo, raster.OpLineTo, raster.OpStroke}
	ops := rec.Ops()
	if len(ops) != len(want) {
		t.Fatalf("got ops %v, want %v", ops, want)
	}
	if rec.Commands[1].P != (md2.Vec{X: 0, Y: 32}) || rec.Commands[2].P != (md2.Vec{X: 64, Y: 32}) {
		t.Errorf("unexpected line endpoints %v %v", rec.Commands[1], rec.Commands[2])
	}
	rec.Reset()
	style := c.Style()
	style.Stroke = false
	c.SetStyle(style)
	if err := c.Line(u, v); err != nil {
		t.Fatal(err)
	}
	if len(rec.Commands) != 0 {
		t.Errorf("line with stroke disabled issued %v", rec.Commands)
	}
}

func TestStyleStack(t *testing.T) {
	c, _ := newRecCanvas(t, 64, 64, 2, 2, 2)
	def := c.Style()
	if def != sost.DefaultStyle() {
		t.Fatal("new canvas does not use default style")
	}
	c.Save()
	s := def
	s.StrokeColor = color.RGBA{G: 255, A: 255}
	s.LineWidth = 7
	if err := c.SetStyle(s); err != nil {
		t.Fatal(err)
	}
	c.Save()
	s.Fill = false
	c.SetStyle(s)
	c.Restore()
	if got := c.Style(); got.LineWidth != 7 || !got.Fill {
		t.Errorf("unexpected restored style %+v", got)
	}
	c.Restore()
	if c.Style() != def {
		t.Error("expected default style after restoring twice")
	}
	c.Restore() // Empty stack is a no-op.
	if c.Style() != def {
		t.Error("restore on empty stack changed style")
	}

	for _, bad := range []sost.Style{
		{PointRadius: -1, LineWidth: 1, PointColor: color.White, StrokeColor: color.White, FillColor: color.White},
		{PointRadius: 1, LineWidth: math.NaN(), PointColor: color.White, StrokeColor: color.White, FillColor: color.White},
		{PointRadius: 1, LineWidth: 1, StrokeColor: color.White, FillColor: color.White},
	} {
		if err := c.SetStyle(bad); !errors.Is(err, sost.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for style %+v, got %v", bad, err)
		}
	}
	if c.Style() != def {
		t.Error("invalid style was applied")
	}
}

func TestClearAndBackground(t *testing.T) {
	rec := raster.NewRecorder(10, 10)
	c, err := sost.NewCanvas3D(rec, 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Commands) != 1 || rec.Commands[0].Op != raster.OpClear || rec.Commands[0].Color != color.Black {
		t.Fatalf("expected black clear on construction, got %v", rec.Commands)
	}
	if err := c.SetBackground(nil); err == nil {
		t.Error("expected error for nil background")
	}
	if err := c.SetBackground(color.Transparent); err != nil {
		t.Fatal(err)
	}
	c.Camera().SetAngle(sost.Angle{Theta: 1})
	c.Clear()
	last := rec.Commands[len(rec.Commands)-1]
	if last.Op != raster.OpClear || last.Color != color.Transparent {
		t.Errorf("unexpected clear command %v", last)
	}
	if c.Camera().Angle().Theta != 1 {
		t.Error("clear modified camera")
	}
}

func TestText(t *testing.T) {
	c, rec := newRecCanvas(t, 100, 100, 2, 2, 2)
	err := c.Text(md3.Vec{X: 1, Z: 1}, "x")
	if err != nil {
		t.Fatal(err)
	}
	cmd := rec.Commands[0]
	if cmd.Op != raster.OpText || cmd.Text != "x" || cmd.P != (md2.Vec{X: 100, Y: 0}) {
		t.Errorf("unexpected text command %v", cmd)
	}
	var nt noText
	c2, err := sost.NewCanvas3D(nt, 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := c2.Text(md3.Vec{}, "x"); err == nil {
		t.Error("expected error on surface without text support")
	}
}

func TestNewCanvas3DErrors(t *testing.T) {
	rec := raster.NewRecorder(10, 10)
	for _, dims := range [][3]float64{
		{0, 1, 1}, {1, -1, 1}, {1, 1, math.NaN()}, {math.Inf(1), 1, 1},
	} {
		_, err := sost.NewCanvas3D(rec, dims[0], dims[1], dims[2])
		if !errors.Is(err, sost.ErrInvalidArgument) {
			t.Errorf("dims %v: expected ErrInvalidArgument, got %v", dims, err)
		}
	}
	if _, err := sost.NewCanvas3D(raster.NewRecorder(0, 10), 1, 1, 1); err == nil {
		t.Error("expected error for empty surface")
	}
	if _, err := sost.NewCanvas3D(nil, 1, 1, 1); err == nil {
		t.Error("expected error for nil surface")
	}
	c, err := sost.NewCanvas3D(raster.NewRecorder(30, 20), 3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	w, h, d := c.Box()
	if w != 3 || h != 2 || d != 1 {
		t.Errorf("Box() = %v,%v,%v", w, h, d)
	}
	if sw, sh := c.SurfaceSize(); sw != 30 || sh != 20 {
		t.Errorf("SurfaceSize() = %v,%v", sw, sh)
	}
}

func TestDrawOnImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	surf, err := raster.NewImage(img, raster.ImageConfig{})
	if err != nil {
		t.Fatal(err)
	}
	c, err := sost.NewCanvas3D(surf, 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	c.Camera().SetAngle(sost.Angle{Theta: math.Pi / 4, Phi: math.Pi / 4})
	style := c.Style()
	style.PointColor = color.White
	style.PointRadius = 4
	c.SetStyle(style)
	if err := c.Point(md3.Vec{}); err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := img.At(32, 32).RGBA()
	if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
		t.Errorf("expected white point at surface center, got %v", img.At(32, 32))
	}
	r, g, b, _ = img.At(2, 2).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black background at corner, got %v", img.At(2, 2))
	}
}

// noText is a surface without text support.
type noText struct{}

func (noText) Size() (int, int)                         { return 1, 1 }
func (noText) BeginPath()                               {}
func (noText) MoveTo(md2.Vec)                           {}
func (noText) LineTo(md2.Vec)                           {}
func (noText) ClosePath()                               {}
func (noText) Stroke(color.Color, float64)              {}
func (noText) Fill(color.Color)                         {}
func (noText) FillCircle(md2.Vec, float64, color.Color) {}
func (noText) Clear(color.Color)                        {}
