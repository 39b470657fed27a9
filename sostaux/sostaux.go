package sostaux

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/soypat/sost"
	"github.com/soypat/sost/raster"
)

// DrawFunc draws one full frame on c. It is called after c has been cleared.
type DrawFunc func(c *sost.Canvas3D) error

// RenderConfig configures offline rendering of a frame to an image.
type RenderConfig struct {
	// Width and Height of the output image in pixels. Default to 256.
	Width, Height int
	// Box dimensions of view space. Default to 2.
	BoxWidth, BoxHeight, BoxDepth float64
	Angle                         sost.Angle
	// Background is the clear color. Defaults to opaque black.
	Background color.Color
	Silent     bool
	Image      raster.ImageConfig
}

func (cfg *RenderConfig) setDefaults() {
	if cfg.Width == 0 {
		cfg.Width = 256
	}
	if cfg.Height == 0 {
		cfg.Height = 256
	}
	if cfg.BoxWidth == 0 {
		cfg.BoxWidth = 2
	}
	if cfg.BoxHeight == 0 {
		cfg.BoxHeight = 2
	}
	if cfg.BoxDepth == 0 {
		cfg.BoxDepth = 2
	}
	if cfg.Background == nil {
		cfg.Background = color.Black
	}
}

// Render draws a single frame with draw and returns the resulting image.
func Render(cfg RenderConfig, draw DrawFunc) (*image.RGBA, error) {
	if draw == nil {
		return nil, errors.New("Render requires a draw function")
	}
	cfg.setDefaults()
	if cfg.Width < 0 || cfg.Height < 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", cfg.Width, cfg.Height)
	}
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	c, err := newImageCanvas(img, cfg.BoxWidth, cfg.BoxHeight, cfg.BoxDepth, cfg.Image)
	if err != nil {
		return nil, err
	}
	err = c.Camera().SetAngle(cfg.Angle)
	if err != nil {
		return nil, err
	}
	err = c.SetBackground(cfg.Background)
	if err != nil {
		return nil, err
	}
	c.Clear()
	err = draw(c)
	if err != nil {
		return img, fmt.Errorf("drawing frame: %w", err)
	}
	return img, nil
}

// RenderPNG renders a frame and encodes it as PNG to w.
func RenderPNG(w io.Writer, cfg RenderConfig, draw DrawFunc) error {
	if w == nil {
		return errors.New("RenderPNG requires output writer")
	}
	img, err := Render(cfg, draw)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderPNGFile renders a frame and saves it to a PNG file with said filename.
func RenderPNGFile(filename string, cfg RenderConfig, draw DrawFunc) error {
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	watch := stopwatch()
	img, err := Render(cfg, draw)
	if err != nil {
		return err
	}
	log("rendered", img.Bounds().Dx(), "x", img.Bounds().Dy(), "frame in", watch())
	watch = stopwatch()
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = png.Encode(fp, img)
	if err != nil {
		return err
	}
	err = fp.Sync()
	if err != nil {
		return err
	}
	log("wrote", fp.Name(), "in", watch())
	return nil
}

// UIConfig configures the interactive viewer started by [UI].
type UIConfig struct {
	// Width and Height of the window in pixels. Default to 800x800.
	Width, Height int
	// Box dimensions of view space. Default to 2.
	BoxWidth, BoxHeight, BoxDepth float64
	// Angle is the initial camera orientation.
	Angle sost.Angle
	// Speed is the number of camera turns per drag across the window. Defaults to 2.
	Speed      float64
	Background color.Color
	Title      string
	// Context ends the viewer loop when done. May be nil.
	Context context.Context
	Image   raster.ImageConfig
}

func (cfg *UIConfig) setDefaults() {
	if cfg.Width == 0 {
		cfg.Width = 800
	}
	if cfg.Height == 0 {
		cfg.Height = 800
	}
	if cfg.BoxWidth == 0 {
		cfg.BoxWidth = 2
	}
	if cfg.BoxHeight == 0 {
		cfg.BoxHeight = 2
	}
	if cfg.BoxDepth == 0 {
		cfg.BoxDepth = 2
	}
	if cfg.Speed == 0 {
		cfg.Speed = 2
	}
	if cfg.Background == nil {
		cfg.Background = color.Black
	}
	if cfg.Title == "" {
		cfg.Title = "sost 3D canvas"
	}
}

// UI opens a window showing the frame drawn by draw. Dragging with the left mouse
// button orbits the camera and scrolling zooms. Every input clears the canvas and
// calls draw again. UI must be called from the main goroutine with the OS thread locked.
// Requires cgo; without it UI returns an error.
func UI(cfg UIConfig, draw DrawFunc) error {
	if draw == nil {
		return errors.New("UI requires a draw function")
	}
	cfg.setDefaults()
	if cfg.Width < 0 || cfg.Height < 0 {
		return fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	return ui(cfg, draw)
}

func newImageCanvas(img *image.RGBA, w, h, d float64, cfg raster.ImageConfig) (*sost.Canvas3D, error) {
	surf, err := raster.NewImage(img, cfg)
	if err != nil {
		return nil, err
	}
	return sost.NewCanvas3D(surf, w, h, d)
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
