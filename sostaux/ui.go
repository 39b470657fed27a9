//go:build !tinygo && cgo

package sostaux

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

const (
	minZoom = 1e-3
	maxZoom = 1e3
)

func ui(cfg UIConfig, draw DrawFunc) error {
	window, term, err := startGLFW(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer term()

	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	c, err := newImageCanvas(img, cfg.BoxWidth, cfg.BoxHeight, cfg.BoxDepth, cfg.Image)
	if err != nil {
		return err
	}
	cam := c.Camera()
	err = cam.SetAngle(cfg.Angle)
	if err != nil {
		return err
	}
	err = c.SetBackground(cfg.Background)
	if err != nil {
		return err
	}
	redraw := func() error {
		c.Clear()
		return draw(c)
	}
	err = redraw()
	if err != nil {
		return fmt.Errorf("drawing first frame: %w", err)
	}

	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertexSource,
		Fragment: fragmentSource,
	})
	if err != nil {
		return err
	}
	prog.Bind()
	// Quad covering the screen.
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	vertices := []float32{
		-1.0, -1.0,
		1.0, -1.0,
		-1.0, 1.0,
		-1.0, 1.0,
		1.0, -1.0,
		1.0, 1.0,
	}
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)
	posAttrib, err := prog.AttribLocation("aPos\x00")
	if err != nil {
		return err
	}
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	frameUniform, err := prog.UniformLocation("uFrame\x00")
	if err != nil {
		return err
	}
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	upload := func() {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(cfg.Width), int32(cfg.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	upload()
	gl.Uniform1i(frameUniform, 0)

	var (
		lastMouseX     float64
		lastMouseY     float64
		firstMouseMove = true
		isMousePressed = false
		refresh        = true
		drawErr        error
	)
	viewport := float64(min(cfg.Width, cfg.Height))
	flagEdit := func() {
		refresh = true
		drawErr = redraw()
		upload()
	}
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		if !isMousePressed {
			return
		}
		if firstMouseMove {
			lastMouseX = xpos
			lastMouseY = ypos
			firstMouseMove = false
		}
		angle := OrbitDelta(cam.Angle(), xpos-lastMouseX, ypos-lastMouseY, viewport, cfg.Speed)
		lastMouseX = xpos
		lastMouseY = ypos
		if cam.SetAngle(angle) == nil {
			flagEdit()
		}
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		zoom := ZoomDelta(cam.Zoom(), yoff, minZoom, maxZoom)
		if cam.SetZoom(zoom) == nil {
			flagEdit()
		}
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		if action == glfw.Press {
			isMousePressed = true
			firstMouseMove = true
			window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else if action == glfw.Release {
			isMousePressed = false
			window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	})

	ctx := cfg.Context
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		if drawErr != nil {
			return fmt.Errorf("drawing frame: %w", drawErr)
		}
		gl.ClearColor(0.0, 0.0, 0.0, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		prog.Bind()
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		window.SwapBuffers()

		// Sleep until input changes the frame.
		for {
			time.Sleep(time.Second / 60)
			glfw.PollEvents()
			if refresh || window.ShouldClose() {
				refresh = false
				break
			}
			if ctx != nil && ctx.Err() != nil {
				break
			}
		}
	}
	return nil
}

// Image rows are stored top-down while texture rows go bottom-up.
const vertexSource = `#version 460
in vec2 aPos;
out vec2 vTexCoord;
void main() {
    vTexCoord = vec2(aPos.x * 0.5 + 0.5, 0.5 - aPos.y * 0.5);
    gl_Position = vec4(aPos, 0.0, 1.0);
}
` + "\x00"

const fragmentSource = `#version 460
in vec2 vTexCoord;
out vec4 fragColor;
uniform sampler2D uFrame;
void main() {
    fragColor = texture(uFrame, vTexCoord);
}
` + "\x00"

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	log.Println("OpenGL version", gl.GoStr(gl.GetString(gl.VERSION)))
	return window, glfw.Terminate, nil
}
