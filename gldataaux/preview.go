//go:build !tinygo && cgo

package gldataaux

import (
	"fmt"
	"time"

	math "github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gldata"
	"github.com/soypat/gldata/glbuild"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/v4.6-core/glgl"
)

func preview(prog gldata.Program, cfg PreviewConfig) error {
	log := logger(cfg.Silent)
	pos, ok := prog.Bindings.Attribute("position")
	if !ok || pos.Type != glbuild.Float || pos.NDim != 2 {
		return fmt.Errorf("preview requires a 2D float position attribute, got %+v", pos)
	}
	window, term, err := startGLFW(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer term()

	glprog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   glbuild.VersionStr + prog.Vertex + "\x00",
		Fragment: glbuild.VersionStr + prog.Fragment + "\x00",
	})
	if err != nil {
		return fmt.Errorf("%s\n\n%s\n\n%w", prog.Vertex, prog.Fragment, err)
	}
	glprog.Bind()
	defer glprog.Unbind()

	// Unused attributes may be optimized out by the driver, in which case there is nothing to check.
	driverLoc, err := glprog.AttribLocation("position\x00")
	if err == nil && driverLoc != uint32(pos.Location) {
		return fmt.Errorf("driver bound position at location %d, template declared %d", driverLoc, pos.Location)
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	nverts := len(cfg.Positions) / 2
	posVBO := loadAttribute(uint32(pos.Location), 2, cfg.Positions)
	defer gl.DeleteBuffers(1, &posVBO)
	log("uploaded", nverts, "positions to location", pos.Location)

	nplots := max(cfg.NPlots, 1)
	if u, ok := prog.Bindings.Uniform("plot_colors"); ok {
		if cfg.NPlots == 0 {
			nplots = u.Size
		} else if cfg.NPlots != u.Size {
			return fmt.Errorf("preview of %d plots with a plot_colors uniform of size %d", cfg.NPlots, u.Size)
		}
		palette := cfg.Palette
		if palette == nil {
			palette = Palette(nplots, red, blue)
		} else if len(palette) != nplots {
			return fmt.Errorf("got %d palette colors for %d plots", len(palette), nplots)
		}
		data := make([]float32, 0, 4*nplots)
		for _, c := range palette {
			v := gldata.ColorToVec4(c)
			data = append(data, v[:]...)
		}
		loc, err := glprog.UniformLocation("plot_colors\x00")
		if err == nil {
			gl.Uniform4fv(loc, int32(nplots), &data[0])
		}
	}
	if idx, ok := prog.Bindings.Attribute("plot_index"); ok {
		indices := make([]float32, nverts)
		for i := range indices {
			indices[i] = float32(i * nplots / nverts)
		}
		idxVBO := loadAttribute(uint32(idx.Location), 1, indices)
		defer gl.DeleteBuffers(1, &idxVBO)
	}
	err = glgl.Err()
	if err != nil {
		return err
	}

	// Locations of navigation uniforms. Undeclared or optimized out uniforms are skipped.
	uniform := func(name string) (int32, bool) {
		if _, declared := prog.Bindings.Uniform(name); !declared {
			return -1, false
		}
		loc, err := glprog.UniformLocation(name + "\x00")
		return loc, err == nil
	}
	scaleUniform, hasScale := uniform("scale")
	translationUniform, hasTranslation := uniform("translation")
	viewportUniform, hasViewport := uniform("viewport")

	const (
		minZoom = 1e-3
		maxZoom = 1e3
	)
	var (
		zoom           float32 = 1
		translation    ms2.Vec
		lastMouse      ms2.Vec
		firstMouseMove = true
		isMousePressed = false
		refresh        = true
	)
	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		if !isMousePressed {
			return
		}
		refresh = true
		mouse := ms2.Vec{X: float32(xpos), Y: float32(ypos)}
		if firstMouseMove {
			lastMouse = mouse
			firstMouseMove = false
		}
		width, height := w.GetSize()
		delta := ms2.Sub(mouse, lastMouse)
		// Pixels to clip space, y axis points up in clip space.
		delta = ms2.DivElem(delta, ms2.Vec{X: float32(width) / 2, Y: -float32(height) / 2})
		translation = ms2.Add(translation, ms2.Scale(1/zoom, delta))
		lastMouse = mouse
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		refresh = true
		zoom = ms1.Clamp(zoom*math.Pow(1.1, float32(yoff)), minZoom, maxZoom)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		if action == glfw.Press {
			isMousePressed = true
			firstMouseMove = true
		} else if action == glfw.Release {
			isMousePressed = false
		}
	})
	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		refresh = true
		gl.Viewport(0, 0, int32(width), int32(height))
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
		if !refresh {
			time.Sleep(time.Second / 60)
			glfw.PollEvents()
			continue
		}
		refresh = false
		width, height := window.GetSize()
		gl.ClearColor(0.0, 0.0, 0.0, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		glprog.Bind()
		if hasScale {
			gl.Uniform2f(scaleUniform, zoom, zoom)
		}
		if hasTranslation {
			gl.Uniform2f(translationUniform, translation.X, translation.Y)
		}
		if hasViewport {
			vp := viewportRatio(width, height)
			gl.Uniform2f(viewportUniform, vp.X, vp.Y)
		}
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(nverts))
		window.SwapBuffers()
		glfw.PollEvents()
	}
	return glgl.Err()
}

// viewportRatio returns the factors dividing clip-space positions so that
// unit lengths are equal along both axes of a width by height viewport.
func viewportRatio(width, height int) ms2.Vec {
	aspect := float32(width) / math.Max(float32(height), 1)
	return ms2.Vec{X: math.Max(aspect, 1), Y: math.Max(1/aspect, 1)}
}

func loadAttribute(location uint32, ndim int32, data []float32) (vbo uint32) {
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(data), gl.Ptr(data), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointer(location, ndim, gl.FLOAT, false, 0, gl.PtrOffset(0))
	return vbo
}

func startGLFW(width, height int, title string) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

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
	return window, glfw.Terminate, nil
}
