package gldataaux

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/soypat/gldata"
	"github.com/soypat/gldata/glbuild"
)

// PreviewConfig configures the preview window.
type PreviewConfig struct {
	Width  int
	Height int
	Title  string
	// Context stops the preview when done. May be nil.
	Context context.Context
	// Positions are the 2D vertex positions drawn as triangles.
	// A quad covering the viewport is drawn when nil.
	Positions []float32
	// Palette holds the values uploaded to the plot_colors uniform array if declared.
	// A red to blue palette is used when nil.
	Palette []color.Color
	// NPlots is the number of equal consecutive position ranges told apart by the plot_index
	// attribute when declared. Defaults to the size of the plot_colors uniform, or 1.
	NPlots int
	Silent bool
}

// Preview compiles the finalized template's program and draws it in a window until it is closed.
// Declared scale and translation uniforms follow mouse drag and scroll; a declared viewport
// uniform follows the window aspect ratio. Preview must be called from the main thread.
func Preview(t *gldata.Template, cfg PreviewConfig) error {
	if !t.Finalized() {
		return fmt.Errorf("preview of unfinalized template: %w", gldata.ErrLifecycle)
	}
	prog, err := t.Program()
	if err != nil {
		return err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("preview requires positive window dimensions")
	} else if len(cfg.Positions)%2 != 0 {
		return errors.New("preview positions must be 2D")
	} else if cfg.Positions != nil && len(cfg.Positions) == 0 {
		return errors.New("preview of empty positions")
	}
	if cfg.Title == "" {
		cfg.Title = "gldata preview"
	}
	if cfg.Positions == nil {
		cfg.Positions = []float32{
			-1.0, -1.0,
			1.0, -1.0,
			-1.0, 1.0,
			-1.0, 1.0,
			1.0, -1.0,
			1.0, 1.0,
		}
	}
	return preview(prog, cfg)
}

// WriteProgram writes the program's sources to w prefixed with the version directive,
// each under a comment naming the stage, followed by the binding locations.
func WriteProgram(w io.Writer, prog gldata.Program) (n int, err error) {
	var b []byte
	b = append(b, "// vertex\n"...)
	b = append(b, glbuild.VersionStr...)
	b = append(b, prog.Vertex...)
	b = append(b, "// fragment\n"...)
	b = append(b, glbuild.VersionStr...)
	b = append(b, prog.Fragment...)
	b = append(b, "\n// bindings\n"...)
	for _, group := range []struct {
		kind string
		vars []glbuild.Var
	}{
		{kind: "attribute", vars: prog.Bindings.Attributes},
		{kind: "texture", vars: prog.Bindings.Textures},
	} {
		for _, v := range group.vars {
			b = fmt.Appendf(b, "// %s %s location=%d\n", group.kind, v.Name, v.Location)
		}
	}
	for _, v := range prog.Bindings.Uniforms {
		b = fmt.Appendf(b, "// uniform %s\n", v.Name)
	}
	return w.Write(b)
}

func logger(silent bool) func(args ...any) {
	return func(args ...any) {
		if !silent {
			fmt.Println(args...)
		}
	}
}
