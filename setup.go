package gldata

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"

	"github.com/soypat/gldata/glbuild"
	"github.com/soypat/gldata/glbuild/glsllib"
)

// Setup registers declarations and code on a template. Setups are composed
// linearly: each one only calls the template's add methods, so the result of
// a list of setups is the result of running them in order.
type Setup func(t *Template) error

// Build is the two-phase template builder: it creates a template, initializes it with setups and finalizes it.
func Build(setups ...Setup) (*Template, error) {
	t := New()
	err := t.Initialize(setups...)
	if err != nil {
		return nil, err
	}
	err = t.Finalize()
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Compose returns a setup that runs the argument setups in order.
func Compose(setups ...Setup) Setup {
	return func(t *Template) error {
		for _, setup := range setups {
			if setup == nil {
				continue
			}
			err := setup(t)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// WithRenderingOptions returns a setup that sets the template rendering options.
func WithRenderingOptions(opts RenderingOptions) Setup {
	return func(t *Template) error {
		t.SetRenderingOptions(opts)
		return nil
	}
}

// Transformation writes the clip-space position from the 2D float position attribute.
// Dynamic transformations scale and translate the position with the scale and translation uniforms
// so the host can pan and zoom. Static transformations pass the position through.
func Transformation(static bool) Setup {
	return func(t *Template) error {
		if static {
			t.AddVertexMain(`
    gl_Position = vec4(position, 0., 1.);`)
			return nil
		}
		err := errors.Join(
			t.AddUniform(Uniform("scale", glbuild.Float, 2)),
			t.AddUniform(Uniform("translation", glbuild.Float, 2)),
			t.AddVertexFunction(glsllib.TransformPosition()),
		)
		if err != nil {
			return err
		}
		t.AddVertexMain(`
    gl_Position = vec4(transform_position(position, scale, translation), 0., 1.);`)
		return nil
	}
}

// ConstrainRatio divides the clip-space position by the viewport uniform so shapes
// keep their aspect ratio when the window is not square. It is a no-op when not enabled.
func ConstrainRatio(enable bool) Setup {
	return func(t *Template) error {
		if !enable {
			return nil
		}
		err := t.AddUniform(Uniform("viewport", glbuild.Float, 2))
		if err != nil {
			return err
		}
		t.AddVertexMain(`
    gl_Position.xy = gl_Position.xy / viewport;`)
		return nil
	}
}

// DataOptions configures the position transformation of data templates.
type DataOptions struct {
	// Static disables pan and zoom navigation.
	Static bool
	// ConstrainRatio keeps the aspect ratio of the data independent of the viewport's.
	ConstrainRatio bool
}

// DefaultData applies the transformation and then the ratio constraint.
// The template must declare a 2D float position attribute, see [PlotData].
func DefaultData(opts DataOptions) Setup {
	return Compose(
		Transformation(opts.Static),
		ConstrainRatio(opts.ConstrainRatio),
	)
}

// PlotOptions configures point and line plot templates.
type PlotOptions struct {
	DataOptions
	// NPlots is the number of plots drawn by one program. Zero is treated as one.
	NPlots int
	// Colors are the plot colors. With several plots and no colors the colors
	// are read from the plot_colors uniform array, otherwise they must be one per plot.
	Colors []color.Color
}

// PlotData declares the 2D float position attribute and then applies [DefaultData].
//
// Several plots are told apart by the plot_index attribute which selects the
// plot color passed to the fragment stage in the vcolor varying.
func PlotData(opts PlotOptions) Setup {
	return func(t *Template) error {
		nplots := opts.NPlots
		if nplots == 0 {
			nplots = 1
		}
		if nplots < 0 {
			return fmt.Errorf("gldata: negative plot count %d: %w", nplots, ErrInvalidDescriptor)
		} else if len(opts.Colors) != 0 && len(opts.Colors) != nplots {
			return fmt.Errorf("gldata: got %d colors for %d plots: %w", len(opts.Colors), nplots, ErrInvalidDescriptor)
		}
		err := t.AddAttribute(Attribute("position", glbuild.Float, 2))
		if err != nil {
			return err
		}
		err = DefaultData(opts.DataOptions)(t)
		if err != nil {
			return err
		}
		if nplots == 1 {
			if len(opts.Colors) == 1 {
				t.SetRenderingOptions(RenderingOptions{DefaultColor: opts.Colors[0]})
			}
			return nil
		}
		return plotColors(t, nplots, opts.Colors)
	}
}

func plotColors(t *Template, nplots int, colors []color.Color) error {
	err := errors.Join(
		t.AddAttribute(Attribute("plot_index", glbuild.Float, 1)),
		t.AddVarying(Varying("vcolor", glbuild.Float, 4)),
	)
	if err != nil {
		return err
	}
	if len(colors) == 0 {
		err = t.AddUniform(Uniform("plot_colors", glbuild.Float, 4).Array(nplots))
		if err != nil {
			return err
		}
	} else {
		vecs := make([][4]float32, len(colors))
		for i := range colors {
			vecs[i] = ColorToVec4(colors[i])
		}
		t.AddVertexHeader(string(glbuild.AppendVec4SliceDecl(nil, "plot_colors", vecs)))
	}
	t.AddVertexMain(`
    vcolor = plot_colors[clamp(int(plot_index), 0, ` + strconv.Itoa(nplots-1) + `)];`)
	t.AddFragmentMain(`
    out_color = vcolor;`)
	return nil
}
