package gldataaux

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/gldata"
	"github.com/soypat/gldata/glbuild"
)

// TemplateConfig is the file representation of a template. It is decoded from TOML:
//
//	kind = "plot"
//	constrain_ratio = true
//	nplots = 2
//	colors = ["crimson", "#3050f0"]
//
//	[[uniform]]
//	name = "time"
//	type = "float"
//
//	[code]
//	vertex_main = ["gl_PointSize = 2.;"]
type TemplateConfig struct {
	// Kind selects the specialization: "" for a bare template, "data" or "plot".
	Kind           string   `toml:"kind"`
	Static         bool     `toml:"static"`
	ConstrainRatio bool     `toml:"constrain_ratio"`
	NPlots         int      `toml:"nplots"`
	Colors         []string `toml:"colors"`
	DefaultColor   string   `toml:"default_color"`
	Strict         bool     `toml:"strict"`

	Attributes []VarConfig `toml:"attribute"`
	Uniforms   []VarConfig `toml:"uniform"`
	Textures   []VarConfig `toml:"texture"`
	Varyings   []VarConfig `toml:"varying"`
	Code       CodeConfig  `toml:"code"`
}

// VarConfig is the file representation of a variable descriptor.
// For textures NDim is the sampler dimensionality.
type VarConfig struct {
	Name string `toml:"name"`
	// Type is the base type name, float when empty.
	Type string `toml:"type"`
	// NDim is the number of components, 1 when zero.
	NDim     int  `toml:"ndim"`
	Size     int  `toml:"size"`
	Location *int `toml:"location"`
}

// CodeConfig holds free-form code snippets, added in order.
type CodeConfig struct {
	VertexHeader   []string `toml:"vertex_header"`
	VertexMain     []string `toml:"vertex_main"`
	FragmentHeader []string `toml:"fragment_header"`
	FragmentMain   []string `toml:"fragment_main"`
}

// ParseTemplateConfig decodes a TOML template configuration. Unknown keys are an error.
func ParseTemplateConfig(r io.Reader) (TemplateConfig, error) {
	var cfg TemplateConfig
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg)
	if err != nil {
		return TemplateConfig{}, fmt.Errorf("decoding template config: %w", err)
	}
	return cfg, nil
}

// Var converts vc to a descriptor of the given kind.
func (vc VarConfig) Var(kind glbuild.Kind) (glbuild.Var, error) {
	v := glbuild.Var{Name: vc.Name, NDim: vc.NDim, Size: vc.Size, Location: glbuild.LocationAuto}
	if v.NDim == 0 {
		v.NDim = 1
	}
	if kind == glbuild.KindTexture {
		v.TexDim, v.NDim = v.NDim, 0
	}
	if vc.Type != "" {
		vt, err := glbuild.ParseVarType(vc.Type)
		if err != nil {
			return glbuild.Var{}, fmt.Errorf("%s %q: %w", kind, vc.Name, err)
		}
		v.Type = vt
	}
	if vc.Location != nil {
		v.Location = *vc.Location
	}
	return v, v.Validate(kind)
}

// Setup returns the setup that registers the configured declarations, specialization and code.
// Declarations are added before the specialization so the specialization can reuse them.
func (cfg TemplateConfig) Setup() (gldata.Setup, error) {
	colors := make([]color.Color, len(cfg.Colors))
	for i := range cfg.Colors {
		c, err := ParseColor(cfg.Colors[i])
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	var defaultColor color.Color
	if cfg.DefaultColor != "" {
		c, err := ParseColor(cfg.DefaultColor)
		if err != nil {
			return nil, err
		}
		defaultColor = c
	}
	var specialization gldata.Setup
	dataOpts := gldata.DataOptions{Static: cfg.Static, ConstrainRatio: cfg.ConstrainRatio}
	switch cfg.Kind {
	case "":
		if cfg.Static || cfg.ConstrainRatio || cfg.NPlots != 0 || len(colors) != 0 {
			return nil, errors.New("template options require kind \"data\" or \"plot\"")
		}
	case "data":
		specialization = gldata.DefaultData(dataOpts)
	case "plot":
		specialization = gldata.PlotData(gldata.PlotOptions{DataOptions: dataOpts, NPlots: cfg.NPlots, Colors: colors})
	default:
		return nil, fmt.Errorf("unknown template kind %q", cfg.Kind)
	}

	type declaration struct {
		kind glbuild.Kind
		v    glbuild.Var
	}
	var decls []declaration
	for _, group := range []struct {
		kind glbuild.Kind
		vcs  []VarConfig
	}{
		{kind: glbuild.KindAttribute, vcs: cfg.Attributes},
		{kind: glbuild.KindUniform, vcs: cfg.Uniforms},
		{kind: glbuild.KindTexture, vcs: cfg.Textures},
		{kind: glbuild.KindVarying, vcs: cfg.Varyings},
	} {
		for _, vc := range group.vcs {
			v, err := vc.Var(group.kind)
			if err != nil {
				return nil, err
			}
			decls = append(decls, declaration{kind: group.kind, v: v})
		}
	}

	declare := func(t *gldata.Template) error {
		t.Strict = t.Strict || cfg.Strict
		for _, d := range decls {
			var err error
			switch d.kind {
			case glbuild.KindAttribute:
				err = t.AddAttribute(d.v)
			case glbuild.KindUniform:
				err = t.AddUniform(d.v)
			case glbuild.KindTexture:
				err = t.AddTexture(d.v)
			case glbuild.KindVarying:
				err = t.AddVarying(d.v)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}
	code := func(t *gldata.Template) error {
		for _, c := range cfg.Code.VertexHeader {
			t.AddVertexHeader(c)
		}
		for _, c := range cfg.Code.VertexMain {
			t.AddVertexMain(c)
		}
		for _, c := range cfg.Code.FragmentHeader {
			t.AddFragmentHeader(c)
		}
		for _, c := range cfg.Code.FragmentMain {
			t.AddFragmentMain(c)
		}
		return nil
	}
	return gldata.Compose(
		declare,
		specialization,
		code,
		gldata.WithRenderingOptions(gldata.RenderingOptions{DefaultColor: defaultColor}),
	), nil
}
