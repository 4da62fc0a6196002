package gldataaux_test

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/soypat/gldata"
	"github.com/soypat/gldata/gldataaux"
)

const plotConfig = `
kind = "plot"
constrain_ratio = true
nplots = 2
colors = ["red", "#0000ff"]
strict = true

[[attribute]]
name = "position"
ndim = 2
location = 0

[[uniform]]
name = "time"

[[uniform]]
name = "offsets"
type = "int"
ndim = 2
size = 3

[[texture]]
name = "tex"
ndim = 2

[code]
vertex_main = ["\n    gl_PointSize = 2.;"]
fragment_header = ["// fragment helpers\n"]
`

func TestTemplateConfig(t *testing.T) {
	cfg, err := gldataaux.ParseTemplateConfig(strings.NewReader(plotConfig))
	if err != nil {
		t.Fatal(err)
	}
	setup, err := cfg.Setup()
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := gldata.Build(setup)
	if err != nil {
		t.Fatal(err)
	}
	if !tmpl.Strict {
		t.Error("want strict template")
	}
	vs, fs, err := tmpl.ShaderCodes()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"uniform float time;\nuniform ivec2 offsets[3];\nuniform vec2 scale;\nuniform vec2 translation;\nuniform vec2 viewport;\n",
		"layout(location = 0) in vec2 position;\nlayout(location = 1) in float plot_index;\n",
		"const vec4[2] plot_colors=vec4[2](vec4(1.0, 0.0, 0.0, 1.0),vec4(0.0, 0.0, 1.0, 1.0));\n",
		"gl_Position.xy = gl_Position.xy / viewport;\n    vcolor = plot_colors[clamp(int(plot_index), 0, 1)];\n    gl_PointSize = 2.;",
	} {
		if !strings.Contains(vs, want) {
			t.Errorf("vertex source missing %q:\n%s", want, vs)
		}
	}
	for _, want := range []string{"uniform sampler2D tex;\nin vec4 vcolor;\n// fragment helpers\n", "out_color = vcolor;"} {
		if !strings.Contains(fs, want) {
			t.Errorf("fragment source missing %q:\n%s", want, fs)
		}
	}
}

func TestTemplateConfigErrors(t *testing.T) {
	var tests = []string{
		`unknown_key = 1`,
		`kind = "scatter"`,
		`static = true`,
		"kind = \"plot\"\ncolors = [\"notacolor\"]",
		"[[uniform]]\nname = \"u\"\ntype = \"double\"",
		"[[uniform]]\nname = \"u\"\nndim = 7",
		"[[texture]]\nname = \"t\"\nndim = 4",
	}
	for _, test := range tests {
		cfg, err := gldataaux.ParseTemplateConfig(strings.NewReader(test))
		if err == nil {
			_, err = cfg.Setup()
		}
		if err == nil {
			t.Errorf("expected error for config:\n%s", test)
		}
	}
	cfg, _ := gldataaux.ParseTemplateConfig(strings.NewReader("[[uniform]]\nname = \"u\"\nndim = 7"))
	_, err := cfg.Setup()
	if !errors.Is(err, gldata.ErrInvalidDescriptor) {
		t.Errorf("want ErrInvalidDescriptor, got %v", err)
	}
}

func TestBareConfigDefaults(t *testing.T) {
	cfg, err := gldataaux.ParseTemplateConfig(strings.NewReader(`default_color = "#ff000080"`))
	if err != nil {
		t.Fatal(err)
	}
	setup, err := cfg.Setup()
	if err != nil {
		t.Fatal(err)
	}
	tmpl, err := gldata.Build(setup)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := tmpl.Program()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(prog.Fragment, "out_color = vec4(1.0, 0.0, 0.0, 0.50196") {
		t.Errorf("unexpected default color:\n%s", prog.Fragment)
	}
	var buf bytes.Buffer
	n, err := gldataaux.WriteProgram(&buf, prog)
	if err != nil {
		t.Fatal(err)
	} else if n != buf.Len() {
		t.Fatal("written length mismatch")
	}
	out := buf.String()
	if strings.Count(out, "#version 330 core\n") != 2 {
		t.Errorf("want version directive per stage:\n%s", out)
	}
	if !strings.Contains(out, "// attribute position location=0\n") {
		t.Errorf("missing binding report:\n%s", out)
	}
}

func TestParseColor(t *testing.T) {
	var tests = []struct {
		s    string
		want color.NRGBA
	}{
		{s: "#ff8000", want: color.NRGBA{R: 0xff, G: 0x80, A: 0xff}},
		{s: "#10203040", want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{s: "White", want: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{s: " steelblue ", want: color.NRGBA{R: 70, G: 130, B: 180, A: 0xff}},
	}
	for _, test := range tests {
		c, err := gldataaux.ParseColor(test.s)
		if err != nil {
			t.Errorf("%q: %s", test.s, err)
			continue
		}
		got := color.NRGBAModel.Convert(c).(color.NRGBA)
		if got != test.want {
			t.Errorf("%q: want %v, got %v", test.s, test.want, got)
		}
	}
	for _, bad := range []string{"#fff", "#gggggg", "no such color"} {
		if _, err := gldataaux.ParseColor(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestPalette(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	p := gldataaux.Palette(5, red, blue)
	if len(p) != 5 {
		t.Fatalf("want 5 colors, got %d", len(p))
	}
	if got := color.NRGBAModel.Convert(p[0]); got != red {
		t.Errorf("first color: want %v, got %v", red, got)
	}
	if got := color.NRGBAModel.Convert(p[4]); got != blue {
		t.Errorf("last color: want %v, got %v", blue, got)
	}
	if len(gldataaux.Palette(0, red, blue)) != 0 {
		t.Error("want empty palette")
	}
}

func TestPreviewUnfinalized(t *testing.T) {
	err := gldataaux.Preview(gldata.New(), gldataaux.PreviewConfig{Width: 10, Height: 10})
	if !errors.Is(err, gldata.ErrLifecycle) {
		t.Errorf("want ErrLifecycle, got %v", err)
	}
}
