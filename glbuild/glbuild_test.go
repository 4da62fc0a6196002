package glbuild_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/soypat/gldata/glbuild"
	"github.com/soypat/gldata/glbuild/glsllib"
)

func TestTypename(t *testing.T) {
	var tests = []struct {
		v    glbuild.Var
		want string
	}{
		{v: glbuild.Var{Name: "a", Type: glbuild.Float, NDim: 1}, want: "float"},
		{v: glbuild.Var{Name: "a", Type: glbuild.Int, NDim: 1}, want: "int"},
		{v: glbuild.Var{Name: "a", Type: glbuild.Bool, NDim: 1}, want: "bool"},
		{v: glbuild.Var{Name: "a", Type: glbuild.Float, NDim: 2}, want: "vec2"},
		{v: glbuild.Var{Name: "a", Type: glbuild.Float, NDim: 4}, want: "vec4"},
		{v: glbuild.Var{Name: "a", Type: glbuild.Int, NDim: 3}, want: "ivec3"},
		{v: glbuild.Var{Name: "a", Type: glbuild.Bool, NDim: 2}, want: "ivec2"},
	}
	for _, test := range tests {
		got, err := glbuild.Typename(test.v)
		if err != nil {
			t.Errorf("%+v: %s", test.v, err)
		} else if got != test.want {
			t.Errorf("%+v: want %q, got %q", test.v, test.want, got)
		}
	}
	for _, ndim := range []int{0, -1, 5} {
		_, err := glbuild.Typename(glbuild.Var{Name: "bad", NDim: ndim})
		if !errors.Is(err, glbuild.ErrInvalidDescriptor) {
			t.Errorf("ndim=%d: want ErrInvalidDescriptor, got %v", ndim, err)
		}
	}
	_, err := glbuild.Typename(glbuild.Var{Name: "bad", NDim: 1, Type: glbuild.VarType(100)})
	if !errors.Is(err, glbuild.ErrInvalidDescriptor) {
		t.Errorf("unknown type: want ErrInvalidDescriptor, got %v", err)
	}
}

func TestDeclarations(t *testing.T) {
	pos := glbuild.Var{Name: "position", Type: glbuild.Float, NDim: 2, Location: 3}
	b, err := glbuild.AppendAttributeDecl(nil, pos)
	if err != nil {
		t.Fatal(err)
	} else if string(b) != "layout(location = 3) in vec2 position;\n" {
		t.Errorf("attribute: got %q", b)
	}
	pos.Location = glbuild.LocationAuto
	_, err = glbuild.AppendAttributeDecl(nil, pos)
	if err == nil {
		t.Error("expected error for unallocated attribute location")
	}

	scale := glbuild.Var{Name: "scale", Type: glbuild.Float, NDim: 2}
	b, err = glbuild.AppendUniformDecl(nil, scale)
	if err != nil {
		t.Fatal(err)
	} else if string(b) != "uniform vec2 scale;\n" {
		t.Errorf("uniform: got %q", b)
	}
	b, err = glbuild.AppendUniformDecl(nil, scale.Array(8))
	if err != nil {
		t.Fatal(err)
	} else if string(b) != "uniform vec2 scale[8];\n" {
		t.Errorf("uniform array: got %q", b)
	}

	b, err = glbuild.AppendTextureDecl(nil, glbuild.Var{Name: "tex", TexDim: 2})
	if err != nil {
		t.Fatal(err)
	} else if string(b) != "uniform sampler2D tex;\n" {
		t.Errorf("texture: got %q", b)
	}

	vs, fs, err := glbuild.AppendVaryingDecls([]byte("//vs\n"), nil, glbuild.Var{Name: "vcolor", Type: glbuild.Float, NDim: 4})
	if err != nil {
		t.Fatal(err)
	}
	if string(vs) != "//vs\nout vec4 vcolor;\n" {
		t.Errorf("varying vertex: got %q", vs)
	}
	if string(fs) != "in vec4 vcolor;\n" {
		t.Errorf("varying fragment: got %q", fs)
	}
}

func TestValidate(t *testing.T) {
	var tests = []struct {
		v    glbuild.Var
		kind glbuild.Kind
		ok   bool
	}{
		{v: glbuild.Var{Name: "position", NDim: 2, Location: glbuild.LocationAuto}, kind: glbuild.KindAttribute, ok: true},
		{v: glbuild.Var{Name: "position", NDim: 2, Location: 7}, kind: glbuild.KindAttribute, ok: true},
		{v: glbuild.Var{Name: "position", NDim: 2, Location: -2}, kind: glbuild.KindAttribute},
		{v: glbuild.Var{Name: "position", NDim: 0}, kind: glbuild.KindAttribute},
		{v: glbuild.Var{Name: "", NDim: 1}, kind: glbuild.KindUniform},
		{v: glbuild.Var{Name: "2d", NDim: 1}, kind: glbuild.KindUniform},
		{v: glbuild.Var{Name: "my var", NDim: 1}, kind: glbuild.KindUniform},
		{v: glbuild.Var{Name: "gl_Position", NDim: 4}, kind: glbuild.KindVarying},
		{v: glbuild.Var{Name: "colors", NDim: 4, Size: 3, Location: glbuild.LocationAuto}, kind: glbuild.KindUniform, ok: true},
		{v: glbuild.Var{Name: "colors", NDim: 4, Size: -1}, kind: glbuild.KindUniform},
		{v: glbuild.Var{Name: "colors", NDim: 4, Size: 3}, kind: glbuild.KindVarying},
		{v: glbuild.Var{Name: "colors", NDim: 4, Location: 2}, kind: glbuild.KindUniform},
		{v: glbuild.Var{Name: "tex", TexDim: 2, Location: glbuild.LocationAuto}, kind: glbuild.KindTexture, ok: true},
		{v: glbuild.Var{Name: "tex", TexDim: 4}, kind: glbuild.KindTexture},
		{v: glbuild.Var{Name: "tex", TexDim: 2, Size: 2}, kind: glbuild.KindTexture},
		{v: glbuild.Var{Name: "tex", NDim: 1, TexDim: 2}, kind: glbuild.KindUniform},
		{v: glbuild.Var{Name: "flag", NDim: 1, Type: glbuild.VarType(9)}, kind: glbuild.KindUniform},
	}
	for _, test := range tests {
		err := test.v.Validate(test.kind)
		if test.ok && err != nil {
			t.Errorf("%s %+v: unexpected error %s", test.kind, test.v, err)
		} else if !test.ok && !errors.Is(err, glbuild.ErrInvalidDescriptor) {
			t.Errorf("%s %+v: want ErrInvalidDescriptor, got %v", test.kind, test.v, err)
		}
	}
}

func TestVecLiteral(t *testing.T) {
	got := string(glbuild.AppendVec4Literal(nil, [4]float32{1, 1, 1, 1}))
	if got != "vec4(1.0, 1.0, 1.0, 1.0)" {
		t.Errorf("got %q", got)
	}
	got = string(glbuild.AppendVecLiteral(nil, 0.5, -2, 0.25))
	if got != "vec3(0.5, -2.0, 0.25)" {
		t.Errorf("got %q", got)
	}
}

func TestSkeletonSubstitution(t *testing.T) {
	// Header text containing the main token must not be substituted.
	header := []byte("// " + glbuild.VertexMainToken + "\n")
	main := []byte("gl_Position = vec4(0.);")
	src := string(glbuild.VertexSkeleton.AppendSource(nil, header, main))
	if strings.Count(src, glbuild.VertexMainToken) != 1 {
		t.Errorf("placeholder in header was substituted:\n%s", src)
	}
	if !strings.Contains(src, "void main()\n{\n    gl_Position = vec4(0.);\n}") {
		t.Errorf("main body not substituted:\n%s", src)
	}
	src = string(glbuild.FragmentSkeleton.AppendSource(nil, nil, nil))
	if !strings.Contains(src, "out vec4 out_color;") {
		t.Errorf("fragment skeleton missing out_color:\n%s", src)
	}
	_, err := glbuild.NewSkeleton("%M% %H%", "%H%", "%M%")
	if err == nil {
		t.Error("expected error for main token before header token")
	}
	_, err = glbuild.NewSkeleton("%H% %H% %M%", "%H%", "%M%")
	if err == nil {
		t.Error("expected error for repeated header token")
	}
}

func TestParseFunction(t *testing.T) {
	fn := glsllib.TransformPosition()
	if fn.Name != "transform_position" {
		t.Errorf("want transform_position, got %q", fn.Name)
	}
	if !strings.HasPrefix(string(fn.Source), "// Transform") {
		t.Errorf("leading comment not kept: %q", fn.Source)
	}
	_, err := glbuild.ParseFunction([]byte("// only a comment"))
	if err == nil {
		t.Error("expected error for comment-only definition")
	}
}
