package gldata

import (
	"errors"
	"fmt"
	"image/color"

	"cogentcore.org/core/base/keylist"
	"github.com/soypat/gldata/glbuild"
)

var (
	// ErrInvalidDescriptor is returned for malformed variable descriptors.
	ErrInvalidDescriptor = glbuild.ErrInvalidDescriptor
	// ErrDuplicateBinding is returned in strict mode when two attributes or two textures share a location.
	ErrDuplicateBinding = errors.New("duplicate binding location")
	// ErrLifecycle is returned when a template is used out of order, such as
	// rendering before finalizing or mutating after finalizing.
	ErrLifecycle = errors.New("template lifecycle violation")
)

type lifecycle uint8

const (
	stateEmpty lifecycle = iota
	stateInitialized
	stateFinalized
)

func (s lifecycle) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case stateInitialized:
		return "initialized"
	case stateFinalized:
		return "finalized"
	}
	return "unknown"
}

// Template accumulates shader variable declarations and code snippets and
// renders them into a vertex and a fragment shader source.
//
// The lifecycle of a Template is New -> Initialize -> Finalize -> ShaderCodes.
// Declarations and snippets may be added before finalizing.
// A Template is not safe for concurrent use.
type Template struct {
	// Strict enables binding location collision checks
	// among attributes and among textures.
	Strict bool

	attributes keylist.List[string, glbuild.Var]
	uniforms   keylist.List[string, glbuild.Var]
	textures   keylist.List[string, glbuild.Var]
	varyings   keylist.List[string, glbuild.Var]

	vsHeaders []string
	vsMains   []string
	fsHeaders []string
	fsMains   []string
	// functions maps header function names to their source for deduplication.
	functions map[string]string

	defaultColor [4]float32
	state        lifecycle
	accumErrs    []error
}

// New returns an empty template with a white default color.
func New() *Template {
	return &Template{
		defaultColor: [4]float32{1, 1, 1, 1},
	}
}

// Attribute returns a per-vertex input descriptor with an automatically allocated location.
func Attribute(name string, vt glbuild.VarType, ndim int) glbuild.Var {
	return glbuild.Var{Name: name, Type: vt, NDim: ndim, Location: glbuild.LocationAuto}
}

// Uniform returns a uniform descriptor.
func Uniform(name string, vt glbuild.VarType, ndim int) glbuild.Var {
	return glbuild.Var{Name: name, Type: vt, NDim: ndim, Location: glbuild.LocationAuto}
}

// Texture returns a sampler descriptor of texdim dimensions with an automatically allocated location.
func Texture(name string, texdim int) glbuild.Var {
	return glbuild.Var{Name: name, TexDim: texdim, Location: glbuild.LocationAuto}
}

// Varying returns a descriptor for a value interpolated from the vertex to the fragment stage.
func Varying(name string, vt glbuild.VarType, ndim int) glbuild.Var {
	return glbuild.Var{Name: name, Type: vt, NDim: ndim, Location: glbuild.LocationAuto}
}

// AddAttribute adds or replaces the attribute with v's name. If v.Location is
// [glbuild.LocationAuto] the location is the number of attributes at insertion time,
// or the replaced attribute's location.
func (t *Template) AddAttribute(v glbuild.Var) error {
	return t.addBindable(&t.attributes, glbuild.KindAttribute, v)
}

// AddTexture adds or replaces the texture with v's name. Locations are allocated like in [Template.AddAttribute].
func (t *Template) AddTexture(v glbuild.Var) error {
	return t.addBindable(&t.textures, glbuild.KindTexture, v)
}

// AddUniform adds or replaces the uniform with v's name.
func (t *Template) AddUniform(v glbuild.Var) error {
	return t.addVar(&t.uniforms, glbuild.KindUniform, v)
}

// AddVarying adds or replaces the varying with v's name.
func (t *Template) AddVarying(v glbuild.Var) error {
	return t.addVar(&t.varyings, glbuild.KindVarying, v)
}

func (t *Template) addVar(list *keylist.List[string, glbuild.Var], kind glbuild.Kind, v glbuild.Var) error {
	if t.state == stateFinalized {
		return fmt.Errorf("gldata: add %s %q after finalize: %w", kind, v.Name, ErrLifecycle)
	}
	err := v.Validate(kind)
	if err != nil {
		return fmt.Errorf("gldata: %s %w", kind, err)
	}
	v.Location = glbuild.LocationAuto
	list.Set(v.Name, v)
	return nil
}

func (t *Template) addBindable(list *keylist.List[string, glbuild.Var], kind glbuild.Kind, v glbuild.Var) error {
	if t.state == stateFinalized {
		return fmt.Errorf("gldata: add %s %q after finalize: %w", kind, v.Name, ErrLifecycle)
	}
	err := v.Validate(kind)
	if err != nil {
		return fmt.Errorf("gldata: %s %w", kind, err)
	}
	if v.Location == glbuild.LocationAuto {
		if old, replacing := list.AtTry(v.Name); replacing {
			v.Location = old.Location
		} else {
			v.Location = list.Len()
		}
	}
	if t.Strict {
		for i, other := range list.Values {
			if list.Keys[i] != v.Name && other.Location == v.Location {
				return fmt.Errorf("gldata: %s %q location %d taken by %q: %w", kind, v.Name, v.Location, other.Name, ErrDuplicateBinding)
			}
		}
	}
	list.Set(v.Name, v)
	return nil
}

// AddVertexHeader appends code after the vertex stage declarations.
func (t *Template) AddVertexHeader(code string) { t.addCode(&t.vsHeaders, "vertex header", code) }

// AddVertexMain appends code to the vertex stage main function.
func (t *Template) AddVertexMain(code string) { t.addCode(&t.vsMains, "vertex main", code) }

// AddFragmentHeader appends code after the fragment stage declarations.
func (t *Template) AddFragmentHeader(code string) { t.addCode(&t.fsHeaders, "fragment header", code) }

// AddFragmentMain appends code to the fragment stage main function.
func (t *Template) AddFragmentMain(code string) { t.addCode(&t.fsMains, "fragment main", code) }

// addCode never fails so snippets can be added unconditionally. Snippets added
// after finalizing are dropped and reported by [Template.Err].
func (t *Template) addCode(dst *[]string, section, code string) {
	if t.state == stateFinalized {
		t.accumErrs = append(t.accumErrs, fmt.Errorf("gldata: %s code added after finalize: %w", section, ErrLifecycle))
		return
	}
	*dst = append(*dst, code)
}

// AddVertexFunction appends a function definition to the vertex header.
// Adding an identical function twice is a no-op, adding a distinct function
// with the same name returns an error.
func (t *Template) AddVertexFunction(fn glbuild.Function) error {
	if t.state == stateFinalized {
		return fmt.Errorf("gldata: add function %q after finalize: %w", fn.Name, ErrLifecycle)
	} else if fn.Name == "" {
		return fmt.Errorf("gldata: unnamed function: %w", ErrInvalidDescriptor)
	}
	if t.functions == nil {
		t.functions = make(map[string]string)
	}
	src := string(fn.AppendSource(nil))
	if got, ok := t.functions[fn.Name]; ok {
		if got == src {
			return nil // Already added.
		}
		return fmt.Errorf("gldata: function %q conflicts with a distinct function of same name: %w", fn.Name, ErrInvalidDescriptor)
	}
	t.functions[fn.Name] = src
	t.vsHeaders = append(t.vsHeaders, src)
	return nil
}

// RenderingOptions configures rendering defaults. Nil fields leave the current setting unchanged.
type RenderingOptions struct {
	// DefaultColor is written to the fragment output when no fragment main code is added.
	DefaultColor color.Color
}

// SetRenderingOptions updates the rendering defaults set in opts.
func (t *Template) SetRenderingOptions(opts RenderingOptions) {
	if opts.DefaultColor != nil {
		t.defaultColor = ColorToVec4(opts.DefaultColor)
	}
}

// SetDefaultColor sets the default color as normalized RGBA components.
func (t *Template) SetDefaultColor(rgba [4]float32) { t.defaultColor = rgba }

// DefaultColor returns the normalized RGBA default color.
func (t *Template) DefaultColor() [4]float32 { return t.defaultColor }

// ColorToVec4 converts c to non-premultiplied RGBA components in the range [0, 1].
func ColorToVec4(c color.Color) [4]float32 {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	const maxc = 0xffff
	return [4]float32{
		float32(n.R) / maxc,
		float32(n.G) / maxc,
		float32(n.B) / maxc,
		float32(n.A) / maxc,
	}
}

// Initialize runs the setups in order to register the template's declarations and code.
// It may only be called once and before [Template.Finalize].
func (t *Template) Initialize(setups ...Setup) error {
	if t.state != stateEmpty {
		return fmt.Errorf("gldata: initialize on %s template: %w", t.state, ErrLifecycle)
	}
	t.state = stateInitialized
	for i, setup := range setups {
		if setup == nil {
			return fmt.Errorf("gldata: nil setup %d", i)
		}
		err := setup(t)
		if err != nil {
			return err
		}
	}
	return nil
}

// Finalize fills in the declarations and code needed for the program to be complete:
// a 2D float position attribute at location 0 when there are no attributes, and a
// fragment main writing the default color to out_color when there is no fragment main code.
// No declarations may be added after finalizing.
func (t *Template) Finalize() error {
	if t.state == stateFinalized {
		return fmt.Errorf("gldata: finalize called twice: %w", ErrLifecycle)
	}
	if t.attributes.Len() == 0 {
		err := t.AddAttribute(Attribute("position", glbuild.Float, 2).At(0))
		if err != nil {
			return err
		}
	}
	if len(t.fsMains) == 0 {
		b := append([]byte{}, "out_color = "...)
		b = glbuild.AppendVec4Literal(b, t.defaultColor)
		b = append(b, ";\n"...)
		t.AddFragmentMain(string(b))
	}
	t.state = stateFinalized
	return nil
}

// Finalized reports whether [Template.Finalize] succeeded.
func (t *Template) Finalized() bool { return t.state == stateFinalized }

// Err returns the errors from code added after finalizing, if any.
func (t *Template) Err() error {
	if len(t.accumErrs) == 0 {
		return nil
	}
	return errors.Join(t.accumErrs...)
}
