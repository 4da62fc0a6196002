package glbuild

import (
	"errors"
	"fmt"
	"strconv"
)

// VersionStr is the version directive hosts prepend to generated sources before compiling.
// It is not part of the skeletons.
const VersionStr = "#version 330 core\n"

// ErrInvalidDescriptor is returned for variable descriptors that cannot be declared.
var ErrInvalidDescriptor = errors.New("invalid variable descriptor")

// LocationAuto marks a [Var] whose binding location is allocated on insertion.
const LocationAuto = -1

// VarType is the base scalar type of a shader variable.
type VarType uint8

const (
	Float VarType = iota
	Int
	Bool
)

// String returns the GLSL name of the base type.
func (vt VarType) String() string {
	switch vt {
	case Float:
		return "float"
	case Int:
		return "int"
	case Bool:
		return "bool"
	}
	return "VarType(" + strconv.Itoa(int(vt)) + ")"
}

// ParseVarType parses a GLSL base type name.
func ParseVarType(s string) (VarType, error) {
	switch s {
	case "float":
		return Float, nil
	case "int":
		return Int, nil
	case "bool":
		return Bool, nil
	}
	return 0, fmt.Errorf("unknown base type %q: %w", s, ErrInvalidDescriptor)
}

func (vt VarType) valid() bool { return vt <= Bool }

// Kind is the declaration site of a variable, which determines which [Var] fields apply.
type Kind uint8

const (
	KindAttribute Kind = iota
	KindUniform
	KindTexture
	KindVarying
)

func (k Kind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindUniform:
		return "uniform"
	case KindTexture:
		return "texture"
	case KindVarying:
		return "varying"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Var describes a shader input or interpolated variable.
type Var struct {
	Name string
	Type VarType
	// NDim is the number of components: 1 for scalars, 2..4 for vectors.
	NDim int
	// Size is the array length of a uniform. Zero means the uniform is not an array.
	Size int
	// TexDim is the dimensionality of a texture sampler (1, 2 or 3).
	TexDim int
	// Location is the binding location of attributes and textures.
	// It is equal to LocationAuto until allocated by the template.
	Location int
}

// At returns a copy of v bound at an explicit location.
func (v Var) At(location int) Var {
	v.Location = location
	return v
}

// Array returns a copy of v declared as an array of the given size.
func (v Var) Array(size int) Var {
	v.Size = size
	return v
}

// Validate checks v can be declared as a variable of the given kind.
// All errors wrap [ErrInvalidDescriptor].
func (v Var) Validate(kind Kind) error {
	if err := validateName(v.Name); err != nil {
		return err
	}
	if kind == KindTexture {
		if v.TexDim < 1 || v.TexDim > 3 {
			return v.errorf("texture dimensionality %d not in 1..3", v.TexDim)
		} else if v.Size != 0 {
			return v.errorf("texture can not be an array")
		}
	} else {
		if v.TexDim != 0 {
			return v.errorf("texture dimensionality set on %s", kind)
		}
		if !v.Type.valid() {
			return v.errorf("unknown base type %s", v.Type)
		} else if v.NDim < 1 || v.NDim > 4 {
			return v.errorf("dimensionality %d not in 1..4", v.NDim)
		}
	}
	if v.Size < 0 {
		return v.errorf("negative array size %d", v.Size)
	} else if v.Size > 0 && kind != KindUniform {
		return v.errorf("array size set on %s", kind)
	}
	switch kind {
	case KindAttribute, KindTexture:
		if v.Location < LocationAuto {
			return v.errorf("negative location %d", v.Location)
		}
	case KindUniform, KindVarying:
		if v.Location != LocationAuto && v.Location != 0 {
			return v.errorf("location set on %s", kind)
		}
	default:
		return v.errorf("unknown kind %s", kind)
	}
	return nil
}

func (v Var) errorf(format string, args ...any) error {
	return fmt.Errorf("%q: %s: %w", v.Name, fmt.Sprintf(format, args...), ErrInvalidDescriptor)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name: %w", ErrInvalidDescriptor)
	} else if len(name) >= 3 && name[:3] == "gl_" {
		return fmt.Errorf("%q: reserved gl_ prefix: %w", name, ErrInvalidDescriptor)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		isLetter := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isLetter && !(isDigit && i > 0) {
			return fmt.Errorf("%q: not an identifier: %w", name, ErrInvalidDescriptor)
		}
	}
	return nil
}

// Typename returns the GLSL type name of v.
//
//	NDim == 1: base type name, i.e: float, int, bool
//	NDim >= 2: vecN, prefixed with i for non-float base types, i.e: vec3, ivec2
func Typename(v Var) (string, error) {
	b, err := AppendTypename(nil, v)
	return string(b), err
}

// AppendTypename appends the GLSL type name of v to dst. See [Typename].
func AppendTypename(dst []byte, v Var) ([]byte, error) {
	if !v.Type.valid() {
		return dst, v.errorf("unknown base type %s", v.Type)
	}
	switch {
	case v.NDim == 1:
		dst = append(dst, v.Type.String()...)
	case v.NDim >= 2 && v.NDim <= 4:
		if v.Type != Float {
			dst = append(dst, 'i')
		}
		dst = append(dst, "vec"...)
		dst = strconv.AppendInt(dst, int64(v.NDim), 10)
	default:
		return dst, v.errorf("dimensionality %d not in 1..4", v.NDim)
	}
	return dst, nil
}

// AppendAttributeDecl appends a vertex input declaration:
//
//	layout(location = <loc>) in <type> <name>;
func AppendAttributeDecl(dst []byte, v Var) ([]byte, error) {
	if v.Location < 0 {
		return dst, v.errorf("attribute location not allocated")
	}
	dst = append(dst, "layout(location = "...)
	dst = strconv.AppendInt(dst, int64(v.Location), 10)
	dst = append(dst, ") in "...)
	return appendTypedName(dst, v)
}

// AppendUniformDecl appends a uniform declaration. The array suffix is omitted when v.Size is zero.
//
//	uniform <type> <name>[<size>];
func AppendUniformDecl(dst []byte, v Var) ([]byte, error) {
	dst = append(dst, "uniform "...)
	dst, err := AppendTypename(dst, v)
	if err != nil {
		return dst, err
	}
	dst = append(dst, ' ')
	dst = append(dst, v.Name...)
	if v.Size > 0 {
		dst = append(dst, '[')
		dst = strconv.AppendInt(dst, int64(v.Size), 10)
		dst = append(dst, ']')
	}
	dst = append(dst, ";\n"...)
	return dst, nil
}

// AppendTextureDecl appends a sampler declaration:
//
//	uniform sampler<texdim>D <name>;
func AppendTextureDecl(dst []byte, v Var) ([]byte, error) {
	if v.TexDim < 1 || v.TexDim > 3 {
		return dst, v.errorf("texture dimensionality %d not in 1..3", v.TexDim)
	}
	dst = append(dst, "uniform sampler"...)
	dst = strconv.AppendInt(dst, int64(v.TexDim), 10)
	dst = append(dst, "D "...)
	dst = append(dst, v.Name...)
	dst = append(dst, ";\n"...)
	return dst, nil
}

// AppendVaryingDecls appends the vertex output declaration of v to vs and
// the matching fragment input declaration to fs.
//
//	vs: out <type> <name>;
//	fs: in <type> <name>;
func AppendVaryingDecls(vs, fs []byte, v Var) (newVS, newFS []byte, err error) {
	vs = append(vs, "out "...)
	vs, err = appendTypedName(vs, v)
	if err != nil {
		return vs, fs, err
	}
	fs = append(fs, "in "...)
	fs, err = appendTypedName(fs, v)
	return vs, fs, err
}

func appendTypedName(dst []byte, v Var) ([]byte, error) {
	dst, err := AppendTypename(dst, v)
	if err != nil {
		return dst, err
	}
	dst = append(dst, ' ')
	dst = append(dst, v.Name...)
	dst = append(dst, ";\n"...)
	return dst, nil
}

// AppendFloatLiteral appends v as a GLSL float literal. The result always
// carries a decimal point so it is not parsed as an integer, i.e: 1 -> 1.0
func AppendFloatLiteral(b []byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', -1, 32)
	for _, c := range b[start:] {
		if c == '.' {
			return b
		}
	}
	return append(b, ".0"...)
}

// AppendVec4Literal appends a vec4 constructor, i.e: vec4(1.0, 0.5, 0.0, 1.0)
func AppendVec4Literal(b []byte, v [4]float32) []byte {
	return AppendVecLiteral(b, v[:]...)
}

// AppendVecLiteral appends a vecN constructor of the argument components.
func AppendVecLiteral(b []byte, v ...float32) []byte {
	b = append(b, "vec"...)
	b = strconv.AppendInt(b, int64(len(v)), 10)
	b = append(b, '(')
	for i := range v {
		b = AppendFloatLiteral(b, v[i])
		if i != len(v)-1 {
			b = append(b, ", "...)
		}
	}
	b = append(b, ')')
	return b
}
