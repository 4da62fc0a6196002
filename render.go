package gldata

import (
	"fmt"

	"github.com/soypat/gldata/glbuild"
)

// Program is a pair of generated shader sources with the binding
// locations the host needs to feed them.
type Program struct {
	Vertex   string
	Fragment string
	Bindings Bindings
}

// Bindings lists the declared shader inputs in declaration order.
// Attribute and texture descriptors carry their allocated locations.
type Bindings struct {
	Attributes []glbuild.Var
	Textures   []glbuild.Var
	Uniforms   []glbuild.Var
}

// Attribute returns the attribute with the given name.
func (b Bindings) Attribute(name string) (glbuild.Var, bool) { return findVar(b.Attributes, name) }

// Texture returns the texture with the given name.
func (b Bindings) Texture(name string) (glbuild.Var, bool) { return findVar(b.Textures, name) }

// Uniform returns the uniform with the given name.
func (b Bindings) Uniform(name string) (glbuild.Var, bool) { return findVar(b.Uniforms, name) }

func findVar(vars []glbuild.Var, name string) (glbuild.Var, bool) {
	for _, v := range vars {
		if v.Name == name {
			return v, true
		}
	}
	return glbuild.Var{}, false
}

// Bindings returns a copy of the declared attributes, textures and uniforms.
func (t *Template) Bindings() Bindings {
	return Bindings{
		Attributes: append([]glbuild.Var(nil), t.attributes.Values...),
		Textures:   append([]glbuild.Var(nil), t.textures.Values...),
		Uniforms:   append([]glbuild.Var(nil), t.uniforms.Values...),
	}
}

// ShaderCodes renders the vertex and fragment shader sources. The template must be finalized.
// Repeated calls return identical sources.
//
// Each stage header holds, in order: uniform declarations, attribute (vertex) or texture (fragment)
// declarations, varying declarations and the free-form header code. Main code is concatenated in
// the order it was added.
func (t *Template) ShaderCodes() (vertex, fragment string, err error) {
	if t.state != stateFinalized {
		return "", "", fmt.Errorf("gldata: render %s template: %w", t.state, ErrLifecycle)
	}
	var vsHeader, fsHeader []byte
	for _, u := range t.uniforms.Values {
		vsHeader, err = glbuild.AppendUniformDecl(vsHeader, u)
		if err != nil {
			return "", "", err
		}
	}
	fsHeader = append(fsHeader, vsHeader...)
	for _, a := range t.attributes.Values {
		vsHeader, err = glbuild.AppendAttributeDecl(vsHeader, a)
		if err != nil {
			return "", "", err
		}
	}
	for _, tex := range t.textures.Values {
		fsHeader, err = glbuild.AppendTextureDecl(fsHeader, tex)
		if err != nil {
			return "", "", err
		}
	}
	for _, v := range t.varyings.Values {
		vsHeader, fsHeader, err = glbuild.AppendVaryingDecls(vsHeader, fsHeader, v)
		if err != nil {
			return "", "", err
		}
	}
	vsHeader = appendStrings(vsHeader, t.vsHeaders)
	fsHeader = appendStrings(fsHeader, t.fsHeaders)

	vs := glbuild.VertexSkeleton.AppendSource(nil, vsHeader, appendStrings(nil, t.vsMains))
	fs := glbuild.FragmentSkeleton.AppendSource(nil, fsHeader, appendStrings(nil, t.fsMains))
	return string(vs), string(fs), nil
}

// Program renders the template's sources and returns them with the template's bindings.
func (t *Template) Program() (Program, error) {
	vs, fs, err := t.ShaderCodes()
	if err != nil {
		return Program{}, err
	}
	return Program{Vertex: vs, Fragment: fs, Bindings: t.Bindings()}, nil
}

func appendStrings(dst []byte, s []string) []byte {
	for i := range s {
		dst = append(dst, s[i]...)
	}
	return dst
}
