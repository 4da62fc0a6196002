package glsllib

import (
	_ "embed"

	"github.com/soypat/gldata/glbuild"
)

//go:embed transform_position.glsl
var transformPositionSrc []byte

// TransformPosition scales a translated position, used for dynamic pan and zoom navigation:
//
//	vec2 transform_position(vec2 position, vec2 scale, vec2 translation)
func TransformPosition() glbuild.Function {
	fn, _ := glbuild.ParseFunction(transformPositionSrc)
	return fn
}
