package glbuild

import "strconv"

const maxLineLim = 500

// AppendVec4SliceDecl appends a constant vec4 array definition:
//
//	const vec4[N] name=vec4[N](vec4(...),...);
func AppendVec4SliceDecl(b []byte, vec4Varname string, vecs [][4]float32) []byte {
	b = append(b, "const "...)
	return AppendGenericSliceDecl(b, "vec4", vec4Varname, len(vecs), func(b []byte, i int) []byte {
		return AppendVec4Literal(b, vecs[i])
	})
}

// AppendGenericSliceDecl appends an array definition of nelem elements, each written by appendElement.
// Very long element lists are broken into several lines.
func AppendGenericSliceDecl(b []byte, typename, varname string, nelem int, appendElement func(b []byte, i int) []byte) []byte {
	lineStart := len(b)
	b = appendStartSliceDecl(b, typename, varname, nelem)
	for i := 0; i < nelem; i++ {
		last := i == nelem-1
		b = appendElement(b, i)
		if !last {
			b = append(b, ',')
			lineLen := len(b) - lineStart
			if lineLen > maxLineLim {
				b = append(b, '\n')
				lineStart = len(b)
			}
		}
	}
	b = append(b, ");\n"...)
	return b
}

func appendStartSliceDecl(b []byte, typeName, varName string, length int) []byte {
	typeStart := len(b)
	b = append(b, typeName...)
	b = append(b, '[')
	b = strconv.AppendInt(b, int64(length), 10)
	b = append(b, ']')
	typeEnd := len(b)
	b = append(b, ' ')
	b = append(b, varName...)
	b = append(b, '=')
	b = append(b, b[typeStart:typeEnd]...) // Reuse typename appended earlier.
	b = append(b, '(')
	return b
}
