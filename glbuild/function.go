package glbuild

import (
	"bytes"
	"errors"
)

// Function is a GLSL function definition meant to be placed in a stage header.
type Function struct {
	Name   string
	Source []byte
}

// ParseFunction extracts the function name of a GLSL function definition.
// Leading line comments are kept in the source but skipped when looking for the signature.
func ParseFunction(def []byte) (Function, error) {
	def = bytes.TrimSpace(def)
	sig := def
	for bytes.HasPrefix(sig, []byte("//")) {
		nl := bytes.IndexByte(sig, '\n')
		if nl < 0 {
			return Function{}, errors.New("function definition is only comments")
		}
		sig = bytes.TrimSpace(sig[nl+1:])
	}
	fnNameEnd := bytes.IndexByte(sig, '(')
	fnNameStart := bytes.IndexByte(sig, ' ')
	if fnNameEnd < 0 || fnNameStart < 0 || fnNameStart > fnNameEnd {
		return Function{}, errors.New("unable to parse function name")
	}
	name := bytes.TrimSpace(sig[fnNameStart:fnNameEnd])
	if len(name) == 0 {
		return Function{}, errors.New("empty function name")
	} else if err := validateName(string(name)); err != nil {
		return Function{}, err
	}
	return Function{Name: string(name), Source: def}, nil
}

// AppendSource appends the function definition surrounded by newlines.
func (fn Function) AppendSource(dst []byte) []byte {
	dst = append(dst, '\n')
	dst = append(dst, fn.Source...)
	dst = append(dst, '\n')
	return dst
}
