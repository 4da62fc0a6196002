package glbuild

import (
	"fmt"
	"strings"
)

// Placeholder tokens of the fixed skeletons.
const (
	VertexHeaderToken   = "%VERTEX_HEADER%"
	VertexMainToken     = "%VERTEX_MAIN%"
	FragmentHeaderToken = "%FRAGMENT_HEADER%"
	FragmentMainToken   = "%FRAGMENT_MAIN%"
)

const vertexSkeletonSrc = `
` + VertexHeaderToken + `

void main()
{
    ` + VertexMainToken + `
}

`

const fragmentSkeletonSrc = `
` + FragmentHeaderToken + `

out vec4 out_color;

void main()
{
    ` + FragmentMainToken + `
}
`

var (
	VertexSkeleton   = mustSkeleton(vertexSkeletonSrc, VertexHeaderToken, VertexMainToken)
	FragmentSkeleton = mustSkeleton(fragmentSkeletonSrc, FragmentHeaderToken, FragmentMainToken)
)

// Skeleton is a stage source template with a header and a main placeholder.
// The text is split at the placeholders once on creation so substituted
// text is never scanned for placeholders.
type Skeleton struct {
	prefix, middle, suffix string
}

// NewSkeleton splits src at the header token and then at the main token.
// Both tokens must appear exactly once, header first.
func NewSkeleton(src, headerToken, mainToken string) (Skeleton, error) {
	if strings.Count(src, headerToken) != 1 || strings.Count(src, mainToken) != 1 {
		return Skeleton{}, fmt.Errorf("skeleton must contain %q and %q exactly once", headerToken, mainToken)
	}
	prefix, rest, _ := strings.Cut(src, headerToken)
	middle, suffix, found := strings.Cut(rest, mainToken)
	if !found {
		return Skeleton{}, fmt.Errorf("skeleton main token %q precedes header token %q", mainToken, headerToken)
	}
	return Skeleton{prefix: prefix, middle: middle, suffix: suffix}, nil
}

func mustSkeleton(src, headerToken, mainToken string) Skeleton {
	sk, err := NewSkeleton(src, headerToken, mainToken)
	if err != nil {
		panic(err)
	}
	return sk
}

// AppendSource appends the skeleton with header and main substituted to dst.
func (sk Skeleton) AppendSource(dst, header, main []byte) []byte {
	dst = append(dst, sk.prefix...)
	dst = append(dst, header...)
	dst = append(dst, sk.middle...)
	dst = append(dst, main...)
	dst = append(dst, sk.suffix...)
	return dst
}
