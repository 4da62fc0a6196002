//go:build tinygo || !cgo

package gldataaux

import (
	"errors"

	"github.com/soypat/gldata"
)

func preview(prog gldata.Program, cfg PreviewConfig) error {
	return errors.New("require cgo for preview rendering")
}
