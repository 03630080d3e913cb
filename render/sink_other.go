//go:build !unix && !windows

package render

import (
	"os"
	"runtime"

	"github.com/go-errors/errors"
)

// NewPlatformSink has no console implementation on this platform
func NewPlatformSink(*os.File) (CellSink, error) {
	return nil, errors.Errorf("console backend unsupported on %s", runtime.GOOS)
}
