//go:build !windows

package opengl

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/linden-ui/shell"
)

func embedInto(_ *glfw.Window, _ uintptr) error {
	return fmt.Errorf("%w: no embedding support on %s", shell.ErrEmbeddingUnsupported, runtime.GOOS)
}
