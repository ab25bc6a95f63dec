package opengl

import (
	"go.uber.org/zap"

	"github.com/linden-ui/shell"
)

func init() {
	shell.RegisterBackend(shell.BackendOpenGL, func(log *zap.Logger) shell.SurfaceManager {
		return NewManager(log)
	})
}
