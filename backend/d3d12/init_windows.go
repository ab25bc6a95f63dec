//go:build windows

package d3d12

import (
	"go.uber.org/zap"

	"github.com/linden-ui/shell"
)

func init() {
	shell.RegisterBackend(shell.BackendD3D12, func(log *zap.Logger) shell.SurfaceManager {
		return NewManager(log)
	})
}
