//go:build !windows

package d3d12

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/linden-ui/shell"
)

func newPlatformDevice(_ shell.NativeWindow, _ shell.Size, _ bool, _ *zap.Logger) (deviceContext, swapChain, error) {
	return nil, nil, fmt.Errorf("%w: direct3d 12 is unavailable on %s", shell.ErrDeviceAcquisition, runtime.GOOS)
}

func platformBufferSize(_ shell.NativeWindow, size shell.Size) shell.Size {
	return size
}
