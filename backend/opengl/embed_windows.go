//go:build windows

package opengl

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/sys/windows"

	"github.com/linden-ui/shell"
)

const (
	gwlStyle  = -16
	wsChild   = 0x40000000
	wsPopup   = 0x80000000
	wsCaption = 0x00C00000
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procSetParent        = user32.NewProc("SetParent")
	procGetWindowLongPtr = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtr = user32.NewProc("SetWindowLongPtrW")
)

func styleIndex(i int) uintptr { return uintptr(i) }

// embedInto reparents the window under the host HWND and switches it to
// the child style so it clips and moves with its parent.
func embedInto(win *glfw.Window, parent uintptr) error {
	hwnd := nativeHandle(win)
	if hwnd == 0 {
		return fmt.Errorf("%w: window has no native handle", shell.ErrEmbeddingUnsupported)
	}

	style, _, _ := procGetWindowLongPtr.Call(hwnd, styleIndex(gwlStyle))
	style = (style &^ (wsPopup | wsCaption)) | wsChild
	procSetWindowLongPtr.Call(hwnd, styleIndex(gwlStyle), style)

	ret, _, callErr := procSetParent.Call(hwnd, parent)
	if ret == 0 {
		return fmt.Errorf("%w: SetParent: %v", shell.ErrEmbeddingUnsupported, callErr)
	}
	return nil
}
