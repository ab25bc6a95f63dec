//go:build !windows

package opengl

import "github.com/go-gl/glfw/v3.3/glfw"

func nativeHandle(_ *glfw.Window) uintptr {
	return 0
}
