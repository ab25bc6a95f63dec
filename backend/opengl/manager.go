// Package opengl provides the OpenGL surface backend together with the
// GLFW-based window lifecycle and platform event source.
package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/linden-ui/shell"
)

// framebufferSurface is a GL render target: the window's default
// framebuffer for the primary surface, a texture-backed FBO for the
// offscreen dirty surface.
type framebufferSurface struct {
	fbo  uint32
	tex  uint32
	size shell.Size
}

func (s *framebufferSurface) Size() shell.Size { return s.size }

// Framebuffer returns the GL framebuffer object name, 0 for the default
// framebuffer. Draw layers bind it while the context is current.
func (s *framebufferSurface) Framebuffer() uint32 { return s.fbo }

// Texture returns the color attachment backing an offscreen surface,
// 0 for the default framebuffer.
func (s *framebufferSurface) Texture() uint32 { return s.tex }

func (s *framebufferSurface) release() {
	if s.fbo != 0 {
		gl.DeleteFramebuffers(1, &s.fbo)
	}
	if s.tex != 0 {
		gl.DeleteTextures(1, &s.tex)
	}
}

// Manager owns one window's GL context and surface pair. The context
// belongs to the render thread; every GL call happens inside a scoped
// current/not-current span (RunCurrent, or Acquire through Present) that
// releases the binding on every exit path.
type Manager struct {
	log     *zap.Logger
	window  *glfw.Window
	primary *framebufferSurface
	dirty   *framebufferSurface
	size    shell.Size
	glReady bool
}

// NewManager returns an uncreated OpenGL surface manager.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log}
}

// Name returns "opengl".
func (m *Manager) Name() string { return shell.BackendOpenGL }

// Create binds the manager to a GLFW window and builds the initial
// surface pair. A zero initial size defers the offscreen surface until
// the first real resize.
func (m *Manager) Create(win shell.NativeWindow, size shell.Size) error {
	w, ok := win.(*Window)
	if !ok {
		return fmt.Errorf("%w: opengl backend requires a glfw-backed window", shell.ErrSurfaceCreation)
	}
	m.window = w.win

	return m.RunCurrent(func() error {
		if !m.glReady {
			if err := gl.Init(); err != nil {
				return fmt.Errorf("%w: loading GL entry points: %v", shell.ErrDeviceAcquisition, err)
			}
			m.glReady = true
			m.log.Info("opengl context ready",
				zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
				zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))
		}

		m.primary = &framebufferSurface{size: size}
		m.size = size
		if size.IsZero() {
			return nil
		}

		dirty, err := newOffscreen(size)
		if err != nil {
			return err
		}
		m.dirty = dirty
		gl.Viewport(0, 0, int32(size.Width), int32(size.Height))
		return nil
	})
}

// Resize rebuilds the surface pair for the new size. It returns false
// without touching GL state for zero or unchanged sizes. The replacement
// offscreen surface is built before the old one is released, so a
// failure leaves the previous pair fully intact.
func (m *Manager) Resize(size shell.Size) (bool, error) {
	if size.IsZero() || size == m.size {
		return false, nil
	}

	err := m.RunCurrent(func() error {
		dirty, err := newOffscreen(size)
		if err != nil {
			return err
		}
		if m.dirty != nil {
			m.dirty.release()
		}
		m.dirty = dirty
		m.primary = &framebufferSurface{size: size}
		m.size = size
		gl.Viewport(0, 0, int32(size.Width), int32(size.Height))
		return nil
	})
	if err != nil {
		return false, err
	}
	m.log.Debug("opengl surfaces resized",
		zap.Uint32("width", size.Width), zap.Uint32("height", size.Height))
	return true, nil
}

// Acquire makes the context current and returns the surface pair. The
// binding is held until the matching Present, which always releases it.
func (m *Manager) Acquire() (shell.SurfacePair, error) {
	m.window.MakeContextCurrent()
	if m.primary == nil || m.dirty == nil {
		glfw.DetachCurrentContext()
		return shell.SurfacePair{}, fmt.Errorf("%w: no surfaces to acquire", shell.ErrSurfaceCreation)
	}
	return shell.SurfacePair{Primary: m.primary, Dirty: m.dirty}, nil
}

// Present flushes pending GL commands and swaps buffers. An empty dirty
// region is a no-op. The context binding taken by Acquire is released on
// every path out of here.
func (m *Manager) Present(dirty shell.Region) error {
	defer glfw.DetachCurrentContext()
	if dirty.Empty() {
		return nil
	}
	gl.Flush()
	m.window.SwapBuffers()
	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return fmt.Errorf("%w: gl error 0x%04x", shell.ErrPresent, glErr)
	}
	return nil
}

// RunCurrent runs fn with the context bound to the calling thread and
// releases the binding on every exit path, panics included.
func (m *Manager) RunCurrent(fn func() error) error {
	if m.window == nil {
		return fmt.Errorf("%w: opengl manager not created", shell.ErrNoBackend)
	}
	m.window.MakeContextCurrent()
	defer glfw.DetachCurrentContext()
	return fn()
}

// Close releases the offscreen surface and detaches from the window.
func (m *Manager) Close() error {
	if m.window == nil {
		return nil
	}
	err := m.RunCurrent(func() error {
		if m.dirty != nil {
			m.dirty.release()
			m.dirty = nil
		}
		return nil
	})
	m.primary = nil
	m.window = nil
	return err
}

// newOffscreen builds a texture-backed framebuffer of the given size.
// Creation is all-or-nothing: an incomplete framebuffer is torn down
// and reported as a surface creation failure.
func newOffscreen(size shell.Size) (*framebufferSurface, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(size.Width), int32(size.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteTextures(1, &tex)
		return nil, fmt.Errorf("%w: framebuffer status 0x%04x", shell.ErrSurfaceCreation, status)
	}
	return &framebufferSurface{fbo: fbo, tex: tex, size: size}, nil
}
