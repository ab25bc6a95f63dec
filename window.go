package shell

import (
	"fmt"
	"image"
)

// WindowDescription configures a window at creation time.
type WindowDescription struct {
	Title string

	// InnerSize is the requested logical size, before scaling.
	InnerSize LogicalSize

	// UserScaleFactor is an arbitrary multiplier applied on top of any
	// OS DPI scaling. Defaults to 1.
	UserScaleFactor float64

	// VSync synchronizes presents to the display refresh.
	VSync bool

	// Icon, when non-nil, is scaled into the standard size variants and
	// installed as the window icon.
	Icon image.Image

	Resizable bool
}

// NewWindowDescription returns a description with the usual defaults.
func NewWindowDescription() WindowDescription {
	return WindowDescription{
		Title:           "Window",
		InnerSize:       LogicalSize{Width: 800, Height: 600},
		UserScaleFactor: 1,
		VSync:           true,
		Resizable:       true,
	}
}

// NativeWindow is the handle to one native window. The window manager
// owns these; the surface manager and the run loop driver only look
// windows up and never control their lifetime.
type NativeWindow interface {
	// Handle returns the raw native handle (HWND and the like), or 0
	// where the platform exposes none.
	Handle() uintptr

	// LogicalSize returns the native logical size, which includes the
	// user scale factor the window was opened with.
	LogicalSize() LogicalSize

	// ScaleFactor returns the OS-reported scale factor.
	ScaleFactor() float64

	// RequestResize asks the windowing system for a new logical size.
	RequestResize(size LogicalSize)

	SetTitle(title string)

	// Minimized reports whether the window is iconified.
	Minimized() bool

	// Destroy releases the native window.
	Destroy()
}

// WindowBackend is the native windowing collaborator: it creates
// top-level windows and, on platforms that support it, child windows
// embedded into a foreign parent (the audio-plugin hosting case).
type WindowBackend interface {
	Open(desc WindowDescription) (NativeWindow, error)
	OpenEmbedded(parent uintptr, desc WindowDescription) (NativeWindow, error)
}

// WindowManager binds UI-side window entities to native windows. Open
// creates the binding, Close destroys it; a native "will close"
// notification must be answered with Close for the entity.
type WindowManager struct {
	backend WindowBackend
	windows map[Entity]NativeWindow
}

// NewWindowManager returns a manager creating windows through the given
// backend.
func NewWindowManager(backend WindowBackend) *WindowManager {
	return &WindowManager{
		backend: backend,
		windows: make(map[Entity]NativeWindow),
	}
}

// Open creates a top-level window bound to the entity.
func (m *WindowManager) Open(entity Entity, desc WindowDescription) (NativeWindow, error) {
	if _, exists := m.windows[entity]; exists {
		return nil, fmt.Errorf("shell: window for entity %d already open", entity)
	}
	win, err := m.backend.Open(desc)
	if err != nil {
		return nil, fmt.Errorf("open window: %w", err)
	}
	m.windows[entity] = win
	return win, nil
}

// OpenEmbedded creates a child window inside a host-provided parent
// handle and binds it to the entity. Backends without embedding support
// return ErrEmbeddingUnsupported.
func (m *WindowManager) OpenEmbedded(entity Entity, parent uintptr, desc WindowDescription) (NativeWindow, error) {
	if _, exists := m.windows[entity]; exists {
		return nil, fmt.Errorf("shell: window for entity %d already open", entity)
	}
	win, err := m.backend.OpenEmbedded(parent, desc)
	if err != nil {
		return nil, fmt.Errorf("open embedded window: %w", err)
	}
	m.windows[entity] = win
	return win, nil
}

// Lookup returns the native window bound to the entity.
func (m *WindowManager) Lookup(entity Entity) (NativeWindow, bool) {
	win, ok := m.windows[entity]
	return win, ok
}

// EntityFor returns the entity bound to a native handle.
func (m *WindowManager) EntityFor(handle uintptr) (Entity, bool) {
	for entity, win := range m.windows {
		if win.Handle() == handle {
			return entity, true
		}
	}
	return 0, false
}

// Close destroys the entity's native window and removes the binding.
// Closing an unbound entity is a no-op.
func (m *WindowManager) Close(entity Entity) {
	if win, ok := m.windows[entity]; ok {
		win.Destroy()
		delete(m.windows, entity)
	}
}

// Count returns the number of open windows.
func (m *WindowManager) Count() int {
	return len(m.windows)
}
