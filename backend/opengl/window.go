package opengl

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/linden-ui/shell"
)

var (
	glfwOnce    sync.Once
	glfwInitErr error
)

// WindowBackend creates GLFW windows. It implements shell.WindowBackend.
type WindowBackend struct {
	log *zap.Logger
}

// NewWindowBackend initializes GLFW (once per process) and returns the
// window backend. Call Terminate when the application shuts down.
func NewWindowBackend(log *zap.Logger) (*WindowBackend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	glfwOnce.Do(func() {
		glfwInitErr = glfw.Init()
	})
	if glfwInitErr != nil {
		return nil, fmt.Errorf("glfw init: %w", glfwInitErr)
	}
	return &WindowBackend{log: log}, nil
}

// Terminate releases GLFW. No window may be used afterwards.
func Terminate() {
	glfw.Terminate()
}

// PollEvents pumps the native event loop once. Must run on the render
// thread; window callbacks fire from inside this call.
func PollEvents() {
	glfw.PollEvents()
}

// Open creates a top-level window.
func (b *WindowBackend) Open(desc shell.WindowDescription) (shell.NativeWindow, error) {
	return b.open(0, desc)
}

// OpenEmbedded creates a child window reparented into a host-provided
// native handle. Supported on Windows; other platforms return
// shell.ErrEmbeddingUnsupported.
func (b *WindowBackend) OpenEmbedded(parent uintptr, desc shell.WindowDescription) (shell.NativeWindow, error) {
	if parent == 0 {
		return nil, fmt.Errorf("open embedded: zero parent handle")
	}
	return b.open(parent, desc)
}

func (b *WindowBackend) open(parent uintptr, desc shell.WindowDescription) (shell.NativeWindow, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, hintBool(desc.Resizable))
	// Embedded children get no decorations; the host draws the chrome.
	glfw.WindowHint(glfw.Decorated, hintBool(parent == 0))

	userScale := desc.UserScaleFactor
	if userScale == 0 {
		userScale = 1
	}
	// The windowing system treats the user scale factor as part of the
	// logical size; only the core separates the two.
	native := desc.InnerSize.Scale(userScale)

	win, err := glfw.CreateWindow(int(math.Round(native.Width)), int(math.Round(native.Height)), desc.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	if icons := shell.IconVariants(desc.Icon); icons != nil {
		win.SetIcon(icons)
	}

	win.MakeContextCurrent()
	if desc.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	glfw.DetachCurrentContext()

	w := &Window{win: win}
	if parent != 0 {
		if err := embedInto(win, parent); err != nil {
			win.Destroy()
			return nil, err
		}
	}

	b.log.Info("window opened",
		zap.String("title", desc.Title),
		zap.Float64("width", native.Width),
		zap.Float64("height", native.Height),
		zap.Bool("embedded", parent != 0))
	return w, nil
}

func hintBool(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

// Window wraps one GLFW window. It is the platform event source: after
// SetEventSink, native callbacks are delivered as shell.RawEvent values
// on the render thread, from inside PollEvents.
type Window struct {
	win  *glfw.Window
	sink func(shell.RawEvent)
}

// SetEventSink installs the callback receiving raw platform events.
func (w *Window) SetEventSink(sink func(shell.RawEvent)) {
	w.sink = sink

	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.emit(shell.RawCursorMove{X: x, Y: y})
	})
	w.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		mapped, ok := mapMouseButton(button)
		if !ok {
			return
		}
		w.emit(shell.RawMouseButton{Button: mapped, Pressed: action == glfw.Press})
	})
	w.win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		w.emit(shell.RawWheel{DeltaX: xoff, DeltaY: yoff, Unit: shell.ScrollLines})
	})
	w.win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if entered {
			w.emit(shell.RawCursorEnter{})
		} else {
			w.emit(shell.RawCursorLeave{})
		}
	})
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		code := mapKey(key)
		if code == shell.KeyNone {
			return
		}
		w.emit(shell.RawKey{Code: code, Pressed: action == glfw.Press || action == glfw.Repeat})
	})
	w.win.SetCharCallback(func(_ *glfw.Window, char rune) {
		w.emit(shell.RawChar{Char: char})
	})
	w.win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.emitResized(float64(width), float64(height))
	})
	w.win.SetContentScaleCallback(func(_ *glfw.Window, _, _ float32) {
		size := w.LogicalSize()
		w.emitResized(size.Width, size.Height)
	})
	w.win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		w.emit(shell.RawFocused{Focused: focused})
	})
	w.win.SetCloseCallback(func(_ *glfw.Window) {
		w.emit(shell.RawWillClose{})
	})
}

func (w *Window) emit(ev shell.RawEvent) {
	if w.sink != nil {
		w.sink(ev)
	}
}

func (w *Window) emitResized(width, height float64) {
	w.emit(shell.RawResized{
		Logical:     shell.LogicalSize{Width: width, Height: height},
		ScaleFactor: w.ScaleFactor(),
	})
}

// Handle returns the native handle where the platform exposes one
// (HWND on Windows), 0 elsewhere.
func (w *Window) Handle() uintptr {
	return nativeHandle(w.win)
}

// LogicalSize returns the window size in screen coordinates.
func (w *Window) LogicalSize() shell.LogicalSize {
	width, height := w.win.GetSize()
	return shell.LogicalSize{Width: float64(width), Height: float64(height)}
}

// ScaleFactor returns the content scale reported by the OS.
func (w *Window) ScaleFactor() float64 {
	sx, _ := w.win.GetContentScale()
	return float64(sx)
}

// RequestResize asks for a new logical size.
func (w *Window) RequestResize(size shell.LogicalSize) {
	w.win.SetSize(int(math.Round(size.Width)), int(math.Round(size.Height)))
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.win.SetTitle(title)
}

// Minimized reports whether the window is iconified.
func (w *Window) Minimized() bool {
	return w.win.GetAttrib(glfw.Iconified) == glfw.True
}

// Destroy releases the native window.
func (w *Window) Destroy() {
	w.win.Destroy()
}

func mapMouseButton(button glfw.MouseButton) (shell.MouseButton, bool) {
	switch button {
	case glfw.MouseButtonLeft:
		return shell.MouseButtonLeft, true
	case glfw.MouseButtonRight:
		return shell.MouseButtonRight, true
	case glfw.MouseButtonMiddle:
		return shell.MouseButtonMiddle, true
	case glfw.MouseButton4:
		return shell.MouseButtonBack, true
	case glfw.MouseButton5:
		return shell.MouseButtonForward, true
	default:
		return 0, false
	}
}

// mapKey maps GLFW keys to shell keys.
func mapKey(key glfw.Key) shell.Key {
	switch key {
	case glfw.KeyTab:
		return shell.KeyTab
	case glfw.KeyLeft:
		return shell.KeyLeft
	case glfw.KeyRight:
		return shell.KeyRight
	case glfw.KeyUp:
		return shell.KeyArrowUp
	case glfw.KeyDown:
		return shell.KeyArrowDown
	case glfw.KeyPageUp:
		return shell.KeyPageUp
	case glfw.KeyPageDown:
		return shell.KeyPageDown
	case glfw.KeyHome:
		return shell.KeyHome
	case glfw.KeyEnd:
		return shell.KeyEnd
	case glfw.KeyInsert:
		return shell.KeyInsert
	case glfw.KeyDelete:
		return shell.KeyDelete
	case glfw.KeyBackspace:
		return shell.KeyBackspace
	case glfw.KeySpace:
		return shell.KeySpace
	case glfw.KeyEnter:
		return shell.KeyEnter
	case glfw.KeyEscape:
		return shell.KeyEscape
	case glfw.KeyA:
		return shell.KeyA
	case glfw.KeyC:
		return shell.KeyC
	case glfw.KeyQ:
		return shell.KeyQ
	case glfw.KeyS:
		return shell.KeyS
	case glfw.KeyV:
		return shell.KeyV
	case glfw.KeyX:
		return shell.KeyX
	case glfw.KeyY:
		return shell.KeyY
	case glfw.KeyZ:
		return shell.KeyZ
	case glfw.KeyF1:
		return shell.KeyF1
	case glfw.KeyF2:
		return shell.KeyF2
	case glfw.KeyF3:
		return shell.KeyF3
	case glfw.KeyF4:
		return shell.KeyF4
	case glfw.KeyF5:
		return shell.KeyF5
	case glfw.KeyF6:
		return shell.KeyF6
	case glfw.KeyF7:
		return shell.KeyF7
	case glfw.KeyF8:
		return shell.KeyF8
	case glfw.KeyF9:
		return shell.KeyF9
	case glfw.KeyF10:
		return shell.KeyF10
	case glfw.KeyF11:
		return shell.KeyF11
	case glfw.KeyF12:
		return shell.KeyF12
	case glfw.KeyLeftShift:
		return shell.KeyShiftLeft
	case glfw.KeyRightShift:
		return shell.KeyShiftRight
	case glfw.KeyLeftControl:
		return shell.KeyControlLeft
	case glfw.KeyRightControl:
		return shell.KeyControlRight
	case glfw.KeyLeftAlt:
		return shell.KeyAltLeft
	case glfw.KeyRightAlt:
		return shell.KeyAltRight
	case glfw.KeyLeftSuper:
		return shell.KeySuperLeft
	case glfw.KeyRightSuper:
		return shell.KeySuperRight
	default:
		return shell.KeyNone
	}
}
