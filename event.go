package shell

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonBack
	MouseButtonForward
)

// Key identifies a keyboard key by position, independent of layout.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyLeft
	KeyRight
	KeyArrowUp
	KeyArrowDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyBackspace
	KeySpace
	KeyEnter
	KeyEscape
	KeyA
	KeyC
	KeyQ
	KeyS
	KeyV
	KeyX
	KeyY
	KeyZ
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyShiftLeft
	KeyShiftRight
	KeyControlLeft
	KeyControlRight
	KeyAltLeft
	KeyAltRight
	KeySuperLeft
	KeySuperRight
)

// Event is a canonical UI event delivered to the UI core.
//
// The event translator produces these from raw platform events; host
// applications may also post them from other goroutines through an
// EventQueue.
type Event interface {
	isEvent()
}

// MouseMove reports the cursor position in physical window coordinates.
type MouseMove struct {
	X, Y float32
}

// MouseDown reports a mouse button press.
type MouseDown struct {
	Button MouseButton
}

// MouseUp reports a mouse button release.
type MouseUp struct {
	Button MouseButton
}

// MouseScroll reports a wheel movement in whole lines per axis.
type MouseScroll struct {
	X, Y float32
}

// MouseEnter reports the cursor entering the window.
type MouseEnter struct{}

// MouseLeave reports the cursor leaving the window.
type MouseLeave struct{}

// CharInput carries one character of textual input. A key press whose
// text contains several characters produces one CharInput per character,
// all delivered before the KeyDown for that press.
type CharInput struct {
	Char rune
}

// KeyDown reports a key press or repeat.
type KeyDown struct {
	Code Key
}

// KeyUp reports a key release. Key releases never carry text.
type KeyUp struct {
	Code Key
}

// WindowClose requests that the window be closed. At most one is emitted
// per close intent, regardless of how many sources raised it.
type WindowClose struct{}

// Refresh asks the UI core to mark itself for a full refresh. Posted by
// out-of-band producers such as the asset watcher.
type Refresh struct{}

func (MouseMove) isEvent()   {}
func (MouseDown) isEvent()   {}
func (MouseUp) isEvent()     {}
func (MouseScroll) isEvent() {}
func (MouseEnter) isEvent()  {}
func (MouseLeave) isEvent()  {}
func (CharInput) isEvent()   {}
func (KeyDown) isEvent()     {}
func (KeyUp) isEvent()       {}
func (WindowClose) isEvent() {}
func (Refresh) isEvent()     {}
