package shell

// ScrollUnit tells how a wheel delta is measured.
type ScrollUnit int

const (
	// ScrollLines means the delta is already in whole lines.
	ScrollLines ScrollUnit = iota
	// ScrollPixels means the delta is in pixels and must be coarsened
	// to line semantics by the translator.
	ScrollPixels
)

// RawEvent is an event as reported by the native platform backend,
// before translation into the canonical Event stream. Platform event
// sources (the GLFW window, a plugin host) produce these and hand them
// to the run loop driver.
type RawEvent interface {
	isRawEvent()
}

// RawCursorMove reports the cursor position in logical coordinates.
type RawCursorMove struct {
	X, Y float64
}

// RawMouseButton reports a button transition.
type RawMouseButton struct {
	Button  MouseButton
	Pressed bool
}

// RawWheel reports a wheel movement with its native unit.
type RawWheel struct {
	DeltaX, DeltaY float64
	Unit           ScrollUnit
}

// RawCursorEnter reports the cursor entering the window.
type RawCursorEnter struct{}

// RawCursorLeave reports the cursor leaving the window.
type RawCursorLeave struct{}

// RawKey reports a key transition. Text carries the characters produced
// by the press, when the platform reports them with the key event;
// platforms that deliver text separately use RawChar instead.
type RawKey struct {
	Code    Key
	Pressed bool
	Text    string
}

// RawChar carries textual input delivered separately from key events.
type RawChar struct {
	Char rune
}

// RawResized reports a new native window size and the OS scale factor
// in effect. The logical size includes any user scale factor the window
// was opened with, matching what the windowing system reports.
type RawResized struct {
	Logical     LogicalSize
	ScaleFactor float64
}

// RawFocused reports a window focus change.
type RawFocused struct {
	Focused bool
}

// RawWillClose reports that the native window is about to close.
type RawWillClose struct{}

func (RawCursorMove) isRawEvent()  {}
func (RawMouseButton) isRawEvent() {}
func (RawWheel) isRawEvent()       {}
func (RawCursorEnter) isRawEvent() {}
func (RawCursorLeave) isRawEvent() {}
func (RawKey) isRawEvent()         {}
func (RawChar) isRawEvent()        {}
func (RawResized) isRawEvent()     {}
func (RawFocused) isRawEvent()     {}
func (RawWillClose) isRawEvent()   {}
