package shell

// Translator maps raw platform events to canonical UI events. It owns
// the modifier state: modifier key-down and key-up events are the only
// transitions that mutate it.
//
// Close intent is the OR of two sources: a native will-close
// notification and, where configured, a quit accelerator key combination
// in the pressed state. Either one latches the terminate flag; the
// canonical WindowClose event is emitted exactly once, on the latching
// transition, however many sources fire.
type Translator struct {
	mods      Modifiers
	osScale   float64
	terminate bool

	quitKey  Key
	quitMods Modifiers
}

// NewTranslator returns a translator with no modifiers held, an OS
// scale factor of 1 and no quit accelerator.
func NewTranslator() *Translator {
	return &Translator{osScale: 1}
}

// SetQuitAccelerator configures the key combination treated as close
// intent while pressed. KeyNone disables it.
func (t *Translator) SetQuitAccelerator(code Key, mods Modifiers) {
	t.quitKey = code
	t.quitMods = mods
}

// SetOSScaleFactor sets the factor used to convert logical cursor
// coordinates to physical window coordinates. Only the OS factor is
// applied here; the user scale factor is applied inside the UI core.
func (t *Translator) SetOSScaleFactor(factor float64) {
	t.osScale = factor
}

// Modifiers returns the current modifier state.
func (t *Translator) Modifiers() Modifiers {
	return t.mods
}

// ShouldTerminate reports whether close intent has been detected. The
// run loop driver reads it after every event; shutdown is cooperative
// and happens at the next tick boundary.
func (t *Translator) ShouldTerminate() bool {
	return t.terminate
}

// Translate converts one raw platform event into zero or more canonical
// events, in delivery order.
func (t *Translator) Translate(raw RawEvent) []Event {
	switch e := raw.(type) {
	case RawCursorMove:
		return []Event{MouseMove{
			X: float32(e.X * t.osScale),
			Y: float32(e.Y * t.osScale),
		}}

	case RawMouseButton:
		if e.Pressed {
			return []Event{MouseDown{Button: e.Button}}
		}
		return []Event{MouseUp{Button: e.Button}}

	case RawWheel:
		x, y := e.DeltaX, e.DeltaY
		if e.Unit == ScrollPixels {
			x = coarsenScroll(x)
			y = coarsenScroll(y)
		}
		return []Event{MouseScroll{X: float32(x), Y: float32(y)}}

	case RawCursorEnter:
		return []Event{MouseEnter{}}

	case RawCursorLeave:
		return []Event{MouseLeave{}}

	case RawChar:
		return []Event{CharInput{Char: e.Char}}

	case RawKey:
		return t.translateKey(e)

	case RawWillClose:
		return t.closeRequested()
	}

	return nil
}

func (t *Translator) translateKey(e RawKey) []Event {
	switch e.Code {
	case KeyShiftLeft, KeyShiftRight:
		t.mods = t.mods.With(ModShift, e.Pressed)
	case KeyControlLeft, KeyControlRight:
		t.mods = t.mods.With(ModCtrl, e.Pressed)
	case KeyAltLeft, KeyAltRight:
		t.mods = t.mods.With(ModAlt, e.Pressed)
	case KeySuperLeft, KeySuperRight:
		t.mods = t.mods.With(ModSuper, e.Pressed)
	}

	var out []Event
	if e.Pressed && t.quitKey != KeyNone && e.Code == t.quitKey && t.mods == t.quitMods {
		out = append(out, t.closeRequested()...)
	}

	if e.Pressed {
		// Textual input fans out one CharInput per character, all
		// ahead of the single KeyDown for the press.
		for _, chr := range e.Text {
			out = append(out, CharInput{Char: chr})
		}
		return append(out, KeyDown{Code: e.Code})
	}
	return append(out, KeyUp{Code: e.Code})
}

// closeRequested latches the terminate flag and emits WindowClose only
// on the first latch. Dedup is by flag, not by counting events.
func (t *Translator) closeRequested() []Event {
	if t.terminate {
		return nil
	}
	t.terminate = true
	return []Event{WindowClose{}}
}

// coarsenScroll maps a pixel delta to whole-line semantics: values less
// than 0 become -1, values greater than 1 become +1, and everything in
// the inclusive range [0, 1] becomes 0.
func coarsenScroll(delta float64) float64 {
	switch {
	case delta < 0:
		return -1
	case delta > 1:
		return 1
	default:
		return 0
	}
}
