package shell

// Modifiers is a bitset of the modifier keys held down.
//
// It is owned by the event translator and mutated only in response to
// modifier key-down and key-up events; every other component treats it
// as read-only.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether all the given modifier bits are set.
func (m Modifiers) Has(mods Modifiers) bool {
	return m&mods == mods
}

// With returns the set with the given bits set or cleared.
func (m Modifiers) With(mods Modifiers, on bool) Modifiers {
	if on {
		return m | mods
	}
	return m &^ mods
}
