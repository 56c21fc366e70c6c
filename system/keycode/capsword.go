package keycode

// ShiftUnderCapsWord reports whether c should be emitted with left shift
// while caps-word is active.
func ShiftUnderCapsWord(c Code) bool {
	return c >= A && c <= Z
}

// ContinuesCapsWord reports whether a press of c leaves caps-word active.
// Anything else ends the word.
func ContinuesCapsWord(c Code, mods Modifier) bool {
	if mods != ModNone {
		return false
	}
	switch {
	case c >= A && c <= Z:
		return true
	case c >= Num1 && c <= Num0:
		return true
	case c == Minus || c == Backspace || c == Delete:
		return true
	case c.IsModifierKey():
		return true
	default:
		return false
	}
}
