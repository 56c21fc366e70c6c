package keycode

// ClipboardIdiom selects the chords emitted for cut/copy/paste/undo/redo.
type ClipboardIdiom int

const (
	ClipboardX11 ClipboardIdiom = iota
	ClipboardMac
	ClipboardWin
)

func (c ClipboardIdiom) String() string {
	return [...]string{"x11", "mac", "win"}[c]
}

// Chord is a keycode with modifiers applied for the duration of the press.
type Chord struct {
	Mods Modifier
	Code Code
}

// ClipboardSet holds the five clipboard chords for one idiom.
type ClipboardSet struct {
	Cut   Chord
	Copy  Chord
	Paste Chord
	Undo  Chord
	Redo  Chord
}

// Clipboard returns the chord set for the given idiom.
func Clipboard(idiom ClipboardIdiom) ClipboardSet {
	switch idiom {
	case ClipboardMac:
		return ClipboardSet{
			Cut:   Chord{ModLeftGui, X},
			Copy:  Chord{ModLeftGui, C},
			Paste: Chord{ModLeftGui, V},
			Undo:  Chord{ModLeftGui, Z},
			Redo:  Chord{ModLeftGui | ModLeftShift, Z},
		}
	case ClipboardWin:
		return ClipboardSet{
			Cut:   Chord{ModLeftCtrl, X},
			Copy:  Chord{ModLeftCtrl, C},
			Paste: Chord{ModLeftCtrl, V},
			Undo:  Chord{ModLeftCtrl, Z},
			Redo:  Chord{ModLeftCtrl, Y},
		}
	default: // X11 uses the legacy Insert/Delete chords
		return ClipboardSet{
			Cut:   Chord{ModLeftShift, Delete},
			Copy:  Chord{ModLeftCtrl, Insert},
			Paste: Chord{ModLeftShift, Insert},
			Undo:  Chord{ModNone, Undo},
			Redo:  Chord{ModNone, Again},
		}
	}
}
