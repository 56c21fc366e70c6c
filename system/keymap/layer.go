package keymap

import (
	"github.com/pkg/errors"
)

// Layer numbers the keymap layers. Higher layers shadow lower ones when
// active.
type Layer uint8

// The layer set is closed. Base, Extra and Tap are the selectable base
// layouts; everything above is momentary.
const (
	Base Layer = iota
	Extra
	Tap
	Button
	Nav
	Mouse
	Media
	Num
	Sym
	Fun

	NumLayers
)

func (l Layer) String() string {
	if l >= NumLayers {
		return "INVALID"
	}
	return [...]string{
		"BASE", "EXTRA", "TAP", "BUTTON", "NAV", "MOUSE", "MEDIA", "NUM", "SYM", "FUN",
	}[l]
}

// IsBase reports whether l belongs to the selectable base layout set.
func (l Layer) IsBase() bool {
	return l <= Tap
}

// Matrix dimensions: rows 0-3 are the left half, 4-7 the right half.
const (
	Rows = 8
	Cols = 5

	leftRows = Rows / 2
)

// Pos identifies a physical key.
type Pos struct {
	Row uint8
	Col uint8
}

// LeftHalf reports whether the key sits on the left half of the split.
func (p Pos) LeftHalf() bool {
	return p.Row < leftRows
}

// SameHalf reports whether two keys share a split half.
func (p Pos) SameHalf(o Pos) bool {
	return p.LeftHalf() == o.LeftHalf()
}

// Valid reports whether the position is inside the matrix.
func (p Pos) Valid() bool {
	return p.Row < Rows && p.Col < Cols
}

// State is the pair (default layer, momentary bitfield). The zero value
// is not usable; construct with NewState.
type State struct {
	def       Layer
	momentary uint16
}

// NewState returns a layer state defaulting to the given base layout.
func NewState(def Layer) (*State, error) {
	if !def.IsBase() {
		return nil, errors.Errorf("[layers] %s is not a base layer", def)
	}
	return &State{def: def}, nil
}

// Default returns the current default base layer.
func (s *State) Default() Layer {
	return s.def
}

// SetDefault replaces the default base layer. Only members of the base
// enumeration are accepted.
func (s *State) SetDefault(l Layer) error {
	if !l.IsBase() {
		return errors.Errorf("[layers] %s is not a base layer", l)
	}
	s.def = l
	return nil
}

// Activate sets the momentary bit for l.
func (s *State) Activate(l Layer) {
	if l >= NumLayers {
		return
	}
	s.momentary |= 1 << l
}

// Deactivate clears exactly the momentary bit for l.
func (s *State) Deactivate(l Layer) {
	if l >= NumLayers {
		return
	}
	s.momentary &^= 1 << l
}

// active reports whether l participates in the layer walk. The momentary
// bit for the default layer is ignored; the default is always active.
func (s *State) active(l Layer) bool {
	if l == s.def {
		return true
	}
	return s.momentary&(1<<l) != 0
}

// Effective returns the highest active layer.
func (s *State) Effective() Layer {
	for l := NumLayers - 1; l > s.def; l-- {
		if s.momentary&(1<<l) != 0 {
			return l
		}
	}
	return s.def
}

// Resolve walks active layers top-down from the effective layer and
// returns the first non-transparent action at p together with the layer
// that provided it. A fully transparent stack yields (XXX, def, false).
func (s *State) Resolve(m *Map, p Pos) (Action, Layer, bool) {
	if !p.Valid() {
		return XXX, s.def, false
	}
	for i := int(NumLayers) - 1; i >= 0; i-- {
		l := Layer(i)
		if !s.active(l) {
			continue
		}
		a := m[l][p.Row][p.Col]
		if a.Kind == KindTransparent {
			continue
		}
		return a, l, true
	}
	return XXX, s.def, false
}
