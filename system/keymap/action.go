package keymap

import (
	"fmt"

	"github.com/yxakbd/YxaManager/system/keycode"
)

// Kind discriminates the Action variant.
type Kind uint8

const (
	// KindBlocked consumes the event and emits nothing
	KindBlocked Kind = iota
	// KindTransparent defers to the next lower active layer
	KindTransparent
	// KindKey is a plain keycode, optionally chorded with modifiers
	KindKey
	// KindModTap taps a keycode or holds a modifier mask
	KindModTap
	// KindLayerTap taps a keycode or holds a momentary layer
	KindLayerTap
	// KindMomentary holds a momentary layer
	KindMomentary
	// KindOneShot arms a modifier mask for the next key press
	KindOneShot
	// KindTapDance accumulates taps and fires an indexed handler
	KindTapDance
)

func (k Kind) String() string {
	return [...]string{
		"blocked", "transparent", "key", "mod-tap", "layer-tap", "momentary", "one-shot", "tap-dance",
	}[k]
}

// DanceID indexes into the tap dance handler table. The set is closed at
// build time.
type DanceID uint8

const (
	DanceBoot DanceID = iota
	DanceBase
	DanceExtra
	DanceTap

	NumDances
)

// Action is the tagged variant bound to one (layer, row, col) position.
type Action struct {
	Kind  Kind
	Code  keycode.Code
	Mods  keycode.Modifier // chord mods for KindKey, hold mask for KindModTap
	Layer Layer
	Dance DanceID
}

// Named placeholder actions, QMK's KC_NO and KC_TRNS
var (
	XXX = Action{Kind: KindBlocked}
	TRN = Action{Kind: KindTransparent}
)

// Key binds a plain keycode.
func Key(c keycode.Code) Action {
	return Action{Kind: KindKey, Code: c}
}

// ChordKey binds a keycode with modifiers applied for the press duration.
func ChordKey(ch keycode.Chord) Action {
	return Action{Kind: KindKey, Code: ch.Code, Mods: ch.Mods}
}

// ModTap binds tap=keycode, hold=modifier mask.
func ModTap(tap keycode.Code, hold keycode.Modifier) Action {
	return Action{Kind: KindModTap, Code: tap, Mods: hold}
}

// LayerTap binds tap=keycode, hold=momentary layer.
func LayerTap(tap keycode.Code, hold Layer) Action {
	return Action{Kind: KindLayerTap, Code: tap, Layer: hold}
}

// Momentary binds a hold-only momentary layer.
func Momentary(l Layer) Action {
	return Action{Kind: KindMomentary, Layer: l}
}

// OneShot binds a sticky modifier mask, consumed by the next key press
// or expired after the one-shot timeout.
func OneShot(m keycode.Modifier) Action {
	return Action{Kind: KindOneShot, Mods: m}
}

// Dance binds a tap dance entry.
func Dance(id DanceID) Action {
	return Action{Kind: KindTapDance, Dance: id}
}

// DualRole reports whether the action requires tap-hold arbitration.
func (a Action) DualRole() bool {
	return a.Kind == KindModTap || a.Kind == KindLayerTap
}

func (a Action) String() string {
	switch a.Kind {
	case KindKey:
		if a.Mods != keycode.ModNone {
			return fmt.Sprintf("key(%s, mods=%#02x)", a.Code, uint8(a.Mods))
		}
		return fmt.Sprintf("key(%s)", a.Code)
	case KindModTap:
		return fmt.Sprintf("mod-tap(%s, %#02x)", a.Code, uint8(a.Mods))
	case KindLayerTap:
		return fmt.Sprintf("layer-tap(%s, %s)", a.Code, a.Layer)
	case KindMomentary:
		return fmt.Sprintf("momentary(%s)", a.Layer)
	case KindOneShot:
		return fmt.Sprintf("one-shot(%#02x)", uint8(a.Mods))
	case KindTapDance:
		return fmt.Sprintf("tap-dance(%d)", a.Dance)
	default:
		return a.Kind.String()
	}
}
