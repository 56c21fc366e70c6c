package arbiter

import (
	"time"

	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
)

// Event is one debounced matrix transition, timestamped by the scan loop.
type Event struct {
	Pos     keymap.Pos
	Pressed bool
	At      time.Duration
}

// OpKind discriminates arbitration outputs.
type OpKind uint8

const (
	// OpKeyEvent marks the post-arbitration press or release of a
	// physical key, for the sideband observer
	OpKeyEvent OpKind = iota
	// OpPress emits a keycode press, chorded with Mods
	OpPress
	// OpRelease emits the matching keycode release
	OpRelease
	// OpModsSet latches hold modifiers
	OpModsSet
	// OpModsClear releases hold modifiers
	OpModsClear
	// OpOneShot arms a one-shot modifier mask
	OpOneShot
	// OpLayerOn activates a momentary layer
	OpLayerOn
	// OpLayerOff deactivates a momentary layer
	OpLayerOff
	// OpSetDefault replaces the default base layer
	OpSetDefault
	// OpBootloader requests bootloader entry
	OpBootloader
	// OpReplay asks the caller to re-run a buffered event through the
	// full pipeline so it resolves against post-arbitration layer state
	OpReplay
)

// Op is a single arbitration output. Ops are applied strictly in order.
type Op struct {
	Kind    OpKind
	Pos     keymap.Pos
	Pressed bool
	Code    keycode.Code
	Mods    keycode.Modifier
	Layer   keymap.Layer
	Ev      Event
}

func keyEvent(p keymap.Pos, pressed bool) Op {
	return Op{Kind: OpKeyEvent, Pos: p, Pressed: pressed}
}

func press(c keycode.Code, m keycode.Modifier) Op {
	return Op{Kind: OpPress, Code: c, Mods: m}
}

func release(c keycode.Code, m keycode.Modifier) Op {
	return Op{Kind: OpRelease, Code: c, Mods: m}
}

func replay(ev Event) Op {
	return Op{Kind: OpReplay, Ev: ev}
}
