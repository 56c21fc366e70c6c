package arbiter

import (
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
)

// MaxOverlaps bounds the per-pending-key overlap log. Overflow forces a
// hold resolution, the safer bias during fast typing.
const MaxOverlaps = 16

// Config tunes the tap-hold state machine.
type Config struct {
	// TappingTerm is the press-to-hold timeout
	TappingTerm time.Duration
	// QuickTapTerm resolves a re-press as tap if the previous tap of the
	// same key released within this window. Zero disables the rule.
	QuickTapTerm time.Duration
	// PermissiveHold resolves hold when another key is pressed and
	// released inside the pending window
	PermissiveHold bool
	// HoldOnOtherKeyPress opts a key into immediate hold resolution on
	// any interrupting press. Nil means never.
	HoldOnOtherKeyPress func(p keymap.Pos, a keymap.Action) bool
	// BilateralGate restricts HoldOnOtherKeyPress to interruptions from
	// the opposite split half. Nil means no gate.
	BilateralGate func(p keymap.Pos) bool
	// TermFor overrides TappingTerm per key. Nil means uniform.
	TermFor func(p keymap.Pos, a keymap.Action) time.Duration
	// Dances is the closed tap dance handler table. Nil entries ignore
	// the dance.
	Dances [keymap.NumDances]DanceFunc
}

// DanceFunc receives the final tap count when a dance fires.
type DanceFunc func(count int) []Op

// DefaultDances returns the stock handler table: double tap the boot
// entry for the bootloader, double tap a layout entry to make it the
// default base layer.
func DefaultDances() [keymap.NumDances]DanceFunc {
	var d [keymap.NumDances]DanceFunc
	d[keymap.DanceBoot] = func(count int) []Op {
		if count == 2 {
			return []Op{{Kind: OpBootloader}}
		}
		return nil
	}
	selectLayer := func(l keymap.Layer) DanceFunc {
		return func(count int) []Op {
			if count == 2 {
				return []Op{{Kind: OpSetDefault, Layer: l}}
			}
			return nil
		}
	}
	d[keymap.DanceBase] = selectLayer(keymap.Base)
	d[keymap.DanceExtra] = selectLayer(keymap.Extra)
	d[keymap.DanceTap] = selectLayer(keymap.Tap)
	return d
}

type heldKind uint8

const (
	heldSilent heldKind = iota // blocked or dance key, release is consumed
	heldPlain                  // plain keycode, possibly chorded
	heldTap                    // dual-role key resolved as tap
	heldMods                   // mod-tap resolved as hold
	heldLayer                  // layer key held
)

// heldKey records what was emitted at press time so release mirrors it
// even if the layer stack has since changed.
type heldKey struct {
	kind  heldKind
	code  keycode.Code
	mods  keycode.Modifier
	layer keymap.Layer
}

type pendingKey struct {
	pos      keymap.Pos
	action   keymap.Action
	deadline time.Duration
	overlaps []Event
}

type danceState struct {
	id       keymap.DanceID
	pos      keymap.Pos
	count    int
	deadline time.Duration
	pressed  bool
}

// Arbiter decides tap vs. hold for every dual-role key. It is advanced
// only by Press/Release/Tick from the owning loop; it has no goroutines
// and never blocks.
type Arbiter struct {
	cfg Config

	pending *pendingKey
	dance   *danceState
	held    map[keymap.Pos]heldKey
	lastTap map[keymap.Pos]time.Duration
}

// New validates the config and returns an arbiter.
func New(cfg Config) (*Arbiter, error) {
	if cfg.TappingTerm <= 0 {
		return nil, errors.New("[arbiter] tapping term must be positive")
	}
	if cfg.QuickTapTerm < 0 {
		return nil, errors.New("[arbiter] quick tap term must not be negative")
	}
	return &Arbiter{
		cfg:     cfg,
		held:    make(map[keymap.Pos]heldKey),
		lastTap: make(map[keymap.Pos]time.Duration),
	}, nil
}

func (a *Arbiter) termFor(p keymap.Pos, act keymap.Action) time.Duration {
	if a.cfg.TermFor != nil {
		if t := a.cfg.TermFor(p, act); t > 0 {
			return t
		}
	}
	return a.cfg.TappingTerm
}

func (a *Arbiter) holdOnOtherKey(p keymap.Pos, act keymap.Action) bool {
	return a.cfg.HoldOnOtherKeyPress != nil && a.cfg.HoldOnOtherKeyPress(p, act)
}

func (a *Arbiter) bilateral(p keymap.Pos) bool {
	return a.cfg.BilateralGate != nil && a.cfg.BilateralGate(p)
}

// Press feeds a physical press with the action resolved at press time.
func (a *Arbiter) Press(p keymap.Pos, act keymap.Action, now time.Duration) []Op {
	ev := Event{Pos: p, Pressed: true, At: now}

	if a.pending != nil {
		return a.interrupt(ev)
	}

	var ops []Op
	if a.dance != nil && p != a.dance.pos {
		// any other key interrupts the dance
		ops = append(ops, a.fireDance()...)
	}

	switch act.Kind {
	case keymap.KindKey:
		a.held[p] = heldKey{kind: heldPlain, code: act.Code, mods: act.Mods}
		return append(ops, keyEvent(p, true), press(act.Code, act.Mods))

	case keymap.KindBlocked, keymap.KindTransparent:
		a.held[p] = heldKey{kind: heldSilent}
		return append(ops, keyEvent(p, true))

	case keymap.KindMomentary:
		a.held[p] = heldKey{kind: heldLayer, layer: act.Layer}
		return append(ops, keyEvent(p, true), Op{Kind: OpLayerOn, Pos: p, Layer: act.Layer})

	case keymap.KindOneShot:
		// arms on press, the release carries nothing
		a.held[p] = heldKey{kind: heldSilent}
		return append(ops, keyEvent(p, true), Op{Kind: OpOneShot, Pos: p, Mods: act.Mods})

	case keymap.KindModTap, keymap.KindLayerTap:
		if a.cfg.QuickTapTerm > 0 {
			if rel, ok := a.lastTap[p]; ok && now-rel <= a.cfg.QuickTapTerm {
				// quick-tap: repeat resolves as tap regardless of later events
				a.held[p] = heldKey{kind: heldTap, code: act.Code}
				return append(ops, keyEvent(p, true), press(act.Code, keycode.ModNone))
			}
		}
		a.pending = &pendingKey{
			pos:      p,
			action:   act,
			deadline: now + a.termFor(p, act),
		}
		return ops

	case keymap.KindTapDance:
		if a.dance != nil && p == a.dance.pos {
			a.dance.count++
			a.dance.pressed = true
			a.dance.deadline = now + a.cfg.TappingTerm
		} else {
			a.dance = &danceState{
				id:       act.Dance,
				pos:      p,
				count:    1,
				deadline: now + a.cfg.TappingTerm,
				pressed:  true,
			}
		}
		a.held[p] = heldKey{kind: heldSilent}
		return append(ops, keyEvent(p, true))

	default:
		return ops
	}
}

// Release feeds a physical release.
func (a *Arbiter) Release(p keymap.Pos, now time.Duration) []Op {
	ev := Event{Pos: p, Pressed: false, At: now}

	if a.pending != nil {
		if p == a.pending.pos {
			if now >= a.pending.deadline {
				// term elapsed before the housekeeping tick saw it
				ops := a.resolveHold()
				return append(ops, a.Release(p, now)...)
			}
			return a.resolveTapAndRelease(now)
		}
		return a.interrupt(ev)
	}

	if a.dance != nil && p == a.dance.pos {
		a.dance.pressed = false
		a.dance.deadline = now + a.cfg.TappingTerm
	}

	h, ok := a.held[p]
	if !ok {
		// release without a matching press, drop it
		log.Printf("[arbiter] stray release at (%d,%d)\n", p.Row, p.Col)
		return nil
	}
	delete(a.held, p)

	ops := []Op{keyEvent(p, false)}
	switch h.kind {
	case heldPlain:
		ops = append(ops, release(h.code, h.mods))
	case heldTap:
		a.lastTap[p] = now
		ops = append(ops, release(h.code, keycode.ModNone))
	case heldMods:
		ops = append(ops, Op{Kind: OpModsClear, Pos: p, Mods: h.mods})
	case heldLayer:
		ops = append(ops, Op{Kind: OpLayerOff, Pos: p, Layer: h.layer})
	}
	return ops
}

// Tick advances the arbitration and dance timers. Called from the
// housekeeping step of the main loop.
func (a *Arbiter) Tick(now time.Duration) []Op {
	var ops []Op
	if a.pending != nil && now >= a.pending.deadline {
		ops = append(ops, a.resolveHold()...)
	}
	if a.dance != nil && !a.dance.pressed && now >= a.dance.deadline {
		ops = append(ops, a.fireDance()...)
	}
	return ops
}

// Settled reports whether no arbitration is in flight. Used by tests and
// by the controller's idle detection.
func (a *Arbiter) Settled() bool {
	return a.pending == nil && a.dance == nil
}

// interrupt processes an event that arrives while a dual-role key is
// pending. The event is buffered; if it fires an arbitration rule the
// pending key resolves first and the log replays in original order.
func (a *Arbiter) interrupt(ev Event) []Op {
	pd := a.pending
	pd.overlaps = append(pd.overlaps, ev)

	if len(pd.overlaps) > MaxOverlaps {
		return a.resolveHold()
	}

	if ev.Pressed {
		// hold on other key press, optionally bilateral
		if a.holdOnOtherKey(pd.pos, pd.action) {
			if !a.bilateral(pd.pos) || !ev.Pos.SameHalf(pd.pos) {
				return a.resolveHold()
			}
		}
		return nil
	}

	// permissive hold: some other key completed a full tap inside the
	// pending window
	if a.cfg.PermissiveHold {
		for _, o := range pd.overlaps[:len(pd.overlaps)-1] {
			if o.Pressed && o.Pos == ev.Pos {
				return a.resolveHold()
			}
		}
	}
	return nil
}

// resolveHold applies the pending key's hold effect, then replays the
// overlap log so buffered events resolve under the new modifiers/layers.
func (a *Arbiter) resolveHold() []Op {
	pd := a.pending
	a.pending = nil

	ops := []Op{keyEvent(pd.pos, true)}
	switch pd.action.Kind {
	case keymap.KindModTap:
		a.held[pd.pos] = heldKey{kind: heldMods, mods: pd.action.Mods}
		ops = append(ops, Op{Kind: OpModsSet, Pos: pd.pos, Mods: pd.action.Mods})
	case keymap.KindLayerTap:
		a.held[pd.pos] = heldKey{kind: heldLayer, layer: pd.action.Layer}
		ops = append(ops, Op{Kind: OpLayerOn, Pos: pd.pos, Layer: pd.action.Layer})
	}
	for _, ev := range pd.overlaps {
		ops = append(ops, replay(ev))
	}
	return ops
}

// resolveTapAndRelease handles the pending key's own release before the
// tapping term: tap resolution, replay, then the tap's release.
func (a *Arbiter) resolveTapAndRelease(now time.Duration) []Op {
	pd := a.pending
	a.pending = nil
	a.lastTap[pd.pos] = now

	ops := []Op{keyEvent(pd.pos, true), press(pd.action.Code, keycode.ModNone)}
	for _, ev := range pd.overlaps {
		ops = append(ops, replay(ev))
	}
	ops = append(ops, keyEvent(pd.pos, false), release(pd.action.Code, keycode.ModNone))
	return ops
}

func (a *Arbiter) fireDance() []Op {
	d := a.dance
	a.dance = nil
	fn := a.cfg.Dances[d.id]
	if fn == nil {
		return nil
	}
	return fn(d.count)
}
