// Package report builds 8-byte boot protocol keyboard reports from the
// arbitration output stream.
package report

import (
	"time"

	"github.com/yxakbd/YxaManager/system/keycode"
)

// MaxKeys is the boot protocol rollover limit.
const MaxKeys = 6

// DefaultOneShotTimeout expires unconsumed one-shot modifiers.
const DefaultOneShotTimeout = time.Second

// Report is the wire format: modifier byte, reserved byte, six usages.
type Report [8]byte

// Mods returns the modifier byte.
func (r Report) Mods() keycode.Modifier {
	return keycode.Modifier(r[0])
}

// Keys returns the non-zero usage slots.
func (r Report) Keys() []keycode.Code {
	var keys []keycode.Code
	for _, b := range r[2:] {
		if b != 0 {
			keys = append(keys, keycode.Code(b))
		}
	}
	return keys
}

// Builder tracks held usages and modifier sources and renders reports.
// Modifier bits are reference counted: a chord, a mod-tap hold and a
// plain modifier key may contribute the same bit concurrently.
type Builder struct {
	keys    [MaxKeys]keycode.Code
	modRefs [8]uint8

	oneShot   keycode.Modifier
	oneShotAt time.Duration
	oneShotTO time.Duration
}

// NewBuilder returns an empty report builder.
func NewBuilder() *Builder {
	return &Builder{oneShotTO: DefaultOneShotTimeout}
}

func (b *Builder) addMods(m keycode.Modifier) {
	for i := 0; i < 8; i++ {
		if m&(1<<i) != 0 && b.modRefs[i] < 0xff {
			b.modRefs[i]++
		}
	}
}

func (b *Builder) removeMods(m keycode.Modifier) {
	for i := 0; i < 8; i++ {
		if m&(1<<i) != 0 && b.modRefs[i] > 0 {
			b.modRefs[i]--
		}
	}
}

// Press registers a keycode press with optional chord modifiers.
// Modifier usages (0xE0-0xE7) contribute a modifier bit instead of a
// usage slot. Internal codes are ignored. A pending one-shot modifier is
// consumed by the first non-modifier press.
func (b *Builder) Press(c keycode.Code, chord keycode.Modifier) {
	b.addMods(chord)
	if c.IsModifierKey() {
		b.addMods(c.ModifierBit())
		return
	}
	if c.Internal() || c == keycode.None {
		return
	}
	for i := range b.keys {
		if b.keys[i] == c {
			return // already down
		}
	}
	for i := range b.keys {
		if b.keys[i] == keycode.None {
			b.keys[i] = c
			return
		}
	}
	// rollover: drop rather than wedge
}

// Release unregisters a keycode press.
func (b *Builder) Release(c keycode.Code, chord keycode.Modifier) {
	b.removeMods(chord)
	if c.IsModifierKey() {
		b.removeMods(c.ModifierBit())
		return
	}
	if c.Internal() || c == keycode.None {
		return
	}
	for i := range b.keys {
		if b.keys[i] == c {
			b.keys[i] = keycode.None
			return
		}
	}
}

// SetMods latches a held modifier mask (mod-tap hold resolution).
func (b *Builder) SetMods(m keycode.Modifier) {
	b.addMods(m)
}

// ClearMods releases a held modifier mask.
func (b *Builder) ClearMods(m keycode.Modifier) {
	b.removeMods(m)
}

// OneShot arms a one-shot modifier, applied to the next report that
// carries a key and dropped after the timeout.
func (b *Builder) OneShot(m keycode.Modifier, now time.Duration) {
	b.oneShot |= m
	b.oneShotAt = now
}

// ConsumeOneShot clears the armed one-shot mask, returning it. The
// caller applies it to the triggering press as chord modifiers.
func (b *Builder) ConsumeOneShot() keycode.Modifier {
	m := b.oneShot
	b.oneShot = 0
	return m
}

// Tick expires stale one-shot modifiers.
func (b *Builder) Tick(now time.Duration) {
	if b.oneShot != 0 && now-b.oneShotAt >= b.oneShotTO {
		b.oneShot = 0
	}
}

// Mods returns the current modifier snapshot including armed one-shots.
func (b *Builder) Mods() keycode.Modifier {
	m := b.oneShot
	for i := 0; i < 8; i++ {
		if b.modRefs[i] > 0 {
			m |= 1 << i
		}
	}
	return m
}

// Report renders the current state.
func (b *Builder) Report() Report {
	var r Report
	r[0] = byte(b.Mods())
	for i, c := range b.keys {
		r[2+i] = byte(c)
	}
	return r
}
