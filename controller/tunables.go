package controller

import (
	"time"

	"github.com/yxakbd/YxaManager/system/arbiter"
	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
)

// Tunables are the build-time scalars of the firmware core.
type Tunables struct {
	// TappingTerm is the uniform press-to-hold timeout
	TappingTerm time.Duration
	// ThumbTappingTerm overrides the term for thumb-row layer taps
	ThumbTappingTerm time.Duration
	// QuickTapTerm suppresses false holds during roll-typed repeats
	QuickTapTerm time.Duration
	// PermissiveHold resolves hold on a nested full tap
	PermissiveHold bool
	// HoldOnLayerTapInterrupt resolves thumb layer taps as hold on any
	// interrupting press
	HoldOnLayerTapInterrupt bool
	// BilateralHomeRow gates home-row mod interrupts to the opposite half
	BilateralHomeRow bool
	// CapsWordIdle clears caps-word after typing silence
	CapsWordIdle time.Duration
	// BatchTimeout ages out a pending sideband release batch
	BatchTimeout time.Duration
	// Clipboard selects the cut/copy/paste/undo/redo chords
	Clipboard keycode.ClipboardIdiom
}

// DefaultTunables mirrors the shipped firmware configuration.
func DefaultTunables() Tunables {
	return Tunables{
		TappingTerm:             200 * time.Millisecond,
		ThumbTappingTerm:        170 * time.Millisecond,
		QuickTapTerm:            120 * time.Millisecond,
		PermissiveHold:          true,
		HoldOnLayerTapInterrupt: true,
		BilateralHomeRow:        true,
		CapsWordIdle:            arbiter.DefaultCapsWordIdle,
		BatchTimeout:            2 * time.Millisecond,
		Clipboard:               keycode.ClipboardX11,
	}
}

func thumbRow(p keymap.Pos) bool {
	return p.Row == 3 || p.Row == 7
}

// arbiterConfig expands the scalars into the arbiter's per-key hooks.
func (t Tunables) arbiterConfig() arbiter.Config {
	cfg := arbiter.Config{
		TappingTerm:    t.TappingTerm,
		QuickTapTerm:   t.QuickTapTerm,
		PermissiveHold: t.PermissiveHold,
		Dances:         arbiter.DefaultDances(),
	}
	holdOnLayerTap := t.HoldOnLayerTapInterrupt
	bilateralMods := t.BilateralHomeRow
	if holdOnLayerTap || bilateralMods {
		cfg.HoldOnOtherKeyPress = func(p keymap.Pos, a keymap.Action) bool {
			if a.Kind == keymap.KindLayerTap && thumbRow(p) {
				return holdOnLayerTap
			}
			return bilateralMods && a.Kind == keymap.KindModTap
		}
	}
	if bilateralMods {
		// home-row mods only commit on an opposite-hand interrupt
		cfg.BilateralGate = func(p keymap.Pos) bool {
			return !thumbRow(p)
		}
	}
	if t.ThumbTappingTerm > 0 {
		cfg.TermFor = func(p keymap.Pos, a keymap.Action) time.Duration {
			if a.Kind == keymap.KindLayerTap && thumbRow(p) {
				return t.ThumbTappingTerm
			}
			return t.TappingTerm
		}
	}
	return cfg
}
