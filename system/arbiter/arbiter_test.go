package arbiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yxakbd/YxaManager/system/keycode"
	"github.com/yxakbd/YxaManager/system/keymap"
)

const testTerm = 200 * time.Millisecond

var (
	posA = keymap.Pos{Row: 0, Col: 0} // left half
	posB = keymap.Pos{Row: 5, Col: 2} // right half
	posC = keymap.Pos{Row: 1, Col: 3} // left half
)

// harness mirrors the controller's replay contract: OpReplay re-enters
// the arbiter through the resolver, everything else is collected.
type harness struct {
	t       *testing.T
	arb     *Arbiter
	resolve func(keymap.Pos) keymap.Action
	out     []Op
}

func newHarness(t *testing.T, cfg Config, resolve func(keymap.Pos) keymap.Action) *harness {
	arb, err := New(cfg)
	require.NoError(t, err)
	return &harness{t: t, arb: arb, resolve: resolve}
}

func (h *harness) feed(ops []Op) {
	for _, op := range ops {
		if op.Kind == OpReplay {
			ev := op.Ev
			if ev.Pressed {
				h.feed(h.arb.Press(ev.Pos, h.resolve(ev.Pos), ev.At))
			} else {
				h.feed(h.arb.Release(ev.Pos, ev.At))
			}
			continue
		}
		h.out = append(h.out, op)
	}
}

func (h *harness) press(p keymap.Pos, at time.Duration) {
	h.feed(h.arb.Press(p, h.resolve(p), at))
}

func (h *harness) release(p keymap.Pos, at time.Duration) {
	h.feed(h.arb.Release(p, at))
}

func (h *harness) tick(at time.Duration) {
	h.feed(h.arb.Tick(at))
}

// emitted filters the collected ops down to the report-affecting kinds.
func (h *harness) emitted() []Op {
	var out []Op
	for _, op := range h.out {
		switch op.Kind {
		case OpPress, OpRelease, OpModsSet, OpModsClear, OpOneShot, OpLayerOn, OpLayerOff, OpSetDefault, OpBootloader:
			out = append(out, op)
		}
	}
	return out
}

func staticMap(m map[keymap.Pos]keymap.Action) func(keymap.Pos) keymap.Action {
	return func(p keymap.Pos) keymap.Action {
		if a, ok := m[p]; ok {
			return a
		}
		return keymap.Key(keycode.X)
	}
}

func TestModTapTap(t *testing.T) {
	h := newHarness(t, Config{TappingTerm: testTerm}, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.ModTap(keycode.A, keycode.ModLeftShift),
	}))

	h.press(posA, 0)
	require.Empty(t, h.emitted(), "pending key must stay silent")

	h.release(posA, 100*time.Millisecond)

	ops := h.emitted()
	require.Len(t, ops, 2)
	require.Equal(t, OpPress, ops[0].Kind)
	require.Equal(t, keycode.A, ops[0].Code)
	require.Equal(t, keycode.ModNone, ops[0].Mods)
	require.Equal(t, OpRelease, ops[1].Kind)
	require.Equal(t, keycode.A, ops[1].Code)
	require.True(t, h.arb.Settled())
}

func TestModTapHoldByTimeout(t *testing.T) {
	h := newHarness(t, Config{TappingTerm: testTerm}, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.ModTap(keycode.A, keycode.ModLeftShift),
	}))

	h.press(posA, 0)
	h.tick(150 * time.Millisecond)
	require.Empty(t, h.emitted(), "term has not elapsed")

	h.tick(200 * time.Millisecond)
	ops := h.emitted()
	require.Len(t, ops, 1)
	require.Equal(t, OpModsSet, ops[0].Kind)
	require.Equal(t, keycode.ModLeftShift, ops[0].Mods)

	h.release(posA, 250*time.Millisecond)
	ops = h.emitted()
	require.Len(t, ops, 2)
	require.Equal(t, OpModsClear, ops[1].Kind)
	require.Equal(t, keycode.ModLeftShift, ops[1].Mods)
}

func TestOneShotArmsOnPressOnly(t *testing.T) {
	h := newHarness(t, Config{TappingTerm: testTerm}, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.OneShot(keycode.ModLeftShift),
	}))

	h.press(posA, 0)
	ops := h.emitted()
	require.Len(t, ops, 1)
	require.Equal(t, OpOneShot, ops[0].Kind)
	require.Equal(t, keycode.ModLeftShift, ops[0].Mods)

	h.release(posA, 20*time.Millisecond)
	require.Len(t, h.emitted(), 1, "release carries nothing")
}

func TestModTapReleasePastTermIsHold(t *testing.T) {
	// the release may arrive before the tick that straddles the
	// deadline; the elapsed term still wins
	h := newHarness(t, Config{TappingTerm: testTerm}, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.ModTap(keycode.A, keycode.ModLeftShift),
	}))

	h.press(posA, 0)
	h.release(posA, 300*time.Millisecond)

	ops := h.emitted()
	require.Len(t, ops, 2)
	require.Equal(t, OpModsSet, ops[0].Kind)
	require.Equal(t, keycode.ModLeftShift, ops[0].Mods)
	require.Equal(t, OpModsClear, ops[1].Kind)
	require.True(t, h.arb.Settled())
}

func TestModTapReleaseOnDeadlineIsHold(t *testing.T) {
	h := newHarness(t, Config{TappingTerm: testTerm}, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.ModTap(keycode.A, keycode.ModLeftShift),
	}))

	h.press(posA, 0)
	h.release(posA, testTerm)

	ops := h.emitted()
	require.Len(t, ops, 2)
	require.Equal(t, OpModsSet, ops[0].Kind)
	require.Equal(t, OpModsClear, ops[1].Kind)
}

func TestPermissiveHold(t *testing.T) {
	h := newHarness(t, Config{TappingTerm: testTerm, PermissiveHold: true}, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.ModTap(keycode.A, keycode.ModLeftShift),
		posB: keymap.Key(keycode.B),
	}))

	h.press(posA, 0)
	h.press(posB, 50*time.Millisecond)
	require.Empty(t, h.emitted(), "a bare press does not trigger permissive hold")

	// the nested key completes a full tap: hold fires, then the tap
	// replays under the new modifiers
	h.release(posB, 100*time.Millisecond)
	ops := h.emitted()
	require.Len(t, ops, 3)
	require.Equal(t, OpModsSet, ops[0].Kind)
	require.Equal(t, keycode.ModLeftShift, ops[0].Mods)
	require.Equal(t, OpPress, ops[1].Kind)
	require.Equal(t, keycode.B, ops[1].Code)
	require.Equal(t, OpRelease, ops[2].Kind)
	require.Equal(t, keycode.B, ops[2].Code)

	h.release(posA, 150*time.Millisecond)
	ops = h.emitted()
	require.Equal(t, OpModsClear, ops[len(ops)-1].Kind)
}

func TestBilateralGateSameHand(t *testing.T) {
	cfg := Config{
		TappingTerm:         testTerm,
		HoldOnOtherKeyPress: func(keymap.Pos, keymap.Action) bool { return true },
		BilateralGate:       func(keymap.Pos) bool { return true },
	}
	h := newHarness(t, cfg, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.ModTap(keycode.A, keycode.ModLeftShift),
		posC: keymap.Key(keycode.C),
	}))

	h.press(posA, 0)
	h.press(posC, 50*time.Millisecond)
	h.release(posC, 80*time.Millisecond)
	require.Empty(t, h.emitted(), "same-hand interruption must not force hold")

	h.release(posA, 180*time.Millisecond)
	ops := h.emitted()
	require.Len(t, ops, 4)
	require.Equal(t, OpPress, ops[0].Kind)
	require.Equal(t, keycode.A, ops[0].Code)
	require.Equal(t, OpPress, ops[1].Kind)
	require.Equal(t, keycode.C, ops[1].Code)
	require.Equal(t, OpRelease, ops[2].Kind)
	require.Equal(t, keycode.C, ops[2].Code)
	require.Equal(t, OpRelease, ops[3].Kind)
	require.Equal(t, keycode.A, ops[3].Code)
}

func TestBilateralGateOppositeHand(t *testing.T) {
	cfg := Config{
		TappingTerm:         testTerm,
		HoldOnOtherKeyPress: func(keymap.Pos, keymap.Action) bool { return true },
		BilateralGate:       func(keymap.Pos) bool { return true },
	}
	h := newHarness(t, cfg, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.ModTap(keycode.A, keycode.ModLeftShift),
		posB: keymap.Key(keycode.B),
	}))

	h.press(posA, 0)
	h.press(posB, 50*time.Millisecond)

	ops := h.emitted()
	require.Len(t, ops, 2)
	require.Equal(t, OpModsSet, ops[0].Kind)
	require.Equal(t, OpPress, ops[1].Kind)
	require.Equal(t, keycode.B, ops[1].Code)
}

func TestQuickTap(t *testing.T) {
	h := newHarness(t, Config{TappingTerm: testTerm, QuickTapTerm: 120 * time.Millisecond},
		staticMap(map[keymap.Pos]keymap.Action{
			posA: keymap.ModTap(keycode.A, keycode.ModLeftShift),
		}))

	// first tap establishes the release timestamp
	h.press(posA, 0)
	h.release(posA, 50*time.Millisecond)

	// re-press inside the quick-tap window resolves immediately
	h.press(posA, 80*time.Millisecond)
	ops := h.emitted()
	require.Equal(t, OpPress, ops[len(ops)-1].Kind)
	require.Equal(t, keycode.A, ops[len(ops)-1].Code)
	require.True(t, h.arb.Settled(), "quick-tap must not enter pending")

	// holding past the term changes nothing, the resolution is final
	h.tick(300 * time.Millisecond)
	h.release(posA, 350*time.Millisecond)
	ops = h.emitted()
	require.Equal(t, OpRelease, ops[len(ops)-1].Kind)
	require.Equal(t, keycode.A, ops[len(ops)-1].Code)
	for _, op := range ops {
		require.NotEqual(t, OpModsSet, op.Kind)
	}
}

func TestLayerTapHold(t *testing.T) {
	h := newHarness(t, Config{TappingTerm: testTerm}, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.LayerTap(keycode.Space, keymap.Nav),
	}))

	h.press(posA, 0)
	h.tick(200 * time.Millisecond)
	ops := h.emitted()
	require.Len(t, ops, 1)
	require.Equal(t, OpLayerOn, ops[0].Kind)
	require.Equal(t, keymap.Nav, ops[0].Layer)

	h.release(posA, 300*time.Millisecond)
	ops = h.emitted()
	require.Equal(t, OpLayerOff, ops[len(ops)-1].Kind)
	require.Equal(t, keymap.Nav, ops[len(ops)-1].Layer)
}

func TestOverlapOverflowForcesHold(t *testing.T) {
	h := newHarness(t, Config{TappingTerm: time.Hour}, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.ModTap(keycode.A, keycode.ModLeftShift),
	}))

	h.press(posA, 0)
	// alternate press/release of one key so no arbitration rule fires
	at := time.Millisecond
	for i := 0; i <= MaxOverlaps; i += 2 {
		h.press(posB, at)
		at += time.Millisecond
		h.release(posB, at)
		at += time.Millisecond
	}

	var sawHold bool
	for _, op := range h.emitted() {
		if op.Kind == OpModsSet {
			sawHold = true
		}
	}
	require.True(t, sawHold, "overflow must force hold")
	require.True(t, h.arb.Settled())
}

func TestReplayKeepsOrder(t *testing.T) {
	// two keys rolled under a pending mod-tap must come back in
	// original order after the timeout resolution
	h := newHarness(t, Config{TappingTerm: testTerm}, staticMap(map[keymap.Pos]keymap.Action{
		posA: keymap.ModTap(keycode.A, keycode.ModLeftShift),
		posB: keymap.Key(keycode.B),
		posC: keymap.Key(keycode.C),
	}))

	h.press(posA, 0)
	h.press(posC, 50*time.Millisecond)
	h.press(posB, 100*time.Millisecond)
	h.tick(200 * time.Millisecond)

	ops := h.emitted()
	require.Len(t, ops, 3)
	require.Equal(t, OpModsSet, ops[0].Kind)
	require.Equal(t, keycode.C, ops[1].Code)
	require.Equal(t, keycode.B, ops[2].Code)
}

func TestTapDanceBootloader(t *testing.T) {
	dancePos := keymap.Pos{Row: 1, Col: 0}
	h := newHarness(t, Config{TappingTerm: testTerm, Dances: DefaultDances()},
		staticMap(map[keymap.Pos]keymap.Action{
			dancePos: keymap.Dance(keymap.DanceBoot),
		}))

	h.press(dancePos, 0)
	h.release(dancePos, 30*time.Millisecond)
	h.press(dancePos, 60*time.Millisecond)
	h.release(dancePos, 90*time.Millisecond)
	require.Empty(t, h.emitted(), "dance holds fire until the gap elapses")

	h.tick(90*time.Millisecond + testTerm)
	ops := h.emitted()
	require.Len(t, ops, 1)
	require.Equal(t, OpBootloader, ops[0].Kind)
}

func TestTapDanceSingleTapIgnored(t *testing.T) {
	dancePos := keymap.Pos{Row: 1, Col: 0}
	h := newHarness(t, Config{TappingTerm: testTerm, Dances: DefaultDances()},
		staticMap(map[keymap.Pos]keymap.Action{
			dancePos: keymap.Dance(keymap.DanceBoot),
		}))

	h.press(dancePos, 0)
	h.release(dancePos, 30*time.Millisecond)
	h.tick(30*time.Millisecond + testTerm)
	require.Empty(t, h.emitted())
}

func TestTapDanceDefaultLayerSelect(t *testing.T) {
	dancePos := keymap.Pos{Row: 1, Col: 0}
	h := newHarness(t, Config{TappingTerm: testTerm, Dances: DefaultDances()},
		staticMap(map[keymap.Pos]keymap.Action{
			dancePos: keymap.Dance(keymap.DanceExtra),
		}))

	h.press(dancePos, 0)
	h.release(dancePos, 30*time.Millisecond)
	h.press(dancePos, 60*time.Millisecond)
	h.release(dancePos, 90*time.Millisecond)

	// an unrelated press interrupts the dance and fires it
	h.press(posB, 120*time.Millisecond)

	ops := h.emitted()
	require.GreaterOrEqual(t, len(ops), 2)
	require.Equal(t, OpSetDefault, ops[0].Kind)
	require.Equal(t, keymap.Extra, ops[0].Layer)
	require.Equal(t, OpPress, ops[1].Kind)
}

func TestStrayReleaseDropped(t *testing.T) {
	h := newHarness(t, Config{TappingTerm: testTerm}, staticMap(nil))
	h.release(posA, 0)
	require.Empty(t, h.out)
}

func TestPressReleaseSymmetryAcrossLayerChange(t *testing.T) {
	// the release mirrors what the press emitted even though the
	// resolver would answer differently by then
	current := keymap.Key(keycode.B)
	h := newHarness(t, Config{TappingTerm: testTerm}, func(keymap.Pos) keymap.Action {
		return current
	})

	h.press(posB, 0)
	current = keymap.Key(keycode.Z)
	h.release(posB, 50*time.Millisecond)

	ops := h.emitted()
	require.Len(t, ops, 2)
	require.Equal(t, keycode.B, ops[0].Code)
	require.Equal(t, OpRelease, ops[1].Kind)
	require.Equal(t, keycode.B, ops[1].Code)
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	_, err = New(Config{TappingTerm: testTerm, QuickTapTerm: -time.Millisecond})
	require.Error(t, err)
}
