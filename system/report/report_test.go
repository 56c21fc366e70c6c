package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yxakbd/YxaManager/system/keycode"
)

func TestPressRelease(t *testing.T) {
	b := NewBuilder()

	b.Press(keycode.A, keycode.ModNone)
	r := b.Report()
	require.Equal(t, keycode.ModNone, r.Mods())
	require.Equal(t, []keycode.Code{keycode.A}, r.Keys())

	b.Release(keycode.A, keycode.ModNone)
	require.Empty(t, b.Report().Keys())
}

func TestChordedPress(t *testing.T) {
	b := NewBuilder()

	b.Press(keycode.Insert, keycode.ModLeftShift)
	r := b.Report()
	require.Equal(t, keycode.ModLeftShift, r.Mods())
	require.Equal(t, []keycode.Code{keycode.Insert}, r.Keys())

	b.Release(keycode.Insert, keycode.ModLeftShift)
	r = b.Report()
	require.Equal(t, keycode.ModNone, r.Mods())
	require.Empty(t, r.Keys())
}

func TestModifierRefCounting(t *testing.T) {
	b := NewBuilder()

	// a held mod-tap and a chord both contribute left shift
	b.SetMods(keycode.ModLeftShift)
	b.Press(keycode.A, keycode.ModLeftShift)
	require.Equal(t, keycode.ModLeftShift, b.Mods())

	b.Release(keycode.A, keycode.ModLeftShift)
	require.Equal(t, keycode.ModLeftShift, b.Mods(), "the hold still owns the bit")

	b.ClearMods(keycode.ModLeftShift)
	require.Equal(t, keycode.ModNone, b.Mods())
}

func TestModifierUsageKeys(t *testing.T) {
	b := NewBuilder()

	b.Press(keycode.LeftShiftKey, keycode.ModNone)
	r := b.Report()
	require.Equal(t, keycode.ModLeftShift, r.Mods())
	require.Empty(t, r.Keys(), "modifier usages take no slot")

	b.Release(keycode.LeftShiftKey, keycode.ModNone)
	require.Equal(t, keycode.ModNone, b.Mods())
}

func TestRolloverDropsSeventhKey(t *testing.T) {
	b := NewBuilder()

	keys := []keycode.Code{keycode.A, keycode.B, keycode.C, keycode.D, keycode.E, keycode.F, keycode.G}
	for _, k := range keys {
		b.Press(k, keycode.ModNone)
	}
	require.Len(t, b.Report().Keys(), MaxKeys)

	// releasing a held key frees the slot
	b.Release(keycode.A, keycode.ModNone)
	require.Len(t, b.Report().Keys(), MaxKeys-1)
}

func TestDuplicatePressIgnored(t *testing.T) {
	b := NewBuilder()
	b.Press(keycode.A, keycode.ModNone)
	b.Press(keycode.A, keycode.ModNone)
	require.Equal(t, []keycode.Code{keycode.A}, b.Report().Keys())
}

func TestInternalCodesIgnored(t *testing.T) {
	b := NewBuilder()
	b.Press(keycode.CapsWordToggle, keycode.ModNone)
	b.Press(keycode.RGBToggle, keycode.ModNone)
	b.Press(keycode.None, keycode.ModNone)
	require.Empty(t, b.Report().Keys())
}

func TestOneShot(t *testing.T) {
	b := NewBuilder()

	b.OneShot(keycode.ModLeftShift, 0)
	require.Equal(t, keycode.ModLeftShift, b.Mods(), "armed one-shot shows in the snapshot")

	got := b.ConsumeOneShot()
	require.Equal(t, keycode.ModLeftShift, got)
	require.Equal(t, keycode.ModNone, b.Mods())
}

func TestOneShotExpiry(t *testing.T) {
	b := NewBuilder()

	b.OneShot(keycode.ModLeftCtrl, 0)
	b.Tick(DefaultOneShotTimeout / 2)
	require.Equal(t, keycode.ModLeftCtrl, b.Mods())

	b.Tick(DefaultOneShotTimeout)
	require.Equal(t, keycode.ModNone, b.Mods())
	require.Equal(t, keycode.ModNone, b.ConsumeOneShot())
}

func TestReportWireFormat(t *testing.T) {
	b := NewBuilder()
	b.Press(keycode.A, keycode.ModLeftShift)

	r := b.Report()
	require.Equal(t, byte(0x02), r[0])
	require.Equal(t, byte(0x00), r[1])
	require.Equal(t, byte(keycode.A), r[2])
}
