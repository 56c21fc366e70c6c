package rgb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yxakbd/YxaManager/system/keymap"
)

func TestHSVToRGBKnownValues(t *testing.T) {
	require.Equal(t, RGB{255, 0, 0}, HSV{0, 255, 255}.ToRGB(), "pure red")
	require.Equal(t, RGB{3, 255, 0}, HSV{85, 255, 255}.ToRGB(), "green sector")
	require.Equal(t, RGB{0, 9, 255}, HSV{170, 255, 255}.ToRGB(), "blue sector")
	require.Equal(t, RGB{128, 128, 128}, HSV{37, 0, 128}.ToRGB(), "zero saturation is grey")
	require.Equal(t, RGB{0, 0, 0}, HSV{0, 255, 0}.ToRGB(), "zero value is black")
}

func TestHSVToRGBNoWraparound(t *testing.T) {
	// every hue/intensity combination stays inside the channel range;
	// any conversion underflow shows up as a saturated wrong channel
	for h := 0; h < 256; h++ {
		c := HSV{uint8(h), 255, 255}.ToRGB()
		max := c.R
		if c.G > max {
			max = c.G
		}
		if c.B > max {
			max = c.B
		}
		require.Equal(t, uint8(255), max, "hue %d lost its dominant channel", h)
	}
}

func TestPaintBaseLayerUsesFingerColors(t *testing.T) {
	ind := NewIndicator()
	buf := make([]RGB, NumLEDs)
	ind.Paint(keymap.Base, buf)

	require.Equal(t, ind.Fingers[Pinky].ToRGB(), buf[0])
	require.Equal(t, ind.Fingers[Thumb].ToRGB(), buf[15])
	require.Equal(t, ind.Fingers[Pinky].ToRGB(), buf[22])

	// all three base layouts share the finger painting
	buf2 := make([]RGB, NumLEDs)
	ind.Paint(keymap.Tap, buf2)
	require.Equal(t, buf, buf2)
}

func TestPaintMomentaryLayerSolidWithAccents(t *testing.T) {
	ind := NewIndicator()
	buf := make([]RGB, NumLEDs)
	ind.Paint(keymap.Nav, buf)

	base := ind.Layers[keymap.Nav].Base.ToRGB()
	require.Equal(t, base, buf[0])
	require.NotEqual(t, base, buf[24], "arrow cluster is accented")
	require.NotEqual(t, base, buf[27])
	require.Equal(t, base, buf[28])
}

func TestPaintDeterministic(t *testing.T) {
	ind := NewIndicator()
	a := make([]RGB, NumLEDs)
	b := make([]RGB, NumLEDs)
	ind.Paint(keymap.Num, a)
	ind.Paint(keymap.Num, b)
	require.Equal(t, a, b)

	// repainting the same buffer is idempotent
	ind.Paint(keymap.Num, a)
	require.Equal(t, b, a)
}

func TestLEDIndex(t *testing.T) {
	require.Equal(t, 0, LEDIndex(keymap.Pos{Row: 0, Col: 0}))
	require.Equal(t, 14, LEDIndex(keymap.Pos{Row: 2, Col: 4}))
	require.Equal(t, 15, LEDIndex(keymap.Pos{Row: 3, Col: 2}))
	require.Equal(t, 17, LEDIndex(keymap.Pos{Row: 3, Col: 4}))
	require.Equal(t, 18, LEDIndex(keymap.Pos{Row: 4, Col: 0}))
	require.Equal(t, 32, LEDIndex(keymap.Pos{Row: 6, Col: 4}))
	require.Equal(t, 33, LEDIndex(keymap.Pos{Row: 7, Col: 0}))
	require.Equal(t, 35, LEDIndex(keymap.Pos{Row: 7, Col: 2}))

	require.Equal(t, -1, LEDIndex(keymap.Pos{Row: 3, Col: 0}), "unused thumb corner")
	require.Equal(t, -1, LEDIndex(keymap.Pos{Row: 7, Col: 4}))
	require.Equal(t, -1, LEDIndex(keymap.Pos{Row: 8, Col: 0}))
}
