package rgb

import (
	"github.com/yxakbd/YxaManager/system/keymap"
)

// NumLEDs is the per-key LED count across both halves.
const NumLEDs = 36

// Finger identifies which finger owns a column of keys.
type Finger uint8

const (
	Pinky Finger = iota
	Ring
	Middle
	Index
	Thumb

	numFingers
)

// FingerMap assigns each LED to a finger, split_3x5_3 wiring: three rows
// of five per half, then the thumb cluster.
var FingerMap = [NumLEDs]Finger{
	// left rows 0-2
	Pinky, Ring, Middle, Index, Index,
	Pinky, Ring, Middle, Index, Index,
	Pinky, Ring, Middle, Index, Index,
	// left thumbs
	Thumb, Thumb, Thumb,
	// right rows 0-2
	Index, Index, Middle, Ring, Pinky,
	Index, Index, Middle, Ring, Pinky,
	Index, Index, Middle, Ring, Pinky,
	// right thumbs
	Thumb, Thumb, Thumb,
}

// Palette paints one non-base layer: a solid base color plus optional
// per-LED accents marking the keys that matter on that layer.
type Palette struct {
	Base    HSV
	Accents map[uint8]HSV
}

// Indicator renders LED frames as a pure function of the effective
// layer. It reads nothing else and owns no arbitration state.
type Indicator struct {
	Fingers [numFingers]HSV
	Layers  [keymap.NumLayers]Palette
}

// NewIndicator returns the stock palettes: finger coloring on base
// layers, solid layer colors elsewhere, with the NAV arrow cluster
// accented.
func NewIndicator() *Indicator {
	ind := &Indicator{
		Fingers: [numFingers]HSV{
			Pinky:  {128, 255, 180}, // cyan
			Ring:   {213, 255, 180}, // magenta
			Middle: {85, 255, 180},  // green
			Index:  {43, 255, 180},  // yellow
			Thumb:  {170, 255, 180}, // blue
		},
	}
	solid := func(h HSV) Palette { return Palette{Base: h} }
	ind.Layers[keymap.Base] = solid(HSV{0, 0, 128})
	ind.Layers[keymap.Extra] = solid(HSV{0, 0, 128})
	ind.Layers[keymap.Tap] = solid(HSV{0, 0, 128})
	ind.Layers[keymap.Button] = solid(HSV{21, 255, 200})  // orange
	ind.Layers[keymap.Mouse] = solid(HSV{85, 255, 200})   // green
	ind.Layers[keymap.Media] = solid(HSV{213, 255, 200})  // magenta
	ind.Layers[keymap.Num] = solid(HSV{43, 255, 200})     // yellow
	ind.Layers[keymap.Sym] = solid(HSV{0, 255, 200})      // red
	ind.Layers[keymap.Fun] = solid(HSV{170, 255, 200})    // blue
	ind.Layers[keymap.Nav] = Palette{Base: HSV{128, 255, 200}, // cyan
		Accents: map[uint8]HSV{
			// right-hand arrow cluster
			24: {43, 255, 255}, 25: {43, 255, 255}, 26: {43, 255, 255}, 27: {43, 255, 255},
		},
	}
	return ind
}

// Paint fills buf for the effective layer. Idempotent per frame, O(len).
func (ind *Indicator) Paint(effective keymap.Layer, buf []RGB) {
	if effective.IsBase() {
		for i := range buf {
			if i < NumLEDs {
				buf[i] = ind.Fingers[FingerMap[i]].ToRGB()
			}
		}
		return
	}
	p := ind.Layers[effective]
	base := p.Base.ToRGB()
	for i := range buf {
		buf[i] = base
	}
	for led, hsv := range p.Accents {
		if int(led) < len(buf) {
			buf[led] = hsv.ToRGB()
		}
	}
}

// LEDIndex maps a matrix position to its LED slot in split_3x5_3
// wiring order. Positions without an LED return -1.
func LEDIndex(p keymap.Pos) int {
	switch {
	case p.Row < 3 && p.Col < keymap.Cols:
		return int(p.Row)*5 + int(p.Col)
	case p.Row == 3 && p.Col >= 2 && p.Col < keymap.Cols:
		return 15 + int(p.Col) - 2
	case p.Row >= 4 && p.Row < 7 && p.Col < keymap.Cols:
		return 18 + int(p.Row-4)*5 + int(p.Col)
	case p.Row == 7 && p.Col < 3:
		return 33 + int(p.Col)
	default:
		return -1
	}
}
