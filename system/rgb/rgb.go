// Package rgb repaints the per-key LED array from the effective layer.
package rgb

// HSV is a color with hue mapped onto [0,255] over six sectors, QMK
// convention.
type HSV struct {
	H, S, V uint8
}

// RGB is an 8-bit-per-channel color ready for the LED driver.
type RGB struct {
	R, G, B uint8
}

// ToRGB converts with the standard six-sector integer walk.
func (c HSV) ToRGB() RGB {
	if c.S == 0 {
		return RGB{c.V, c.V, c.V}
	}

	h, s, v := uint32(c.H), uint32(c.S), uint32(c.V)

	region := h / 43
	remainder := (h - region*43) * 6

	p := uint8(v * (255 - s) / 255)
	q := uint8(v * (255 - s*remainder/255) / 255)
	t := uint8(v * (255 - s*(255-remainder)/255) / 255)

	switch region {
	case 0:
		return RGB{c.V, t, p}
	case 1:
		return RGB{q, c.V, p}
	case 2:
		return RGB{p, c.V, t}
	case 3:
		return RGB{p, q, c.V}
	case 4:
		return RGB{t, p, c.V}
	default:
		return RGB{c.V, p, q}
	}
}
