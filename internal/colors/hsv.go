package colors

import "math"

// toHSV converts 8-bit RGB to hue in [0,360) and saturation and value in
// [0,1]. Achromatic colors get hue 0.
func toHSV(r, g, b uint8) (h, s, v float64) {
	hi := max(r, g, b)
	lo := min(r, g, b)

	v = float64(hi) / 255
	if hi == lo {
		return 0, 0, v
	}

	delta := float64(hi - lo)
	s = delta / float64(hi)

	fr, fg, fb := float64(r), float64(g), float64(b)
	switch hi {
	case r:
		h = (fg - fb) / delta
	case g:
		h = 2 + (fb-fr)/delta
	default:
		h = 4 + (fr-fg)/delta
	}

	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// fromHSV converts HSV back to 8-bit RGB, rounding each channel. Saturation
// and value are clamped to [0,1]; hues outside [0,360) are treated as 0.
func fromHSV(h, s, v float64) (r, g, b uint8) {
	s = clamp01(s)
	v = clamp01(v)

	vb := toByte(v)
	if s <= 0 {
		return vb, vb, vb
	}

	if h < 0 || h >= 360 {
		h = 0
	}
	hx := h / 60
	w := math.Floor(hx)
	f := hx - w

	p := toByte((1 - s) * v)
	q := toByte((1 - s*f) * v)
	t := toByte((1 - s*(1-f)) * v)

	switch int(w) {
	case 0:
		return vb, t, p
	case 1:
		return q, vb, p
	case 2:
		return p, vb, t
	case 3:
		return p, q, vb
	case 4:
		return t, p, vb
	default:
		return vb, p, q
	}
}

func toByte(x float64) uint8 {
	return uint8(math.Round(clamp01(x) * 255))
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
