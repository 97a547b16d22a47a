package media

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ApplyTint paints c over every pixel of img while keeping each pixel's own
// alpha, the way an icon is recolored to match a theme color. Fully
// transparent pixels stay transparent.
func ApplyTint(img image.Image, c color.NRGBA) *image.NRGBA {
	dst := imaging.Clone(img)

	ca := float64(c.A) / 255
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		if dst.Pix[i+3] == 0 {
			continue
		}
		dst.Pix[i+0] = blend(c.R, dst.Pix[i+0], ca)
		dst.Pix[i+1] = blend(c.G, dst.Pix[i+1], ca)
		dst.Pix[i+2] = blend(c.B, dst.Pix[i+2], ca)
	}
	return dst
}

func blend(src, dst uint8, srcAlpha float64) uint8 {
	return uint8(float64(src)*srcAlpha + float64(dst)*(1-srcAlpha) + 0.5)
}
