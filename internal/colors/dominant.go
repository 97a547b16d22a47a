package colors

import (
	"image"
	"image/color"
	"math"

	"notethumbs/internal/metrics"
)

const (
	// hueBinCount partitions the hue circle into 10 degree bins.
	hueBinCount = 36
	hueBinWidth = 360.0 / hueBinCount

	// Pixels at or below these are treated as gray or black when the
	// threshold is applied.
	minSaturation = 0.05
	minValue      = 0.35
)

// White is the fallback returned when no pixel qualifies.
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

type hueBin struct {
	count                  int
	sumHue, sumSat, sumVal float64
}

// Dominant returns DominantColor(img, true).
func Dominant(img image.Image) color.NRGBA {
	return DominantColor(img, true)
}

// DominantColor returns the average color of the most populated hue bin of
// img. Every other pixel of every other row is sampled, starting at the top
// left corner. With applyThreshold, near-gray and near-black pixels are left
// out. A nil or empty image, or one where every pixel is left out, yields
// opaque white. On a tie the bin that reached the count first wins.
func DominantColor(img image.Image, applyThreshold bool) color.NRGBA {
	if isEmpty(img) {
		metrics.DominantColorTotal.WithLabelValues("empty").Inc()
		return White
	}

	var bins [hueBinCount]hueBin
	maxBin := -1

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x += 2 {
			c := nrgbaAt(img, x, y)
			h, s, v := toHSV(c.R, c.G, c.B)

			if applyThreshold && (s <= minSaturation || v <= minValue) {
				continue
			}

			bin := binFor(h)
			bins[bin].sumHue += h
			bins[bin].sumSat += s
			bins[bin].sumVal += v
			bins[bin].count++

			if maxBin < 0 || bins[bin].count > bins[maxBin].count {
				maxBin = bin
			}
		}
	}

	if maxBin < 0 {
		metrics.DominantColorTotal.WithLabelValues("filtered").Inc()
		return White
	}
	metrics.DominantColorTotal.WithLabelValues("binned").Inc()

	top := bins[maxBin]
	n := float64(top.count)
	r, g, bl := fromHSV(top.sumHue/n, top.sumSat/n, top.sumVal/n)
	return color.NRGBA{R: r, G: g, B: bl, A: 255}
}

// binFor maps a hue to its bin. A hue of exactly 360 lands in the last bin.
func binFor(h float64) int {
	bin := int(math.Floor(h / hueBinWidth))
	if bin < 0 {
		return 0
	}
	if bin >= hueBinCount {
		return hueBinCount - 1
	}
	return bin
}

func isEmpty(img image.Image) bool {
	switch m := img.(type) {
	case nil:
		return true
	case *image.NRGBA:
		if m == nil {
			return true
		}
	case *image.RGBA:
		if m == nil {
			return true
		}
	}
	return img.Bounds().Empty()
}

// nrgbaAt reads a non-premultiplied pixel, avoiding the color interface for
// the decoder's own pixel format.
func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	if m, ok := img.(*image.NRGBA); ok {
		return m.NRGBAAt(x, y)
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}
