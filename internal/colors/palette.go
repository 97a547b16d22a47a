package colors

import (
	"fmt"
	"image"
	"image/color"

	"notethumbs/internal/metrics"

	"github.com/EdlinOrg/prominentcolor"
)

// Swatch is one cluster of a palette.
type Swatch struct {
	Color color.NRGBA
	// Count is the number of sampled pixels in the cluster.
	Count int
}

// Palette returns up to k prominent colors of img ordered by population,
// clustered with k-means over the whole frame. Unlike DominantColor it can
// fail, e.g. when every pixel is masked as background.
func Palette(img image.Image, k int) ([]Swatch, error) {
	swatches, err := palette(img, k)
	if err != nil {
		metrics.PaletteExtractionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.PaletteExtractionsTotal.WithLabelValues("success").Inc()
	return swatches, nil
}

func palette(img image.Image, k int) ([]Swatch, error) {
	if isEmpty(img) {
		return nil, fmt.Errorf("palette: empty image")
	}
	if k < 1 {
		return nil, fmt.Errorf("palette: k must be positive, got %d", k)
	}

	items, err := prominentcolor.KmeansWithAll(
		k,
		img,
		prominentcolor.ArgumentNoCropping,
		prominentcolor.DefaultSize,
		prominentcolor.GetDefaultMasks(),
	)
	if err != nil {
		return nil, fmt.Errorf("palette: k-means failed: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("palette: no colors found")
	}

	swatches := make([]Swatch, 0, len(items))
	for _, item := range items {
		swatches = append(swatches, Swatch{
			Color: color.NRGBA{
				R: uint8(item.Color.R),
				G: uint8(item.Color.G),
				B: uint8(item.Color.B),
				A: 255,
			},
			Count: item.Cnt,
		})
	}
	return swatches, nil
}

// Hex formats c as #rrggbb, ignoring alpha.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
