package bitmap

import (
	"bytes"
	"fmt"
	"image"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Bounds is the result of a bounds-only decode pass.
type Bounds struct {
	Width  int
	Height int
	Format string
}

// Codec decodes encoded image bytes in two passes: one that only reads the
// header and one that materializes pixels reduced by a sample size.
type Codec interface {
	// Name identifies the codec in logs and metrics.
	Name() string
	// DecodeBounds reads dimensions without decoding pixel data.
	DecodeBounds(data []byte) (Bounds, error)
	// DecodeSampled decodes the image reduced by sampleSize on both axes.
	DecodeSampled(data []byte, bounds Bounds, sampleSize int) (*image.NRGBA, error)
}

// StdCodec decodes with the Go image registry (JPEG, PNG, GIF, WebP, BMP,
// TIFF) and reduces with a box filter after decoding.
type StdCodec struct{}

// Name implements Codec.
func (StdCodec) Name() string {
	return "std"
}

// DecodeBounds implements Codec.
func (StdCodec) DecodeBounds(data []byte) (Bounds, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// DecodeSampled implements Codec.
func (StdCodec) DecodeSampled(data []byte, bounds Bounds, sampleSize int) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return reduce(img, bounds, sampleSize)
}

// reduce converts img to NRGBA at exactly the sampled size of bounds.
func reduce(img image.Image, bounds Bounds, sampleSize int) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("decoder returned nil image")
	}

	w := sampledDimension(bounds.Width, sampleSize)
	h := sampledDimension(bounds.Height, sampleSize)

	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return imaging.Clone(img), nil
	}
	return imaging.Resize(img, w, h, imaging.Box), nil
}
