package bitmap

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// gradient returns an NRGBA gradient so resizing can be told apart from a
// solid fill.
func gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// encodeTestImage encodes a gradient of the given size in format.
func encodeTestImage(t *testing.T, width, height int, format string) []byte {
	t.Helper()

	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg", "jpg":
		err = jpeg.Encode(&buf, gradient(width, height), &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(&buf, gradient(width, height))
	default:
		t.Fatalf("Unsupported test image format: %s", format)
	}
	if err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}
