package orientation

import (
	"fmt"
	"image"
	"io"
	"os"

	"notethumbs/internal/logging"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// EXIF orientation tag values that involve a pure rotation.
const (
	Normal    = 1
	Rotate180 = 3
	Rotate90  = 6
	Rotate270 = 8
)

// Reader extracts the EXIF orientation tag from an encoded image.
type Reader interface {
	Orientation(r io.Reader) (int, error)
}

// ExifReader reads orientation with goexif.
type ExifReader struct{}

// Orientation implements Reader. Images without EXIF data or without the
// tag return an error.
func (ExifReader) Orientation(r io.Reader) (int, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return Normal, fmt.Errorf("failed to read exif: %w", err)
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return Normal, fmt.Errorf("no orientation tag: %w", err)
	}

	v, err := tag.Int(0)
	if err != nil {
		return Normal, fmt.Errorf("invalid orientation tag: %w", err)
	}
	return v, nil
}

// Degrees maps an orientation tag to the clockwise rotation needed to display
// the image upright. Mirrored orientations are not rotated.
func Degrees(tag int) int {
	switch tag {
	case Rotate90:
		return 90
	case Rotate180:
		return 180
	case Rotate270:
		return 270
	default:
		return 0
	}
}

// NeededRotation returns the clockwise rotation for the file at path.
// Any failure to open or parse the file means no rotation.
func NeededRotation(path string, reader Reader) int {
	if reader == nil {
		reader = ExifReader{}
	}

	f, err := os.Open(path)
	if err != nil {
		logging.Debug("Orientation: cannot open %s: %v", path, err)
		return 0
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("failed to close %s: %v", path, err)
		}
	}()

	tag, err := reader.Orientation(f)
	if err != nil {
		logging.Debug("Orientation: %s: %v", path, err)
		return 0
	}
	return Degrees(tag)
}

// Rotate turns img clockwise by degrees, which must be 0, 90, 180 or 270.
// Other values leave the image unchanged.
func Rotate(img image.Image, degrees int) image.Image {
	// imaging rotates counter-clockwise
	switch degrees {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
