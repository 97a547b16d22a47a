package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"notethumbs/internal/bitmap"
	"notethumbs/internal/logging"
	"notethumbs/internal/mediatypes"
	"notethumbs/internal/metrics"
	"notethumbs/internal/orientation"

	"github.com/disintegration/imaging"
)

// JPEGQuality is the quality thumbnails are encoded with.
const JPEGQuality = 80

// Generator builds attachment thumbnails. It is safe for concurrent use as
// long as its collaborators are.
type Generator struct {
	decoder *bitmap.Decoder
	exif    orientation.Reader
	frames  FrameExtractor
}

// NewGenerator returns a Generator. Nil arguments select the defaults: the
// standard codec, the goexif reader and ffmpeg from PATH.
func NewGenerator(decoder *bitmap.Decoder, exif orientation.Reader, frames FrameExtractor) *Generator {
	if decoder == nil {
		decoder = bitmap.NewDecoder(nil)
	}
	if exif == nil {
		exif = orientation.ExifReader{}
	}
	if frames == nil {
		frames = NewFFmpegExtractor("")
	}
	logging.Debug("ThumbnailGenerator: codec %s", decoder.Codec().Name())
	return &Generator{decoder: decoder, exif: exif, frames: frames}
}

// Thumbnail decodes the image at path with a sample size chosen for
// reqWidth x reqHeight. A bitmap smaller than the request in both dimensions
// is scaled and center-cropped to exactly the request. Otherwise it is
// center-cropped to the requested aspect ratio and rotated upright according
// to its EXIF orientation.
func (g *Generator) Thumbnail(path string, reqWidth, reqHeight int) (image.Image, error) {
	if reqWidth < 1 || reqHeight < 1 {
		return nil, fmt.Errorf("invalid thumbnail size %dx%d", reqWidth, reqHeight)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file not accessible: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	src, err := g.decoder.DecodeBounded(f, reqWidth, reqHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w < reqWidth && h < reqHeight {
		logging.Debug("Thumbnail: %s is %dx%d, smaller than %dx%d, filling", path, w, h, reqWidth, reqHeight)
		return imaging.Fill(src, reqWidth, reqHeight, imaging.Center, imaging.Lanczos), nil
	}

	cropped := imaging.Crop(src, aspectCrop(w, h, reqWidth, reqHeight))

	if rotation := orientation.NeededRotation(path, g.exif); rotation != 0 {
		logging.Debug("Thumbnail: rotating %s by %d degrees", path, rotation)
		return orientation.Rotate(cropped, rotation), nil
	}
	return cropped, nil
}

// aspectCrop returns the centered rectangle of a w x h image that has the
// aspect ratio of reqWidth x reqHeight.
func aspectCrop(w, h, reqWidth, reqHeight int) image.Rectangle {
	x, y, width, height := 0, 0, w, h

	ratio := (float64(reqWidth) / float64(reqHeight)) * (float64(h) / float64(w))
	if ratio < 1 {
		x = int(float64(w)-float64(w)*ratio) / 2
		width = int(float64(w) * ratio)
	} else {
		y = int(float64(h)-float64(h)/ratio) / 2
		height = int(float64(h) / ratio)
	}

	return image.Rect(x, y, x+max(width, 1), y+max(height, 1))
}

// FromAttachment produces a reqWidth x reqHeight thumbnail for a, chosen by
// its MIME type. When a.MimeType is empty the type is detected from the file.
func (g *Generator) FromAttachment(ctx context.Context, a Attachment, reqWidth, reqHeight int) (image.Image, error) {
	mimeType := a.MimeType
	if mimeType == "" {
		mimeType = DetectMimeType(a.Path)
	}
	category := mediatypes.CategoryOf(mimeType)

	start := time.Now()
	img, err := g.fromAttachment(ctx, a, category, reqWidth, reqHeight)
	metrics.ThumbnailGenerationDuration.WithLabelValues(string(category)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(string(category), "error").Inc()
		return nil, fmt.Errorf("thumbnail generation failed for %s: %w", a.DisplayName(), err)
	}
	if img == nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(string(category), "error").Inc()
		return nil, errors.New("thumbnail generation returned nil image")
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues(string(category), "success").Inc()
	logging.Debug("Thumbnail generated for %s (%s) in %v", a.DisplayName(), category, time.Since(start))
	return img, nil
}

func (g *Generator) fromAttachment(ctx context.Context, a Attachment, category mediatypes.Category, reqWidth, reqHeight int) (image.Image, error) {
	switch category {
	case mediatypes.CategoryVideo:
		frame, err := g.frames.ExtractFrame(ctx, a.Path)
		if err != nil {
			return nil, err
		}
		return g.videoThumbnail(frame, reqWidth, reqHeight)

	case mediatypes.CategoryImage, mediatypes.CategorySketch:
		return g.Thumbnail(a.Path, reqWidth, reqHeight)

	case mediatypes.CategoryAudio:
		return g.ResourceThumbnail(ResourcePlay, reqWidth, reqHeight)

	default:
		if mediatypes.IsContact(a.DisplayName()) {
			return g.ResourceThumbnail(ResourceVCard, reqWidth, reqHeight)
		}
		return g.ResourceThumbnail(ResourceFiles, reqWidth, reqHeight)
	}
}

// ResourceThumbnail decodes a bundled placeholder and fills reqWidth x
// reqHeight with it.
func (g *Generator) ResourceThumbnail(name Resource, reqWidth, reqHeight int) (image.Image, error) {
	if reqWidth < 1 || reqHeight < 1 {
		return nil, fmt.Errorf("invalid thumbnail size %dx%d", reqWidth, reqHeight)
	}

	rc, err := OpenResource(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	src, err := g.decoder.DecodeBounded(rc, reqWidth, reqHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to decode resource %s: %w", name, err)
	}
	return imaging.Fill(src, reqWidth, reqHeight, imaging.Center, imaging.Lanczos), nil
}

// videoThumbnail fills the frame to the request and centers the play glyph
// on it at half the shorter side.
func (g *Generator) videoThumbnail(frame image.Image, reqWidth, reqHeight int) (image.Image, error) {
	if reqWidth < 1 || reqHeight < 1 {
		return nil, fmt.Errorf("invalid thumbnail size %dx%d", reqWidth, reqHeight)
	}

	thumb := imaging.Fill(frame, reqWidth, reqHeight, imaging.Center, imaging.Lanczos)

	size := max(min(reqWidth, reqHeight)/2, 1)
	glyph, err := g.ResourceThumbnail(ResourcePlay, size, size)
	if err != nil {
		return nil, err
	}

	pos := image.Pt((reqWidth-size)/2, (reqHeight-size)/2)
	return imaging.Overlay(thumb, glyph, pos, 1.0), nil
}

// Encode writes img as a JPEG thumbnail.
func Encode(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return nil
}
