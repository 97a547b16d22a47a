package bitmap

import (
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"notethumbs/internal/logging"
	"notethumbs/internal/metrics"
)

// Result describes a successful bounded decode.
type Result struct {
	// Bitmap is the decoded image in NRGBA, 32 bits per pixel.
	Bitmap *image.NRGBA
	// Intrinsic holds the dimensions and format read from the header.
	Intrinsic Bounds
	// SampleSize is the power-of-two reduction applied on both axes.
	SampleSize int
	// InputBytes is the size of the encoded stream.
	InputBytes int
}

// Decoder performs bounded decodes with a Codec. It holds no per-call state
// and is safe for concurrent use.
type Decoder struct {
	codec Codec
}

// NewDecoder returns a Decoder using codec, or StdCodec when codec is nil.
func NewDecoder(codec Codec) *Decoder {
	if codec == nil {
		codec = StdCodec{}
	}
	return &Decoder{codec: codec}
}

// Codec returns the codec used by d.
func (d *Decoder) Codec() Codec {
	return d.codec
}

var defaultDecoder = NewDecoder(StdCodec{})

// DecodeBounded decodes r with the standard codec into a bitmap no larger
// than needed to cover targetWidth x targetHeight.
func DecodeBounded(r io.Reader, targetWidth, targetHeight int) (*image.NRGBA, error) {
	return defaultDecoder.DecodeBounded(r, targetWidth, targetHeight)
}

// DecodeBounded is like Decode but only returns the bitmap.
func (d *Decoder) DecodeBounded(r io.Reader, targetWidth, targetHeight int) (*image.NRGBA, error) {
	res, err := d.Decode(r, targetWidth, targetHeight)
	if err != nil {
		return nil, err
	}
	return res.Bitmap, nil
}

// Decode drains r, reads the image bounds, picks the coarsest power-of-two
// sample size that still covers the target and decodes at that size.
// Any failure returns a *DecodeError and no bitmap.
func (d *Decoder) Decode(r io.Reader, targetWidth, targetHeight int) (*Result, error) {
	start := time.Now()
	codec := d.codec.Name()

	res, err := d.decode(r, targetWidth, targetHeight)

	metrics.DecodeDuration.WithLabelValues(codec).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DecodesTotal.WithLabelValues(codec, "error").Inc()
		var de *DecodeError
		if errors.As(err, &de) {
			metrics.DecodeErrorsTotal.WithLabelValues(de.Kind.String()).Inc()
		}
		return nil, err
	}

	metrics.DecodesTotal.WithLabelValues(codec, "success").Inc()
	metrics.DecodeSampleSize.Observe(float64(res.SampleSize))
	metrics.DecodeInputBytes.Observe(float64(res.InputBytes))
	metrics.DecodeFormat.WithLabelValues(res.Intrinsic.Format).Inc()
	return res, nil
}

func (d *Decoder) decode(r io.Reader, targetWidth, targetHeight int) (*Result, error) {
	buf, err := drain(r)
	if err != nil {
		return nil, ioFailure(err)
	}
	data := buf.Bytes()
	logging.Debug("Bitmap: read %d bytes (capacity %d)", buf.Len(), buf.Cap())

	bounds, err := d.codec.DecodeBounds(data)
	if err != nil {
		return nil, malformed(err)
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, malformed(fmt.Errorf("invalid dimensions %dx%d", bounds.Width, bounds.Height))
	}

	sample := CalculateSampleSize(bounds.Width, bounds.Height, targetWidth, targetHeight)
	logging.Debug("Bitmap: %s %dx%d, target %dx%d, sample size %d",
		bounds.Format, bounds.Width, bounds.Height, targetWidth, targetHeight, sample)

	img, err := d.codec.DecodeSampled(data, bounds, sample)
	if err != nil {
		return nil, malformed(err)
	}
	if img == nil {
		return nil, malformed(fmt.Errorf("%s codec returned no pixels", d.codec.Name()))
	}

	return &Result{
		Bitmap:     img,
		Intrinsic:  bounds,
		SampleSize: sample,
		InputBytes: buf.Len(),
	}, nil
}
