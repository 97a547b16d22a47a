package bitmap

import (
	"bytes"
	"errors"
	"image"
	"io"
	"testing"
	"testing/iotest"
)

func TestDecodeBounded(t *testing.T) {
	tests := []struct {
		name                      string
		width, height             int
		format                    string
		targetWidth, targetHeight int
		wantWidth, wantHeight     int
		wantSample                int
	}{
		{
			name:  "Large PNG downsampled",
			width: 1000, height: 800, format: "png",
			targetWidth: 100, targetHeight: 100,
			wantWidth: 125, wantHeight: 100, wantSample: 8,
		},
		{
			name:  "Large JPEG downsampled",
			width: 1024, height: 768, format: "jpeg",
			targetWidth: 100, targetHeight: 100,
			wantWidth: 256, wantHeight: 192, wantSample: 4,
		},
		{
			name:  "Small image kept as is",
			width: 50, height: 40, format: "png",
			targetWidth: 100, targetHeight: 100,
			wantWidth: 50, wantHeight: 40, wantSample: 1,
		},
		{
			name:  "Odd dimensions floor",
			width: 201, height: 203, format: "png",
			targetWidth: 50, targetHeight: 50,
			wantWidth: 50, wantHeight: 50, wantSample: 4,
		},
	}

	dec := NewDecoder(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeTestImage(t, tt.width, tt.height, tt.format)

			res, err := dec.Decode(bytes.NewReader(data), tt.targetWidth, tt.targetHeight)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if res.SampleSize != tt.wantSample {
				t.Errorf("SampleSize = %d, want %d", res.SampleSize, tt.wantSample)
			}
			if res.Intrinsic.Width != tt.width || res.Intrinsic.Height != tt.height {
				t.Errorf("Intrinsic = %dx%d, want %dx%d", res.Intrinsic.Width, res.Intrinsic.Height, tt.width, tt.height)
			}
			if res.Intrinsic.Format != tt.format {
				t.Errorf("Format = %q, want %q", res.Intrinsic.Format, tt.format)
			}
			if res.InputBytes != len(data) {
				t.Errorf("InputBytes = %d, want %d", res.InputBytes, len(data))
			}

			b := res.Bitmap.Bounds()
			if b.Dx() != tt.wantWidth || b.Dy() != tt.wantHeight {
				t.Errorf("bitmap = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantWidth, tt.wantHeight)
			}
			if res.Bitmap.Stride != 4*b.Dx() {
				t.Errorf("Stride = %d, want %d", res.Bitmap.Stride, 4*b.Dx())
			}
		})
	}
}

func TestDecodeBoundedPackageFunction(t *testing.T) {
	data := encodeTestImage(t, 640, 480, "png")

	img, err := DecodeBounded(bytes.NewReader(data), 160, 120)
	if err != nil {
		t.Fatalf("DecodeBounded failed: %v", err)
	}
	if img.Bounds().Dx() != 160 || img.Bounds().Dy() != 120 {
		t.Errorf("bitmap = %dx%d, want 160x120", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestDecodeBoundedErrors(t *testing.T) {
	valid := encodeTestImage(t, 32, 32, "png")
	boom := errors.New("disk went away")

	tests := []struct {
		name     string
		r        io.Reader
		cause    error
		wantKind error
	}{
		{name: "Garbage bytes", r: bytes.NewReader([]byte("definitely not an image")), wantKind: ErrMalformed},
		{name: "Empty stream", r: bytes.NewReader(nil), wantKind: ErrMalformed},
		{name: "Truncated PNG", r: bytes.NewReader(valid[:len(valid)/2]), wantKind: ErrMalformed},
		{name: "Read failure", r: iotest.ErrReader(boom), cause: boom, wantKind: ErrIOFailure},
		{
			name:     "Read failure after data",
			r:        iotest.TimeoutReader(bytes.NewReader(valid)),
			cause:    iotest.ErrTimeout,
			wantKind: ErrIOFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeBounded(tt.r, 16, 16)
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if img != nil {
				t.Error("expected no bitmap alongside an error")
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("error %v is not %v", err, tt.wantKind)
			}

			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not a *DecodeError", err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("error %v does not wrap %v", err, tt.cause)
			}
		})
	}
}

func TestDecodeBoundedNilReader(t *testing.T) {
	_, err := DecodeBounded(nil, 10, 10)
	if !errors.Is(err, ErrIOFailure) {
		t.Errorf("error = %v, want IOFailure", err)
	}
}

func TestDecodeBoundedIdempotent(t *testing.T) {
	data := encodeTestImage(t, 300, 200, "jpeg")

	first, err := DecodeBounded(bytes.NewReader(data), 64, 64)
	if err != nil {
		t.Fatalf("first decode failed: %v", err)
	}
	second, err := DecodeBounded(bytes.NewReader(data), 64, 64)
	if err != nil {
		t.Fatalf("second decode failed: %v", err)
	}

	if first.Rect != second.Rect || !bytes.Equal(first.Pix, second.Pix) {
		t.Error("repeated decodes produced different bitmaps")
	}
}

// stubCodec lets decode tests control both passes.
type stubCodec struct {
	bounds    Bounds
	boundsErr error
	img       *image.NRGBA
	sampled   int
}

func (s *stubCodec) Name() string { return "stub" }

func (s *stubCodec) DecodeBounds([]byte) (Bounds, error) {
	return s.bounds, s.boundsErr
}

func (s *stubCodec) DecodeSampled(_ []byte, _ Bounds, sampleSize int) (*image.NRGBA, error) {
	s.sampled = sampleSize
	return s.img, nil
}

func TestDecoderUsesCodec(t *testing.T) {
	codec := &stubCodec{
		bounds: Bounds{Width: 2048, Height: 2048, Format: "stub"},
		img:    image.NewNRGBA(image.Rect(0, 0, 256, 256)),
	}

	res, err := NewDecoder(codec).Decode(bytes.NewReader([]byte{1, 2, 3}), 200, 200)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if codec.sampled != 8 || res.SampleSize != 8 {
		t.Errorf("codec sampled at %d (result %d), want 8", codec.sampled, res.SampleSize)
	}
}

func TestDecoderRejectsDegenerateBounds(t *testing.T) {
	tests := []struct {
		name  string
		codec *stubCodec
	}{
		{name: "Zero width", codec: &stubCodec{bounds: Bounds{Width: 0, Height: 10}}},
		{name: "Codec returns nil", codec: &stubCodec{bounds: Bounds{Width: 10, Height: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDecoder(tt.codec).Decode(bytes.NewReader([]byte{0}), 5, 5)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error = %v, want Malformed", err)
			}
		})
	}
}

func TestDecodeErrorMessages(t *testing.T) {
	if got := ErrMalformed.Error(); got != "decode failed: malformed" {
		t.Errorf("ErrMalformed.Error() = %q", got)
	}

	err := ioFailure(errors.New("eof"))
	if got := err.Error(); got != "decode failed: io_failure: eof" {
		t.Errorf("Error() = %q", got)
	}
	if errors.Is(err, ErrMalformed) {
		t.Error("IOFailure must not match ErrMalformed")
	}
	if got := ErrorKind(42).String(); got != "unknown(42)" {
		t.Errorf("unknown kind String() = %q", got)
	}
}
