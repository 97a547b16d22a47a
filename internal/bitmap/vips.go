package bitmap

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"notethumbs/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"
)

// maxJpegShrink is the largest shrink-on-load factor libjpeg supports.
const maxJpegShrink = 8

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// InitVips initializes the libvips library
// This should be called once at startup
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Configure vips logging BEFORE Startup() so LOG_LEVEL is respected
	vipsLogLevel, logHandler := vipsLogging(logging.GetLevel())
	vips.LoggingSettings(logHandler, vipsLogLevel)

	// Decodes are one-shot, so keep the operation cache small
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      16 * 1024 * 1024,
		MaxCacheSize:     32,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// vipsLogging maps the application level to the vips level. Messages that
// vips does emit are forwarded to our logger, which applies its own filter.
func vipsLogging(level logging.LogLevel) (vips.LogLevel, func(string, vips.LogLevel, string)) {
	handler := func(domain string, l vips.LogLevel, msg string) {
		switch l {
		case vips.LogLevelError, vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}

	switch level {
	case logging.LevelDebug:
		return vips.LogLevelInfo, handler
	case logging.LevelInfo, logging.LevelWarn:
		return vips.LogLevelWarning, handler
	default:
		return vips.LogLevelError, handler
	}
}

// ShutdownVips cleans up libvips resources
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// VipsCodec decodes through libvips. JPEG sources are shrunk while decoding,
// so the full-size pixel buffer is never allocated. InitVips must be called
// first.
type VipsCodec struct{}

// Name implements Codec.
func (VipsCodec) Name() string {
	return "vips"
}

// DecodeBounds implements Codec. libvips loads lazily, so only the header is
// parsed here.
func (VipsCodec) DecodeBounds(data []byte) (Bounds, error) {
	if !IsVipsAvailable() {
		return Bounds{}, fmt.Errorf("libvips not available")
	}

	ref, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return Bounds{}, fmt.Errorf("vips failed to read header: %w", err)
	}
	defer ref.Close()

	format := vips.ImageTypes[vips.DetermineImageType(data)]
	if format == "" {
		format = "unknown"
	}

	return Bounds{Width: ref.Width(), Height: ref.Height(), Format: format}, nil
}

// DecodeSampled implements Codec.
func (VipsCodec) DecodeSampled(data []byte, bounds Bounds, sampleSize int) (*image.NRGBA, error) {
	if !IsVipsAvailable() {
		return nil, fmt.Errorf("libvips not available")
	}

	params := vips.NewImportParams()
	params.AutoRotate.Set(false)
	if bounds.Format == "jpeg" && sampleSize > 1 {
		params.JpegShrinkFactor.Set(min(sampleSize, maxJpegShrink))
	}

	ref, err := vips.LoadImageFromBuffer(data, params)
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	targetWidth := sampledDimension(bounds.Width, sampleSize)
	targetHeight := sampledDimension(bounds.Height, sampleSize)
	if ref.Width() > targetWidth || ref.Height() > targetHeight {
		if err := ref.Thumbnail(targetWidth, targetHeight, vips.InterestingNone); err != nil {
			return nil, fmt.Errorf("vips resize failed: %w", err)
		}
	}

	logging.Debug("Vips decoded %s at %dx%d (sample size %d)", bounds.Format, ref.Width(), ref.Height(), sampleSize)

	// PNG keeps the round trip lossless
	imgBytes, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode vips output: %w", err)
	}

	return reduce(img, bounds, sampleSize)
}
