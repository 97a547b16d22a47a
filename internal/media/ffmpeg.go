package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"

	"notethumbs/internal/logging"
	"notethumbs/internal/metrics"
)

// FrameExtractor pulls a representative still frame out of a video.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, path string) (image.Image, error)
}

// FFmpegExtractor extracts frames by running the ffmpeg binary.
type FFmpegExtractor struct {
	// Binary is the ffmpeg executable name or path.
	Binary string
}

// NewFFmpegExtractor returns an extractor for the given binary, "ffmpeg"
// when empty.
func NewFFmpegExtractor(binary string) *FFmpegExtractor {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpegExtractor{Binary: binary}
}

// ExtractFrame grabs the frame one second in, or the first frame when the
// clip is shorter than that.
func (e *FFmpegExtractor) ExtractFrame(ctx context.Context, path string) (image.Image, error) {
	ffmpegPath, err := exec.LookPath(e.Binary)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	logging.Debug("Extracting video frame: %s (ffmpeg: %s)", path, ffmpegPath)

	img, err := e.run(ctx, ffmpegPath, "seek",
		"-i", path,
		"-ss", "00:00:01",
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	if err == nil {
		return img, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	logging.Debug("FFmpeg seek attempt failed for %s: %v", path, err)

	return e.run(ctx, ffmpegPath, "first_frame",
		"-i", path,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
}

func (e *FFmpegExtractor) run(ctx context.Context, ffmpegPath, attempt string, args ...string) (image.Image, error) {
	img, err := e.capture(ctx, ffmpegPath, args...)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.VideoFrameExtractions.WithLabelValues(attempt, status).Inc()
	return img, err
}

func (e *FFmpegExtractor) capture(ctx context.Context, ffmpegPath string, args ...string) (image.Image, error) {
	cmd := exec.CommandContext(ctx, ffmpegPath, append([]string{"-hide_banner", "-loglevel", "error"}, args...)...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}

	// A seek past the end exits cleanly with no output
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output")
	}

	logging.Debug("FFmpeg output size: %d bytes", stdout.Len())

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}
