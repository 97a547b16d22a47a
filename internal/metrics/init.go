package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every series is present in the first textfile dump.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, codec := range []string{"std", "vips"} {
		for _, status := range []string{"success", "error"} {
			DecodesTotal.WithLabelValues(codec, status)
		}
		DecodeDuration.WithLabelValues(codec)
	}

	for _, kind := range []string{"malformed", "io_failure"} {
		DecodeErrorsTotal.WithLabelValues(kind)
	}

	for _, result := range []string{"binned", "empty", "filtered"} {
		DominantColorTotal.WithLabelValues(result)
	}

	for _, status := range []string{"success", "error"} {
		PaletteExtractionsTotal.WithLabelValues(status)
	}

	for _, category := range []string{"image", "sketch", "video", "audio", "files"} {
		ThumbnailGenerationsTotal.WithLabelValues(category, "success")
		ThumbnailGenerationsTotal.WithLabelValues(category, "error")
		ThumbnailGenerationDuration.WithLabelValues(category)
	}

	for _, attempt := range []string{"seek", "first_frame"} {
		VideoFrameExtractions.WithLabelValues(attempt, "success")
		VideoFrameExtractions.WithLabelValues(attempt, "error")
	}
}
