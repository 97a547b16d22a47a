package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decoder metrics
var (
	DecodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethumbs_decodes_total",
			Help: "Total number of bounded decodes by codec and status",
		},
		[]string{"codec", "status"},
	)

	DecodeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethumbs_decode_errors_total",
			Help: "Total number of failed decodes by error kind",
		},
		[]string{"kind"}, // "malformed", "io_failure"
	)

	DecodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notethumbs_decode_duration_seconds",
			Help:    "Bounded decode duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"codec"},
	)

	DecodeSampleSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notethumbs_decode_sample_size",
			Help:    "Power-of-two subsampling factor chosen per decode",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
		},
	)

	DecodeInputBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notethumbs_decode_input_bytes",
			Help:    "Size of encoded input streams in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	DecodeFormat = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethumbs_decode_format_total",
			Help: "Decoded images by source format",
		},
		[]string{"format"},
	)
)

// Color metrics
var (
	DominantColorTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethumbs_dominant_color_total",
			Help: "Dominant color extractions by outcome",
		},
		[]string{"result"}, // "binned", "empty", "filtered"
	)

	PaletteExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethumbs_palette_extractions_total",
			Help: "Palette extractions by status",
		},
		[]string{"status"},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethumbs_thumbnail_generations_total",
			Help: "Total number of attachment thumbnail generations",
		},
		[]string{"category", "status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notethumbs_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"category"},
	)

	VideoFrameExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notethumbs_video_frame_extractions_total",
			Help: "FFmpeg frame extractions by attempt and status",
		},
		[]string{"attempt", "status"}, // attempt: "seek", "first_frame"
	)
)

// Batch metrics
var (
	BatchJobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notethumbs_batch_jobs_in_flight",
			Help: "Number of batch thumbnail jobs currently running",
		},
	)

	BatchWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notethumbs_batch_workers",
			Help: "Number of workers used by the last batch run",
		},
	)
)

// Memory metrics
var (
	GoMemLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notethumbs_go_memlimit_bytes",
			Help: "Configured GOMEMLIMIT in bytes",
		},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "notethumbs_app_info",
			Help: "Application build information",
		},
		[]string{"version", "commit", "go_version"},
	)
)
