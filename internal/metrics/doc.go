// Package metrics provides Prometheus instrumentation for notethumbs.
//
// All metrics are prefixed with "notethumbs_" and registered on the default
// registry through promauto. The CLI never listens on a port; instead it can
// dump the registry to a file on exit with [WriteTextfile] so the numbers can
// be picked up by the node_exporter textfile collector.
//
// # Metric Categories
//
// ## Decoder Metrics
//
//   - DecodesTotal: Counter of bounded decodes by codec and status
//   - DecodeErrorsTotal: Counter of failures by kind (malformed/io_failure)
//   - DecodeDuration: Histogram of decode time by codec
//   - DecodeSampleSize: Histogram of chosen subsampling factors
//   - DecodeInputBytes: Histogram of encoded input sizes
//   - DecodeFormat: Counter of decoded source formats
//
// ## Color Metrics
//
//   - DominantColorTotal: Counter by result (binned/empty/filtered)
//   - PaletteExtractionsTotal: Counter of k-means palettes by status
//
// ## Thumbnail Metrics
//
//   - ThumbnailGenerationsTotal: Counter by attachment category and status
//   - ThumbnailGenerationDuration: Histogram by attachment category
//   - VideoFrameExtractions: Counter of FFmpeg attempts by status
//
// ## Batch and Memory Metrics
//
//   - BatchJobsInFlight, BatchWorkers: worker pool state of the batch command
//   - GoMemLimit: configured GOMEMLIMIT
//
// # Usage
//
//	metrics.InitializeMetrics()
//	defer func() {
//	    if err := metrics.WriteTextfile("/var/lib/node_exporter/notethumbs.prom"); err != nil {
//	        logging.Warn("%v", err)
//	    }
//	}()
//
// Fallback rate of the dominant color extractor:
//
//	rate(notethumbs_dominant_color_total{result!="binned"}[1h]) /
//	rate(notethumbs_dominant_color_total[1h])
package metrics
