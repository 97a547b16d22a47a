// Package startup loads configuration and build information for the
// notethumbs command and logs the environment it runs in.
//
// # Configuration
//
// Configuration is read from environment variables by [LoadConfig]; command
// line flags override the thumbnail size per invocation.
//
//   - THUMB_WIDTH, THUMB_HEIGHT: default thumbnail size (default: 256)
//   - DECODER: std (pure Go, imaging) or vips (libvips) (default: std)
//   - FFMPEG_PATH: ffmpeg binary used for video frames (default: ffmpeg)
//   - METRICS_FILE: write Prometheus metrics here on exit (default: unset)
//   - BATCH_PROGRESS: log each finished batch job (default: true)
//   - LOG_LEVEL, DEBUG: see package logging
//   - NOTETHUMBS_WORKERS: see package workers
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: see package memory
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X notethumbs/internal/startup.Version=v1.2.0 \
//	    -X notethumbs/internal/startup.Commit=$(git rev-parse --short HEAD)" \
//	    ./cmd/notethumbs
package startup
