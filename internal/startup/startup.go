package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"notethumbs/internal/logging"
	"notethumbs/internal/memory"
	"notethumbs/internal/metrics"
	"notethumbs/internal/workers"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("notethumbs %s (commit %s, built %s, %s %s/%s)",
		b.Version, b.Commit, b.BuildTime, b.GoVersion, b.OS, b.Arch)
}

// Decoder backends selectable with DECODER.
const (
	DecoderStd  = "std"
	DecoderVips = "vips"
)

// Default thumbnail edge length in pixels.
const DefaultThumbSize = 256

// Config holds all application configuration
type Config struct {
	ThumbWidth  int
	ThumbHeight int
	Decoder     string
	FFmpegPath  string
	MetricsFile string

	// BatchProgress logs one line per finished batch job
	BatchProgress bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		ThumbWidth:  getEnvInt("THUMB_WIDTH", DefaultThumbSize),
		ThumbHeight: getEnvInt("THUMB_HEIGHT", DefaultThumbSize),
		Decoder:     strings.ToLower(getEnv("DECODER", DecoderStd)),
		FFmpegPath:  getEnv("FFMPEG_PATH", "ffmpeg"),
		MetricsFile: getEnv("METRICS_FILE", ""),

		BatchProgress: getEnvBool("BATCH_PROGRESS", true),
	}

	if config.ThumbWidth < 1 || config.ThumbHeight < 1 {
		return nil, fmt.Errorf("thumbnail size must be positive, got %dx%d", config.ThumbWidth, config.ThumbHeight)
	}

	switch config.Decoder {
	case DecoderStd, DecoderVips:
	default:
		return nil, fmt.Errorf("unknown DECODER %q (want %s or %s)", config.Decoder, DecoderStd, DecoderVips)
	}

	return config, nil
}

// LogConfig logs the loaded configuration at debug level.
func LogConfig(config *Config) {
	logging.Debug("------------------------------------------------------------")
	logging.Debug("CONFIGURATION")
	logging.Debug("------------------------------------------------------------")
	logging.Debug("  THUMB_WIDTH:   %d", config.ThumbWidth)
	logging.Debug("  THUMB_HEIGHT:  %d", config.ThumbHeight)
	logging.Debug("  DECODER:       %s", config.Decoder)
	logging.Debug("  FFMPEG_PATH:   %s", config.FFmpegPath)
	logging.Debug("  METRICS_FILE:  %s", valueOrNone(config.MetricsFile))
	logging.Debug("  BATCH_PROGRESS: %v", config.BatchProgress)
	logging.Debug("  LOG_LEVEL:     %s", logging.GetLevel())
}

// LogSystemInfo logs the runtime environment a batch runs in.
func LogSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Version:         %s (%s)", Version, Commit)
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}
	if override := os.Getenv(workers.EnvOverride); override != "" {
		logging.Info("  %s: %s", workers.EnvOverride, override)
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
	}
}

// LogMemoryConfig logs the outcome of memory.ConfigureFromEnv.
func LogMemoryConfig(result memory.ConfigResult) {
	switch {
	case !result.Configured:
		logging.Debug("  GOMEMLIMIT:      not configured")
	case result.Source == "MEMORY_LIMIT":
		logging.Info("  GOMEMLIMIT:      %s (%.0f%% of %s)",
			memory.FormatBytes(result.GoMemLimit), result.Ratio*100, memory.FormatBytes(result.ContainerLimit))
	default:
		logging.Info("  GOMEMLIMIT:      %s (from %s)", memory.FormatBytes(result.GoMemLimit), result.Source)
	}
}

// RecordBuildInfo publishes build information as the app_info metric.
func RecordBuildInfo() {
	info := GetBuildInfo()
	metrics.AppInfo.WithLabelValues(info.Version, info.Commit, info.GoVersion).Set(1)
}

// CheckFFmpeg verifies that the ffmpeg binary can be run and returns its
// version line.
func CheckFFmpeg(ctx context.Context, binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH", binary)
	}
	logging.Debug("  FFmpeg path: %s", path)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get ffmpeg version: %w", err)
	}

	line, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(line), nil
}

// EnsureDirectory creates path if needed and verifies that it is a writable
// directory.
func EnsureDirectory(path string) error {
	logging.Debug("  Checking output directory: %s", path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
	} else if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	return testWriteAccess(path)
}

func testWriteAccess(dir string) error {
	f, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		logging.Warn("failed to close write test file %s: %v", name, err)
	}
	if err := os.Remove(name); err != nil {
		logging.Warn("failed to remove write test file %s: %v", name, err)
	}
	return nil
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
