package memory

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"notethumbs/internal/logging"
	"notethumbs/internal/metrics"
)

const (
	// DefaultMemoryRatio is the share of the container limit given to the Go
	// heap. The rest is left for libvips, FFmpeg and goroutine stacks.
	DefaultMemoryRatio = 0.85
)

// ConfigResult holds the result of memory configuration
type ConfigResult struct {
	// Configured indicates whether GOMEMLIMIT is in effect
	Configured bool

	// Source is "GOMEMLIMIT", "MEMORY_LIMIT" or "none"
	Source string

	// ContainerLimit is the parsed MEMORY_LIMIT in bytes (0 if not set)
	ContainerLimit int64

	// GoMemLimit is the effective GOMEMLIMIT in bytes (0 if not set)
	GoMemLimit int64

	// Ratio is the memory ratio used (0 if not applicable)
	Ratio float64
}

// ConfigureFromEnv sets GOMEMLIMIT from the process environment.
// Call this early in main() before significant allocations.
//
// Environment variables:
//   - GOMEMLIMIT: if set, the runtime already applied it and it is only reported
//   - MEMORY_LIMIT: container memory limit, in bytes or with a Ki/Mi/Gi or
//     K/M/G suffix
//   - MEMORY_RATIO: share of MEMORY_LIMIT for the Go heap (default 0.85)
func ConfigureFromEnv() ConfigResult {
	result := Configure(os.Getenv)
	metrics.GoMemLimit.Set(float64(result.GoMemLimit))
	return result
}

// Configure is ConfigureFromEnv with a custom environment lookup.
func Configure(getenv func(string) string) ConfigResult {
	if goMemLimitEnv := getenv("GOMEMLIMIT"); goMemLimitEnv != "" {
		result := ConfigResult{Source: "GOMEMLIMIT"}
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", goMemLimitEnv)
		return result
	}

	memLimitStr := getenv("MEMORY_LIMIT")
	if memLimitStr == "" {
		logging.Debug("MEMORY_LIMIT not set, GOMEMLIMIT will not be configured automatically")
		return ConfigResult{Source: "none"}
	}

	memLimit, err := ParseBytes(memLimitStr)
	if err != nil {
		logging.Warn("Failed to parse MEMORY_LIMIT %q: %v", memLimitStr, err)
		return ConfigResult{Source: "none"}
	}

	ratio := parseRatio(getenv("MEMORY_RATIO"))
	goMemLimit := int64(float64(memLimit) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		FormatBytes(goMemLimit),
		ratio*100,
		FormatBytes(memLimit),
	)

	return ConfigResult{
		Configured:     true,
		Source:         "MEMORY_LIMIT",
		ContainerLimit: memLimit,
		GoMemLimit:     goMemLimit,
		Ratio:          ratio,
	}
}

func parseRatio(s string) float64 {
	if s == "" {
		return DefaultMemoryRatio
	}
	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logging.Warn("Failed to parse MEMORY_RATIO %q: %v, using default %.2f", s, err, DefaultMemoryRatio)
		return DefaultMemoryRatio
	}
	if ratio <= 0 || ratio > 1.0 {
		logging.Warn("MEMORY_RATIO %q out of range (0.0-1.0), using default %.2f", s, DefaultMemoryRatio)
		return DefaultMemoryRatio
	}
	return ratio
}

var byteSuffixes = []struct {
	suffix string
	scale  int64
}{
	{"Ki", 1 << 10},
	{"Mi", 1 << 20},
	{"Gi", 1 << 30},
	{"Ti", 1 << 40},
	{"K", 1e3},
	{"M", 1e6},
	{"G", 1e9},
	{"T", 1e12},
}

// ParseBytes parses a positive byte count written either as a plain integer
// or as a Kubernetes quantity such as "512Mi" or "2G".
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	scale := int64(1)
	for _, bs := range byteSuffixes {
		if strings.HasSuffix(s, bs.suffix) {
			s = strings.TrimSuffix(s, bs.suffix)
			scale = bs.scale
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("memory limit must be positive, got %d", n)
	}
	if n > math.MaxInt64/scale {
		return 0, fmt.Errorf("memory limit %s overflows", s)
	}
	return n * scale, nil
}

// FormatBytes formats bytes into human-readable string
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
