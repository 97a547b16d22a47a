package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride names the environment variable that pins the worker count.
const EnvOverride = "NOTETHUMBS_WORKERS"

// Kind describes what dominates a thumbnail job's cost.
type Kind int

const (
	// CPU jobs decode and resample pixels in-process (images, sketches).
	CPU Kind = iota
	// IO jobs mostly wait on a subprocess or the disk (FFmpeg frame grabs).
	IO
	// Mixed batches contain both.
	Mixed
)

func (k Kind) multiplier() float64 {
	switch k {
	case IO:
		return 2.0
	case Mixed:
		return 1.5
	default:
		return 1.0
	}
}

func (k Kind) String() string {
	switch k {
	case CPU:
		return "cpu"
	case IO:
		return "io"
	case Mixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Count sizes a pool from GOMAXPROCS scaled by multiplier, capped at limit
// (0 means uncapped). A positive integer in NOTETHUMBS_WORKERS wins over
// the computed value but still honors limit.
func Count(multiplier float64, limit int) int {
	return countFrom(os.Getenv, multiplier, limit)
}

func countFrom(getenv func(string) string, multiplier float64, limit int) int {
	if override := getenv(EnvOverride); override != "" {
		if n, err := strconv.Atoi(override); err == nil && n > 0 {
			return capAt(n, limit)
		}
	}

	// GOMAXPROCS already tracks the container CPU quota.
	n := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if n < 1 {
		n = 1
	}
	return capAt(n, limit)
}

func capAt(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

// For returns the worker count for a job kind.
func For(kind Kind, limit int) int {
	return Count(kind.multiplier(), limit)
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return For(CPU, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return For(IO, limit)
}

// ForMixed returns worker count for mixed tasks (1.5 per CPU).
func ForMixed(limit int) int {
	return For(Mixed, limit)
}

// ForBatch sizes a pool for jobs inputs of the given kind. It never returns
// more workers than there are jobs, and returns 1 for an empty batch.
func ForBatch(kind Kind, jobs, limit int) int {
	n := For(kind, limit)
	if jobs > 0 && n > jobs {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}
