package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

var (
	levelMu      sync.RWMutex
	currentLevel LogLevel
	levelOnce    sync.Once
)

// ParseLevel converts a level name to a LogLevel. Matching is case
// insensitive and "warning" is accepted as an alias for "warn".
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

// levelFromEnv resolves the level from DEBUG and LOG_LEVEL.
// DEBUG wins when truthy; unknown values fall back to Info.
func levelFromEnv() LogLevel {
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "1", "true", "yes", "on":
		return LevelDebug
	}

	level, ok := ParseLevel(os.Getenv("LOG_LEVEL"))
	if !ok {
		return LevelInfo
	}
	return level
}

func initLevel() {
	levelOnce.Do(func() {
		levelMu.Lock()
		currentLevel = levelFromEnv()
		levelMu.Unlock()
	})
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	initLevel()
	levelMu.RLock()
	defer levelMu.RUnlock()
	return currentLevel
}

// SetLevel overrides the level resolved from the environment, e.g. from a
// -v command line flag.
func SetLevel(level LogLevel) {
	initLevel()
	levelMu.Lock()
	currentLevel = level
	levelMu.Unlock()
}

// SetOutput redirects all log output. It returns the previous writer so
// callers can restore it.
func SetOutput(w io.Writer) io.Writer {
	prev := log.Writer()
	log.SetOutput(w)
	return prev
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	if GetLevel() <= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if GetLevel() <= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	if GetLevel() <= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if GetLevel() <= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	log.Fatalf("[FATAL] "+format, args...)
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
