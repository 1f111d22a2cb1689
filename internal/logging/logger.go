// Package logging provides leveled, prefix-scoped logging for the
// filesystem daemon. Subsystems obtain their own logger via WithPrefix
// so kernel-driven request logs can be filtered per component.
package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents a logging verbosity level.
type Level int

const (
	// LevelError only logs errors
	LevelError Level = iota
	// LevelWarn logs warnings and errors
	LevelWarn
	// LevelInfo logs general information, warnings and errors
	LevelInfo
	// LevelDebug logs per-operation debug information and all above
	LevelDebug
	// LevelTrace logs very detailed trace information and all above
	LevelTrace
)

// String returns the canonical upper-case name of the level.
func (lv Level) String() string {
	switch lv {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	}
	return fmt.Sprintf("LEVEL(%d)", int(lv))
}

// ParseLevel converts a level name (any case) to a Level. Unknown names
// fall back to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	case "TRACE":
		return LevelTrace
	default:
		return LevelInfo
	}
}

// Logger writes leveled, prefixed log lines.
type Logger struct {
	level  Level
	prefix string
	out    *log.Logger
	mu     sync.RWMutex
}

var (
	root *Logger
	once sync.Once
)

// GetLogger returns the process-wide root logger. The initial level
// comes from LOG_LEVEL; setting FUSE_DEBUG raises it to at least debug.
func GetLogger() *Logger {
	once.Do(func() {
		root = NewLogger("METAFS")
		if lv := os.Getenv("LOG_LEVEL"); lv != "" {
			root.SetLevel(ParseLevel(lv))
		}
		if os.Getenv("FUSE_DEBUG") != "" && root.GetLevel() < LevelDebug {
			root.SetLevel(LevelDebug)
		}
	})
	return root
}

// NewLogger creates a logger with the given prefix, writing to stderr.
func NewLogger(prefix string) *Logger {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds | log.LUTC
	return &Logger{
		level:  LevelInfo,
		prefix: prefix,
		out:    log.New(os.Stderr, "", flags),
	}
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current logging level.
func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// WithPrefix returns a logger scoped to a subsystem. It shares the
// parent's output and starts at the parent's level.
func (l *Logger) WithPrefix(prefix string) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{
		level:  l.level,
		prefix: prefix,
		out:    l.out,
	}
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level > l.GetLevel() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if err := l.out.Output(3, fmt.Sprintf("[%s] %s: %s", level, l.prefix, msg)); err != nil {
		fmt.Fprintf(os.Stderr, "log write failed: %v\n", err)
	}
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Trace logs a trace message.
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(LevelTrace, format, args...)
}
