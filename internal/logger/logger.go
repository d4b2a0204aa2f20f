package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu            sync.Mutex
	std           *log.Logger
	logFile       *os.File
	isInitialized bool
)

// Init directs the process logger to the provided file path at the given
// level ("debug", "info", "warn", "error"). It creates parent directories
// if needed and opens the file in append mode. Later calls are no-ops
// until Close. Output logged before Init went to stderr.
func Init(path, level string) error {
	mu.Lock()
	defer mu.Unlock()
	if isInitialized {
		return nil
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	logFile = f
	std = newLogger(f, level)
	isInitialized = true
	return nil
}

// InitWriter directs the process logger to w. Used by tests and by
// binaries that log to stderr.
func InitWriter(w io.Writer, level string) {
	mu.Lock()
	defer mu.Unlock()
	std = newLogger(w, level)
}

func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           lvl,
	})
}

// Close closes the underlying log file, if open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	std = nil
	isInitialized = false
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// Debugf logs verbose diagnostics.
func Debugf(format string, args ...any) { current().Debugf(format, args...) }

// Infof logs informational messages.
func Infof(format string, args ...any) { current().Infof(format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { current().Warnf(format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { current().Errorf(format, args...) }

// current falls back to stderr when Init was never called.
func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if std == nil {
		std = newLogger(os.Stderr, "info")
	}
	return std
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
