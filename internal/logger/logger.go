// Package logger provides file-based structured logging for scitutor.
//
// The TUI owns the terminal, so log output always goes to a file under
// the config directory, never to stdout or stderr.
package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	zlog    = zerolog.Nop()
	logFile *os.File
)

// Init opens the log file at path and configures the package logger.
// Before Init (or if it fails) all logging is a no-op.
func Init(path string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	logFile = f
	zlog = zerolog.New(f).
		Level(level).
		With().
		Timestamp().
		Str("service", "scitutor").
		Logger()

	return nil
}

// Close closes the log file and resets the logger to a no-op.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	zlog = zerolog.Nop()
}

// Debug starts a debug-level event
func Debug() *zerolog.Event {
	return zlog.Debug()
}

// Info starts an info-level event
func Info() *zerolog.Event {
	return zlog.Info()
}

// Warn starts a warn-level event
func Warn() *zerolog.Event {
	return zlog.Warn()
}

// Error starts an error-level event
func Error() *zerolog.Event {
	return zlog.Error()
}
