// Package logging wires the process-wide zap logger.
// Components obtain named child loggers via Named; before Init is called
// every logger is a no-op, so packages can log unconditionally.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how the process logger is built.
type Options struct {
	Level  string // debug|info|warn|error (default info)
	Format string // json|console (default json)
	File   string // log file path; stderr when empty
}

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// Init builds the logger from the given options and installs it globally.
func Init(opts Options) error {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	switch opts.Format {
	case "", "json":
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	default:
		return fmt.Errorf("invalid log format %q (allowed: json, console)", opts.Format)
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{opts.File}
		cfg.ErrorOutputPaths = []string{opts.File}
	} else {
		cfg.OutputPaths = []string{"stderr"}
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	mu.Lock()
	base = logger
	mu.Unlock()
	return nil
}

// L returns the current process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Named returns a child logger for the given component.
func Named(component string) *zap.Logger {
	return L().Named(component)
}

// Sync flushes buffered log entries. Call at shutdown.
func Sync() {
	_ = L().Sync()
}
