package log

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// GetLogger returns the process default logger. It is a no-op logger until
// SetupLogger or SetLogger is called.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process default logger.
func SetLogger(l Logger) {
	if l == nil {
		l = nopLogger{}
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// SetupLogger builds a zerolog-backed logger, installs it as the default and
// routes library warnings (errors.Warn) through it.
// format is "json" or "console".
func SetupLogger(w io.Writer, level, format string) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	switch format {
	case "json", "console":
	default:
		return nil, errors.NewValidationError("log.format", `must be "json" or "console"`, format)
	}

	logger := NewZerologLogger(w, lvl, format == "console")
	SetLogger(logger)
	errors.SetZerologWarnFunc(func(warning error) {
		logger.Warn("warning", warning)
	})
	return logger, nil
}

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewValidationError("log.level", "unknown log level", level)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
func (n nopLogger) With(...any) Logger { return n }
func (nopLogger) Enabled(context.Context, Level) bool { return false }
