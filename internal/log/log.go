package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type Key struct{}

var LoggerKey = Key{}

// LevelTrace is a custom trace level for slog
// Using LevelDebug - 4 which equals -8
const LevelTrace = slog.LevelDebug - 4

func ConfigLevelStringToSlogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}

// replaceLevel prints LevelTrace as TRACE instead of DEBUG-4.
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}
	return a
}

// Options configures the CLI logger.
type Options struct {
	// Level is one of trace, debug, info, warn, error.
	Level string
	// File receives all records at or above Level. Empty disables file logging.
	File string
	// ErrOut receives error records in the friendly format.
	ErrOut io.Writer
}

// New builds the CLI logger: records at the configured level go to the log
// file and errors are mirrored to ErrOut. The returned closer releases the file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := ConfigLevelStringToSlogLevel(opts.Level)

	var primary slog.Handler
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		path := os.ExpandEnv(opts.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		closer = f
		primary = slog.NewTextHandler(f, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: replaceLevel,
		})
	}

	var secondary slog.Handler
	if opts.ErrOut != nil {
		secondary = NewFriendlyErrorHandler(opts.ErrOut)
	}

	return slog.New(NewDualHandler(primary, secondary)), closer, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(NewDualHandler(nil, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
