package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// mirrorErrors controls whether error records are copied to the secondary
// (stderr) handler. Interactive views turn it off while they own the terminal.
var mirrorErrors atomic.Bool

func init() {
	mirrorErrors.Store(true)
}

// EnableErrorMirroring restores mirroring of error records to stderr.
func EnableErrorMirroring() {
	mirrorErrors.Store(true)
}

// DisableErrorMirroring stops error records from reaching stderr.
func DisableErrorMirroring() {
	mirrorErrors.Store(false)
}

// NewDualHandler fans records out to primary (the log file) and mirrors error
// records to secondary. Either handler may be nil.
func NewDualHandler(primary slog.Handler, secondary slog.Handler) slog.Handler {
	return &dualHandler{primary: primary, secondary: secondary}
}

type dualHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.primary != nil && h.primary.Enabled(ctx, level) {
		return true
	}
	return h.mirrors(level) && h.secondary.Enabled(ctx, level)
}

func (h *dualHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := RequestLogContextAttrs(ctx); len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}

	if h.primary != nil && h.primary.Enabled(ctx, record.Level) {
		if err := h.primary.Handle(ctx, record); err != nil {
			return err
		}
	}

	if h.mirrors(record.Level) && h.secondary.Enabled(ctx, record.Level) {
		return h.secondary.Handle(ctx, record.Clone())
	}
	return nil
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		primary:   withAttrs(h.primary, attrs),
		secondary: withAttrs(h.secondary, attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		primary:   withGroup(h.primary, name),
		secondary: withGroup(h.secondary, name),
	}
}

func (h *dualHandler) mirrors(level slog.Level) bool {
	return h.secondary != nil && level >= slog.LevelError && mirrorErrors.Load()
}

func withAttrs(h slog.Handler, attrs []slog.Attr) slog.Handler {
	if h == nil {
		return nil
	}
	return h.WithAttrs(attrs)
}

func withGroup(h slog.Handler, name string) slog.Handler {
	if h == nil {
		return nil
	}
	return h.WithGroup(name)
}
