package log

import (
	"context"
	"log/slog"
	"strings"
)

type requestLogContextKey struct{}

// RequestLogContext carries metadata attached to every log record emitted
// while serving a page or performing the people fetch.
type RequestLogContext struct {
	RequestID   string
	CommandPath string
	Surface     string
	Method      string
	Path        string
	Source      string
}

var RequestLogContextKey = requestLogContextKey{}

// WithRequestLogContext merges non-empty fields from update into ctx.
func WithRequestLogContext(ctx context.Context, update RequestLogContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	current := RequestLogContextFromContext(ctx)
	mergeStringField(&current.RequestID, update.RequestID)
	mergeStringField(&current.CommandPath, update.CommandPath)
	mergeStringField(&current.Surface, update.Surface)
	mergeStringField(&current.Method, update.Method)
	mergeStringField(&current.Path, update.Path)
	mergeStringField(&current.Source, update.Source)

	return context.WithValue(ctx, RequestLogContextKey, current)
}

// RequestLogContextFromContext extracts logging metadata from ctx.
func RequestLogContextFromContext(ctx context.Context) RequestLogContext {
	if ctx == nil {
		return RequestLogContext{}
	}

	switch value := ctx.Value(RequestLogContextKey).(type) {
	case RequestLogContext:
		return value
	case *RequestLogContext:
		if value != nil {
			return *value
		}
	}

	return RequestLogContext{}
}

// RequestLogContextAttrs converts context metadata to slog attributes.
func RequestLogContextAttrs(ctx context.Context) []slog.Attr {
	meta := RequestLogContextFromContext(ctx)
	attrs := make([]slog.Attr, 0, 6)

	appendStringAttr(&attrs, "request_id", meta.RequestID)
	appendStringAttr(&attrs, "command_path", meta.CommandPath)
	appendStringAttr(&attrs, "surface", meta.Surface)
	appendStringAttr(&attrs, "method", meta.Method)
	appendStringAttr(&attrs, "path", meta.Path)
	appendStringAttr(&attrs, "source", meta.Source)

	return attrs
}

func mergeStringField(target *string, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	*target = trimmed
}

func appendStringAttr(attrs *[]slog.Attr, key, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	*attrs = append(*attrs, slog.String(key, trimmed))
}
