package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kinfolk/kinctl/internal/log"
)

const (
	// DefaultTimeout bounds a single people fetch when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	redactedValue = "[REDACTED]"
	maxBodyLog    = 1000
)

// LoggingTransport wraps an http.RoundTripper and logs every exchange at
// trace level. Nothing is logged unless trace is enabled on the logger.
type LoggingTransport struct {
	wrapped http.RoundTripper
	logger  *slog.Logger
}

// NewLoggingTransport wraps base, or http.DefaultTransport when base is nil.
func NewLoggingTransport(base http.RoundTripper, logger *slog.Logger) *LoggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &LoggingTransport{wrapped: base, logger: logger}
}

// NewClient returns an http.Client with trace logging and the given timeout.
func NewClient(logger *slog.Logger, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: NewLoggingTransport(nil, logger),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !t.logger.Enabled(ctx, log.LevelTrace) {
		return t.wrapped.RoundTrip(req)
	}

	start := time.Now()
	t.logRequest(req)

	resp, err := t.wrapped.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		t.logger.LogAttrs(ctx, log.LevelTrace, "HTTP request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.Redacted()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	t.logResponse(req, resp, duration)
	return resp, nil
}

func (t *LoggingTransport) logRequest(req *http.Request) {
	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("url", req.URL.Redacted()),
		slog.String("host", req.URL.Host),
		slog.Any("headers", redactHeaders(req.Header, "authorization", "cookie")),
	}
	if req.ContentLength > 0 {
		attrs = append(attrs, slog.Int64("content_length", req.ContentLength))
	}
	t.logger.LogAttrs(req.Context(), log.LevelTrace, "HTTP request", attrs...)
}

func (t *LoggingTransport) logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	attrs := []slog.Attr{
		slog.Int("status", resp.StatusCode),
		slog.String("status_text", resp.Status),
		slog.Duration("duration", duration),
		slog.Any("headers", redactHeaders(resp.Header, "set-cookie")),
	}
	if resp.ContentLength > 0 {
		attrs = append(attrs, slog.Int64("content_length", resp.ContentLength))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if body, err := peekBody(resp); err == nil && body != "" {
			attrs = append(attrs, slog.String("error_body", body))
		}
	}
	t.logger.LogAttrs(req.Context(), log.LevelTrace, "HTTP response", attrs...)
}

func redactHeaders(h http.Header, sensitive ...string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		key := strings.ToLower(k)
		redact := strings.Contains(key, "token") || strings.Contains(key, "api-key")
		for _, s := range sensitive {
			if key == s {
				redact = true
			}
		}
		if redact {
			out[k] = redactedValue
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}

// peekBody reads the response body and puts an identical reader back.
func peekBody(resp *http.Response) (string, error) {
	if resp.Body == nil {
		return "", nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))

	body := string(data)
	if len(body) > maxBodyLog {
		body = fmt.Sprintf("%s... [truncated, total %d bytes]", body[:maxBodyLog], len(body))
	}
	return body, nil
}
