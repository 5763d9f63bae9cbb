package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// NewFriendlyErrorHandler returns a slog.Handler that prints error records as
// a short "Error: ..." block meant for a terminal.
func NewFriendlyErrorHandler(w io.Writer) slog.Handler {
	return &friendlyHandler{w: w}
}

type friendlyHandler struct {
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

type attrEntry struct {
	key   string
	value string
}

// hidden keys carry request metadata that only belongs in the log file.
var hiddenKeys = map[string]bool{
	"request_id":   true,
	"command_path": true,
	"surface":      true,
}

func (h *friendlyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *friendlyHandler) Handle(_ context.Context, record slog.Record) error {
	entries := h.collectEntries(record)

	summary := strings.TrimSpace(record.Message)
	if summary == "" {
		summary = valueOf(entries, "error")
	}
	if summary == "" {
		summary = "an unknown error occurred"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", summary)
	if hint := valueOf(entries, "hint"); hint != "" {
		fmt.Fprintf(&sb, "  hint: %s\n", hint)
	}

	others := make([]attrEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.key == "hint" || entry.value == "" || hiddenKeys[entry.key] {
			continue
		}
		if entry.key == "error" && entry.value == summary {
			continue
		}
		others = append(others, entry)
	}
	sort.SliceStable(others, func(i, j int) bool { return others[i].key < others[j].key })
	for _, entry := range others {
		writeEntry(&sb, entry)
	}

	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *friendlyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *friendlyHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func (h *friendlyHandler) collectEntries(record slog.Record) []attrEntry {
	entries := make([]attrEntry, 0, len(h.attrs)+record.NumAttrs())
	add := func(attr slog.Attr) bool {
		entries = append(entries, attrEntry{
			key:   h.fullKey(attr.Key),
			value: valueString(attr.Value.Resolve()),
		})
		return true
	}
	for _, attr := range h.attrs {
		add(attr)
	}
	record.Attrs(add)
	return entries
}

func (h *friendlyHandler) fullKey(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(append(append([]string{}, h.groups...), key), ".")
}

func valueOf(entries []attrEntry, key string) string {
	for _, entry := range entries {
		if entry.key == key && entry.value != "" {
			return entry.value
		}
	}
	return ""
}

func valueString(val slog.Value) string {
	switch val.Kind() {
	case slog.KindGroup:
		group := val.Group()
		parts := make([]string, 0, len(group))
		for _, attr := range group {
			parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, valueString(attr.Value.Resolve())))
		}
		return strings.Join(parts, ", ")
	case slog.KindAny:
		if err, ok := val.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(val.Any())
	case slog.KindString, slog.KindInt64, slog.KindUint64, slog.KindFloat64,
		slog.KindBool, slog.KindDuration, slog.KindTime, slog.KindLogValuer:
		return val.String()
	}
	return val.String()
}

func writeEntry(sb *strings.Builder, entry attrEntry) {
	lines := strings.Split(strings.TrimSpace(entry.value), "\n")
	fmt.Fprintf(sb, "  %s: %s\n", entry.key, strings.TrimSpace(lines[0]))
	for _, line := range lines[1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			fmt.Fprintf(sb, "    %s\n", trimmed)
		}
	}
}
