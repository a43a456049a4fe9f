package slogobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Handler is a slog.Handler writing compact or JSON lines.
type Handler struct {
	format Format
	level  slog.Leveler
	mu     *sync.Mutex
	out    io.Writer
	attrs  []slog.Attr
	prefix string
}

// NewHandler returns a Handler writing to out.
func NewHandler(out io.Writer, format Format, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{format: format, level: level, mu: &sync.Mutex{}, out: out}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[h.prefix+a.Key] = a.Value.Any()
		return true
	})

	var line []byte
	switch h.format {
	case FormatJSON:
		fields["time"] = r.Time.Format("2006-01-02T15:04:05.000Z07:00")
		fields["level"] = levelName(r.Level)
		fields["msg"] = r.Message
		b, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("encoding log record: %w", err)
		}
		line = b
	default:
		var sb strings.Builder
		sb.WriteString(r.Time.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&sb, " %5s ", levelName(r.Level))
		sb.WriteString(r.Message)
		if len(fields) > 0 {
			b, err := json.Marshal(fields)
			if err != nil {
				b = []byte(`{"log.error":"unencodable attributes"}`)
			}
			sb.WriteString(" | ")
			sb.Write(b)
		}
		line = []byte(sb.String())
	}
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(line)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
