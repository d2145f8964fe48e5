package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/Graylog2/go-gelf/gelf"
)

// MessageWriter sends GELF messages. *gelf.Writer satisfies it.
type MessageWriter interface {
	WriteMessage(m *gelf.Message) error
}

// NewGelfWriter dials a Graylog UDP input.
func NewGelfWriter(addr string) (*gelf.Writer, error) {
	return gelf.NewWriter(addr)
}

// GelfHandler is a slog.Handler that ships records as GELF messages.
// Attributes become additional fields, groups are joined with dots.
type GelfHandler struct {
	w      MessageWriter
	host   string
	level  slog.Leveler
	attrs  map[string]any
	prefix string
}

// NewGelfHandler creates a handler writing to w. An empty host falls back to
// the machine's hostname.
func NewGelfHandler(w MessageWriter, host string, level slog.Leveler) *GelfHandler {
	if host == "" {
		host, _ = os.Hostname()
	}
	return &GelfHandler{
		w:     w,
		host:  host,
		level: level,
		attrs: map[string]any{},
	}
}

func (h *GelfHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *GelfHandler) Handle(_ context.Context, r slog.Record) error {
	extra := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		extra[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		addGelfAttr(extra, h.prefix, a)
		return true
	})

	return h.w.WriteMessage(&gelf.Message{
		Version:  "1.1",
		Host:     h.host,
		Short:    r.Message,
		TimeUnix: float64(r.Time.UnixNano()) / 1e9,
		Level:    syslogLevel(r.Level),
		Facility: "trackedit",
		Extra:    extra,
	})
}

func (h *GelfHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := h.clone()
	for _, a := range attrs {
		addGelfAttr(n.attrs, n.prefix, a)
	}
	return n
}

func (h *GelfHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	n := h.clone()
	n.prefix = h.prefix + name + "."
	return n
}

func (h *GelfHandler) clone() *GelfHandler {
	attrs := make(map[string]any, len(h.attrs))
	for k, v := range h.attrs {
		attrs[k] = v
	}
	return &GelfHandler{w: h.w, host: h.host, level: h.level, attrs: attrs, prefix: h.prefix}
}

// addGelfAttr stores a as an underscore-prefixed additional field.
func addGelfAttr(extra map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range v.Group() {
			addGelfAttr(extra, p, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}

	key := "_" + prefix + a.Key
	switch v.Kind() {
	case slog.KindInt64:
		extra[key] = v.Int64()
	case slog.KindUint64:
		extra[key] = v.Uint64()
	case slog.KindFloat64:
		extra[key] = v.Float64()
	case slog.KindBool:
		extra[key] = v.Bool()
	default:
		extra[key] = v.String()
	}
}

// syslogLevel maps slog levels onto syslog severities.
func syslogLevel(l slog.Level) int32 {
	switch {
	case l >= slog.LevelError:
		return 3
	case l >= slog.LevelWarn:
		return 4
	case l >= slog.LevelInfo:
		return 6
	default:
		return 7
	}
}
