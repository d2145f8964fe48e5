package logging

import (
	"io"
	"log/slog"
	"time"
)

// SlogManager manages slog-based logging with optional GELF shipping.
type SlogManager struct {
	logger *slog.Logger
	gelf   MessageWriter
}

// Options selects the sinks a SlogManager writes to. Nil sinks are skipped.
type Options struct {
	Level   string
	Console io.Writer
	File    io.Writer
	Gelf    MessageWriter
	Host    string // reported as the GELF source host

	// Context adds dynamic attributes to every record.
	Context ContextProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel reads a slog level name such as "debug" or "warn+2". Unknown
// names fall back to info.
func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Setup initializes the logging system, replacing any previous configuration.
func (m *SlogManager) Setup(opts Options) {
	lvl := parseLevel(opts.Level)
	m.gelf = opts.Gelf

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	if opts.Console != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.Console, handlerOpts))
	}
	if opts.File != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.File, handlerOpts))
	}
	if opts.Gelf != nil {
		handlers = append(handlers, NewGelfHandler(opts.Gelf, opts.Host, lvl))
	}

	var handler slog.Handler = NewMultiHandler(handlers...)
	if opts.Context != nil {
		handler = NewContextHandler(handler, opts.Context)
	}

	m.logger = slog.New(handler)
	m.logger.Debug("Logging initialized", "level", opts.Level, "sinks", len(handlers))
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Close releases the GELF sink if it can be closed.
func (m *SlogManager) Close() error {
	if c, ok := m.gelf.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
