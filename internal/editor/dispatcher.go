package editor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event is one editor command with its arguments.
type Event struct {
	Command   string
	Args      []string
	Timestamp time.Time
	Line      int
}

// HandlerFunc runs one editor command.
type HandlerFunc func(Event) (any, error)

// Logger is the subset of a structured logger the dispatcher writes to.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option tunes a single Register call.
type Option func(*handlerConfig)

type handlerConfig struct {
	logged bool
}

// Logged traces the command at debug level and logs failures.
func Logged() Option {
	return func(c *handlerConfig) {
		c.logged = true
	}
}

// Dispatcher routes events to registered handlers. Handlers run on the
// caller's goroutine, one at a time per call.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	processed metric.Int64Counter
	failed    metric.Int64Counter
	mutated   metric.Int64Counter
}

// New returns an empty Dispatcher. logger may be nil.
// Counters come from the global OTel meter provider.
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}

	m := meter()

	var err error

	d.processed, err = m.Int64Counter(
		"editor.commands.processed",
		metric.WithDescription("Total editor commands processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.failed, err = m.Int64Counter(
		"editor.commands.failed",
		metric.WithDescription("Total editor commands that returned an error"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	d.mutated, err = m.Int64Counter(
		"editor.objects.mutated",
		metric.WithDescription("Total objects changed by editor commands"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mutated counter: %w", err)
	}

	return d, nil
}

// Register binds h to command, replacing any earlier handler.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	cfg := &handlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h
	if cfg.logged && d.logger != nil {
		handler = d.withLogging(command, handler)
	}

	d.handlers[command] = handler
}

// Dispatch runs the handler registered for e.Command.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Command]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", e.Command)
	}

	cmdAttr := metric.WithAttributes(attribute.String("command", e.Command))
	result, err := h(e)
	d.processed.Add(context.Background(), 1, cmdAttr)
	if err != nil {
		d.failed.Add(context.Background(), 1, cmdAttr)
		return result, err
	}
	if r, ok := result.(Result); ok && r.Mutated > 0 {
		d.mutated.Add(context.Background(), int64(r.Mutated), cmdAttr)
	}
	return result, nil
}

// Run dispatches events in order and stops at the first failure. It returns
// the results of the events that succeeded.
func (d *Dispatcher) Run(ctx context.Context, events []Event) ([]any, error) {
	results := make([]any, 0, len(events))
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now()
		}
		result, err := d.Dispatch(e)
		if err != nil {
			if e.Line > 0 {
				return results, fmt.Errorf("line %d: %s: %w", e.Line, e.Command, err)
			}
			return results, fmt.Errorf("%s: %w", e.Command, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// HasHandler reports whether command is registered.
func (d *Dispatcher) HasHandler(command string) bool {
	_, ok := d.handlers[command]
	return ok
}

// Commands lists the registered command names, sorted.
func (d *Dispatcher) Commands() []string {
	out := make([]string, 0, len(d.handlers))
	for c := range d.handlers {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (d *Dispatcher) withLogging(command string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		d.logger.Debug("handling command", "command", command, "args", len(e.Args))

		result, err := h(e)

		if err != nil {
			d.logger.Error("command failed", "command", command, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("command complete", "command", command, "duration", time.Since(start))
		}

		return result, err
	}
}
