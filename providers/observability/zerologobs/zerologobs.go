// Package zerologobs implements observability.Provider on top of rs/zerolog.
package zerologobs

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/leofalp/aigotools/providers/observability"
)

// Observer writes spans, metrics and logs as zerolog events.
type Observer struct {
	logger zerolog.Logger

	mu       sync.Mutex
	counters map[string]*counter
}

var _ observability.Provider = (*Observer)(nil)

// Option configures an Observer.
type Option func(*options)

type options struct {
	out     io.Writer
	level   zerolog.Level
	console bool
	logger  *zerolog.Logger
}

// WithOutput sets the destination writer (stderr by default).
func WithOutput(w io.Writer) Option { return func(o *options) { o.out = w } }

// WithLevel sets the minimum level.
func WithLevel(level zerolog.Level) Option { return func(o *options) { o.level = level } }

// WithLevelName parses name ("debug", "info", ...) and falls back to info.
func WithLevelName(name string) Option {
	return func(o *options) {
		level, err := zerolog.ParseLevel(name)
		if err != nil || level == zerolog.NoLevel {
			level = zerolog.InfoLevel
		}
		o.level = level
	}
}

// WithConsole switches to zerolog's human readable console writer.
func WithConsole(enabled bool) Option { return func(o *options) { o.console = enabled } }

// WithLogger uses logger unchanged.
func WithLogger(logger zerolog.Logger) Option { return func(o *options) { o.logger = &logger } }

// New builds an Observer.
func New(opts ...Option) *Observer {
	cfg := &options{out: os.Stderr, level: zerolog.InfoLevel}
	for _, opt := range opts {
		opt(cfg)
	}

	var logger zerolog.Logger
	if cfg.logger != nil {
		logger = *cfg.logger
	} else {
		out := cfg.out
		if cfg.console {
			out = zerolog.ConsoleWriter{Out: cfg.out, TimeFormat: time.DateTime}
		}
		logger = zerolog.New(out).Level(cfg.level).With().Timestamp().Logger()
	}

	return &Observer{logger: logger, counters: make(map[string]*counter)}
}

func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	s := &span{name: name, start: time.Now(), logger: o.logger.With().Str("span", name).Logger()}
	withAttrs(s.logger.Debug(), attrs).Msg("Span started")
	return observability.ContextWithSpan(ctx, s), s
}

type span struct {
	mu     sync.Mutex
	name   string
	start  time.Time
	logger zerolog.Logger
	attrs  []observability.Attribute
	failed bool
}

func (s *span) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := s.logger.Debug()
	if s.failed {
		ev = s.logger.Warn()
	}
	withAttrs(ev, s.attrs).Dur(observability.AttrDuration, time.Since(s.start)).Msg("Span ended")
}

func (s *span) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *span) SetStatus(code observability.StatusCode, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = code == observability.StatusError
	s.attrs = append(s.attrs, observability.String(observability.AttrStatus, code.String()))
	if description != "" {
		s.attrs = append(s.attrs, observability.String(observability.AttrStatusDescription, description))
	}
}

func (s *span) RecordError(err error) {
	if err == nil {
		return
	}
	s.logger.Error().Err(err).Msg("Span error")
}

func (s *span) AddEvent(name string, attrs ...observability.Attribute) {
	withAttrs(s.logger.Debug(), attrs).Msg(name)
}

func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()
	c, ok := o.counters[name]
	if !ok {
		c = &counter{name: name, logger: o.logger}
		o.counters[name] = c
	}
	return c
}

func (o *Observer) Histogram(name string) observability.Histogram {
	return histogram{name: name, logger: o.logger}
}

type counter struct {
	name   string
	value  atomic.Int64
	logger zerolog.Logger
}

func (c *counter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	total := c.value.Add(value)
	withAttrs(c.logger.Trace(), attrs).
		Str("metric", c.name).Int64("delta", value).Int64("value", total).
		Msg("Counter")
}

type histogram struct {
	name   string
	logger zerolog.Logger
}

func (h histogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	withAttrs(h.logger.Trace(), attrs).Str("metric", h.name).Float64("value", value).Msg("Histogram")
}

func (o *Observer) Trace(_ context.Context, msg string, attrs ...observability.Attribute) {
	withAttrs(o.logger.Trace(), attrs).Msg(msg)
}

func (o *Observer) Debug(_ context.Context, msg string, attrs ...observability.Attribute) {
	withAttrs(o.logger.Debug(), attrs).Msg(msg)
}

func (o *Observer) Info(_ context.Context, msg string, attrs ...observability.Attribute) {
	withAttrs(o.logger.Info(), attrs).Msg(msg)
}

func (o *Observer) Warn(_ context.Context, msg string, attrs ...observability.Attribute) {
	withAttrs(o.logger.Warn(), attrs).Msg(msg)
}

func (o *Observer) Error(_ context.Context, msg string, attrs ...observability.Attribute) {
	withAttrs(o.logger.Error(), attrs).Msg(msg)
}

// withAttrs is safe on a disabled (nil) event.
func withAttrs(ev *zerolog.Event, attrs []observability.Attribute) *zerolog.Event {
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			ev = ev.Str(a.Key, v)
		case int:
			ev = ev.Int(a.Key, v)
		case int64:
			ev = ev.Int64(a.Key, v)
		case float64:
			ev = ev.Float64(a.Key, v)
		case bool:
			ev = ev.Bool(a.Key, v)
		case time.Duration:
			ev = ev.Dur(a.Key, v)
		default:
			ev = ev.Interface(a.Key, v)
		}
	}
	return ev
}
