package paginate

import (
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/aigotools/providers/observability"
)

// Option configures one [Aggregate] call.
type Option func(*config)

type config struct {
	observer    observability.Provider
	pageTimeout time.Duration
	runID       string
	sourceName  string
}

// WithObserver sets the observability provider. Without it the provider
// carried by the context is used, then a no-op one.
func WithObserver(p observability.Provider) Option {
	return func(c *config) { c.observer = p }
}

// WithPageTimeout bounds each page fetch. The whole aggregation is only
// bounded by the caller's context.
func WithPageTimeout(d time.Duration) Option {
	return func(c *config) { c.pageTimeout = d }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(c *config) { c.runID = id }
}

// WithSourceName labels spans, logs and metrics with the source's name.
func WithSourceName(name string) Option {
	return func(c *config) { c.sourceName = name }
}

func newConfig(opts ...Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.runID == "" {
		c.runID = uuid.NewString()
	}
	return c
}
