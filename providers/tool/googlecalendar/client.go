package googlecalendar

import (
	"google.golang.org/api/calendar/v3"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/providers/observability"
)

// Client runs calendar operations on an injected service.
type Client struct {
	service  *calendar.Service
	observer observability.Provider
	retry    *paginate.RetryConfig
}

// Option configures a Client.
type Option func(*Client)

func WithObserver(p observability.Provider) Option {
	return func(c *Client) { c.observer = p }
}

// WithRetry retries list pages on rate limits and server errors.
func WithRetry(cfg paginate.RetryConfig) Option {
	return func(c *Client) { c.retry = &cfg }
}

// New returns a Client using service.
func New(service *calendar.Service, opts ...Option) *Client {
	c := &Client{service: service}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) aggregateOptions(name string) []paginate.Option {
	opts := []paginate.Option{paginate.WithSourceName(name)}
	if c.observer != nil {
		opts = append(opts, paginate.WithObserver(c.observer))
	}
	return opts
}
