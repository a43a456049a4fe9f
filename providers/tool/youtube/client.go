package youtube

import (
	"google.golang.org/api/youtube/v3"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/providers/observability"
)

// MaxPageSize is the largest page the list endpoints serve.
const MaxPageSize = 50

// Client runs YouTube operations on an injected service.
type Client struct {
	service  *youtube.Service
	observer observability.Provider
	retry    *paginate.RetryConfig
}

// Option configures a Client.
type Option func(*Client)

func WithObserver(p observability.Provider) Option {
	return func(c *Client) { c.observer = p }
}

// WithRetry retries list pages on quota and server errors.
func WithRetry(cfg paginate.RetryConfig) Option {
	return func(c *Client) { c.retry = &cfg }
}

func New(service *youtube.Service, opts ...Option) *Client {
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

// totalOf returns the first page's totalResults, or fallback.
func totalOf[T any](res *paginate.Result[T], fallback int) int64 {
	if res.TotalHint != nil {
		return *res.TotalHint
	}
	return int64(fallback)
}

func pageInfoTotal(info *youtube.PageInfo) *int64 {
	if info == nil {
		return nil
	}
	total := info.TotalResults
	return &total
}
