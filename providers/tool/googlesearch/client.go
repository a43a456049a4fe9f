package googlesearch

import (
	"net/http"
	"strings"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/providers/observability"
)

const (
	defaultBaseURL = "https://www.google.com"
	// Google only serves the light layout to text browsers.
	defaultUserAgent = "Lynx/2.9.0dev.12 libwww-FM/2.14 SSL-MM/1.4.1 GNUTLS/3.7.8"
)

// Client scrapes Google search result pages.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	observer   observability.Provider
	retry      *paginate.RetryConfig
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithObserver(p observability.Provider) Option {
	return func(c *Client) { c.observer = p }
}

// WithRetry retries pages that fail with a retryable error, 429 included.
func WithRetry(cfg paginate.RetryConfig) Option {
	return func(c *Client) { c.retry = &cfg }
}

// New returns a Client.
func New(opts ...Option) *Client {
	c := &Client{baseURL: defaultBaseURL, userAgent: defaultUserAgent, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) aggregateOptions() []paginate.Option {
	opts := []paginate.Option{paginate.WithSourceName("googlesearch")}
	if c.observer != nil {
		opts = append(opts, paginate.WithObserver(c.observer))
	}
	return opts
}
