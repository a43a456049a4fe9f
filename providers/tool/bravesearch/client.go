package bravesearch

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/providers/observability"
)

const (
	defaultBaseURL = "https://api.search.brave.com/res/v1"
	apiKeyEnv      = "BRAVE_SEARCH_API_KEY"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Client calls the Brave Search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	observer   observability.Provider
	retry      *paginate.RetryConfig
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the subscription token. Without it BRAVE_SEARCH_API_KEY is
// read at call time.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL points the client at another host, typically a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver sets the provider used for aggregation spans and logs.
func WithObserver(p observability.Provider) Option {
	return func(c *Client) { c.observer = p }
}

// WithRetry retries failed page fetches.
func WithRetry(cfg paginate.RetryConfig) Option {
	return func(c *Client) { c.retry = &cfg }
}

// New returns a Client.
func New(opts ...Option) *Client {
	c := &Client{baseURL: defaultBaseURL, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) key() (string, error) {
	if c.apiKey != "" {
		return c.apiKey, nil
	}
	if key := os.Getenv(apiKeyEnv); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s environment variable is not set", apiKeyEnv)
}

func (c *Client) aggregateOptions() []paginate.Option {
	opts := []paginate.Option{paginate.WithSourceName("bravesearch")}
	if c.observer != nil {
		opts = append(opts, paginate.WithObserver(c.observer))
	}
	return opts
}
