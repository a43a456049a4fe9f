package exa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/internal/utils"
	"github.com/leofalp/aigotools/providers/observability"
)

const (
	defaultBaseURL = "https://api.exa.ai"
	envAPIKey      = "EXA_API_KEY"
	maxResults     = 100
	defaultResults = 10
)

// Client calls the Exa API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	observer   observability.Provider
	retry      *paginate.RetryConfig
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the key. Without it EXA_API_KEY is read at call time.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithObserver(p observability.Provider) Option {
	return func(c *Client) { c.observer = p }
}

// WithRetry retries failed requests with backoff.
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
	if key := os.Getenv(envAPIKey); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s environment variable is not set", envAPIKey)
}

// post sends body to path and returns the raw response. API errors are
// reported with the message Exa puts in the body when there is one.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	apiKey, err := c.key()
	if err != nil {
		return nil, err
	}

	resp, err := utils.Do(ctx, c.httpClient, utils.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + path,
		Header: http.Header{"x-api-key": {apiKey}},
		Body:   body,
	})
	if err != nil {
		var se *utils.StatusError
		if errors.As(err, &se) {
			var apiErr exaAPIError
			if json.Unmarshal([]byte(se.Body), &apiErr) == nil {
				if msg := apiErr.message(); msg != "" {
					return nil, fmt.Errorf("exa API error (status %d): %s: %w", se.StatusCode, msg, se)
				}
			}
		}
		return nil, err
	}
	return resp, nil
}

// collect runs a single-page aggregation over the items returned by fetch.
// size bounds the number of items kept.
func collect[R, T any](ctx context.Context, c *Client, size int, fetch func(context.Context, int) ([]R, *envelope, error), mapper paginate.Mapper[R, T]) (*paginate.Result[T], *envelope, error) {
	var source paginate.Source[R] = paginate.SourceFunc[R](func(ctx context.Context, req paginate.PageRequest) (*paginate.Page[R], error) {
		items, env, err := fetch(ctx, req.Size)
		if err != nil {
			return nil, err
		}
		return &paginate.Page[R]{Items: items, Metadata: env}, nil
	})
	if c.retry != nil {
		source = paginate.WithRetry(source, *c.retry)
	}

	opts := []paginate.Option{paginate.WithSourceName("exa")}
	if c.observer != nil {
		opts = append(opts, paginate.WithObserver(c.observer))
	}

	res, err := paginate.Aggregate(ctx, source, mapper, paginate.Request{TargetCount: size, PageSizeCap: size}, opts...)
	if err != nil {
		return nil, nil, err
	}
	env, _ := res.Metadata.(*envelope)
	if env == nil {
		env = &envelope{}
	}
	return res, env, nil
}

func clampResults(n int) int {
	if n <= 0 {
		return defaultResults
	}
	return min(n, maxResults)
}

func contentsOptions(text, highlights bool) map[string]any {
	if !text && !highlights {
		return nil
	}
	contents := map[string]any{}
	if text {
		contents["text"] = true
	}
	if highlights {
		contents["highlights"] = map[string]any{
			"numSentences":     3,
			"highlightsPerUrl": 3,
		}
	}
	return contents
}
