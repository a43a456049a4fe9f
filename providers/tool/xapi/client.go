package xapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/dghubble/oauth1"
	"github.com/tidwall/gjson"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/internal/utils"
	"github.com/leofalp/aigotools/providers/observability"
)

const defaultBaseURL = "https://api.x.com/2"

// Credentials are the OAuth 1.0a user-context keys of an X app.
type Credentials struct {
	ConsumerKey       string `mapstructure:"consumer_key"`
	ConsumerSecret    string `mapstructure:"consumer_secret"`
	AccessToken       string `mapstructure:"access_token"`
	AccessTokenSecret string `mapstructure:"access_token_secret"`
}

// Valid reports whether every key is set.
func (c Credentials) Valid() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" && c.AccessToken != "" && c.AccessTokenSecret != ""
}

// HTTPClient returns a client that signs every request with creds.
func HTTPClient(ctx context.Context, creds Credentials) (*http.Client, error) {
	if !creds.Valid() {
		return nil, errors.New("x credentials require consumer key, consumer secret, access token and access token secret")
	}
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	return config.Client(ctx, oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)), nil
}

// Client calls the X API v2.
type Client struct {
	httpClient *http.Client
	baseURL    string
	observer   observability.Provider
	retry      *paginate.RetryConfig

	mu     sync.Mutex
	userID string
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithObserver(p observability.Provider) Option {
	return func(c *Client) { c.observer = p }
}

// WithRetry retries list pages on 429 and server errors.
func WithRetry(cfg paginate.RetryConfig) Option {
	return func(c *Client) { c.retry = &cfg }
}

// WithUserID sets the acting user and skips the /users/me lookup.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

// New returns a Client sending requests through httpClient.
func New(httpClient *http.Client, opts ...Option) *Client {
	c := &Client{httpClient: httpClient, baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// me returns the acting user's id, looking it up on first use.
func (c *Client) me(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID != "" {
		return c.userID, nil
	}

	body, err := c.do(ctx, http.MethodGet, "/users/me", nil, nil)
	if err != nil {
		return "", fmt.Errorf("error resolving authenticated user: %w", err)
	}
	id := gjson.GetBytes(body, "data.id").String()
	if id == "" {
		return "", fmt.Errorf("error resolving authenticated user: response has no data.id")
	}
	c.userID = id
	return id, nil
}

// do sends one request and returns the body. X error payloads are folded
// into the returned error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	resp, err := utils.Do(ctx, c.httpClient, utils.Request{Method: method, URL: u, Body: body})
	if err != nil {
		var se *utils.StatusError
		if errors.As(err, &se) {
			if msg := errorMessage([]byte(se.Body)); msg != "" {
				return nil, fmt.Errorf("x API error (status %d): %s: %w", se.StatusCode, msg, se)
			}
		}
		return nil, err
	}
	return resp, nil
}

// errorMessage extracts the most specific message of an X error payload.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"detail", "errors.0.detail", "errors.0.message", "title"} {
		if msg := gjson.GetBytes(body, path).String(); msg != "" {
			return msg
		}
	}
	return ""
}

func (c *Client) aggregateOptions(name string) []paginate.Option {
	opts := []paginate.Option{paginate.WithSourceName(name)}
	if c.observer != nil {
		opts = append(opts, paginate.WithObserver(c.observer))
	}
	return opts
}
