package webfetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/internal/utils"
	"github.com/leofalp/aigotools/providers/observability"
	"github.com/leofalp/aigotools/providers/tool"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "aigotools-webfetch/1.0"
	// BrowserUserAgent is sent when a page refuses non-browser clients.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	// MaxBodySize is the largest body accepted (10MB).
	MaxBodySize  = 10 * 1024 * 1024
	MaxRedirects = 10

	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 10 * time.Second
	idleConnTimeout       = 90 * time.Second
)

// NewWebFetchTool returns the page fetching tool.
//
//	fetchTool := webfetch.NewWebFetchTool()
//	catalog := tool.NewCatalogWithTools(fetchTool)
func NewWebFetchTool(opts ...Option) *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		"WebFetch",
		New(opts...).Fetch,
		tool.WithDescription("Fetches a web page and converts its HTML content to Markdown. Can also return the plain text of the page or the raw HTML. Handles partial URLs by adding https:// and follows redirects. Set browser_user_agent for sites that block bots."),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.0,
			Currency:                "USD",
			CostDescription:         "local HTTP request",
			Accuracy:                0.98,
			AverageDurationInMillis: 350,
		}),
	)
}

// Input holds the fetch parameters. Only URL is required.
type Input struct {
	URL              string `json:"url" jsonschema:"description=The URL of the web page to fetch (partial URLs like 'go.dev' get an https:// prefix),required"`
	TimeoutSeconds   int    `json:"timeout_seconds,omitempty" jsonschema:"description=Request timeout in seconds (default: 30 max: 300),minimum=1,maximum=300"`
	UserAgent        string `json:"user_agent,omitempty" jsonschema:"description=Custom User-Agent header for the request"`
	BrowserUserAgent bool   `json:"browser_user_agent,omitempty" jsonschema:"description=Send a desktop browser User-Agent"`
	IncludeText      bool   `json:"include_text,omitempty" jsonschema:"description=Also return the visible text of the page on a single line"`
	IncludeHTML      bool   `json:"include_html,omitempty" jsonschema:"description=Also return the raw HTML"`
}

// Output is the fetched page. URL is the address after redirects.
type Output struct {
	URL      string `json:"url" jsonschema:"description=The final URL after redirects and normalization"`
	Title    string `json:"title,omitempty" jsonschema:"description=Content of the title element"`
	Markdown string `json:"markdown" jsonschema:"description=The page content converted to Markdown"`
	Text     string `json:"text,omitempty" jsonschema:"description=Visible text of the page (only when include_text is set)"`
	HTML     string `json:"html,omitempty" jsonschema:"description=The raw HTML (only when include_html is set)"`
}

// Client fetches pages.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int
	observer    observability.Provider
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the per-request client. Its own timeout and
// redirect policy apply.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent changes the User-Agent sent when the input does not set one.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithMaxBodySize(n int) Option {
	return func(c *Client) { c.maxBodySize = n }
}

func WithObserver(p observability.Provider) Option {
	return func(c *Client) { c.observer = p }
}

// New returns a Client.
func New(opts ...Option) *Client {
	c := &Client{userAgent: DefaultUserAgent, maxBodySize: MaxBodySize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch runs [Client.Fetch] with a default client.
func Fetch(ctx context.Context, req Input) (Output, error) {
	return New().Fetch(ctx, req)
}

// Fetch retrieves req.URL. It fails on an empty URL, a non-200 status, an
// oversized body, a conversion error or when the timeout or ctx expires.
// The body is read in a goroutine so cancellation is honoured during slow
// reads.
func (c *Client) Fetch(ctx context.Context, req Input) (Output, error) {
	target := normalizeURL(req.URL)
	if target == "" {
		return Output{}, fmt.Errorf("URL cannot be empty")
	}

	observer := c.observer
	if observer == nil {
		observer = observability.OrNop(observability.ProviderFromContext(ctx))
	}

	timeout := DefaultTimeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(min(req.TimeoutSeconds, 300)) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Output{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.pickUserAgent(req))

	client := c.httpClient
	if client == nil {
		client = newHTTPClient(timeout)
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return Output{}, fmt.Errorf("request timeout or canceled: %w", err)
		}
		return Output{}, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Output{}, fmt.Errorf("unexpected status code: %d %s", resp.StatusCode, resp.Status)
	}

	page, err := c.readBody(ctx, resp.Body)
	if err != nil {
		return Output{}, err
	}

	markdown, err := htmltomarkdown.ConvertString(string(page))
	if err != nil {
		return Output{}, fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	title, text := extractText(page)
	out := Output{
		URL:      resp.Request.URL.String(),
		Title:    title,
		Markdown: markdown,
	}
	if req.IncludeText {
		out.Text = text
	}
	if req.IncludeHTML {
		out.HTML = string(page)
	}

	observer.Debug(ctx, "Page fetched",
		observability.String(observability.AttrHTTPURL, out.URL),
		observability.Int(observability.AttrHTTPStatusCode, resp.StatusCode),
		observability.Int(observability.AttrHTTPResponseBodySize, len(page)),
		observability.Duration(observability.AttrHTTPDuration, time.Since(start)),
	)
	return out, nil
}

func (c *Client) pickUserAgent(req Input) string {
	switch {
	case req.UserAgent != "":
		return req.UserAgent
	case req.BrowserUserAgent:
		return BrowserUserAgent
	default:
		return c.userAgent
	}
}

func (c *Client) readBody(ctx context.Context, body io.Reader) ([]byte, error) {
	type readResult struct {
		data []byte
		err  error
	}

	readChan := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(body, int64(c.maxBodySize)))
		readChan <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("timeout while reading response body: %w", ctx.Err())
	case result := <-readChan:
		if result.err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", result.err)
		}
		if len(result.data) >= c.maxBodySize {
			return nil, fmt.Errorf("response body exceeds maximum size of %d bytes", c.maxBodySize)
		}
		return result.data, nil
	}
}

func normalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			IdleConnTimeout:       idleConnTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			ForceAttemptHTTP2:     true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("too many redirects (>%d)", MaxRedirects)
			}
			return nil
		},
	}
}
