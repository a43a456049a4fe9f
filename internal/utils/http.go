package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leofalp/aigotools/providers/observability"
)

// MaxResponseBytes caps how much of a response body is read.
const MaxResponseBytes = 10 << 20

// Request describes one HTTP round trip. Body, when non-nil, is sent as JSON.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   any
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, TruncateString(e.Body, 500))
}

// StatusCodeOf returns the status carried by a *StatusError in err's chain,
// or 0.
func StatusCodeOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Do performs req and returns the raw body of a 2xx response. Non-2xx
// responses yield a *StatusError carrying the body. Span events are added
// when ctx carries a span.
func Do(ctx context.Context, client *http.Client, req Request) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	span := observability.SpanFromContext(ctx)

	var body io.Reader
	var size int
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling body: %w", err)
		}
		body = bytes.NewReader(encoded)
		size = len(encoded)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	for k, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPRequestPrepared,
			observability.String(observability.AttrHTTPMethod, method),
			observability.String(observability.AttrHTTPURL, req.URL),
			observability.Int(observability.AttrHTTPRequestBodySize, size),
		)
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		if span != nil {
			span.AddEvent(observability.EventHTTPError,
				observability.Error(err),
				observability.Duration(observability.AttrHTTPDuration, elapsed),
			)
		}
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer CloseWithLog(resp.Body)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPResponse,
			observability.Int(observability.AttrHTTPStatusCode, resp.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration(observability.AttrHTTPDuration, elapsed),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return respBody, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

// DoJSON performs req and decodes a 2xx JSON response into T. An empty
// body (204) yields a zero T.
func DoJSON[T any](ctx context.Context, client *http.Client, req Request) (*T, error) {
	body, err := Do(ctx, client, req)
	if err != nil {
		return nil, err
	}

	var out T
	if len(bytes.TrimSpace(body)) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("error parsing response: %w (body: %s)", err, TruncateString(string(body), 200))
	}
	return &out, nil
}

// CloseWithLog closes c and logs a failure at warn level.
func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
