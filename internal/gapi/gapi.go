// Package gapi holds helpers shared by the tools built on the Google API
// client libraries.
package gapi

import (
	"context"
	"errors"
	"slices"

	"google.golang.org/api/googleapi"

	"github.com/leofalp/aigotools/core/paginate"
)

var retryableCodes = []int{429, 500, 502, 503, 504}

var rateLimitReasons = []string{"rateLimitExceeded", "userRateLimitExceeded"}

// Retryable reports whether err is a transient Google API failure. A 403
// counts when its reason is a rate limit.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return errors.Is(err, context.DeadlineExceeded)
	}
	if slices.Contains(retryableCodes, gerr.Code) {
		return true
	}
	if gerr.Code == 403 {
		for _, item := range gerr.Errors {
			if slices.Contains(rateLimitReasons, item.Reason) {
				return true
			}
		}
	}
	return false
}

// WithRetry wraps source with retries when cfg is non-nil. Errors are
// classified with [Retryable] unless cfg sets its own RetryableFunc.
func WithRetry[R any](source paginate.Source[R], cfg *paginate.RetryConfig) paginate.Source[R] {
	if cfg == nil {
		return source
	}
	c := *cfg
	if c.RetryableFunc == nil {
		c.RetryableFunc = Retryable
	}
	return paginate.WithRetry(source, c)
}
