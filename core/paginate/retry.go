package paginate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/leofalp/aigotools/internal/utils"
	"github.com/leofalp/aigotools/providers/observability"
)

// RetryConfig tunes [WithRetry]. Zero values are replaced with the defaults
// documented on each field.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first failure.
	// Default: 3.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff. Default: 30s.
	MaxBackoff time.Duration

	// BackoffFactor is the exponential growth multiplier. Default: 2.0.
	BackoffFactor float64

	// JitterFraction adds up to JitterFraction*backoff of random noise.
	// Default: 0.1.
	JitterFraction float64

	// RetryableFunc reports whether err is worth another attempt. The
	// default retries HTTP 429, 500, 502, 503 and 529.
	RetryableFunc func(error) bool
}

var retryableStatus = []int{429, 500, 502, 503, 529}

func defaultRetryableFunc(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	if code := utils.StatusCodeOf(err); code != 0 {
		return slices.Contains(retryableStatus, code)
	}

	msg := err.Error()
	for _, code := range retryableStatus {
		if strings.Contains(msg, fmt.Sprint(code)) {
			return true
		}
	}
	return false
}

func applyRetryDefaults(config *RetryConfig) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = 30 * time.Second
	}
	if config.BackoffFactor == 0 {
		config.BackoffFactor = 2.0
	}
	if config.JitterFraction == 0 {
		config.JitterFraction = 0.1
	}
	if config.RetryableFunc == nil {
		config.RetryableFunc = defaultRetryableFunc
	}
}

// computeBackoff returns min(InitialBackoff*BackoffFactor^attempt, MaxBackoff)
// plus jitter, for a 0-indexed attempt.
func computeBackoff(config RetryConfig, attempt int) time.Duration {
	base := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt))
	if base > float64(config.MaxBackoff) {
		base = float64(config.MaxBackoff)
	}

	jitter := base * config.JitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter
	return time.Duration(base + jitter)
}

// WithRetry wraps source so that retryable fetch failures are attempted
// again with exponential backoff. The wait between attempts honours ctx.
//
// On exhaustion the error wraps both [ErrRetryExhausted] and the last fetch
// error.
func WithRetry[R any](source Source[R], config RetryConfig) Source[R] {
	applyRetryDefaults(&config)

	return SourceFunc[R](func(ctx context.Context, req PageRequest) (*Page[R], error) {
		var lastErr error

		for attempt := 0; attempt <= config.MaxRetries; attempt++ {
			if attempt > 0 {
				backoff := computeBackoff(config, attempt-1)
				if span := observability.SpanFromContext(ctx); span != nil {
					span.AddEvent(observability.EventRetryBackoff,
						observability.Int(observability.AttrPaginatePageIndex, req.Index),
						observability.Int(observability.AttrPaginateAttempt, attempt),
						observability.Duration(observability.AttrPaginateBackoff, backoff),
						observability.Error(lastErr),
					)
				}

				timer := time.NewTimer(backoff)
				select {
				case <-ctx.Done():
					timer.Stop()
					return nil, ctx.Err()
				case <-timer.C:
				}
			}

			page, err := source.FetchPage(ctx, req)
			if err == nil {
				return page, nil
			}

			lastErr = err
			if !config.RetryableFunc(err) {
				return nil, err
			}
		}

		return nil, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.MaxRetries, lastErr)
	})
}
