package paginate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned before any fetch when the request is
	// malformed (negative target, non-positive page size cap).
	ErrInvalidRequest = errors.New("paginate: invalid request")

	// ErrSourceUnavailable matches every [FetchError].
	ErrSourceUnavailable = errors.New("paginate: source unavailable")

	// ErrRetryExhausted is returned by a [WithRetry] source when all attempts
	// failed. The last underlying error is wrapped alongside it.
	ErrRetryExhausted = errors.New("paginate: all retry attempts exhausted")
)

// FetchError reports a failed page fetch.
type FetchError struct {
	Index  int
	Offset int
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("paginate: fetching page %d (offset %d): %v", e.Index, e.Offset, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSourceUnavailable) true for any FetchError.
func (e *FetchError) Is(target error) bool { return target == ErrSourceUnavailable }
