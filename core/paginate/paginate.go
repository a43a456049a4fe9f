package paginate

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request bounds one aggregation.
type Request struct {
	// TargetCount is the number of records wanted. Zero returns an empty
	// result without fetching.
	TargetCount int `json:"target_count" validate:"gte=0"`

	// PageSizeCap is the largest page the source accepts.
	PageSizeCap int `json:"page_size_cap" validate:"gt=0"`

	// MaxOffset is an optional position ceiling imposed by the source.
	MaxOffset *int `json:"max_offset,omitempty" validate:"omitempty,gte=0"`

	// StartOffset is the position of the first item for offset-based sources.
	// It must not exceed MaxOffset.
	StartOffset int `json:"start_offset,omitempty" validate:"gte=0"`
}

// Validate reports an error wrapping [ErrInvalidRequest] when r is unusable.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if r.MaxOffset != nil && r.StartOffset > *r.MaxOffset {
		return fmt.Errorf("%w: start offset %d exceeds max offset %d", ErrInvalidRequest, r.StartOffset, *r.MaxOffset)
	}
	return nil
}

// PageRequest describes a single page fetch.
type PageRequest struct {
	// Token is the continuation token returned by the previous page, empty
	// on the first call.
	Token string
	// Size is the number of items wanted from this page. It never exceeds
	// the request's PageSizeCap.
	Size int
	// Offset is the position of the first item of this page: StartOffset
	// plus every raw item returned so far.
	Offset int
	// Index is the 0-based page number.
	Index int
}

// Page is what a source returns for one PageRequest.
type Page[R any] struct {
	Items []R
	// NextToken is empty when no further pages exist. Offset-based sources
	// return [OffsetToken] of the next position.
	NextToken string
	// TotalHint is the provider's estimate of the total number of items.
	TotalHint *int64
	// Metadata is anything the caller wants carried through from the first
	// page (response envelope, cost figure).
	Metadata any
}

// Source fetches pages of raw items.
type Source[R any] interface {
	FetchPage(ctx context.Context, req PageRequest) (*Page[R], error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc[R any] func(ctx context.Context, req PageRequest) (*Page[R], error)

// FetchPage calls f.
func (f SourceFunc[R]) FetchPage(ctx context.Context, req PageRequest) (*Page[R], error) {
	return f(ctx, req)
}

// Mapper converts one raw item into an output record. A returned error skips
// the item.
type Mapper[R, T any] func(R) (T, error)

// Identity returns a mapper that passes items through unchanged.
func Identity[R any]() Mapper[R, R] {
	return func(r R) (R, error) { return r, nil }
}

// StopReason tells why an aggregation ended.
type StopReason string

const (
	StopEmptyTarget   StopReason = "empty-target"
	StopTargetReached StopReason = "target-reached"
	StopExhausted     StopReason = "exhausted"
	StopNoToken       StopReason = "no-token"
	StopOffsetCeiling StopReason = "offset-ceiling"
)

// Result is the outcome of [Aggregate].
type Result[T any] struct {
	// Records holds at most TargetCount records in page order, then
	// in-page order.
	Records []T
	// Metadata and TotalHint come from the first page only.
	Metadata  any
	TotalHint *int64
	// Pages is the number of successful page fetches.
	Pages int
	// Skipped counts items whose mapping failed.
	Skipped int
	// Reason is empty when the run was cut short by an error.
	Reason StopReason
	// Partial is set when an error ended the run; Records holds what was
	// accumulated before it.
	Partial bool
	RunID   string
}

// Len returns the number of records.
func (r *Result[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Records)
}
