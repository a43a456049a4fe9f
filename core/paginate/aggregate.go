package paginate

import (
	"context"
	"fmt"
	"time"

	"github.com/leofalp/aigotools/providers/observability"
)

// Aggregate fetches pages from source and maps their items until req is
// satisfied or the source runs dry.
//
// On a fetch failure or context cancellation the returned Result holds the
// records accumulated so far with Partial set, next to the error. Fetch
// failures are reported as *[FetchError] and match [ErrSourceUnavailable].
func Aggregate[R, T any](ctx context.Context, source Source[R], mapper Mapper[R, T], req Request, opts ...Option) (*Result[T], error) {
	if source == nil || mapper == nil {
		return nil, fmt.Errorf("%w: source and mapper are required", ErrInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg := newConfig(opts...)
	obs := cfg.observer
	if obs == nil {
		obs = observability.OrNop(observability.ProviderFromContext(ctx))
	}

	result := &Result[T]{RunID: cfg.runID}
	base := []observability.Attribute{
		observability.String(observability.AttrPaginateRunID, cfg.runID),
	}
	if cfg.sourceName != "" {
		base = append(base, observability.String(observability.AttrPaginateSource, cfg.sourceName))
	}

	if req.TargetCount == 0 {
		result.Reason = StopEmptyTarget
		obs.Debug(ctx, "Aggregation skipped, target count is zero", base...)
		return result, nil
	}

	spanAttrs := with(base,
		observability.Int(observability.AttrPaginateTarget, req.TargetCount),
		observability.Int(observability.AttrPaginatePageSizeCap, req.PageSizeCap),
	)
	if req.MaxOffset != nil {
		spanAttrs = append(spanAttrs, observability.Int(observability.AttrPaginateMaxOffset, *req.MaxOffset))
	}
	ctx, span := obs.StartSpan(ctx, observability.SpanAggregate, spanAttrs...)
	defer span.End()

	pages := obs.Counter(observability.MetricPaginatePages)
	durations := obs.Histogram(observability.MetricPaginatePageDuration)
	skipped := obs.Counter(observability.MetricPaginateSkipped)

	records := make([]T, 0, min(req.TargetCount, req.PageSizeCap))
	token := ""
	offset := req.StartOffset

	fail := func(err error) (*Result[T], error) {
		result.Records = records
		result.Partial = true
		span.RecordError(err)
		span.SetStatus(observability.StatusError, err.Error())
		obs.Error(ctx, "Aggregation failed",
			with(base,
				observability.Int(observability.AttrPaginatePageIndex, result.Pages),
				observability.Int(observability.AttrPaginateAccumulated, len(records)),
				observability.Error(err),
			)...)
		return result, err
	}

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("aggregation stopped after %d pages: %w", result.Pages, err))
		}

		batch := min(req.PageSizeCap, req.TargetCount-len(records))
		if batch <= 0 {
			result.Reason = StopTargetReached
			break
		}

		pageReq := PageRequest{Token: token, Size: batch, Offset: offset, Index: index}
		start := time.Now()
		page, err := fetch(ctx, source, pageReq, cfg.pageTimeout)
		elapsed := time.Since(start)

		pageAttrs := with(base,
			observability.Int(observability.AttrPaginatePageIndex, index),
			observability.Int(observability.AttrPaginatePageSize, batch),
			observability.Int(observability.AttrPaginatePageOffset, offset),
		)
		durations.Record(ctx, float64(elapsed.Milliseconds()), pageAttrs...)

		if err != nil {
			span.AddEvent(observability.EventPageFailed, with(pageAttrs, observability.Error(err))...)
			return fail(&FetchError{Index: index, Offset: offset, Err: err})
		}
		if page == nil {
			page = &Page[R]{}
		}

		result.Pages++
		pages.Add(ctx, 1, base...)
		if index == 0 {
			result.Metadata = page.Metadata
			result.TotalHint = page.TotalHint
		}

		for i, item := range page.Items {
			record, err := mapper(item)
			if err != nil {
				result.Skipped++
				skipped.Add(ctx, 1, base...)
				span.AddEvent(observability.EventItemSkipped, observability.Int(observability.AttrPaginatePageIndex, index), observability.Error(err))
				obs.Warn(ctx, "Skipping item that could not be mapped",
					with(base,
						observability.Int(observability.AttrPaginatePageIndex, index),
						observability.Int(observability.AttrPaginatePageOffset, offset+i),
						observability.Error(err),
					)...)
				continue
			}
			records = append(records, record)
		}

		raw := len(page.Items)
		span.AddEvent(observability.EventPageFetched,
			with(pageAttrs,
				observability.Int(observability.AttrPaginatePageItems, raw),
				observability.Int(observability.AttrPaginateAccumulated, len(records)),
				observability.Duration(observability.AttrDuration, elapsed),
			)...)
		obs.Debug(ctx, "Page fetched",
			with(pageAttrs,
				observability.Int(observability.AttrPaginatePageItems, raw),
				observability.Int(observability.AttrPaginateAccumulated, len(records)),
			)...)

		if raw < batch {
			result.Reason = StopExhausted
			break
		}
		if len(records) >= req.TargetCount {
			result.Reason = StopTargetReached
			break
		}
		if page.NextToken == "" {
			result.Reason = StopNoToken
			break
		}
		next := offset + raw
		if req.MaxOffset != nil && next > *req.MaxOffset {
			result.Reason = StopOffsetCeiling
			break
		}

		token = page.NextToken
		offset = next
	}

	if len(records) > req.TargetCount {
		records = records[:req.TargetCount]
	}
	result.Records = records

	stopAttrs := with(base,
		observability.String(observability.AttrPaginateStopReason, string(result.Reason)),
		observability.Int(observability.AttrPaginateAccumulated, len(records)),
		observability.Int(observability.AttrPaginateSkipped, result.Skipped),
	)
	span.AddEvent(observability.EventStop, stopAttrs...)
	span.SetAttributes(stopAttrs...)
	span.SetStatus(observability.StatusOK, "")
	obs.Debug(ctx, "Aggregation finished", with(stopAttrs, observability.Int(observability.AttrPaginatePageIndex, result.Pages))...)

	return result, nil
}

func fetch[R any](ctx context.Context, source Source[R], req PageRequest, timeout time.Duration) (*Page[R], error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return source.FetchPage(ctx, req)
}

// with returns a new slice so attribute sets never share backing arrays.
func with(attrs []observability.Attribute, more ...observability.Attribute) []observability.Attribute {
	out := make([]observability.Attribute, 0, len(attrs)+len(more))
	return append(append(out, attrs...), more...)
}
