package paginate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/leofalp/aigotools/internal/utils"
	"github.com/leofalp/aigotools/providers/observability"
	"github.com/leofalp/aigotools/providers/observability/slogobs"
)

// sliceSource serves items by offset and records every request it receives.
type sliceSource struct {
	items []int
	calls []PageRequest
	// extra is added to every page size to mimic sources that ignore the
	// requested size.
	extra int
}

func newSliceSource(n int) *sliceSource {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return &sliceSource{items: items}
}

func (s *sliceSource) FetchPage(_ context.Context, req PageRequest) (*Page[int], error) {
	s.calls = append(s.calls, req)
	start := min(req.Offset, len(s.items))
	end := min(start+req.Size+s.extra, len(s.items))
	page := &Page[int]{Items: s.items[start:end], Metadata: req.Index}
	if end < len(s.items) {
		page.NextToken = OffsetToken(end)
	}
	return page, nil
}

func double(n int) (int, error) { return n * 2, nil }

func TestAggregate_ZeroTarget(t *testing.T) {
	src := newSliceSource(10)

	res, err := Aggregate(context.Background(), src, double, Request{TargetCount: 0, PageSizeCap: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.calls) != 0 {
		t.Errorf("expected no fetch, got %d", len(src.calls))
	}
	if res.Len() != 0 || res.Reason != StopEmptyTarget {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestAggregate_SingleFetchWhenTargetFitsInPage(t *testing.T) {
	src := newSliceSource(100)

	res, err := Aggregate(context.Background(), src, double, Request{TargetCount: 15, PageSizeCap: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.calls) != 1 {
		t.Fatalf("expected 1 fetch, got %d", len(src.calls))
	}
	if src.calls[0].Size != 15 {
		t.Errorf("expected page size 15, got %d", src.calls[0].Size)
	}
	if res.Len() != 15 || res.Reason != StopTargetReached {
		t.Errorf("expected 15 records and target-reached, got %d %s", res.Len(), res.Reason)
	}
}

func TestAggregate_ExhaustsAfterShortPage(t *testing.T) {
	src := newSliceSource(45)

	res, err := Aggregate(context.Background(), src, double, Request{TargetCount: 100, PageSizeCap: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.calls) != 3 {
		t.Fatalf("expected 3 fetches, got %d", len(src.calls))
	}
	for i, call := range src.calls {
		if call.Size != 20 {
			t.Errorf("fetch %d: expected size 20, got %d", i, call.Size)
		}
		if call.Index != i || call.Offset != i*20 {
			t.Errorf("fetch %d: unexpected index/offset %d/%d", i, call.Index, call.Offset)
		}
	}
	if res.Len() != 45 || res.Reason != StopExhausted {
		t.Fatalf("expected 45 records and exhausted, got %d %s", res.Len(), res.Reason)
	}
	for i, r := range res.Records {
		if r != i*2 {
			t.Fatalf("record %d out of order: %d", i, r)
		}
	}
	if res.Pages != 3 {
		t.Errorf("expected 3 pages, got %d", res.Pages)
	}
}

func TestAggregate_ContinuationTokensArePassed(t *testing.T) {
	src := newSliceSource(50)

	_, err := Aggregate(context.Background(), src, double, Request{TargetCount: 50, PageSizeCap: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"", "20", "40"}
	for i, call := range src.calls {
		if call.Token != want[i] {
			t.Errorf("fetch %d: expected token %q, got %q", i, want[i], call.Token)
		}
	}
	if src.calls[2].Size != 10 {
		t.Errorf("expected last page size 10, got %d", src.calls[2].Size)
	}
}

func TestAggregate_ZeroItemPageWithToken(t *testing.T) {
	calls := 0
	src := SourceFunc[int](func(context.Context, PageRequest) (*Page[int], error) {
		calls++
		return &Page[int]{NextToken: "more"}, nil
	})

	res, err := Aggregate(context.Background(), src, double, Request{TargetCount: 10, PageSizeCap: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 fetch, got %d", calls)
	}
	if res.Reason != StopExhausted || res.Len() != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestAggregate_NilPageIsExhausted(t *testing.T) {
	src := SourceFunc[int](func(context.Context, PageRequest) (*Page[int], error) { return nil, nil })

	res, err := Aggregate(context.Background(), src, double, Request{TargetCount: 3, PageSizeCap: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != StopExhausted {
		t.Errorf("expected exhausted, got %s", res.Reason)
	}
}

func TestAggregate_MappingFailureIsSkipped(t *testing.T) {
	src := newSliceSource(10)
	mapper := func(n int) (string, error) {
		if n == 2 {
			return "", errors.New("bad record")
		}
		return fmt.Sprint(n), nil
	}

	res, err := Aggregate(context.Background(), src, mapper, Request{TargetCount: 10, PageSizeCap: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Len() != 9 {
		t.Fatalf("expected 9 records, got %d", res.Len())
	}
	if res.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", res.Skipped)
	}
	for _, r := range res.Records {
		if r == "2" {
			t.Error("failed item should not be present")
		}
	}
	if res.Reason != StopNoToken {
		t.Errorf("expected no-token, got %s", res.Reason)
	}
}

func TestAggregate_SkippedItemsDoNotCountTowardTarget(t *testing.T) {
	src := newSliceSource(30)
	mapper := func(n int) (int, error) {
		if n%2 == 1 {
			return 0, errors.New("odd")
		}
		return n, nil
	}

	res, err := Aggregate(context.Background(), src, mapper, Request{TargetCount: 10, PageSizeCap: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Len() != 10 {
		t.Fatalf("expected 10 records, got %d", res.Len())
	}
	// Pages: 0-9 (5 kept), 10-14 (3), 15-16 (1), 17 (0), 18 (1).
	if res.Skipped != 9 {
		t.Errorf("expected 9 skipped, got %d", res.Skipped)
	}
	if len(src.calls) != 5 {
		t.Errorf("expected 5 fetches, got %d", len(src.calls))
	}
	if src.calls[1].Size != 5 {
		t.Errorf("second page should ask for the remaining 5, got %d", src.calls[1].Size)
	}
}

func TestAggregate_OffsetCeiling(t *testing.T) {
	src := newSliceSource(100)

	res, err := Aggregate(context.Background(), src, double, Request{
		TargetCount: 30,
		PageSizeCap: 20,
		MaxOffset:   utils.Ptr(9),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.calls) != 1 {
		t.Errorf("expected 1 fetch, got %d", len(src.calls))
	}
	if res.Len() != 20 || res.Reason != StopOffsetCeiling {
		t.Errorf("expected 20 records and offset-ceiling, got %d %s", res.Len(), res.Reason)
	}
}

func TestAggregate_OffsetCeilingAllowsEqualPosition(t *testing.T) {
	src := newSliceSource(100)

	res, err := Aggregate(context.Background(), src, double, Request{
		TargetCount: 20,
		PageSizeCap: 3,
		MaxOffset:   utils.Ptr(9),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Positions 0, 3, 6, 9 are fetched; the next one, 12, is beyond the ceiling.
	if len(src.calls) != 4 {
		t.Errorf("expected 4 fetches, got %d", len(src.calls))
	}
	if res.Len() != 12 || res.Reason != StopOffsetCeiling {
		t.Errorf("expected 12 records and offset-ceiling, got %d %s", res.Len(), res.Reason)
	}
}

func TestAggregate_StartOffset(t *testing.T) {
	src := newSliceSource(100)

	res, err := Aggregate(context.Background(), src, double, Request{TargetCount: 5, PageSizeCap: 5, StartOffset: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.calls[0].Offset != 50 {
		t.Errorf("expected offset 50, got %d", src.calls[0].Offset)
	}
	if res.Records[0] != 100 {
		t.Errorf("expected first record 100, got %d", res.Records[0])
	}
}

func TestAggregate_TruncatesOversizedPage(t *testing.T) {
	src := newSliceSource(100)
	src.extra = 7

	res, err := Aggregate(context.Background(), src, double, Request{TargetCount: 12, PageSizeCap: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Len() != 12 {
		t.Errorf("expected 12 records, got %d", res.Len())
	}
}

func TestAggregate_MetadataFromFirstPageOnly(t *testing.T) {
	src := SourceFunc[int](func(_ context.Context, req PageRequest) (*Page[int], error) {
		total := int64(1000 + req.Index)
		return &Page[int]{
			Items:     make([]int, req.Size),
			NextToken: "next",
			TotalHint: &total,
			Metadata:  fmt.Sprintf("page-%d", req.Index),
		}, nil
	})

	res, err := Aggregate(context.Background(), src, double, Request{TargetCount: 30, PageSizeCap: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Metadata != "page-0" {
		t.Errorf("expected metadata from first page, got %v", res.Metadata)
	}
	if res.TotalHint == nil || *res.TotalHint != 1000 {
		t.Errorf("expected total hint 1000, got %v", res.TotalHint)
	}
}

func TestAggregate_FetchErrorReturnsPartial(t *testing.T) {
	boom := errors.New("quota exceeded")
	src := SourceFunc[int](func(_ context.Context, req PageRequest) (*Page[int], error) {
		if req.Index == 1 {
			return nil, boom
		}
		return &Page[int]{Items: make([]int, req.Size), NextToken: "next"}, nil
	})

	res, err := Aggregate(context.Background(), src, double, Request{TargetCount: 50, PageSizeCap: 20})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Index != 1 || fetchErr.Offset != 20 {
		t.Errorf("unexpected fetch error %+v", fetchErr)
	}
	if res == nil || !res.Partial || res.Len() != 20 {
		t.Fatalf("expected partial result with 20 records, got %+v", res)
	}
	if res.Reason != "" {
		t.Errorf("expected no stop reason, got %s", res.Reason)
	}
}

func TestAggregate_ContextCanceledBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	src := SourceFunc[int](func(_ context.Context, req PageRequest) (*Page[int], error) {
		calls++
		cancel()
		return &Page[int]{Items: make([]int, req.Size), NextToken: "next"}, nil
	})

	res, err := Aggregate(ctx, src, double, Request{TargetCount: 50, PageSizeCap: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrSourceUnavailable) {
		t.Error("cancellation should not look like a source failure")
	}
	if calls != 1 {
		t.Errorf("expected 1 fetch, got %d", calls)
	}
	if !res.Partial || res.Len() != 10 {
		t.Errorf("expected partial result with 10 records, got %+v", res)
	}
}

func TestAggregate_PageTimeout(t *testing.T) {
	src := SourceFunc[int](func(ctx context.Context, _ PageRequest) (*Page[int], error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	start := time.Now()
	_, err := Aggregate(context.Background(), src, double, Request{TargetCount: 5, PageSizeCap: 5}, WithPageTimeout(20*time.Millisecond))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected page timeout to be a fetch error, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("page timeout was not applied")
	}
}

func TestAggregate_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"negative target", Request{TargetCount: -1, PageSizeCap: 10}},
		{"zero cap", Request{TargetCount: 10, PageSizeCap: 0}},
		{"negative cap", Request{TargetCount: 10, PageSizeCap: -5}},
		{"negative ceiling", Request{TargetCount: 10, PageSizeCap: 5, MaxOffset: utils.Ptr(-1)}},
		{"negative start", Request{TargetCount: 10, PageSizeCap: 5, StartOffset: -3}},
		{"start past ceiling", Request{TargetCount: 10, PageSizeCap: 5, MaxOffset: utils.Ptr(9), StartOffset: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSliceSource(10)
			res, err := Aggregate(context.Background(), src, double, tt.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
			if res != nil {
				t.Error("expected nil result")
			}
			if len(src.calls) != 0 {
				t.Error("source must not be called")
			}
		})
	}
}

func TestAggregate_NilSource(t *testing.T) {
	_, err := Aggregate[int, int](context.Background(), nil, double, Request{TargetCount: 1, PageSizeCap: 1})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestAggregate_RunID(t *testing.T) {
	res, err := Aggregate(context.Background(), newSliceSource(3), double, Request{TargetCount: 3, PageSizeCap: 3}, WithRunID("run-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RunID != "run-1" {
		t.Errorf("expected run-1, got %s", res.RunID)
	}

	res, _ = Aggregate(context.Background(), newSliceSource(3), double, Request{TargetCount: 3, PageSizeCap: 3})
	if len(res.RunID) != 36 {
		t.Errorf("expected generated uuid, got %q", res.RunID)
	}
}

func TestAggregate_Observer(t *testing.T) {
	var buf bytes.Buffer
	obs := slogobs.New(slogobs.WithOutput(&buf), slogobs.WithLevel(slog.LevelDebug), slogobs.WithFormat(slogobs.FormatJSON))
	mapper := func(n int) (int, error) {
		if n == 4 {
			return 0, errors.New("bad")
		}
		return n, nil
	}

	_, err := Aggregate(context.Background(), newSliceSource(45), mapper, Request{TargetCount: 100, PageSizeCap: 20},
		WithObserver(obs), WithSourceName("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := obs.CounterValue(observability.MetricPaginatePages); got != 3 {
		t.Errorf("expected 3 pages counted, got %d", got)
	}
	if got := obs.CounterValue(observability.MetricPaginateSkipped); got != 1 {
		t.Errorf("expected 1 skipped counted, got %d", got)
	}
	out := buf.String()
	for _, want := range []string{"Skipping item that could not be mapped", "Aggregation finished", `"paginate.source":"test"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log output to contain %q", want)
		}
	}
}

func TestAggregate_ObserverFromContext(t *testing.T) {
	obs := slogobs.New(slogobs.WithOutput(&bytes.Buffer{}))
	ctx := observability.ContextWithProvider(context.Background(), obs)

	_, err := Aggregate(ctx, newSliceSource(5), double, Request{TargetCount: 5, PageSizeCap: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := obs.CounterValue(observability.MetricPaginatePages); got != 1 {
		t.Errorf("expected context observer to be used, got %d pages", got)
	}
}

func TestIdentity(t *testing.T) {
	v, err := Identity[string]()("x")
	if err != nil || v != "x" {
		t.Errorf("unexpected %q %v", v, err)
	}
}

func TestOffsetToken(t *testing.T) {
	n, err := ParseOffsetToken(OffsetToken(40))
	if err != nil || n != 40 {
		t.Errorf("round trip failed: %d %v", n, err)
	}
	if n, err := ParseOffsetToken(""); err != nil || n != 0 {
		t.Errorf("empty token: %d %v", n, err)
	}
	for _, bad := range []string{"abc", "-1"} {
		if _, err := ParseOffsetToken(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
