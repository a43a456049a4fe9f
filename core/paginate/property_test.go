package paginate

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestAggregate_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("length is min(target, available)", prop.ForAll(
		func(available, target, pageCap int) bool {
			res, err := Aggregate(context.Background(), newSliceSource(available), double, Request{TargetCount: target, PageSizeCap: pageCap})
			if err != nil {
				return false
			}
			return res.Len() == min(target, available)
		},
		gen.IntRange(0, 300),
		gen.IntRange(0, 300),
		gen.IntRange(1, 60),
	))

	properties.Property("records keep source order", prop.ForAll(
		func(available, target, pageCap int) bool {
			res, err := Aggregate(context.Background(), newSliceSource(available), double, Request{TargetCount: target, PageSizeCap: pageCap})
			if err != nil {
				return false
			}
			for i, r := range res.Records {
				if r != i*2 {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 300),
		gen.IntRange(0, 300),
		gen.IntRange(1, 60),
	))

	properties.Property("fetch count bounded by ceil(target/cap)+1", prop.ForAll(
		func(available, target, pageCap int) bool {
			src := newSliceSource(available)
			if _, err := Aggregate(context.Background(), src, double, Request{TargetCount: target, PageSizeCap: pageCap}); err != nil {
				return false
			}
			limit := (target+pageCap-1)/pageCap + 1
			return len(src.calls) <= limit
		},
		gen.IntRange(0, 300),
		gen.IntRange(0, 300),
		gen.IntRange(1, 60),
	))

	properties.Property("page size never exceeds cap or remaining target", prop.ForAll(
		func(available, target, pageCap int) bool {
			src := newSliceSource(available)
			if _, err := Aggregate(context.Background(), src, double, Request{TargetCount: target, PageSizeCap: pageCap}); err != nil {
				return false
			}
			fetched := 0
			for _, call := range src.calls {
				if call.Size <= 0 || call.Size > pageCap || call.Size > target-fetched {
					return false
				}
				fetched += min(call.Size, available-call.Offset)
			}
			return true
		},
		gen.IntRange(0, 300),
		gen.IntRange(1, 300),
		gen.IntRange(1, 60),
	))

	properties.Property("no fetch after a short page", prop.ForAll(
		func(available, target, pageCap int) bool {
			src := newSliceSource(available)
			if _, err := Aggregate(context.Background(), src, double, Request{TargetCount: target, PageSizeCap: pageCap}); err != nil {
				return false
			}
			for i, call := range src.calls {
				returned := max(0, min(call.Size, available-call.Offset))
				if returned < call.Size && i != len(src.calls)-1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 300),
		gen.IntRange(1, 300),
		gen.IntRange(1, 60),
	))

	properties.TestingRun(t)
}
