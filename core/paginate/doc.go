// Package paginate implements the bounded aggregation loop shared by every
// paged tool: fetch pages from a [Source] one after another, map each raw
// item with a [Mapper], and stop as soon as the target count is reached or
// the source signals that no more items exist.
//
// A page fetch asks for min(PageSizeCap, TargetCount-accumulated) items. The
// loop stops, in this order, when
//
//   - the page returned fewer raw items than requested (a zero-item page
//     counts as exhausted even when it carries a continuation token),
//   - the accumulated records reach TargetCount (the surplus is truncated),
//   - the page carries no continuation token,
//   - MaxOffset is set and the next position would exceed it.
//
// Items that fail to map are skipped, logged and counted in
// [Result.Skipped]. They do not count toward the target.
//
// Pages are fetched strictly sequentially. Fetch failures are not retried by
// [Aggregate]; wrap the source with [WithRetry] to opt into retries.
//
// Example:
//
//	res, err := paginate.Aggregate(ctx, source, mapResult, paginate.Request{
//	    TargetCount: 30,
//	    PageSizeCap: 20,
//	    MaxOffset:   utils.Ptr(9),
//	}, paginate.WithObserver(obs))
package paginate
