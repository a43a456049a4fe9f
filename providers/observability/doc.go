// Package observability defines the tracing, metrics and logging contracts
// shared by the aggregator, the tools and the MCP server.
//
// Library code never reaches for a global logger. A [Provider] is injected
// (paginate.WithObserver, a tool client option, the server constructor) and
// the active [Span] travels in the [context.Context] via [ContextWithSpan].
// Concrete providers live in the slogobs and zerologobs sub-packages; [Nop]
// discards everything.
//
// semconv.go holds the attribute keys, span names, event names and metric
// names used across the repository.
package observability
