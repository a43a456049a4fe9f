package observability

// Tool execution attributes.
const (
	AttrToolName     = "tool.name"
	AttrToolInput    = "tool.input"
	AttrToolOutput   = "tool.output"
	AttrToolDuration = "tool.duration"
	AttrToolError    = "tool.error"

	AttrToolCostAmount      = "tool.cost.amount"
	AttrToolCostCurrency    = "tool.cost.currency"
	AttrToolCostDescription = "tool.cost.description"
	AttrToolCostDynamic     = "tool.cost.dynamic"
	AttrToolAccuracy        = "tool.metrics.accuracy"
	AttrToolAvgDurationMs   = "tool.metrics.avg_duration_ms"
)

// Pagination attributes.
const (
	AttrPaginateRunID       = "paginate.run_id"
	AttrPaginateSource      = "paginate.source"
	AttrPaginateTarget      = "paginate.target_count"
	AttrPaginatePageSizeCap = "paginate.page_size_cap"
	AttrPaginateMaxOffset   = "paginate.max_offset"
	AttrPaginatePageIndex   = "paginate.page.index"
	AttrPaginatePageSize    = "paginate.page.size"
	AttrPaginatePageItems   = "paginate.page.items"
	AttrPaginatePageOffset  = "paginate.page.offset"
	AttrPaginateAccumulated = "paginate.accumulated"
	AttrPaginateSkipped     = "paginate.skipped"
	AttrPaginateStopReason  = "paginate.stop_reason"
	AttrPaginateAttempt     = "paginate.retry.attempt"
	AttrPaginateBackoff     = "paginate.retry.backoff"
)

// HTTP attributes.
const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
	AttrHTTPDuration         = "http.request.duration"
)

// MCP server attributes.
const (
	AttrMCPServerName = "mcp.server.name"
	AttrMCPToolCount  = "mcp.tools_count"
	AttrCostTotal     = "cost.total"
)

// General attributes.
const (
	AttrError             = "error"
	AttrErrorType         = "error.type"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// Span names.
const (
	SpanToolExecution = "tool.execution"
	SpanAggregate     = "paginate.aggregate"
	SpanMCPToolCall   = "mcp.tool_call"
)

// Event names.
const (
	EventToolExecutionStart = "tool.execution.start"
	EventToolExecutionEnd   = "tool.execution.end"

	EventPageFetched  = "paginate.page.fetched"
	EventPageFailed   = "paginate.page.failed"
	EventItemSkipped  = "paginate.item.skipped"
	EventStop         = "paginate.stop"
	EventRetryBackoff = "paginate.retry.backoff"

	EventHTTPRequestPrepared = "http.request.prepared"
	EventHTTPResponse        = "http.response.received"
	EventHTTPError           = "http.request.error"
)

// Metric names.
const (
	MetricPaginatePages        = "aigotools.paginate.pages"
	MetricPaginatePageDuration = "aigotools.paginate.page.duration"
	MetricPaginateSkipped      = "aigotools.paginate.skipped"
	MetricToolCalls            = "aigotools.tool.calls"
	MetricToolErrors           = "aigotools.tool.errors"
	MetricToolDuration         = "aigotools.tool.duration"
)
