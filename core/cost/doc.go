// Package cost describes what a tool call costs and keeps a running tally
// of spend across calls.
//
// [ToolMetrics] is the static price sheet attached to a tool at construction.
// [Summary] accumulates calls and spend, adding any per-call figure a vendor
// reports (Exa returns costDollars.total) on top of the static amount.
package cost
