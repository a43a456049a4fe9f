// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans, metrics and log lines all become slog records routed through a
// [Handler] that prints either a compact single line or JSON. [New] reads
// AIGOTOOLS_LOG_FORMAT and AIGOTOOLS_LOG_LEVEL when no explicit options are
// given.
package slogobs
