// Package webfetch fetches a web page and returns its content as Markdown,
// optionally as plain text and raw HTML as well.
//
// [NewWebFetchTool] exposes the fetcher as a tool; [Fetch] and
// [Client.Fetch] can be called directly. Partial URLs get an https://
// prefix, up to ten redirects are followed, bodies larger than
// [MaxBodySize] are rejected and every request is bounded by a timeout.
package webfetch
