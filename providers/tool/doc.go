// Package tool turns typed Go functions into tools that an agent, the MCP
// server or the CLI can discover and call with JSON input.
//
// [NewTool] derives input and output JSON schemas by reflection;
// [WithDescription] and [WithMetrics] attach the text and cost profile that
// callers see. [Catalog] is a concurrency-safe registry keyed by
// case-insensitive tool name.
//
// Input JSON is parsed leniently (see core/parse), so slightly malformed
// arguments produced by a language model are repaired before decoding.
package tool
