// Package bravesearch wraps the Brave Search web endpoint.
//
// Results are collected with the paginate aggregator: each page asks for up
// to Count results (at most 20) at an item offset, pages are fetched until
// TotalResults is reached, and the API's offset ceiling of 9 stops the loop
// early. [Search] returns a compact summary; [SearchAdvanced] returns the
// first response envelope (news, videos, infobox...) with its web results
// replaced by the aggregated list.
//
// The API key comes from [WithAPIKey] or the BRAVE_SEARCH_API_KEY
// environment variable.
package bravesearch
