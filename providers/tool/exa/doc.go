// Package exa wraps the Exa search API: semantic search ([Client.Search],
// [Client.SearchAdvanced]), similarity search ([Client.FindSimilar]),
// grounded answers ([Client.Answer]) and page contents
// ([Client.GetContents]).
//
// Every endpoint returns a single page, collected through the paginate
// aggregator so that malformed results are skipped the same way as in the
// paged tools. The per-request cost reported by the API (costDollars.total)
// is carried into each output as cost_dollars.
//
// The API key comes from [WithAPIKey] or the EXA_API_KEY environment
// variable.
package exa
