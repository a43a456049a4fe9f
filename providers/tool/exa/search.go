package exa

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/internal/utils"
	"github.com/leofalp/aigotools/providers/tool"
)

// NewExaSearchTool returns the summarizing search tool.
func NewExaSearchTool(opts ...Option) *tool.Tool[SearchInput, SearchOutput] {
	return tool.NewTool[SearchInput, SearchOutput](
		"ExaSearch",
		New(opts...).Search,
		tool.WithDescription("AI-native semantic search using Exa. Finds pages by meaning rather than keywords. Supports domain and date filters and categories such as research papers or news. Returns a summary and results with title, URL, author and date. Requires EXA_API_KEY."),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.005,
			Currency:                "USD",
			CostDescription:         "per search request (1-25 results)",
			Accuracy:                0.92,
			AverageDurationInMillis: 1200,
		}),
	)
}

// NewExaSearchAdvancedTool returns the search tool exposing every result field.
func NewExaSearchAdvancedTool(opts ...Option) *tool.Tool[SearchInput, SearchAdvancedOutput] {
	return tool.NewTool[SearchInput, SearchAdvancedOutput](
		"ExaSearchAdvanced",
		New(opts...).SearchAdvanced,
		tool.WithDescription("Exa semantic search returning complete results: scores, highlights with their scores, summaries and the resolved search type. Use when ranking details matter. Requires EXA_API_KEY."),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.005,
			Currency:                "USD",
			CostDescription:         "per search request plus content retrieval",
			Accuracy:                0.92,
			AverageDurationInMillis: 1500,
		}),
	)
}

func (in SearchInput) body() map[string]any {
	body := map[string]any{"query": in.Query}
	if in.Type != "" {
		body["type"] = in.Type
	}
	if len(in.IncludeDomains) > 0 {
		body["includeDomains"] = in.IncludeDomains
	}
	if len(in.ExcludeDomains) > 0 {
		body["excludeDomains"] = in.ExcludeDomains
	}
	if in.StartPublishedDate != "" {
		body["startPublishedDate"] = in.StartPublishedDate
	}
	if in.EndPublishedDate != "" {
		body["endPublishedDate"] = in.EndPublishedDate
	}
	if in.StartCrawlDate != "" {
		body["startCrawlDate"] = in.StartCrawlDate
	}
	if in.EndCrawlDate != "" {
		body["endCrawlDate"] = in.EndCrawlDate
	}
	if in.Category != "" {
		body["category"] = in.Category
	}
	if contents := contentsOptions(in.IncludeText, in.IncludeHighlights); contents != nil {
		body["contents"] = contents
	}
	return body
}

// fetchResults posts body to path with numResults set to size.
func (c *Client) fetchResults(path string, body map[string]any) func(context.Context, int) ([]exaResultItem, *envelope, error) {
	return func(ctx context.Context, size int) ([]exaResultItem, *envelope, error) {
		body["numResults"] = size
		raw, err := c.post(ctx, path, body)
		if err != nil {
			return nil, nil, err
		}
		var resp exaResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, nil, fmt.Errorf("error parsing response: %w", err)
		}
		return resp.Results, &resp.envelope, nil
	}
}

// Search runs a semantic search and summarizes the results.
func (c *Client) Search(ctx context.Context, input SearchInput) (SearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return SearchOutput{}, fmt.Errorf("query is required")
	}

	res, env, err := collect(ctx, c, clampResults(input.NumResults), c.fetchResults("/search", input.body()), toSearchResult)
	if err != nil {
		return SearchOutput{}, err
	}

	return SearchOutput{
		Query:       input.Query,
		Summary:     summarizeResults(fmt.Sprintf("Found %d results for '%s'", len(res.Records), input.Query), res.Records),
		Results:     res.Records,
		CostDollars: env.cost(),
	}, nil
}

// SearchAdvanced runs a semantic search keeping every result field.
func (c *Client) SearchAdvanced(ctx context.Context, input SearchInput) (SearchAdvancedOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return SearchAdvancedOutput{}, fmt.Errorf("query is required")
	}

	res, env, err := collect(ctx, c, clampResults(input.NumResults), c.fetchResults("/search", input.body()), toSearchResultAdvanced)
	if err != nil {
		return SearchAdvancedOutput{}, err
	}

	return SearchAdvancedOutput{
		Query:              input.Query,
		Results:            res.Records,
		ResolvedSearchType: env.ResolvedSearchType,
		RequestID:          env.RequestID,
		CostDollars:        env.cost(),
	}, nil
}

// Search runs [Client.Search] with a default client.
func Search(ctx context.Context, input SearchInput) (SearchOutput, error) {
	return New().Search(ctx, input)
}

// SearchAdvanced runs [Client.SearchAdvanced] with a default client.
func SearchAdvanced(ctx context.Context, input SearchInput) (SearchAdvancedOutput, error) {
	return New().SearchAdvanced(ctx, input)
}

func summarizeResults(header string, results []SearchResult) string {
	if len(results) == 0 {
		return header + "."
	}
	var b strings.Builder
	b.WriteString(header + ":\n")
	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\n   URL: %s", i+1, r.Title, r.URL)
		if r.Author != "" {
			fmt.Fprintf(&b, "\n   Author: %s", r.Author)
		}
		if r.PublishedDate != "" {
			fmt.Fprintf(&b, "\n   Published: %s", r.PublishedDate)
		}
		switch {
		case len(r.Highlights) > 0:
			fmt.Fprintf(&b, "\n   %s", utils.Truncate(r.Highlights[0], 200))
		case r.Summary != "":
			fmt.Fprintf(&b, "\n   %s", utils.Truncate(r.Summary, 200))
		}
	}
	return b.String()
}
