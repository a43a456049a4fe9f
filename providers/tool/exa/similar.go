package exa

import (
	"context"
	"fmt"
	"strings"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/providers/tool"
)

func NewExaFindSimilarTool(opts ...Option) *tool.Tool[SimilarInput, SimilarOutput] {
	return tool.NewTool[SimilarInput, SimilarOutput](
		"ExaFindSimilar",
		New(opts...).FindSimilar,
		tool.WithDescription("Find web pages similar in meaning to a given URL using Exa. Useful for discovering related articles, competitors or alternative sources. Requires EXA_API_KEY."),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.005,
			Currency:                "USD",
			CostDescription:         "per similarity request",
			Accuracy:                0.90,
			AverageDurationInMillis: 1200,
		}),
	)
}

// FindSimilar lists pages similar to input.URL.
func (c *Client) FindSimilar(ctx context.Context, input SimilarInput) (SimilarOutput, error) {
	if strings.TrimSpace(input.URL) == "" {
		return SimilarOutput{}, fmt.Errorf("url is required for similarity search")
	}

	body := map[string]any{"url": input.URL}
	if len(input.IncludeDomains) > 0 {
		body["includeDomains"] = input.IncludeDomains
	}
	if len(input.ExcludeDomains) > 0 {
		body["excludeDomains"] = input.ExcludeDomains
	}
	if input.ExcludeSource {
		body["excludeSourceDomain"] = true
	}
	if contents := contentsOptions(input.IncludeText, input.IncludeHighlights); contents != nil {
		body["contents"] = contents
	}

	res, env, err := collect(ctx, c, clampResults(input.NumResults), c.fetchResults("/findSimilar", body), toSearchResult)
	if err != nil {
		return SimilarOutput{}, err
	}

	return SimilarOutput{
		SourceURL:   input.URL,
		Summary:     summarizeResults(fmt.Sprintf("Found %d pages similar to %s", len(res.Records), input.URL), res.Records),
		Results:     res.Records,
		CostDollars: env.cost(),
	}, nil
}

// FindSimilar runs [Client.FindSimilar] with a default client.
func FindSimilar(ctx context.Context, input SimilarInput) (SimilarOutput, error) {
	return New().FindSimilar(ctx, input)
}
