package exa

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/providers/tool"
)

const defaultLivecrawlTimeout = 10000

func NewExaContentsTool(opts ...Option) *tool.Tool[ContentsInput, ContentsOutput] {
	return tool.NewTool[ContentsInput, ContentsOutput](
		"ExaGetContents",
		New(opts...).GetContents,
		tool.WithDescription("Fetch the contents of known URLs through Exa: a summary of each page by default and optionally the full text. Can crawl live when the cached copy is missing or stale. Requires EXA_API_KEY."),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.001,
			Currency:                "USD",
			CostDescription:         "per page of content",
			Accuracy:                0.95,
			AverageDurationInMillis: 2000,
		}),
	)
}

// GetContents returns text and summaries for input.URLs.
func (c *Client) GetContents(ctx context.Context, input ContentsInput) (ContentsOutput, error) {
	if len(input.URLs) == 0 {
		return ContentsOutput{}, fmt.Errorf("at least one url is required")
	}

	summary := input.Summary == nil || *input.Summary
	timeout := input.LivecrawlTimeout
	if timeout <= 0 {
		timeout = defaultLivecrawlTimeout
	}

	body := map[string]any{
		"urls":             input.URLs,
		"text":             input.FullPageText,
		"livecrawlTimeout": timeout,
	}
	if summary {
		body["summary"] = map[string]any{}
	}
	if input.Livecrawl != "" {
		body["livecrawl"] = input.Livecrawl
	}

	fetch := func(ctx context.Context, _ int) ([]exaResultItem, *envelope, error) {
		raw, err := c.post(ctx, "/contents", body)
		if err != nil {
			return nil, nil, err
		}
		var resp exaResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, nil, fmt.Errorf("error parsing response: %w", err)
		}
		return resp.Results, &resp.envelope, nil
	}

	res, env, err := collect(ctx, c, len(input.URLs), fetch, toContentResult)
	if err != nil {
		return ContentsOutput{}, err
	}

	return ContentsOutput{Results: res.Records, CostDollars: env.cost()}, nil
}

// GetContents runs [Client.GetContents] with a default client.
func GetContents(ctx context.Context, input ContentsInput) (ContentsOutput, error) {
	return New().GetContents(ctx, input)
}
