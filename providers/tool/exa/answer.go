package exa

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/providers/tool"
)

// maxCitations bounds the citations kept from one answer.
const maxCitations = 100

func NewExaAnswerTool(opts ...Option) *tool.Tool[AnswerInput, AnswerOutput] {
	return tool.NewTool[AnswerInput, AnswerOutput](
		"ExaAnswer",
		New(opts...).Answer,
		tool.WithDescription("Answer a question using Exa: searches the web and returns a direct answer with the citations it is based on. Best for factual questions that need sources. Requires EXA_API_KEY."),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.005,
			Currency:                "USD",
			CostDescription:         "per answer request",
			Accuracy:                0.90,
			AverageDurationInMillis: 3000,
		}),
	)
}

// Answer asks Exa for an answer. Citations without a URL are dropped.
func (c *Client) Answer(ctx context.Context, input AnswerInput) (AnswerOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return AnswerOutput{}, fmt.Errorf("query is required")
	}

	body := map[string]any{"query": input.Query}
	if input.IncludeText {
		body["text"] = true
	}

	fetch := func(ctx context.Context, _ int) ([]exaResultItem, *envelope, error) {
		raw, err := c.post(ctx, "/answer", body)
		if err != nil {
			return nil, nil, err
		}
		var resp exaResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, nil, fmt.Errorf("error parsing response: %w", err)
		}
		return resp.Citations, &resp.envelope, nil
	}

	res, env, err := collect(ctx, c, maxCitations, fetch, toCitation)
	if err != nil {
		return AnswerOutput{}, err
	}

	return AnswerOutput{
		Query:       input.Query,
		Answer:      env.Answer,
		Citations:   res.Records,
		CostDollars: env.cost(),
	}, nil
}

// Answer runs [Client.Answer] with a default client.
func Answer(ctx context.Context, input AnswerInput) (AnswerOutput, error) {
	return New().Answer(ctx, input)
}
