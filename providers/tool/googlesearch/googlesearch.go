package googlesearch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/internal/utils"
	"github.com/leofalp/aigotools/providers/tool"
)

const (
	// PageSize is how many results one results page holds.
	PageSize          = 10
	defaultMaxResults = 5
	defaultLanguage   = "en"
)

// NewGoogleSearchTool returns the Google scraping tool.
func NewGoogleSearchTool(opts ...Option) *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		"GoogleSearch",
		New(opts...).Search,
		tool.WithDescription("Search Google and return result URLs. Set advanced to also get each result's title and description. No API key needed but heavy use may be rate limited by Google."),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0.0,
			Currency:                "USD",
			CostDescription:         "results page scraping",
			Accuracy:                0.85,
			AverageDurationInMillis: 900,
		}),
	)
}

// Input holds the search parameters.
type Input struct {
	Query      string `json:"query" jsonschema:"description=The search query,required"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Maximum number of results to return (default: 5),minimum=1"`
	Start      int    `json:"start,omitempty" jsonschema:"description=Zero-based index of the first result (default: 0),minimum=0"`
	Language   string `json:"language,omitempty" jsonschema:"description=Language of the results page (default: en)"`
	Advanced   bool   `json:"advanced,omitempty" jsonschema:"description=Include title and description of each result"`
}

// Output lists the collected results.
type Output struct {
	ResultCount int      `json:"result_count" jsonschema:"description=Number of search results"`
	Results     []Result `json:"results" jsonschema:"description=List of search results"`
}

// Result is one search hit. Title and Description are only set in advanced
// mode.
type Result struct {
	URL         string `json:"url" jsonschema:"description=URL of the search result"`
	Title       string `json:"title,omitempty" jsonschema:"description=Title of the search result"`
	Description string `json:"description,omitempty" jsonschema:"description=Description of the search result"`
}

// Search collects up to MaxResults results starting at Start.
func (c *Client) Search(ctx context.Context, input Input) (Output, error) {
	if strings.TrimSpace(input.Query) == "" {
		return Output{}, fmt.Errorf("query is required")
	}
	if input.MaxResults <= 0 {
		input.MaxResults = defaultMaxResults
	}
	if input.Start < 0 {
		input.Start = 0
	}
	if input.Language == "" {
		input.Language = defaultLanguage
	}

	var source paginate.Source[rawResult] = &pageSource{client: c, input: input}
	if c.retry != nil {
		source = paginate.WithRetry(source, *c.retry)
	}

	mapper := mapResult
	if input.Advanced {
		mapper = mapAdvancedResult
	}

	res, err := paginate.Aggregate(ctx, source, mapper, paginate.Request{
		TargetCount: input.MaxResults,
		PageSizeCap: PageSize,
		StartOffset: input.Start,
	}, c.aggregateOptions()...)
	if err != nil {
		return Output{}, err
	}

	results := res.Records
	if results == nil {
		results = []Result{}
	}
	return Output{ResultCount: len(results), Results: results}, nil
}

// Search runs [Client.Search] with a default client.
func Search(ctx context.Context, input Input) (Output, error) {
	return New().Search(ctx, input)
}

type pageSource struct {
	client *Client
	input  Input
}

func (s *pageSource) FetchPage(ctx context.Context, req paginate.PageRequest) (*paginate.Page[rawResult], error) {
	params := url.Values{}
	params.Set("q", s.input.Query)
	params.Set("num", strconv.Itoa(req.Size))
	params.Set("hl", s.input.Language)
	params.Set("start", strconv.Itoa(req.Offset))
	params.Set("safe", "active")

	body, err := utils.Do(ctx, s.client.httpClient, utils.Request{
		Method: http.MethodGet,
		URL:    s.client.baseURL + "/search?" + params.Encode(),
		Header: http.Header{
			"User-Agent": {s.client.userAgent},
			"Accept":     {"*/*"},
			"Cookie":     {"CONSENT=PENDING+987; SOCS=CAESHAgBEhIaAB"},
		},
	})
	if err != nil {
		return nil, err
	}

	items, err := parseResults(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	page := &paginate.Page[rawResult]{Items: items}
	if len(items) > 0 {
		page.NextToken = paginate.OffsetToken(req.Offset + len(items))
	}
	return page, nil
}

var (
	errMissingLink   = errors.New("result block has no link")
	errIncompleteHit = errors.New("result block has no title or description")
)

// resultURL turns a result href into the target URL. Links come either
// direct or wrapped as /url?q=<target>&sa=...
func resultURL(href string) (string, error) {
	if href == "" {
		return "", errMissingLink
	}
	if strings.HasPrefix(href, "/url?") {
		u, err := url.Parse(href)
		if err != nil {
			return "", fmt.Errorf("invalid result link %q: %w", href, err)
		}
		href = u.Query().Get("q")
	}
	u, err := url.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("result link %q is not an absolute URL", href)
	}
	return href, nil
}

func mapResult(r rawResult) (Result, error) {
	link, err := resultURL(r.Href)
	if err != nil {
		return Result{}, err
	}
	if r.Title == "" || r.Description == "" {
		return Result{}, errIncompleteHit
	}
	return Result{URL: link}, nil
}

func mapAdvancedResult(r rawResult) (Result, error) {
	res, err := mapResult(r)
	if err != nil {
		return Result{}, err
	}
	res.Title = r.Title
	res.Description = r.Description
	return res, nil
}
