package bravesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/leofalp/aigotools/core/cost"
	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/internal/utils"
	"github.com/leofalp/aigotools/providers/tool"
)

const (
	// MaxCount is the largest page the API serves.
	MaxCount = 20
	// MaxOffset is the largest offset the API accepts.
	MaxOffset           = 9
	defaultCount        = 20
	defaultTotalResults = 20
)

var metrics = cost.ToolMetrics{
	Amount:                  0.005, // $5 per 1000 queries
	Currency:                "USD",
	CostDescription:         "per API request",
	Accuracy:                0.88,
	AverageDurationInMillis: 800,
}

// NewBraveSearchTool returns the summarizing search tool.
func NewBraveSearchTool(opts ...Option) *tool.Tool[Input, Output] {
	return tool.NewTool[Input, Output](
		"BraveSearch",
		New(opts...).Search,
		tool.WithDescription("Search the web using the Brave Search API. Good for current events, factual lookups, research and product information. Returns a summary plus title, URL, description and age for each result. Use total_results to collect more than one page. Requires BRAVE_SEARCH_API_KEY."),
		tool.WithMetrics(metrics),
	)
}

// NewBraveSearchAdvancedTool returns the tool exposing the full response.
func NewBraveSearchAdvancedTool(opts ...Option) *tool.Tool[Input, AdvancedOutput] {
	m := metrics
	m.Accuracy = 0.90
	m.AverageDurationInMillis = 900
	return tool.NewTool[Input, AdvancedOutput](
		"BraveSearchAdvanced",
		New(opts...).SearchAdvanced,
		tool.WithDescription("Web search using the Brave Search API returning the complete structured response: web results, news, videos, infobox, locations and mixed ordering. Use when metadata beyond titles and snippets matters. Requires BRAVE_SEARCH_API_KEY."),
		tool.WithMetrics(m),
	)
}

// Input holds the search parameters.
type Input struct {
	Query         string `json:"query" jsonschema:"description=The search query (max 400 characters),required"`
	Count         int    `json:"count,omitempty" jsonschema:"description=Results per API request (default: 20 max: 20),minimum=1,maximum=20"`
	TotalResults  int    `json:"total_results,omitempty" jsonschema:"description=Total number of results to collect across requests (default: 20),minimum=1"`
	Offset        int    `json:"offset,omitempty" jsonschema:"description=Zero-based offset of the first result (max: 9),minimum=0,maximum=9"`
	Country       string `json:"country,omitempty" jsonschema:"description=Two letter country code the results come from (default: US)"`
	SearchLang    string `json:"search_lang,omitempty" jsonschema:"description=Language of the results (default: en)"`
	UILang        string `json:"ui_lang,omitempty" jsonschema:"description=User interface language as language-COUNTRY (default: en-US)"`
	SafeSearch    string `json:"safesearch,omitempty" jsonschema:"description=Adult content filter,enum=off,enum=moderate,enum=strict"`
	Freshness     string `json:"freshness,omitempty" jsonschema:"description=pd (past day) pw (past week) pm (past month) py (past year) or YYYY-MM-DDtoYYYY-MM-DD"`
	Spellcheck    *bool  `json:"spellcheck,omitempty" jsonschema:"description=Spellcheck the query (default: true)"`
	ResultFilter  string `json:"result_filter,omitempty" jsonschema:"description=Result types to include separated by commas (e.g. web or news or videos)"`
	Units         string `json:"units,omitempty" jsonschema:"description=Measurement units,enum=metric,enum=imperial"`
	ExtraSnippets bool   `json:"extra_snippets,omitempty" jsonschema:"description=Return up to 5 alternative excerpts per result"`
}

func (in Input) withDefaults() Input {
	if in.Count <= 0 {
		in.Count = defaultCount
	}
	in.Count = min(in.Count, MaxCount)
	if in.TotalResults <= 0 {
		in.TotalResults = defaultTotalResults
	}
	if in.Country == "" {
		in.Country = "US"
	}
	if in.SearchLang == "" {
		in.SearchLang = "en"
	}
	if in.UILang == "" {
		in.UILang = "en-US"
	}
	if in.SafeSearch == "" {
		in.SafeSearch = "moderate"
	}
	if in.Units == "" {
		in.Units = "metric"
	}
	if in.Spellcheck == nil {
		in.Spellcheck = utils.Ptr(true)
	}
	return in
}

// params returns the query parameters shared by every page.
func (in Input) params() url.Values {
	params := url.Values{}
	params.Set("q", in.Query)
	params.Set("country", in.Country)
	params.Set("search_lang", in.SearchLang)
	params.Set("ui_lang", in.UILang)
	params.Set("safesearch", in.SafeSearch)
	params.Set("spellcheck", boolParam(in.Spellcheck == nil || *in.Spellcheck))
	params.Set("units", in.Units)
	params.Set("extra_snippets", boolParam(in.ExtraSnippets))
	if in.Freshness != "" {
		params.Set("freshness", in.Freshness)
	}
	if in.ResultFilter != "" {
		params.Set("result_filter", in.ResultFilter)
	}
	return params
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Output is the summarized search result.
type Output struct {
	Query   string         `json:"query" jsonschema:"description=The original search query"`
	Summary string         `json:"summary" jsonschema:"description=Readable summary of the results"`
	Results []SearchResult `json:"results" jsonschema:"description=Collected web results"`
	Skipped int            `json:"skipped,omitempty" jsonschema:"description=Results dropped because they could not be read"`
}

// SearchResult is one normalized web result.
type SearchResult struct {
	Title         string   `json:"title" jsonschema:"description=Title of the result"`
	URL           string   `json:"url" jsonschema:"description=URL of the result"`
	IsSourceLocal bool     `json:"is_source_local" jsonschema:"description=Whether the result comes from a local source"`
	Description   string   `json:"description" jsonschema:"description=Snippet with markup removed"`
	PageAge       string   `json:"page_age,omitempty" jsonschema:"description=Publication timestamp of the page"`
	SubType       string   `json:"sub_type" jsonschema:"description=Result sub type (generic when not reported)"`
	Age           string   `json:"age,omitempty" jsonschema:"description=Age of the content (e.g. '2 days ago')"`
	ExtraSnippets []string `json:"extra_snippets,omitempty" jsonschema:"description=Alternative excerpts"`
}

// AdvancedOutput is the first response envelope with web.results replaced by
// every collected result.
type AdvancedOutput struct {
	Query     string              `json:"query" jsonschema:"description=The original search query"`
	Type      string              `json:"type" jsonschema:"description=Type of search response"`
	Web       *WebResults         `json:"web,omitempty" jsonschema:"description=Web search results"`
	News      *NewsResults        `json:"news,omitempty" jsonschema:"description=News results"`
	Videos    *VideoResults       `json:"videos,omitempty" jsonschema:"description=Video results"`
	Infobox   *Infobox            `json:"infobox,omitempty" jsonschema:"description=Knowledge panel"`
	Locations *LocationResults    `json:"locations,omitempty" jsonschema:"description=Location results"`
	Mixed     *MixedResultSection `json:"mixed,omitempty" jsonschema:"description=Display ordering across result types"`
}

func aggregate[T any](ctx context.Context, c *Client, input Input, mapper paginate.Mapper[json.RawMessage, T]) (Input, *paginate.Result[T], error) {
	if strings.TrimSpace(input.Query) == "" {
		return input, nil, fmt.Errorf("query is required")
	}
	apiKey, err := c.key()
	if err != nil {
		return input, nil, err
	}

	input = input.withDefaults()
	var source paginate.Source[json.RawMessage] = &pageSource{client: c, apiKey: apiKey, input: input}
	if c.retry != nil {
		source = paginate.WithRetry(source, *c.retry)
	}

	res, err := paginate.Aggregate(ctx, source, mapper, paginate.Request{
		TargetCount: input.TotalResults,
		PageSizeCap: input.Count,
		MaxOffset:   utils.Ptr(MaxOffset),
		StartOffset: input.Offset,
	}, c.aggregateOptions()...)
	if err != nil {
		return input, nil, err
	}
	return input, res, nil
}

// Search collects web results and summarizes them.
func (c *Client) Search(ctx context.Context, input Input) (Output, error) {
	input, res, err := aggregate(ctx, c, input, mapSearchResult)
	if err != nil {
		return Output{}, err
	}

	envelope, err := decodeEnvelope(res.Metadata)
	if err != nil {
		return Output{}, err
	}

	return Output{
		Query:   input.Query,
		Summary: summarize(input.Query, res.Records, envelope),
		Results: res.Records,
		Skipped: res.Skipped,
	}, nil
}

// SearchAdvanced collects web results and returns them inside the first
// response envelope.
func (c *Client) SearchAdvanced(ctx context.Context, input Input) (AdvancedOutput, error) {
	input, res, err := aggregate(ctx, c, input, mapWebResult)
	if err != nil {
		return AdvancedOutput{}, err
	}

	envelope, err := decodeEnvelope(res.Metadata)
	if err != nil {
		return AdvancedOutput{}, err
	}
	if envelope.Web == nil {
		envelope.Web = &WebResults{Type: "search"}
	}
	envelope.Web.Results = res.Records

	return AdvancedOutput{
		Query:     input.Query,
		Type:      envelope.Type,
		Web:       envelope.Web,
		News:      envelope.News,
		Videos:    envelope.Videos,
		Infobox:   envelope.Infobox,
		Locations: envelope.Locations,
		Mixed:     envelope.Mixed,
	}, nil
}

// decodeEnvelope reads the first page's response kept as aggregation
// metadata. No metadata yields an empty envelope.
func decodeEnvelope(metadata any) (*Response, error) {
	envelope := &Response{}
	raw, ok := metadata.(json.RawMessage)
	if !ok {
		return envelope, nil
	}
	if err := json.Unmarshal(raw, envelope); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	return envelope, nil
}

// Search runs [Client.Search] with a default client.
func Search(ctx context.Context, input Input) (Output, error) {
	return New().Search(ctx, input)
}

// SearchAdvanced runs [Client.SearchAdvanced] with a default client.
func SearchAdvanced(ctx context.Context, input Input) (AdvancedOutput, error) {
	return New().SearchAdvanced(ctx, input)
}

func summarize(query string, results []SearchResult, envelope *Response) string {
	var parts []string

	if len(results) > 0 {
		parts = append(parts, fmt.Sprintf("Found %d web results:", len(results)))
		for i, r := range results {
			parts = append(parts, fmt.Sprintf("\n%d. %s\n   URL: %s\n   %s", i+1, r.Title, r.URL, utils.Truncate(r.Description, 200)))
		}
	}

	if envelope.Infobox != nil && envelope.Infobox.Label != "" {
		parts = append(parts, "\n\nInfobox: "+envelope.Infobox.Label)
		if envelope.Infobox.ShortDesc != "" {
			parts = append(parts, "Description: "+envelope.Infobox.ShortDesc)
		}
	}

	if envelope.News != nil && len(envelope.News.Results) > 0 {
		parts = append(parts, fmt.Sprintf("\n\nRecent news (%d articles):", len(envelope.News.Results)))
		for i, news := range envelope.News.Results {
			if i >= 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("- %s (%s)", news.Title, news.Age))
		}
	}

	if len(parts) == 0 {
		return fmt.Sprintf("No results found for '%s'. Try a different query or check your spelling.", query)
	}
	return strings.Join(parts, "\n")
}
