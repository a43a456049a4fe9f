package exa

import "errors"

var errMissingURL = errors.New("result has no url")

// SearchInput holds the search parameters.
type SearchInput struct {
	Query              string   `json:"query" jsonschema:"description=The search query to perform,required"`
	Type               string   `json:"type,omitempty" jsonschema:"description=Search type: neural (embedding-based) auto (default) fast or deep,enum=neural,enum=auto,enum=fast,enum=deep,enum=keyword"`
	NumResults         int      `json:"num_results,omitempty" jsonschema:"description=Number of results to return (default: 10 max: 100),minimum=1,maximum=100"`
	IncludeDomains     []string `json:"include_domains,omitempty" jsonschema:"description=Only return results from these domains"`
	ExcludeDomains     []string `json:"exclude_domains,omitempty" jsonschema:"description=Never return results from these domains"`
	StartPublishedDate string   `json:"start_published_date,omitempty" jsonschema:"description=Only results published after this date (YYYY-MM-DD)"`
	EndPublishedDate   string   `json:"end_published_date,omitempty" jsonschema:"description=Only results published before this date (YYYY-MM-DD)"`
	StartCrawlDate     string   `json:"start_crawl_date,omitempty" jsonschema:"description=Only results crawled after this date (ISO 8601)"`
	EndCrawlDate       string   `json:"end_crawl_date,omitempty" jsonschema:"description=Only results crawled before this date (ISO 8601)"`
	Category           string   `json:"category,omitempty" jsonschema:"description=Category filter for focused results,enum=company,enum=research paper,enum=news,enum=pdf,enum=github,enum=tweet,enum=personal site,enum=financial report,enum=people"`
	IncludeText        bool     `json:"include_text,omitempty" jsonschema:"description=Include full page text in results"`
	IncludeHighlights  bool     `json:"include_highlights,omitempty" jsonschema:"description=Include key sentence highlights in results"`
}

// SearchOutput is the summarized search result.
type SearchOutput struct {
	Query       string         `json:"query" jsonschema:"description=The original search query"`
	Summary     string         `json:"summary" jsonschema:"description=Readable summary of the results"`
	Results     []SearchResult `json:"results" jsonschema:"description=List of search results"`
	CostDollars float64        `json:"cost_dollars" jsonschema:"description=Cost of the request in dollars"`
}

func (o SearchOutput) CallCost() float64 { return o.CostDollars }

// SearchResult is one normalized result.
type SearchResult struct {
	Title         string   `json:"title" jsonschema:"description=Title of the result"`
	URL           string   `json:"url" jsonschema:"description=URL of the result"`
	Score         float64  `json:"score,omitempty" jsonschema:"description=Similarity between the query and the result"`
	PublishedDate string   `json:"published_date,omitempty" jsonschema:"description=Estimated publication date"`
	Author        string   `json:"author,omitempty" jsonschema:"description=Author of the content"`
	Text          string   `json:"text,omitempty" jsonschema:"description=Full text if requested"`
	Summary       string   `json:"summary,omitempty" jsonschema:"description=Summary of the page if available"`
	Highlights    []string `json:"highlights,omitempty" jsonschema:"description=Key sentence highlights if requested"`
}

// SearchAdvancedOutput keeps every field Exa returns.
type SearchAdvancedOutput struct {
	Query              string                 `json:"query" jsonschema:"description=The original search query"`
	Results            []SearchResultAdvanced `json:"results" jsonschema:"description=List of detailed search results"`
	ResolvedSearchType string                 `json:"resolved_search_type,omitempty" jsonschema:"description=The search type actually used"`
	RequestID          string                 `json:"request_id,omitempty" jsonschema:"description=Request identifier"`
	CostDollars        float64                `json:"cost_dollars" jsonschema:"description=Cost of the request in dollars"`
}

func (o SearchAdvancedOutput) CallCost() float64 { return o.CostDollars }

type SearchResultAdvanced struct {
	ID              string    `json:"id" jsonschema:"description=Temporary document id"`
	Title           string    `json:"title" jsonschema:"description=Title of the result"`
	URL             string    `json:"url" jsonschema:"description=URL of the result"`
	Score           float64   `json:"score,omitempty" jsonschema:"description=Relevance score"`
	PublishedDate   string    `json:"published_date,omitempty" jsonschema:"description=Publication date"`
	Author          string    `json:"author,omitempty" jsonschema:"description=Author of the content"`
	Text            string    `json:"text,omitempty" jsonschema:"description=Full text if requested"`
	Highlights      []string  `json:"highlights,omitempty" jsonschema:"description=Highlights if requested"`
	HighlightScores []float64 `json:"highlight_scores,omitempty" jsonschema:"description=Score of each highlight"`
	Summary         string    `json:"summary,omitempty" jsonschema:"description=Generated summary if available"`
}

// SimilarInput holds the similarity search parameters. Exa requires a URL.
type SimilarInput struct {
	URL               string   `json:"url" jsonschema:"description=URL to find similar pages for,required"`
	NumResults        int      `json:"num_results,omitempty" jsonschema:"description=Number of results to return (default: 10 max: 100),minimum=1,maximum=100"`
	IncludeDomains    []string `json:"include_domains,omitempty" jsonschema:"description=Only return results from these domains"`
	ExcludeDomains    []string `json:"exclude_domains,omitempty" jsonschema:"description=Never return results from these domains"`
	ExcludeSource     bool     `json:"exclude_source_domain,omitempty" jsonschema:"description=Drop results from the source URL's domain"`
	IncludeText       bool     `json:"include_text,omitempty" jsonschema:"description=Include full page text in results"`
	IncludeHighlights bool     `json:"include_highlights,omitempty" jsonschema:"description=Include key sentence highlights in results"`
}

type SimilarOutput struct {
	SourceURL   string         `json:"source_url" jsonschema:"description=The URL used for the similarity search"`
	Summary     string         `json:"summary" jsonschema:"description=Readable summary of similar pages"`
	Results     []SearchResult `json:"results" jsonschema:"description=Similar pages"`
	CostDollars float64        `json:"cost_dollars" jsonschema:"description=Cost of the request in dollars"`
}

func (o SimilarOutput) CallCost() float64 { return o.CostDollars }

// AnswerInput holds the question for [Client.Answer].
type AnswerInput struct {
	Query       string `json:"query" jsonschema:"description=The question to answer,required"`
	IncludeText bool   `json:"include_text,omitempty" jsonschema:"description=Include the full text of each citation"`
}

type AnswerOutput struct {
	Query       string     `json:"query" jsonschema:"description=The original question"`
	Answer      string     `json:"answer" jsonschema:"description=Answer grounded on the citations"`
	Citations   []Citation `json:"citations" jsonschema:"description=Sources used for the answer"`
	CostDollars float64    `json:"cost_dollars" jsonschema:"description=Cost of the request in dollars"`
}

func (o AnswerOutput) CallCost() float64 { return o.CostDollars }

type Citation struct {
	Title         string `json:"title" jsonschema:"description=Title of the source"`
	URL           string `json:"url" jsonschema:"description=URL of the source"`
	Author        string `json:"author,omitempty" jsonschema:"description=Author of the source"`
	PublishedDate string `json:"published_date,omitempty" jsonschema:"description=Publication date of the source"`
	Text          string `json:"text,omitempty" jsonschema:"description=Full text if requested"`
}

// ContentsInput holds the parameters of [Client.GetContents].
type ContentsInput struct {
	URLs             []string `json:"urls" jsonschema:"description=URLs to fetch contents for,required"`
	FullPageText     bool     `json:"full_page_text,omitempty" jsonschema:"description=Return the full page text"`
	Summary          *bool    `json:"summary,omitempty" jsonschema:"description=Return a summary of each page (default: true)"`
	Livecrawl        string   `json:"livecrawl,omitempty" jsonschema:"description=When to crawl live instead of using the cache,enum=never,enum=fallback,enum=always,enum=auto"`
	LivecrawlTimeout int      `json:"livecrawl_timeout,omitempty" jsonschema:"description=Live crawl timeout in milliseconds (default: 10000),minimum=1"`
}

type ContentsOutput struct {
	Results     []ContentResult `json:"results" jsonschema:"description=Contents of each URL"`
	CostDollars float64         `json:"cost_dollars" jsonschema:"description=Cost of the request in dollars"`
}

func (o ContentsOutput) CallCost() float64 { return o.CostDollars }

type ContentResult struct {
	URL           string  `json:"url" jsonschema:"description=URL of the page"`
	Title         string  `json:"title,omitempty" jsonschema:"description=Title of the page"`
	Score         float64 `json:"score,omitempty" jsonschema:"description=Score if available"`
	PublishedDate string  `json:"published_date,omitempty" jsonschema:"description=Publication date"`
	Author        string  `json:"author,omitempty" jsonschema:"description=Author of the page"`
	Text          string  `json:"text,omitempty" jsonschema:"description=Page text if requested"`
	Summary       string  `json:"summary,omitempty" jsonschema:"description=Page summary if requested"`
}

// envelope is what every endpoint returns besides its items.
type envelope struct {
	ResolvedSearchType string   `json:"resolvedSearchType,omitempty"`
	RequestID          string   `json:"requestId,omitempty"`
	Answer             string   `json:"answer,omitempty"`
	CostDollars        *exaCost `json:"costDollars,omitempty"`
}

func (e *envelope) cost() float64 {
	if e == nil || e.CostDollars == nil {
		return 0
	}
	return e.CostDollars.Total
}

type exaResponse struct {
	envelope
	Results   []exaResultItem `json:"results"`
	Citations []exaResultItem `json:"citations,omitempty"`
}

type exaResultItem struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Score           float64   `json:"score,omitempty"`
	PublishedDate   string    `json:"publishedDate,omitempty"`
	Author          string    `json:"author,omitempty"`
	Text            string    `json:"text,omitempty"`
	Highlights      []string  `json:"highlights,omitempty"`
	HighlightScores []float64 `json:"highlightScores,omitempty"`
	Summary         string    `json:"summary,omitempty"`
}

type exaCost struct {
	Total float64 `json:"total"`
}

type exaAPIError struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e exaAPIError) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

func toSearchResult(r exaResultItem) (SearchResult, error) {
	if r.URL == "" {
		return SearchResult{}, errMissingURL
	}
	return SearchResult{
		Title:         r.Title,
		URL:           r.URL,
		Score:         r.Score,
		PublishedDate: r.PublishedDate,
		Author:        r.Author,
		Text:          r.Text,
		Summary:       r.Summary,
		Highlights:    r.Highlights,
	}, nil
}

func toSearchResultAdvanced(r exaResultItem) (SearchResultAdvanced, error) {
	if r.URL == "" {
		return SearchResultAdvanced{}, errMissingURL
	}
	return SearchResultAdvanced{
		ID:              r.ID,
		Title:           r.Title,
		URL:             r.URL,
		Score:           r.Score,
		PublishedDate:   r.PublishedDate,
		Author:          r.Author,
		Text:            r.Text,
		Highlights:      r.Highlights,
		HighlightScores: r.HighlightScores,
		Summary:         r.Summary,
	}, nil
}

func toCitation(r exaResultItem) (Citation, error) {
	if r.URL == "" {
		return Citation{}, errMissingURL
	}
	return Citation{Title: r.Title, URL: r.URL, Author: r.Author, PublishedDate: r.PublishedDate, Text: r.Text}, nil
}

func toContentResult(r exaResultItem) (ContentResult, error) {
	if r.URL == "" {
		return ContentResult{}, errMissingURL
	}
	return ContentResult{
		URL:           r.URL,
		Title:         r.Title,
		Score:         r.Score,
		PublishedDate: r.PublishedDate,
		Author:        r.Author,
		Text:          r.Text,
		Summary:       r.Summary,
	}, nil
}
