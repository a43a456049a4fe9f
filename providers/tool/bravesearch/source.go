package bravesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/internal/utils"
)

// pageSource fetches /web/search pages. Items are raw web.results entries;
// the first page's full body is kept as metadata.
type pageSource struct {
	client *Client
	apiKey string
	input  Input
}

func (s *pageSource) FetchPage(ctx context.Context, req paginate.PageRequest) (*paginate.Page[json.RawMessage], error) {
	params := s.input.params()
	params.Set("count", strconv.Itoa(req.Size))
	params.Set("offset", strconv.Itoa(req.Offset))

	body, err := utils.Do(ctx, s.client.httpClient, utils.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/web/search?%s", s.client.baseURL, params.Encode()),
		Header: http.Header{
			"X-Subscription-Token": {s.apiKey},
			"User-Agent":           {userAgent},
		},
	})
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("error parsing response: invalid JSON (body: %s)", utils.TruncateString(string(body), 200))
	}

	results := gjson.GetBytes(body, "web.results").Array()
	items := make([]json.RawMessage, 0, len(results))
	for _, r := range results {
		items = append(items, json.RawMessage(r.Raw))
	}

	page := &paginate.Page[json.RawMessage]{Items: items, Metadata: json.RawMessage(body)}
	more := gjson.GetBytes(body, "query.more_results_available")
	if more.Bool() || (!more.Exists() && len(items) > 0) {
		page.NextToken = paginate.OffsetToken(req.Offset + len(items))
	}
	return page, nil
}

var errMissingURL = errors.New("result has no url")

// mapSearchResult projects a raw web result onto SearchResult.
func mapSearchResult(raw json.RawMessage) (SearchResult, error) {
	r := gjson.ParseBytes(raw)
	link := r.Get("url").String()
	if link == "" {
		return SearchResult{}, errMissingURL
	}

	subType := r.Get("subtype").String()
	if subType == "" {
		subType = "generic"
	}

	var snippets []string
	for _, s := range r.Get("extra_snippets").Array() {
		snippets = append(snippets, utils.StripHTML(s.String()))
	}

	return SearchResult{
		Title:         r.Get("title").String(),
		URL:           link,
		IsSourceLocal: r.Get("is_source_local").Bool(),
		Description:   utils.StripHTML(r.Get("description").String()),
		PageAge:       r.Get("page_age").String(),
		SubType:       subType,
		Age:           r.Get("age").String(),
		ExtraSnippets: snippets,
	}, nil
}

// mapWebResult decodes a raw web result in full for the advanced output.
func mapWebResult(raw json.RawMessage) (WebResult, error) {
	var w WebResult
	if err := json.Unmarshal(raw, &w); err != nil {
		return WebResult{}, err
	}
	if w.URL == "" {
		return WebResult{}, errMissingURL
	}
	if w.SubType == "" {
		w.SubType = "generic"
	}
	w.Description = utils.StripHTML(w.Description)
	return w, nil
}
