package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/leofalp/aigotools/core/paginate"
	"github.com/leofalp/aigotools/internal/aigotools/config"
	"github.com/leofalp/aigotools/providers/observability"
	"github.com/leofalp/aigotools/providers/tool"
	"github.com/leofalp/aigotools/providers/tool/bravesearch"
	"github.com/leofalp/aigotools/providers/tool/exa"
	"github.com/leofalp/aigotools/providers/tool/googlecalendar"
	"github.com/leofalp/aigotools/providers/tool/googlesearch"
	"github.com/leofalp/aigotools/providers/tool/webfetch"
	"github.com/leofalp/aigotools/providers/tool/xapi"
	"github.com/leofalp/aigotools/providers/tool/youtube"
)

// buildCatalog registers the search and fetch tools unconditionally and the
// Google Calendar, YouTube and X tools when their credentials are set.
// Search tools without an API key fail at call time with a message naming
// the missing variable.
func buildCatalog(ctx context.Context, cfg *config.Config, obs observability.Provider) (*tool.Catalog, error) {
	var retry *paginate.RetryConfig
	if cfg.Retries > 0 {
		retry = &paginate.RetryConfig{MaxRetries: cfg.Retries}
	}

	braveOpts := []bravesearch.Option{bravesearch.WithObserver(obs)}
	exaOpts := []exa.Option{exa.WithObserver(obs)}
	googleOpts := []googlesearch.Option{googlesearch.WithObserver(obs)}
	if cfg.Brave.APIKey != "" {
		braveOpts = append(braveOpts, bravesearch.WithAPIKey(cfg.Brave.APIKey))
	}
	if cfg.Exa.APIKey != "" {
		exaOpts = append(exaOpts, exa.WithAPIKey(cfg.Exa.APIKey))
	}
	if retry != nil {
		braveOpts = append(braveOpts, bravesearch.WithRetry(*retry))
		exaOpts = append(exaOpts, exa.WithRetry(*retry))
		googleOpts = append(googleOpts, googlesearch.WithRetry(*retry))
	}

	catalog := tool.NewCatalogWithTools(
		bravesearch.NewBraveSearchTool(braveOpts...),
		bravesearch.NewBraveSearchAdvancedTool(braveOpts...),
		exa.NewExaSearchTool(exaOpts...),
		exa.NewExaSearchAdvancedTool(exaOpts...),
		exa.NewExaFindSimilarTool(exaOpts...),
		exa.NewExaAnswerTool(exaOpts...),
		exa.NewExaContentsTool(exaOpts...),
		googlesearch.NewGoogleSearchTool(googleOpts...),
		webfetch.NewWebFetchTool(webfetch.WithObserver(obs)),
	)

	if cfg.Google.Enabled() {
		service, err := calendarService(ctx, cfg.Google)
		if err != nil {
			return nil, err
		}
		opts := []googlecalendar.Option{googlecalendar.WithObserver(obs)}
		if retry != nil {
			opts = append(opts, googlecalendar.WithRetry(*retry))
		}
		catalog.AddTools(googlecalendar.NewTools(service, opts...)...)
	}

	if cfg.YouTube.APIKey != "" {
		service, err := ytapi.NewService(ctx, option.WithAPIKey(cfg.YouTube.APIKey))
		if err != nil {
			return nil, fmt.Errorf("error creating YouTube service: %w", err)
		}
		opts := []youtube.Option{youtube.WithObserver(obs)}
		if retry != nil {
			opts = append(opts, youtube.WithRetry(*retry))
		}
		catalog.AddTools(youtube.NewTools(service, opts...)...)
	}

	if cfg.X.Valid() {
		httpClient, err := xapi.HTTPClient(ctx, cfg.X)
		if err != nil {
			return nil, err
		}
		opts := []xapi.Option{xapi.WithObserver(obs)}
		if retry != nil {
			opts = append(opts, xapi.WithRetry(*retry))
		}
		catalog.AddTools(xapi.NewTools(httpClient, opts...)...)
	}

	return catalog, nil
}

// calendarService authorizes with the OAuth client secret and a token
// saved by an earlier consent flow. The token is refreshed in memory only.
func calendarService(ctx context.Context, g config.GoogleConfig) (*calendar.Service, error) {
	secret, err := os.ReadFile(g.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("error reading Google credentials: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(secret, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("error parsing Google credentials: %w", err)
	}

	token, err := readToken(g.TokenFile)
	if err != nil {
		return nil, err
	}

	service, err := calendar.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("error creating Calendar service: %w", err)
	}
	return service, nil
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading Google token: %w", err)
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("error decoding Google token %s: %w", path, err)
	}
	return token, nil
}
