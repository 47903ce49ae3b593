// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

// googleCSEBase is the Custom Search JSON API endpoint. Declared as a var
// so tests can substitute an httptest server.
var googleCSEBase = "https://www.googleapis.com/customsearch/v1"

// Google queries the Google Custom Search JSON API. Available iff both an
// API key and a CSE id are configured.
type Google struct {
	base
	Client *http.Client
	APIKey string
	CX string

	// restrictSite optionally forces siteSearch (used by the Scholar
	// variant to restrict results to scholar.google.com).
	restrictSite string
	// sortByDate requests date-sorted results (used by the News variant).
	sortByDate bool
}

// NewGoogle constructs the web-search Google adapter.
func NewGoogle(client *http.Client, apiKey, cx string, log logrus.FieldLogger) *Google {
	return &Google{base: base{name: "google", log: log}, Client: client, APIKey: apiKey, CX: cx}
}

// NewGoogleScholar constructs the Scholar-restricted variant.
func NewGoogleScholar(client *http.Client, apiKey, cx string, log logrus.FieldLogger) *Google {
	return &Google{base: base{name: "google_scholar", log: log}, Client: client, APIKey: apiKey, CX: cx, restrictSite: "scholar.google.com"}
}

// NewGoogleNews constructs the News variant (sorted by date).
func NewGoogleNews(client *http.Client, apiKey, cx string, log logrus.FieldLogger) *Google {
	return &Google{base: base{name: "google_news", log: log}, Client: client, APIKey: apiKey, CX: cx, sortByDate: true}
}

// NewGoogleImages constructs the Images variant.
func NewGoogleImages(client *http.Client, apiKey, cx string, log logrus.FieldLogger) *Google {
	return &Google{base: base{name: "google_images", log: log}, Client: client, APIKey: apiKey, CX: cx}
}

func (g *Google) Name() string { return g.name }

func (g *Google) IsAvailable() bool { return g.APIKey != "" && g.CX != "" }

func (g *Google) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	return g.run(ctx, query, opts, g.performSearch)
}

func (g *Google) performSearch(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	params := url.Values{
		"key": {g.APIKey},
		"cx": {g.CX},
		"q": {query},
		"num": {strconv.Itoa(clampGoogleNum(resolveMaxResults(opts)))},
	}
	if g.restrictSite != "" {
		params.Set("siteSearch", g.restrictSite)
	}
	if opts.SiteSearch != "" {
		params.Set("siteSearch", opts.SiteSearch)
	}
	if g.sortByDate {
		params.Set("sort", "date")
	}
	if g.name == "google_images" || opts.Type == types.TypeImages {
		params.Set("searchType", "image")
	}
	if opts.Language != "" {
		params.Set("lr", "lang_"+opts.Language)
	}
	if opts.DateRestrict != "" {
		params.Set("dateRestrict", opts.DateRestrict)
	}
	if opts.FileType != "" {
		params.Set("fileType", opts.FileType)
	}

	reqURL := googleCSEBase + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, g.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("google CSE request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google CSE returned HTTP %d", resp.StatusCode)
	}

	var body googleCSEResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing google CSE response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(body.Items))
	for _, item := range body.Items {
		results = append(results, types.SearchResult{
				Title: item.Title,
				URL: item.Link,
				Snippet: item.Snippet,
				Source: g.name,
				RelevanceScore: LexicalRelevance(query, item.Title, item.Snippet),
			})
	}
	return results, nil
}

// clampGoogleNum enforces the CSE API's 1-10 per-page limit.
func clampGoogleNum(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

type googleCSEResponse struct {
	Items []googleCSEItem `json:"items"`
}

type googleCSEItem struct {
	Title string `json:"title"`
	Link string `json:"link"`
	Snippet string `json:"snippet"`
}
