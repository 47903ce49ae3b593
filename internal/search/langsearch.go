// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

var langSearchBase = "https://api.langsearch.com/v1"

// langSearchEndpoints maps a categorical type to its LangSearch path.
var langSearchEndpoints = map[types.SourceType]string{
	types.TypeWeb: "/web-search",
	types.TypeScholar: "/scholar-search",
	types.TypeNews: "/news-search",
	types.TypeCode: "/code-search",
	types.TypeDocumentation: "/doc-search",
}

// LangSearch routes to a distinct endpoint per options.Type. Available iff
// an API key is configured.
type LangSearch struct {
	base
	Client *http.Client
	APIKey string
}

// NewLangSearch constructs a LangSearch adapter.
func NewLangSearch(client *http.Client, apiKey string, log logrus.FieldLogger) *LangSearch {
	return &LangSearch{base: base{name: "langsearch", log: log}, Client: client, APIKey: apiKey}
}

func (l *LangSearch) Name() string { return l.name }
func (l *LangSearch) IsAvailable() bool { return l.APIKey != "" }

func (l *LangSearch) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	return l.run(ctx, query, opts, l.performSearch)
}

type langSearchRequest struct {
	Query string `json:"query"`
	MaxResults int `json:"max_results"`
}

type langSearchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL string `json:"url"`
		Snippet string `json:"snippet"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

func (l *LangSearch) performSearch(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	endpoint, ok := langSearchEndpoints[opts.Type]
	if !ok {
		endpoint = langSearchEndpoints[types.TypeWeb]
	}

	payload, err := json.Marshal(langSearchRequest{Query: query, MaxResults: resolveMaxResults(opts)})
	if err != nil {
		return nil, fmt.Errorf("encoding langsearch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, langSearchBase+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+l.APIKey)

	resp, err := httputil.DoWithRetry(ctx, l.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("langsearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("langsearch returned HTTP %d", resp.StatusCode)
	}

	var body langSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing langsearch response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(body.Results))
	for _, r := range body.Results {
		results = append(results, types.SearchResult{
				Title: r.Title,
				URL: r.URL,
				Snippet: r.Snippet,
				Source: "langsearch",
				RelevanceScore: r.RelevanceScore,
			})
	}
	return results, nil
}
