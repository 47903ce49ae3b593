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

var tavilySearchURL = "https://api.tavily.com/search"

// Tavily is a single-endpoint POST adapter. Available iff an API key is
// configured.
type Tavily struct {
	base
	Client *http.Client
	APIKey string
}

// NewTavily constructs a Tavily adapter.
func NewTavily(client *http.Client, apiKey string, log logrus.FieldLogger) *Tavily {
	return &Tavily{base: base{name: "tavily", log: log}, Client: client, APIKey: apiKey}
}

func (t *Tavily) Name() string { return t.name }
func (t *Tavily) IsAvailable() bool { return t.APIKey != "" }

func (t *Tavily) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	return t.run(ctx, query, opts, t.performSearch)
}

type tavilyRequest struct {
	Query string `json:"query"`
	SearchDepth string `json:"search_depth"`
	Topic string `json:"topic"`
	MaxResults int `json:"max_results"`
	IncludeAnswer bool `json:"include_answer"`
	IncludeRawContent bool `json:"include_raw_content"`
	IncludeImages bool `json:"include_images"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
}

type tavilyResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL string `json:"url"`
		Content string `json:"content"`
		Score float64 `json:"score"`
	} `json:"results"`
}

func (t *Tavily) performSearch(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	topic := "general"
	switch opts.Type {
	case types.TypeNews:
		topic = "news"
	}

	payload, err := json.Marshal(tavilyRequest{
			Query: query,
			SearchDepth: "basic",
			Topic: topic,
			MaxResults: resolveMaxResults(opts),
			IncludeAnswer: false,
			IncludeRawContent: false,
			IncludeImages: false,
		})
	if err != nil {
		return nil, fmt.Errorf("encoding tavily request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilySearchURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.APIKey)

	resp, err := httputil.DoWithRetry(ctx, t.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("tavily request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily returned HTTP %d", resp.StatusCode)
	}

	var body tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing tavily response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(body.Results))
	for _, r := range body.Results {
		results = append(results, types.SearchResult{
				Title: r.Title,
				URL: r.URL,
				Snippet: r.Content,
				Source: "tavily",
				RelevanceScore: r.Score,
			})
	}
	return results, nil
}
