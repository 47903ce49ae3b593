// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

var (
	context7ResolveURL = "https://context7.com/api/v1/search"
	context7DocsURL = "https://context7.com/api/v1"
)

// context7TokenBudget bounds how much documentation text a single fetch
// pulls back.
const context7TokenBudget = 5000

// Context7 is the documentation-oriented backend: it resolves a free-text
// library name to a library id, then fetches docs for that id filtered by
// topic. Always marked available.
type Context7 struct {
	base
	Client *http.Client
}

// NewContext7 constructs the always-available Context7 adapter.
func NewContext7(client *http.Client, log logrus.FieldLogger) *Context7 {
	return &Context7{base: base{name: "context7", log: log}, Client: client}
}

func (c *Context7) Name() string { return c.name }
func (c *Context7) IsAvailable() bool { return true }

func (c *Context7) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	return c.run(ctx, query, opts, c.performSearch)
}

// libraryRef splits a "doc_search" query into a library name and an
// optional topic, following the convention "<library> topic: <topic>". If
// no topic delimiter is present, the whole query is used for both the
// resolve and the fetch steps.
func libraryRef(query string) (library, topic string) {
	if idx := strings.Index(query, " topic:"); idx >= 0 {
		return strings.TrimSpace(query[:idx]), strings.TrimSpace(query[idx+len(" topic:"):])
	}
	return query, query
}

func (c *Context7) performSearch(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	library, topic := libraryRef(query)

	libraryID, err := c.resolveLibrary(ctx, library)
	if err != nil {
		return nil, fmt.Errorf("resolving context7 library id: %w", err)
	}
	if libraryID == "" {
		return []types.SearchResult{}, nil
	}

	return c.fetchDocs(ctx, libraryID, topic, query, opts)
}

type context7SearchResponse struct {
	Results []struct {
		ID string `json:"id"`
		Title string `json:"title"`
		TrustScore float64 `json:"trustScore"`
		TotalTokens int `json:"totalTokens"`
		TotalSnippets int `json:"totalSnippets"`
	} `json:"results"`
}

// resolveLibrary maps a free-text library name to a Context7 library id,
// preferring the highest trust score among the candidates returned.
func (c *Context7) resolveLibrary(ctx context.Context, library string) (string, error) {
	params := url.Values{"query": {library}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, context7ResolveURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return "", fmt.Errorf("context7 resolve request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("context7 resolve returned HTTP %d", resp.StatusCode)
	}

	var body context7SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("parsing context7 resolve response: %w", err)
	}
	if len(body.Results) == 0 {
		return "", nil
	}

	best := body.Results[0]
	for _, r := range body.Results[1:] {
		if r.TrustScore > best.TrustScore {
			best = r
		}
	}
	return best.ID, nil
}

type context7DocsResponse struct {
	Snippets []struct {
		Title string `json:"title"`
		Content string `json:"content"`
		Source string `json:"source"`
	} `json:"snippets"`
}

// fetchDocs pulls documentation snippets for libraryID filtered by topic,
// bounded by context7TokenBudget.
func (c *Context7) fetchDocs(ctx context.Context, libraryID, topic, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	params := url.Values{
		"tokens": {strconv.Itoa(context7TokenBudget)},
	}
	if topic != "" {
		params.Set("topic", topic)
	}

	reqURL := context7DocsURL + "/" + strings.TrimPrefix(libraryID, "/") + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.DoWithRetry(ctx, c.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("context7 docs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("context7 docs returned HTTP %d", resp.StatusCode)
	}

	var body context7DocsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing context7 docs response: %w", err)
	}

	max := resolveMaxResults(opts)
	results := make([]types.SearchResult, 0, len(body.Snippets))
	for _, s := range body.Snippets {
		if len(results) >= max {
			break
		}
		title := s.Title
		if title == "" {
			title = libraryID
		}
		results = append(results, types.SearchResult{
				Title: title,
				URL: s.Source,
				Snippet: s.Content,
				Source: "context7",
				RelevanceScore: LexicalRelevance(query, title, s.Content),
			})
	}
	return results, nil
}
