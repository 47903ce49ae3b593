// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// Arxiv queries the arXiv API. Always available; arXiv requires no API key.
type Arxiv struct {
	base
	Client *http.Client
}

// NewArxiv constructs the always-available arXiv adapter.
func NewArxiv(client *http.Client, log logrus.FieldLogger) *Arxiv {
	return &Arxiv{base: base{name: "arxiv", log: log}, Client: client}
}

func (a *Arxiv) Name() string { return a.name }
func (a *Arxiv) IsAvailable() bool { return true }

func (a *Arxiv) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	return a.run(ctx, query, opts, a.performSearch)
}

func (a *Arxiv) performSearch(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty arXiv query")
	}
	searchQuery := "all:" + strings.Join(terms, "+")

	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, url.QueryEscape(searchQuery), resolveMaxResults(opts))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", ddgUserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	total := len(feed.Entries)
	var results []types.SearchResult
	for i, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		title := strings.TrimSpace(entry.Title)
		abstract := strings.TrimSpace(entry.Summary)

		score := 1.0
		if total > 1 {
			score = 1.0 - float64(i)/float64(total-1)*0.9
		}

		results = append(results, types.SearchResult{
			Title: title,
			URL: "https://arxiv.org/abs/" + arxivID,
			Snippet: abstract,
			Source: "arxiv",
			RelevanceScore: score,
			Metadata: map[string]interface{}{
				"arxiv_id": arxivID,
				"authors": arxivAuthorNames(entry.Authors),
				"published": entry.Published,
			},
		})
	}
	return results, nil
}

func arxivAuthorNames(authors []arxivAuthor) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, strings.TrimSpace(a.Name))
	}
	return names
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID string `xml:"id"`
	Title string `xml:"title"`
	Summary string `xml:"summary"`
	Published string `xml:"published"`
	Authors []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
