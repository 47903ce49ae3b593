// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year,publicationDate"

// SemanticScholar queries the Semantic Scholar Graph API. Available
// without a key, but a configured key lifts rate limits.
type SemanticScholar struct {
	base
	Client *http.Client
	APIKey string
}

// NewSemanticScholar constructs the Semantic Scholar adapter.
func NewSemanticScholar(client *http.Client, apiKey string, log logrus.FieldLogger) *SemanticScholar {
	return &SemanticScholar{base: base{name: "semantic_scholar", log: log}, Client: client, APIKey: apiKey}
}

func (s *SemanticScholar) Name() string { return s.name }
func (s *SemanticScholar) IsAvailable() bool { return true }

func (s *SemanticScholar) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	return s.run(ctx, query, opts, s.performSearch)
}

func (s *SemanticScholar) performSearch(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	params := url.Values{
		"query": {query},
		"limit": {fmt.Sprintf("%d", resolveMaxResults(opts))},
		"fields": {semanticFields},
	}

	reqURL := semanticAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.APIKey != "" {
		req.Header.Set("x-api-key", s.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	total := len(sr.Data)
	var results []types.SearchResult
	for i, paper := range sr.Data {
		id := paper.ExternalIDs.DOI
		resultURL := "https://www.semanticscholar.org/paper/" + paper.PaperID
		if paper.ExternalIDs.ArXiv != "" {
			resultURL = "https://arxiv.org/abs/" + paper.ExternalIDs.ArXiv
			id = paper.ExternalIDs.ArXiv
		} else if id != "" {
			resultURL = "https://doi.org/" + id
		}

		score := 1.0
		if total > 1 {
			score = 1.0 - float64(i)/float64(total-1)*0.9
		}

		results = append(results, types.SearchResult{
			Title: paper.Title,
			URL: resultURL,
			Snippet: paper.Abstract,
			Source: "semantic_scholar",
			RelevanceScore: score,
			Metadata: map[string]interface{}{
				"identifier": id,
				"authors": semanticAuthorNames(paper.Authors),
				"year": paper.Year,
				"publication_date": paper.PublicationDate,
			},
		})
	}
	return results, nil
}

func semanticAuthorNames(authors []semanticAuthor) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, a.Name)
	}
	return names
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int `json:"total"`
	Offset int `json:"offset"`
	Data []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID string `json:"paperId"`
	Title string `json:"title"`
	Abstract string `json:"abstract"`
	Year int `json:"year"`
	PublicationDate string `json:"publicationDate"`
	Authors []semanticAuthor `json:"authors"`
	ExternalIDs semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name string `json:"name"`
}

type semanticExternalIDs struct {
	DOI string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
	CorpusID int `json:"CorpusId"`
}
