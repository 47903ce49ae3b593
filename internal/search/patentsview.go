// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/pkg/types"
)

// patentsViewSearchBase is the PatentsView patent search endpoint. Declared
// as a var so tests can substitute an httptest server.
var patentsViewSearchBase = "https://search.patentsview.org/api/v1/patent/"

// patentsViewFields lists the fields requested from the API.
const patentsViewFields = `["patent_id","patent_title","patent_abstract","patent_date","patent_type","patent_num_claims","inventors.inventor_name_last"]`

// PatentsView queries the PatentsView patent search API.
type PatentsView struct {
	base
	Client *http.Client
	APIKey string
}

// NewPatentsView constructs the PatentsView adapter. A key is required by
// the API for anything beyond trivial rate limits.
func NewPatentsView(client *http.Client, apiKey string, log logrus.FieldLogger) *PatentsView {
	return &PatentsView{base: base{name: "patentsview", log: log}, Client: client, APIKey: apiKey}
}

func (p *PatentsView) Name() string { return p.name }
func (p *PatentsView) IsAvailable() bool { return p.APIKey != "" }

func (p *PatentsView) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	return p.run(ctx, query, opts, p.performSearch)
}

func (p *PatentsView) performSearch(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("empty PatentsView query")
	}

	q := fmt.Sprintf(`{"_or":[{"_text_any":{"patent_title":"%s"}},{"_text_any":{"patent_abstract":"%s"}}]}`,
		escapeJSON(query), escapeJSON(query))

	maxResults := resolveMaxResults(opts)
	if maxResults > 1000 {
		maxResults = 1000
	}

	params := url.Values{
		"q": {q},
		"f": {patentsViewFields},
		"o": {fmt.Sprintf(`{"per_page":%d}`, maxResults)},
	}

	reqURL := patentsViewSearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if p.APIKey != "" {
		req.Header.Set("X-Api-Key", p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PatentsView API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("PatentsView rate limit exceeded (HTTP 429)")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PatentsView API returned HTTP %d", resp.StatusCode)
	}

	var pvr patentsViewResponse
	if err := json.NewDecoder(resp.Body).Decode(&pvr); err != nil {
		return nil, fmt.Errorf("parsing PatentsView response: %w", err)
	}

	total := len(pvr.Patents)
	var results []types.SearchResult
	for i, patent := range pvr.Patents {
		patentID := "US" + patent.PatentID

		var inventors []string
		for _, inv := range patent.Inventors {
			if inv.InventorNameLast != "" {
				inventors = append(inventors, inv.InventorNameLast)
			}
		}

		score := 1.0
		if total > 1 {
			score = 1.0 - float64(i)/float64(total-1)*0.9
		}

		results = append(results, types.SearchResult{
			Title: patent.PatentTitle,
			URL: "https://patents.google.com/patent/" + patentID,
			Snippet: patent.PatentAbstract,
			Source: "patentsview",
			RelevanceScore: score,
			Metadata: map[string]interface{}{
				"patent_id": patentID,
				"inventors": inventors,
				"patent_date": patent.PatentDate,
				"patent_type": patent.PatentType,
				"num_claims": patent.NumClaims,
			},
		})
	}
	return results, nil
}

// escapeJSON escapes a string for safe inclusion in a JSON string value.
func escapeJSON(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			out = append(out, '\\', '\\')
		case '"':
			out = append(out, '\\', '"')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

// PatentsView API JSON structures.
type patentsViewResponse struct {
	Patents []patentsViewPatent `json:"patents"`
	Count int `json:"count"`
	Total int `json:"total_patent_count"`
}

type patentsViewPatent struct {
	PatentID string `json:"patent_id"`
	PatentTitle string `json:"patent_title"`
	PatentAbstract string `json:"patent_abstract"`
	PatentDate string `json:"patent_date"`
	PatentType string `json:"patent_type"`
	NumClaims int `json:"patent_num_claims"`
	Inventors []patentsViewInventor `json:"inventors"`
}

type patentsViewInventor struct {
	InventorNameLast string `json:"inventor_name_last"`
}
