// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlex queries the OpenAlex scholarly-works API. Always available;
// Email is sent as the mailto parameter for polite-pool access but is
// optional.
type OpenAlex struct {
	base
	Client *http.Client
	Email string
}

// NewOpenAlex constructs the always-available OpenAlex adapter.
func NewOpenAlex(client *http.Client, email string, log logrus.FieldLogger) *OpenAlex {
	return &OpenAlex{base: base{name: "openalex", log: log}, Client: client, Email: email}
}

func (o *OpenAlex) Name() string { return o.name }
func (o *OpenAlex) IsAvailable() bool { return true }

func (o *OpenAlex) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	return o.run(ctx, query, opts, o.performSearch)
}

func (o *OpenAlex) performSearch(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}

	maxResults := resolveMaxResults(opts)
	if maxResults > 200 {
		maxResults = 200
	}

	params := url.Values{
		"search": {query},
		"per_page": {fmt.Sprintf("%d", maxResults)},
		"page": {"1"},
	}
	if opts.DateRestrict != "" {
		params.Set("filter", "from_publication_date:"+opts.DateRestrict)
	}
	if o.Email != "" {
		params.Set("mailto", o.Email)
	}

	reqURL := openAlexSearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	total := len(oar.Results)
	var results []types.SearchResult
	for i, work := range oar.Results {
		abstract := reconstructAbstract(work.AbstractInvertedIndex)

		doi := strings.TrimPrefix(work.DOI, "https://doi.org/")
		resultURL := work.ID
		if doi != "" {
			resultURL = "https://doi.org/" + doi
		}

		score := 1.0
		if total > 1 {
			score = 1.0 - float64(i)/float64(total-1)*0.9
		}

		results = append(results, types.SearchResult{
			Title: work.Title,
			URL: resultURL,
			Snippet: abstract,
			Source: "openalex",
			RelevanceScore: score,
			Metadata: map[string]interface{}{
				"doi": doi,
				"authors": openAlexAuthorNames(work.Authorships),
				"publication_date": work.PublicationDate,
				"publication_year": work.PublicationYear,
			},
		})
	}
	return results, nil
}

func openAlexAuthorNames(authorships []openAlexAuthorship) []string {
	names := make([]string, 0, len(authorships))
	for _, a := range authorships {
		if a.Author.DisplayName != "" {
			names = append(names, a.Author.DisplayName)
		}
	}
	return names
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta openAlexMeta `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count int `json:"count"`
	PerPage int `json:"per_page"`
	Page int `json:"page"`
}

type openAlexWork struct {
	ID string `json:"id"`
	Title string `json:"title"`
	DOI string `json:"doi"`
	PublicationDate string `json:"publication_date"`
	PublicationYear int `json:"publication_year"`
	Authorships []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	OpenAccess openAlexOpenAccess `json:"open_access"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA bool `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL string `json:"oa_url"`
}
