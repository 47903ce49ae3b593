// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/pkg/types"
)

var (
	ddgInstantAnswerURL = "https://api.duckduckgo.com/"
	ddgHTMLURL = "https://html.duckduckgo.com/html/"
	ddgLiteURL = "https://lite.duckduckgo.com/lite/"
)

const ddgUserAgent = "Mozilla/5.0 (compatible; deep-research/0.1)"

// DuckDuckGo requires no API key. It tries the instant-answer JSON endpoint
// first; if that yields nothing it scrapes the standard HTML endpoint, then
// falls back to the "lite" endpoint.
type DuckDuckGo struct {
	base
	Client *http.Client
}

// NewDuckDuckGo constructs the always-available DuckDuckGo adapter.
func NewDuckDuckGo(client *http.Client, log logrus.FieldLogger) *DuckDuckGo {
	return &DuckDuckGo{base: base{name: "duckduckgo", log: log}, Client: client}
}

func (d *DuckDuckGo) Name() string { return d.name }
func (d *DuckDuckGo) IsAvailable() bool { return true }

func (d *DuckDuckGo) Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	return d.run(ctx, query, opts, d.performSearch)
}

func (d *DuckDuckGo) performSearch(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	if results, err := d.instantAnswer(ctx, query); err != nil {
		return nil, err
	} else if len(results) > 0 {
		return results, nil
	}

	if results, err := d.scrape(ctx, ddgHTMLURL, query, opts); err != nil {
		if d.log != nil {
			d.log.WithError(err).Warn("duckduckgo html endpoint failed, falling back to lite")
		}
	} else if len(results) > 0 {
		return results, nil
	}

	return d.scrape(ctx, ddgLiteURL, query, opts)
}

type ddgInstantAnswerResponse struct {
	Abstract string `json:"Abstract"`
	AbstractText string `json:"AbstractText"`
	AbstractURL string `json:"AbstractURL"`
	Answer string `json:"Answer"`
	AnswerType string `json:"AnswerType"`
	Definition string `json:"Definition"`
	DefinitionURL string `json:"DefinitionURL"`
	Heading string `json:"Heading"`
	RelatedTopics []struct {
		Text string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// instantAnswer queries the instant-answer JSON endpoint. It returns at
// least one result iff an abstract, answer, definition, or related topic
// was present.
func (d *DuckDuckGo) instantAnswer(ctx context.Context, query string) ([]types.SearchResult, error) {
	params := url.Values{"q": {query}, "format": {"json"}, "no_html": {"1"}, "skip_disambig": {"1"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ddgInstantAnswerURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", ddgUserAgent)

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo instant answer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo instant answer returned HTTP %d", resp.StatusCode)
	}

	var body ddgInstantAnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing duckduckgo instant answer response: %w", err)
	}

	var results []types.SearchResult
	if body.AbstractText != "" {
		results = append(results, types.SearchResult{
				Title: body.Heading,
				URL: body.AbstractURL,
				Snippet: body.AbstractText,
				Source: "duckduckgo",
				RelevanceScore: LexicalRelevance(query, body.Heading, body.AbstractText),
			})
	}
	if body.Answer != "" {
		results = append(results, types.SearchResult{
				Title: body.Heading,
				URL: body.AbstractURL,
				Snippet: body.Answer,
				Source: "duckduckgo",
				RelevanceScore: LexicalRelevance(query, body.Heading, body.Answer),
			})
	}
	if body.Definition != "" {
		results = append(results, types.SearchResult{
				Title: body.Heading,
				URL: body.DefinitionURL,
				Snippet: body.Definition,
				Source: "duckduckgo",
				RelevanceScore: LexicalRelevance(query, body.Heading, body.Definition),
			})
	}
	for _, rt := range body.RelatedTopics {
		if rt.Text == "" {
			continue
		}
		results = append(results, types.SearchResult{
				Title: rt.Text,
				URL: rt.FirstURL,
				Snippet: rt.Text,
				Source: "duckduckgo",
				RelevanceScore: LexicalRelevance(query, rt.Text, rt.Text),
			})
	}
	return results, nil
}

// ddgResultLink matches a DuckDuckGo HTML result anchor: class comes either
// before or after the href attribute across the html/lite endpoints.
var ddgResultLink = regexp.MustCompile(`(?is)<a[^>]*class=['"][^'"]*result(?:__a\b|[^'"]*link)[^'"]*['"][^>]*href=['"]([^'"]+)['"][^>]*>(.*?)</a>|<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"][^'"]*result(?:__a\b|[^'"]*link)[^'"]*['"][^>]*>(.*?)</a>`)

var ddgSnippet = regexp.MustCompile(`(?is)class=['"][^'"]*result__snippet[^'"]*['"][^>]*>(.*?)</`)

var ddgTagStrip = regexp.MustCompile(`(?s)<[^>]+>`)

// scrape fetches endpoint and extracts result anchors/snippets.
func (d *DuckDuckGo) scrape(ctx context.Context, endpoint, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", ddgUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo scrape request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo scrape returned HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading duckduckgo response: %w", err)
	}

	html := string(raw)
	links := ddgResultLink.FindAllStringSubmatch(html, -1)
	snippets := ddgSnippet.FindAllStringSubmatch(html, -1)

	max := resolveMaxResults(opts)
	results := make([]types.SearchResult, 0, max)
	for i, m := range links {
		if len(results) >= max {
			break
		}
		linkURL, title := m[1], m[2]
		if linkURL == "" {
			linkURL, title = m[3], m[4]
		}
		linkURL = strings.TrimSpace(linkURL)
		title = cleanTags(title)
		if linkURL == "" || title == "" {
			continue
		}

		snippet := ""
		if i < len(snippets) {
			snippet = cleanTags(snippets[i][1])
		}

		results = append(results, types.SearchResult{
				Title: title,
				URL: linkURL,
				Snippet: snippet,
				Source: "duckduckgo",
				RelevanceScore: LexicalRelevance(query, title, snippet),
			})
	}
	return results, nil
}

func cleanTags(s string) string {
	s = ddgTagStrip.ReplaceAllString(s, "")
	s = strings.NewReplacer(
		"&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", "\"", "&#39;", "'", "&nbsp;", " ",
	).Replace(s)
	return strings.TrimSpace(s)
}
