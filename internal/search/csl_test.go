// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdiddy/deep-research/pkg/types"
)

func TestToCSLItemArticle(t *testing.T) {
	r := types.SearchResult{
		Title: "Attention Is All You Need",
		URL: "https://arxiv.org/abs/1706.03762",
		Snippet: "We propose a new architecture.",
		Source: "arxiv",
		Metadata: map[string]interface{}{
			"arxiv_id": "1706.03762",
			"authors": []string{"Ashish Vaswani", "Noam Shazeer"},
			"year": 2017,
			"publication_date": "2017-06-12",
		},
	}

	item := toCSLItem(r)

	if item.Type != "article" {
		t.Errorf("Type = %q, want %q", item.Type, "article")
	}
	if item.ID != "1706.03762" {
		t.Errorf("ID = %q, want arxiv_id", item.ID)
	}
	if len(item.Author) != 2 {
		t.Fatalf("len(Author) = %d, want 2", len(item.Author))
	}
	if item.Author[0].Given != "Ashish" || item.Author[0].Family != "Vaswani" {
		t.Errorf("Author[0] = %+v, want given=Ashish family=Vaswani", item.Author[0])
	}
	if item.Issued == nil || item.Issued.DateParts[0][0] != 2017 {
		t.Error("Issued year should be 2017")
	}
}

func TestToCSLItemFallsBackToURL(t *testing.T) {
	r := types.SearchResult{
		Title: "Untitled",
		URL: "https://example.com/paper",
	}
	item := toCSLItem(r)
	if item.ID != r.URL {
		t.Errorf("ID = %q, want fallback to URL %q", item.ID, r.URL)
	}
}

func TestParseAuthorNameSingleToken(t *testing.T) {
	n := parseAuthorName("Plato")
	if n.Literal != "Plato" || n.Family != "" {
		t.Errorf("parseAuthorName(single token) = %+v, want literal-only", n)
	}
}

func TestFormatCSLMultipleResults(t *testing.T) {
	results := []types.SearchResult{
		{
			Title: "Attention Is All You Need",
			URL: "https://arxiv.org/abs/1706.03762",
			Source: "arxiv",
			Metadata: map[string]interface{}{
				"doi": "10.5555/3295222.3295349",
				"authors": []string{"Ashish Vaswani"},
				"year": 2017,
			},
		},
		{
			Title: "Transformer neural network accelerator",
			URL: "https://patents.google.com/patent/US10000000",
			Source: "patentsview",
			Metadata: map[string]interface{}{
				"patent_id": "US10000000",
				"inventors": []string{"Smith"},
			},
		},
	}

	var buf bytes.Buffer
	if err := FormatCSL(results, &buf); err != nil {
		t.Fatalf("FormatCSL: %v", err)
	}

	s := buf.String()
	if !strings.Contains(s, "DOI: 10.5555/3295222.3295349") {
		t.Error("CSL output should contain the DOI field")
	}
	if !strings.Contains(s, "US10000000") {
		t.Error("CSL output should contain the patent id")
	}
	if strings.Count(s, "type: article") != 2 {
		t.Errorf("expected both entries typed as article, got: %s", s)
	}
}
