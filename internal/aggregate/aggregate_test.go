// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"context"
	"testing"

	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/pkg/types"
)

// --- mock adapter ---

type mockAdapter struct {
	name string
	results []types.SearchResult
	err error
	available bool
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) Search(_ context.Context, _ string, _ types.SearchOptions) ([]types.SearchResult, error) {
	return m.results, m.err
}

func (m *mockAdapter) IsAvailable() bool { return m.available }

func newAvailable(name string, results...types.SearchResult) *mockAdapter {
	return &mockAdapter{name: name, results: results, available: true}
}

// --- construction / provider detection ---

func TestNewFiltersUnavailableAdapters(t *testing.T) {
	a := New([]search.Adapter{
			newAvailable("google", types.SearchResult{Title: "a", URL: "https://a.example/1"}),
			&mockAdapter{name: "tavily", available: false},
		}, nil, nil)

	if len(a.adapters) != 1 || a.adapters[0].Name() != "google" {
		t.Fatalf("expected only google to survive filtering, got %v", a.adapters)
	}
}

func TestSearchEmptyAdapterSetReturnsEmptyNotError(t *testing.T) {
	a := New(nil, nil, nil)
	results, err := a.Search(context.Background(), "query", types.DefaultUnifiedSearchOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results, got %v", results)
	}
}

// --- combine strategies ---

func TestCombineMergeSortsByScoreTimesWeight(t *testing.T) {
	a := New([]search.Adapter{
			newAvailable("google", types.SearchResult{Title: "low", URL: "https://x.example/1", RelevanceScore: 0.5}),
			newAvailable("context7", types.SearchResult{Title: "high", URL: "https://x.example/2", RelevanceScore: 0.9}),
		}, nil, nil)

	opts := types.DefaultUnifiedSearchOptions()
	opts.CombineStrategy = types.CombineMerge
	opts.Deduplicate = false

	results, err := a.Search(context.Background(), "q", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// context7's weight (1.3) * 0.9 beats google's (1.2) * 0.5.
	if results[0].Title != "high" {
		t.Errorf("expected highest weighted score first, got %q first", results[0].Title)
	}
}

func TestCombineInterleavePreservesPerAdapterOrder(t *testing.T) {
	a := New([]search.Adapter{
			newAvailable("google",
				types.SearchResult{Title: "g1", URL: "https://g.example/1"},
				types.SearchResult{Title: "g2", URL: "https://g.example/2"},
			),
			newAvailable("tavily",
				types.SearchResult{Title: "t1", URL: "https://t.example/1"},
			),
		}, nil, nil)

	opts := types.DefaultUnifiedSearchOptions()
	opts.CombineStrategy = types.CombineInterleave
	opts.Deduplicate = false

	results, err := a.Search(context.Background(), "q", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	// Round-robin: perAdapter is built by registration index, so each round
	// takes google's next result then tavily's: g1, t1, g2.
	seen := map[string]bool{}
	for _, r := range results {
		seen[r.Title] = true
	}
	for _, want := range []string{"g1", "g2", "t1"} {
		if !seen[want] {
			t.Errorf("expected %q among interleaved results", want)
		}
	}
	for i, want := range []string{"g1", "t1", "g2"} {
		if results[i].Title != want {
			t.Errorf("results[%d].Title = %q, want %q", i, results[i].Title, want)
		}
	}
}

func TestCombineWeightedFusesDuplicateURLs(t *testing.T) {
	a := New([]search.Adapter{
			newAvailable("google", types.SearchResult{Title: "dup", URL: "https://dup.example/page", Snippet: "short", RelevanceScore: 0.8}),
			newAvailable("duckduckgo", types.SearchResult{Title: "dup", URL: "https://dup.example/page/", Snippet: "a much longer snippet here", RelevanceScore: 0.6}),
		}, nil, nil)

	opts := types.DefaultUnifiedSearchOptions()
	results, err := a.Search(context.Background(), "q", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected duplicate URLs fused into 1 result, got %d", len(results))
	}

	// combined = (0.8*1.2 + 0.6*1.0) / (1.2+1.0) = 1.56/2.2 = 0.70909...
	want := (0.8*1.2 + 0.6*1.0) / (1.2 + 1.0)
	if diff := results[0].RelevanceScore - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("combined score = %v, want %v", results[0].RelevanceScore, want)
	}
	if results[0].Snippet != "a much longer snippet here" {
		t.Errorf("expected representative to be the longer snippet, got %q", results[0].Snippet)
	}

	sources, _ := results[0].Metadata["sources"].([]string)
	if len(sources) != 2 {
		t.Errorf("expected metadata.sources to list both adapters, got %v", sources)
	}
}

// --- dedup idempotence law ---

func TestDedupeAcrossSourcesIsIdempotent(t *testing.T) {
	results := []types.SearchResult{
		{Title: "a", URL: "https://example.com/a", RelevanceScore: 0.4},
		{Title: "a dup", URL: "https://example.com/a/", RelevanceScore: 0.9},
		{Title: "b", URL: "https://example.com/b", RelevanceScore: 0.2},
	}

	once := dedupeAcrossSources(results)
	twice := dedupeAcrossSources(once)

	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: len(once)=%d len(twice)=%d", len(once), len(twice))
	}
	for i := range once {
		if once[i].URL != twice[i].URL {
			t.Errorf("dedup not idempotent at index %d: %q != %q", i, once[i].URL, twice[i].URL)
		}
	}
}

// --- categorical routing ---

func TestSearchDocumentationFiltersNonDocHosts(t *testing.T) {
	a := New([]search.Adapter{
			newAvailable("context7", types.SearchResult{Title: "docs hit", URL: "https://context7.com/lib/react"}),
			newAvailable("google",
				types.SearchResult{Title: "good", URL: "https://docs.example.com/guide"},
				types.SearchResult{Title: "unrelated", URL: "https://news.example.com/story"},
			),
		}, nil, nil)

	opts := types.DefaultUnifiedSearchOptions()
	results, err := a.SearchDocumentation(context.Background(), "react hooks", "react", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range results {
		if r.Title == "unrelated" {
			t.Errorf("expected non-doc-host web result to be filtered out, found %v", r)
		}
	}
}
