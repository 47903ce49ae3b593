// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deep research
// orchestrator: search results and options (this file), the tool-call
// conversation protocol and orchestration state (conversation.go, state.go).
package types

import (
	"context"
	"time"
)

// SourceType enumerates the categorical routing buckets a query can be
// restricted to.
type SourceType string

const (
	TypeWeb           SourceType = "web"
	TypeScholar       SourceType = "scholar"
	TypeNews          SourceType = "news"
	TypeDocumentation SourceType = "documentation"
	TypeCode          SourceType = "code"
	TypeImages        SourceType = "images"
)

// CombineStrategy selects how the aggregator fuses results across sources.
type CombineStrategy string

const (
	CombineMerge      CombineStrategy = "merge"
	CombineInterleave CombineStrategy = "interleave"
	CombineWeighted   CombineStrategy = "weighted"
)

// SearchResult is a single hit from any search provider. URL is the
// identity key for deduplication once normalized (lowercased, trailing
// slash stripped, fragment removed).
type SearchResult struct {
	// Title is the result title as returned by the provider. Never empty.
	Title string `json:"title" yaml:"title"`

	// URL is the canonical location of the result.
	URL string `json:"url" yaml:"url"`

	// Snippet is a short excerpt; may be empty.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Source identifies which adapter produced this result (e.g. "google", "tavily").
	Source string `json:"source" yaml:"source"`

	// RelevanceScore is a value in [0,1]. Tavily and LangSearch pass the
	// provider's score through; the other adapters compute one with the
	// lexical heuristic or from result position.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// Metadata carries provider-specific extras (e.g. "sources" after
	// weighted fusion lists every contributing adapter tag).
	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DefaultRelevanceScore is a neutral relevance value; no adapter or the
// aggregator assigns it.
const DefaultRelevanceScore = 0.5

// SearchOptions shapes a single-provider search request.
type SearchOptions struct {
	// MaxResults caps the number of results a single provider returns (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Timeout bounds how long a single adapter call may run (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Signal may be nil. No adapter reads it; a request is cancelled through
	// the ctx passed to Search.
	Signal context.Context `json:"-" yaml:"-"`

	Type         SourceType `json:"type,omitempty" yaml:"type,omitempty"`
	Language     string     `json:"language,omitempty" yaml:"language,omitempty"`
	DateRestrict string     `json:"date_restrict,omitempty" yaml:"date_restrict,omitempty"`
	SiteSearch   string     `json:"site_search,omitempty" yaml:"site_search,omitempty"`
	FileType     string     `json:"file_type,omitempty" yaml:"file_type,omitempty"`
}

// DefaultMaxResultsPerSource is the per-provider cap used when
// UnifiedSearchOptions.MaxResultsPerSource is unset.
const DefaultMaxResultsPerSource = 10

// DefaultMaxResults is the aggregator's own truncation cap.
const DefaultMaxResults = 20

// DefaultTimeout is the per-adapter timeout used when SearchOptions.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// UnifiedSearchOptions extends SearchOptions with aggregator-level controls.
type UnifiedSearchOptions struct {
	SearchOptions `yaml:",inline"`

	// Sources restricts the fan-out to this subset of provider tags. Empty
	// means "all available providers".
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`

	// CombineStrategy selects fusion behavior (default weighted).
	CombineStrategy CombineStrategy `json:"combine_strategy" yaml:"combine_strategy"`

	// Weights overrides the default per-provider weight used by weighted fusion.
	Weights map[string]float64 `json:"weights,omitempty" yaml:"weights,omitempty"`

	// Deduplicate collapses duplicate URLs after combination (default true).
	Deduplicate bool `json:"deduplicate" yaml:"deduplicate"`

	// MaxResultsPerSource caps each adapter's contribution before fusion (default 10).
	MaxResultsPerSource int `json:"max_results_per_source" yaml:"max_results_per_source"`
}

// DefaultUnifiedSearchOptions returns the documented defaults: weighted
// combine, deduplication on, 20 results overall capped at 10 per source.
// Callers should start from this rather than a bare struct literal so the
// Deduplicate default (true) isn't lost to Go's zero-value bool.
func DefaultUnifiedSearchOptions() UnifiedSearchOptions {
	return UnifiedSearchOptions{
		SearchOptions: SearchOptions{
			MaxResults: DefaultMaxResults,
			Timeout:    DefaultTimeout,
		},
		CombineStrategy:     CombineWeighted,
		Deduplicate:         true,
		MaxResultsPerSource: DefaultMaxResultsPerSource,
	}
}
