// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search implements the per-provider search adapters (Google
// Custom Search, DuckDuckGo, Tavily, LangSearch, Context7) behind one
// uniform Adapter interface. Each adapter wraps a single external search
// service; internal/aggregate fans a query out across whichever adapters
// are available.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/internal/normalize"
	"github.com/pdiddy/deep-research/pkg/types"
)

// Adapter is implemented by every concrete search provider integration.
type Adapter interface {
	// Name returns the provider tag used for weighting, logging, and
	// Metadata["sources"] annotation (e.g. "google", "tavily").
	Name() string

	// Search executes one query against the provider and returns results.
	Search(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error)

	// IsAvailable reports whether the adapter has the credentials it needs.
	// Read once at construction time; never re-evaluated mid-invocation.
	IsAvailable() bool
}

// performFunc is the provider-specific request/parse logic a concrete
// adapter supplies to base.run. It should return a network or decode error
// for any genuine failure; base.run is responsible for turning cancellation
// into an empty, non-error result.
type performFunc func(ctx context.Context, query string, opts types.SearchOptions) ([]types.SearchResult, error)

// base composes the cancellation/timeout handling, cancellation-as-empty-
// result policy, and within-call URL deduplication shared by every adapter.
type base struct {
	name string
	log logrus.FieldLogger
}

// run applies the shared timeout/cancellation/dedup wrapper around perform.
func (b base) run(ctx context.Context, query string, opts types.SearchOptions, perform performFunc) ([]types.SearchResult, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, err := perform(runCtx, query, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if b.log != nil {
				b.log.WithFields(logrus.Fields{"adapter": b.name, "query": query}).
				Warn("search adapter cancelled or timed out, returning no results")
			}
			return []types.SearchResult{}, nil
		}
		return nil, err
	}

	return dedupeWithinCall(results), nil
}

// dedupeWithinCall removes duplicate URLs returned by a single provider
// call, keeping the first occurrence.
func dedupeWithinCall(results []types.SearchResult) []types.SearchResult {
	seen := make(map[string]bool, len(results))
	out := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		key := normalize.URL(r.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// resolveMaxResults applies the documented default (10) when unset.
func resolveMaxResults(opts types.SearchOptions) int {
	if opts.MaxResults > 0 {
		return opts.MaxResults
	}
	return types.DefaultMaxResultsPerSource
}

// defaultHTTPTimeout bounds the underlying http.Client when an adapter
// builds its own request outside of base.run's context timeout (e.g. the
// client's own Timeout field for requests that don't accept a context).
const defaultHTTPTimeout = 15 * time.Second
