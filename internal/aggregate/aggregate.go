// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate fans a query out to every available search adapter,
// fuses the results under one of three combine strategies, and exposes the
// categorical routing (scholar/news/documentation) the tool-call dispatcher
// calls into.
package aggregate

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/deep-research/internal/normalize"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/pkg/types"
)

// defaultWeights are applied when options.weights doesn't override a tag.
var defaultWeights = map[string]float64{
	"google": 1.2,
	"google_scholar": 1.2,
	"google_news": 1.2,
	"google_images": 1.2,
	"tavily": 1.1,
	"langsearch": 1.15,
	"duckduckgo": 1.0,
	"context7": 1.3,
	"arxiv": 1.25,
	"openalex": 1.2,
	"semantic_scholar": 1.2,
	"patentsview": 1.1,
}

// docHostSubstrings curates which web-search hits look like documentation,
// used to filter the fallback web search in SearchDocumentation.
var docHostSubstrings = []string{
	"docs.", "readthedocs.io", "devdocs.io", "github.io", "pkg.go.dev",
	"developer.", "/docs/", "/documentation/", "api-reference",
}

// Aggregator fans a query out across every registered, available adapter
// and fuses the results.
type Aggregator struct {
	adapters []search.Adapter
	weights map[string]float64
	log logrus.FieldLogger
}

// New constructs an Aggregator from the given adapters. Unavailable
// adapters (IsAvailable() == false) are filtered out at construction time,
// not at call time.
func New(adapters []search.Adapter, weights map[string]float64, log logrus.FieldLogger) *Aggregator {
	available := make([]search.Adapter, 0, len(adapters))
	for _, a := range adapters {
		if a.IsAvailable() {
			available = append(available, a)
		}
	}
	return &Aggregator{adapters: available, weights: weights, log: log}
}

// weightFor returns the configured weight for an adapter tag, falling back
// to the built-in default, then to 1.0.
func (a *Aggregator) weightFor(name string) float64 {
	if w, ok := a.weights[name]; ok {
		return w
	}
	if w, ok := defaultWeights[name]; ok {
		return w
	}
	return 1.0
}

type taggedResult struct {
	types.SearchResult
	adapter string
	weight float64
}

// selected returns the adapters matching opts.Sources (all available
// adapters when Sources is empty).
func (a *Aggregator) selected(opts types.UnifiedSearchOptions) []search.Adapter {
	if len(opts.Sources) == 0 {
		return a.adapters
	}
	want := make(map[string]bool, len(opts.Sources))
	for _, s := range opts.Sources {
		want[s] = true
	}
	out := make([]search.Adapter, 0, len(opts.Sources))
	for _, ad := range a.adapters {
		if want[ad.Name()] {
			out = append(out, ad)
		}
	}
	return out
}

// fanOut dispatches query to every adapter in adapters concurrently,
// waiting for all of them to settle; a failing adapter contributes no
// results and is logged, never aborting the others.
func (a *Aggregator) fanOut(ctx context.Context, adapters []search.Adapter, query string, opts types.SearchOptions) [][]taggedResult {
	perAdapter := make([][]taggedResult, len(adapters))

	g, gctx := errgroup.WithContext(ctx)
	for i, ad := range adapters {
		i, ad := i, ad
		g.Go(func() error {
				results, err := ad.Search(gctx, query, opts)
				if err != nil {
					if a.log != nil {
						a.log.WithError(err).WithField("adapter", ad.Name()).Warn("search adapter failed, continuing without it")
					}
					return nil
				}
				weight := a.weightFor(ad.Name())
				tagged := make([]taggedResult, len(results))
				for j, r := range results {
					tagged[j] = taggedResult{SearchResult: r, adapter: ad.Name(), weight: weight}
				}
				perAdapter[i] = tagged
				return nil
			})
	}
	// errgroup.Group.Go never returns a non-nil error here (adapter errors
	// are absorbed above), so the Wait error is always nil.
	_ = g.Wait()

	return perAdapter
}

// Search is the unified entry point.
func (a *Aggregator) Search(ctx context.Context, query string, opts types.UnifiedSearchOptions) ([]types.SearchResult, error) {
	adapters := a.selected(opts)
	if len(adapters) == 0 {
		return []types.SearchResult{}, nil
	}

	perAdapterOpts := opts.SearchOptions
	if opts.MaxResultsPerSource > 0 {
		perAdapterOpts.MaxResults = opts.MaxResultsPerSource
	} else {
		perAdapterOpts.MaxResults = types.DefaultMaxResultsPerSource
	}

	perAdapter := a.fanOut(ctx, adapters, query, perAdapterOpts)
	for _, group := range perAdapter {
		for j := range group {
			if w, ok := opts.Weights[group[j].adapter]; ok {
				group[j].weight = w
			}
		}
	}

	strategy := opts.CombineStrategy
	if strategy == "" {
		strategy = types.CombineWeighted
	}

	var combined []types.SearchResult
	switch strategy {
	case types.CombineMerge:
		combined = combineMerge(perAdapter)
	case types.CombineInterleave:
		combined = combineInterleave(perAdapter)
	default:
		combined = combineWeighted(perAdapter)
	}

	if strategyNeedsDedup(strategy, opts) {
		combined = dedupeAcrossSources(combined)
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = types.DefaultMaxResults
	}
	if len(combined) > maxResults {
		combined = combined[:maxResults]
	}
	return combined, nil
}

// strategyNeedsDedup reports whether a secondary dedup pass over combined
// is needed. Weighted combine already groups by URL, so it only needs the
// pass when the caller explicitly disabled it (never, in that case);
// merge/interleave need it whenever options.Deduplicate is set (default
// true by default).
func strategyNeedsDedup(strategy types.CombineStrategy, opts types.UnifiedSearchOptions) bool {
	if strategy == types.CombineWeighted {
		return false
	}
	return opts.Deduplicate
}

// combineMerge flattens every adapter's results and sorts descending by
// relevanceScore × weight.
func combineMerge(perAdapter [][]taggedResult) []types.SearchResult {
	var flat []taggedResult
	for _, group := range perAdapter {
		flat = append(flat, group...)
	}
	sort.SliceStable(flat, func(i, j int) bool {
			return flat[i].RelevanceScore*flat[i].weight > flat[j].RelevanceScore*flat[j].weight
		})
	out := make([]types.SearchResult, len(flat))
	for i, t := range flat {
		out[i] = t.SearchResult
	}
	return out
}

// combineInterleave round-robins across adapters, preserving each
// adapter's internal order.
func combineInterleave(perAdapter [][]taggedResult) []types.SearchResult {
	var out []types.SearchResult
	for i := 0;; i++ {
		any := false
		for _, group := range perAdapter {
			if i < len(group) {
				out = append(out, group[i].SearchResult)
				any = true
			}
		}
		if !any {
			break
		}
	}
	return out
}

// combineWeighted groups by normalized URL; combined score is the
// weight-normalized average across the group, the representative is the
// member with the longest snippet, and metadata.sources lists every
// contributing adapter tag.
func combineWeighted(perAdapter [][]taggedResult) []types.SearchResult {
	type group struct {
		key string
		scoreSum float64
		weightSum float64
		rep types.SearchResult
		sources []string
		sourceSeen map[string]bool
	}

	order := make([]string, 0)
	groups := make(map[string]*group)

	for _, results := range perAdapter {
		for _, t := range results {
			key := normalize.URL(t.URL)
			g, ok := groups[key]
			if !ok {
				g = &group{key: key, rep: t.SearchResult, sourceSeen: make(map[string]bool)}
				groups[key] = g
				order = append(order, key)
			}
			g.scoreSum += t.RelevanceScore * t.weight
			g.weightSum += t.weight
			if len(t.Snippet) > len(g.rep.Snippet) {
				g.rep = t.SearchResult
			}
			if !g.sourceSeen[t.adapter] {
				g.sourceSeen[t.adapter] = true
				g.sources = append(g.sources, t.adapter)
			}
		}
	}

	out := make([]types.SearchResult, 0, len(order))
	for _, key := range order {
		g := groups[key]
		combinedScore := 0.0
		if g.weightSum > 0 {
			combinedScore = g.scoreSum / g.weightSum
		}
		r := g.rep
		r.RelevanceScore = combinedScore
		meta := make(map[string]interface{}, len(r.Metadata)+1)
		for k, v := range r.Metadata {
			meta[k] = v
		}
		meta["sources"] = g.sources
		r.Metadata = meta
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
			return out[i].RelevanceScore > out[j].RelevanceScore
		})
	return out
}

// dedupeAcrossSources collapses duplicate normalized URLs, preferring the
// higher-scoring entry, breaking ties on the longer snippet.
func dedupeAcrossSources(results []types.SearchResult) []types.SearchResult {
	best := make(map[string]types.SearchResult)
	order := make([]string, 0, len(results))

	for _, r := range results {
		key := normalize.URL(r.URL)
		existing, ok := best[key]
		if !ok {
			best[key] = r
			order = append(order, key)
			continue
		}
		if r.RelevanceScore > existing.RelevanceScore ||
		(r.RelevanceScore == existing.RelevanceScore && len(r.Snippet) > len(existing.Snippet)) {
			best[key] = r
		}
	}

	out := make([]types.SearchResult, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

// SearchScholar routes to Google Scholar, the scholarly and patent adapters
// (arXiv, OpenAlex, Semantic Scholar, PatentsView), plus any generic adapter
// that accepts a scholar type.
func (a *Aggregator) SearchScholar(ctx context.Context, query string, opts types.UnifiedSearchOptions) ([]types.SearchResult, error) {
	opts.SearchOptions.Type = types.TypeScholar
	opts.Sources = intersectOrAll(opts.Sources, []string{"google_scholar", "arxiv", "openalex", "semantic_scholar", "patentsview", "tavily", "langsearch"})
	return a.Search(ctx, query, opts)
}

// SearchNews routes to Google News plus any generic adapter that accepts a
// news type.
func (a *Aggregator) SearchNews(ctx context.Context, query string, opts types.UnifiedSearchOptions) ([]types.SearchResult, error) {
	opts.SearchOptions.Type = types.TypeNews
	opts.Sources = intersectOrAll(opts.Sources, []string{"google_news", "tavily", "langsearch"})
	return a.Search(ctx, query, opts)
}

// SearchDocumentation routes to Context7 + LangSearch[type=docs], plus a
// fallback web search with a docs-biased query filtered by
// docHostSubstrings. library, if
// non-empty, is prefixed to the Context7/LangSearch query as
// "<library> topic: <query>" to steer resolution toward a specific library.
func (a *Aggregator) SearchDocumentation(ctx context.Context, query, library string, opts types.UnifiedSearchOptions) ([]types.SearchResult, error) {
	docQuery := query
	if library != "" {
		docQuery = library + " topic: " + query
	}

	docOpts := opts
	docOpts.SearchOptions.Type = types.TypeDocumentation
	docOpts.Sources = intersectOrAll(opts.Sources, []string{"context7", "langsearch"})
	docResults, err := a.Search(ctx, docQuery, docOpts)
	if err != nil {
		return nil, err
	}

	webOpts := opts
	webOpts.SearchOptions.Type = types.TypeWeb
	webOpts.Sources = intersectOrAll(opts.Sources, []string{"google", "duckduckgo", "tavily", "langsearch"})
	webResults, err := a.Search(ctx, query+" documentation", webOpts)
	if err != nil {
		webResults = nil
	}

	filtered := make([]types.SearchResult, 0, len(webResults))
	for _, r := range webResults {
		if looksLikeDocs(r.URL) {
			filtered = append(filtered, r)
		}
	}

	combined := append(docResults, filtered...)
	if opts.Deduplicate {
		combined = dedupeAcrossSources(combined)
	}
	return combined, nil
}

func looksLikeDocs(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, sub := range docHostSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// intersectOrAll narrows preferred to whatever the caller already
// restricted sources to, or returns preferred verbatim when the caller
// left Sources unset.
func intersectOrAll(callerSources []string, preferred []string) []string {
	if len(callerSources) == 0 {
		return preferred
	}
	want := make(map[string]bool, len(callerSources))
	for _, s := range callerSources {
		want[s] = true
	}
	out := make([]string, 0, len(preferred))
	for _, p := range preferred {
		if want[p] {
			out = append(out, p)
		}
	}
	return out
}
