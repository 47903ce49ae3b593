// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "strings"

// LexicalRelevance scores a title/snippet pair against a query when the
// provider itself supplies no relevance score:
//	+0.5 if the query substring appears in the title
//	+0.3 if the query substring appears in the snippet
//	per query word longer than 2 characters: +0.1 if the title contains it,
//	+0.05 if the snippet does
// The result is clamped to [0,1].
func LexicalRelevance(query, title, snippet string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	t := strings.ToLower(title)
	s := strings.ToLower(snippet)

	var score float64
	if q != "" {
		if strings.Contains(t, q) {
			score += 0.5
		}
		if strings.Contains(s, q) {
			score += 0.3
		}
	}

	for _, word := range strings.Fields(q) {
		if len(word) <= 2 {
			continue
		}
		if strings.Contains(t, word) {
			score += 0.1
		}
		if strings.Contains(s, word) {
			score += 0.05
		}
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
