// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolcall

import (
	"fmt"
	"strings"

	"github.com/pdiddy/deep-research/pkg/types"
)

// maxFormattedResults bounds how many results are rendered in full per
// tool call; the remainder is summarized in a trailing note.
const maxFormattedResults = 8

// FormatSearchResults renders results as the Markdown-like block the
// orchestrator feeds back to the LM as a tool-role message. label names
// the category ("Web", "Scholar", "News", "Documentation").
func FormatSearchResults(label string, results []types.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No %s results found.", strings.ToLower(label))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s Search Results (%d found)\n\n", label, len(results))

	shown := results
	truncated := 0
	if len(shown) > maxFormattedResults {
		truncated = len(shown) - maxFormattedResults
		shown = shown[:maxFormattedResults]
	}

	for i, r := range shown {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, " URL: %s\n", r.URL)
		fmt.Fprintf(&b, " Source: %s\n", r.Source)
		if r.Snippet != "" {
			fmt.Fprintf(&b, " Snippet: %s\n", r.Snippet)
		}
		fmt.Fprintf(&b, " Relevance: %.0f%%\n\n", r.RelevanceScore*100)
	}

	if truncated > 0 {
		fmt.Fprintf(&b, "...and %d more result(s) not shown.\n", truncated)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
