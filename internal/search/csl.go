// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deep-research/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID string `yaml:"id"`
	Type string `yaml:"type"`
	Title string `yaml:"title"`
	Author []CSLName `yaml:"author,omitempty"`
	Abstract string `yaml:"abstract,omitempty"`
	Issued *CSLDate `yaml:"issued,omitempty"`
	DOI string `yaml:"DOI,omitempty"`
	URL string `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family string `yaml:"family,omitempty"`
	Given string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes citations for a set of search results as a CSL-YAML
// list, suitable for consumption by Pandoc or a reference manager when a
// report's sources need to be handed off for formal citation.
func FormatCSL(results []types.SearchResult, w io.Writer) error {
	items := make([]CSLItem, len(results))
	for i, r := range results {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a SearchResult to a CSLItem, pulling the bibliographic
// detail that adapters stash in Metadata (doi, authors, year, publication_date).
func toCSLItem(r types.SearchResult) CSLItem {
	item := CSLItem{
		ID: metadataString(r.Metadata, "identifier", "doi", "arxiv_id", "patent_id"),
		Type: "article",
		Title: r.Title,
		Abstract: r.Snippet,
		URL: r.URL,
	}
	if item.ID == "" {
		item.ID = r.URL
	}

	for _, a := range metadataStrings(r.Metadata, "authors", "inventors") {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if year, date := metadataYear(r.Metadata); year > 0 {
		if date != "" {
			if parts := strings.Split(date, "-"); len(parts) == 3 {
				item.Issued = &CSLDate{DateParts: [][]int{{year, atoiOrZero(parts[1]), atoiOrZero(parts[2])}}}
			}
		}
		if item.Issued == nil {
			item.Issued = &CSLDate{DateParts: [][]int{{year}}}
		}
	}

	if doi, _ := r.Metadata["doi"].(string); doi != "" {
		item.DOI = doi
	}

	return item
}

func metadataString(meta map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := meta[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func metadataStrings(meta map[string]interface{}, keys ...string) []string {
	for _, k := range keys {
		if v, ok := meta[k].([]string); ok && len(v) > 0 {
			return v
		}
	}
	return nil
}

func metadataYear(meta map[string]interface{}) (int, string) {
	if y, ok := meta["year"].(int); ok && y > 0 {
		date, _ := meta["publication_date"].(string)
		return y, date
	}
	if y, ok := meta["publication_year"].(int); ok && y > 0 {
		date, _ := meta["publication_date"].(string)
		return y, date
	}
	return 0, ""
}

func atoiOrZero(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given: name[:idx],
		Family: name[idx+1:],
	}
}
