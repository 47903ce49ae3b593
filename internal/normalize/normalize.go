// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize provides the single URL-normalization routine shared by
// the search adapters (within-call dedup) and the aggregator (cross-source
// dedup and weighted fusion's group key).
package normalize

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"strings"
)

// URL returns the identity key used for deduplication: origin + path (with
// trailing slash stripped) + query, lowercased, with the fragment
// discarded. On parse failure it falls back to a lowercased, trailing-
// slash-stripped copy of the raw string.
// URL is idempotent: URL(URL(u)) == URL(u) for any u, and equal up to
// fragment, trailing slash, and case.
func URL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return strings.ToLower(strings.TrimRight(strings.TrimSpace(raw), "/"))
	}

	path := strings.TrimRight(u.Path, "/")
	key := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + path
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return strings.ToLower(key)
}

// Hash returns a short, stable identifier for a normalized URL, useful for
// log correlation without repeating the full URL.
func Hash(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum[:6])
}
