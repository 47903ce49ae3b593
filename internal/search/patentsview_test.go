// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/pkg/types"
)

func testPatentsViewLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const samplePatentsViewJSON = `{
  "patents": [
    {
      "patent_id": "10000000",
      "patent_title": "Transformer neural network accelerator",
      "patent_abstract": "A hardware accelerator for attention-based models.",
      "patent_date": "2023-05-02",
      "patent_type": "utility",
      "patent_num_claims": 20,
      "inventors": [{"inventor_name_last": "Smith"}, {"inventor_name_last": "Lee"}]
    }
  ],
  "count": 1,
  "total_patent_count": 1
}`

func patentsViewTestServer(statusCode int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func TestPatentsViewSearch(t *testing.T) {
	ts := patentsViewTestServer(http.StatusOK, samplePatentsViewJSON)
	defer ts.Close()

	old := patentsViewSearchBase
	patentsViewSearchBase = ts.URL
	defer func() { patentsViewSearchBase = old }()

	p := NewPatentsView(ts.Client(), "test-key", testPatentsViewLog())
	results, err := p.Search(context.Background(), "transformer accelerator", types.SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}

	r := results[0]
	if r.URL != "https://patents.google.com/patent/US10000000" {
		t.Errorf("URL = %q, want US-prefixed Google Patents URL", r.URL)
	}
	if r.Source != "patentsview" {
		t.Errorf("Source = %q, want %q", r.Source, "patentsview")
	}
	inventors, _ := r.Metadata["inventors"].([]string)
	if len(inventors) != 2 || inventors[0] != "Smith" || inventors[1] != "Lee" {
		t.Errorf("inventors = %v, want [Smith Lee]", inventors)
	}
}

func TestPatentsViewAPIKeyHeader(t *testing.T) {
	var gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"patents":[],"count":0,"total_patent_count":0}`)
	}))
	defer ts.Close()

	old := patentsViewSearchBase
	patentsViewSearchBase = ts.URL
	defer func() { patentsViewSearchBase = old }()

	p := NewPatentsView(ts.Client(), "secret", testPatentsViewLog())
	_, err := p.Search(context.Background(), "test", types.SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("X-Api-Key header = %q, want %q", gotKey, "secret")
	}
}

func TestPatentsViewEmptyQuery(t *testing.T) {
	p := NewPatentsView(&http.Client{}, "key", testPatentsViewLog())
	_, err := p.Search(context.Background(), "", types.SearchOptions{})
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected empty query error, got: %v", err)
	}
}

func TestPatentsViewRateLimit(t *testing.T) {
	ts := patentsViewTestServer(http.StatusTooManyRequests, "")
	defer ts.Close()

	old := patentsViewSearchBase
	patentsViewSearchBase = ts.URL
	defer func() { patentsViewSearchBase = old }()

	p := NewPatentsView(ts.Client(), "key", testPatentsViewLog())
	_, err := p.Search(context.Background(), "test", types.SearchOptions{})
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Errorf("error = %v, want rate limit error", err)
	}
}

func TestPatentsViewMalformedJSON(t *testing.T) {
	ts := patentsViewTestServer(http.StatusOK, `{not valid json`)
	defer ts.Close()

	old := patentsViewSearchBase
	patentsViewSearchBase = ts.URL
	defer func() { patentsViewSearchBase = old }()

	p := NewPatentsView(ts.Client(), "key", testPatentsViewLog())
	_, err := p.Search(context.Background(), "test", types.SearchOptions{})
	if err == nil {
		t.Fatal("expected JSON parse error")
	}
}

func TestPatentsViewNameAndAvailability(t *testing.T) {
	p := NewPatentsView(&http.Client{}, "", testPatentsViewLog())
	if p.Name() != "patentsview" {
		t.Errorf("Name() = %q, want %q", p.Name(), "patentsview")
	}
	if p.IsAvailable() {
		t.Error("IsAvailable() = true, want false without an API key")
	}

	p = NewPatentsView(&http.Client{}, "key", testPatentsViewLog())
	if !p.IsAvailable() {
		t.Error("IsAvailable() = false, want true with an API key")
	}
}
