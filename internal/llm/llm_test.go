// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	backoffBase = 1 * time.Millisecond
}

type fakeGenerator struct {
	calls   int32
	failFor int32
	resp    Response
}

func (f *fakeGenerator) Generate(_ context.Context, _, _, _ string) (Response, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= f.failFor {
		return Response{}, errors.New("transient failure")
	}
	return f.resp, nil
}

func TestGenerateWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	gen := &fakeGenerator{failFor: 2, resp: Response{Content: "ok"}}
	resp, err := GenerateWithRetry(context.Background(), gen, "prompt", "anthropic", "claude", 5)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, int32(3), atomic.LoadInt32(&gen.calls))
}

func TestGenerateWithRetryExhausts(t *testing.T) {
	gen := &fakeGenerator{failFor: 100}
	_, err := GenerateWithRetry(context.Background(), gen, "prompt", "anthropic", "claude", 2)
	require.Error(t, err)
}

func TestAnthropicGenerateParsesTextBlocks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"hello "},{"type":"text","text":"world"}]}`))
	}))
	defer ts.Close()

	orig := anthropicMessagesURL
	anthropicMessagesURL = ts.URL
	defer func() { anthropicMessagesURL = orig }()

	client := NewAnthropic(ts.Client(), "test-key")
	resp, err := client.Generate(context.Background(), "prompt", "anthropic", "claude-3")
	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Content)
}

func TestAnthropicGenerateNon200ReturnsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	orig := anthropicMessagesURL
	anthropicMessagesURL = ts.URL
	defer func() { anthropicMessagesURL = orig }()

	client := NewAnthropic(ts.Client(), "test-key")
	_, err := client.Generate(context.Background(), "prompt", "anthropic", "claude-3")
	require.Error(t, err)
}
