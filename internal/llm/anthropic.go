// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/deep-research/internal/httputil"
)

var anthropicMessagesURL = "https://api.anthropic.com/v1/messages"

const anthropicVersion = "2023-06-01"

// defaultMaxTokens bounds a single Messages API call when the caller
// doesn't need a larger completion.
const defaultMaxTokens = 4096

// Anthropic is a Generator backed by the Anthropic Messages API. It
// reuses internal/httputil.DoWithRetry for 429 handling, the same
// exponential-backoff helper the search adapters use.
type Anthropic struct {
	Client *http.Client
	APIKey string
}

// NewAnthropic constructs an Anthropic-backed Generator.
func NewAnthropic(client *http.Client, apiKey string) *Anthropic {
	return &Anthropic{Client: client, APIKey: apiKey}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Generate implements Generator. provider is accepted for interface
// symmetry with other potential backends but ignored: this implementation
// only ever talks to Anthropic.
func (a *Anthropic) Generate(ctx context.Context, prompt, provider, model string) (Response, error) {
	payload, err := json.Marshal(anthropicRequest{
		Model:     model,
		MaxTokens: defaultMaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Response{}, fmt.Errorf("encoding anthropic request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return Response{}, fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("anthropic returned HTTP %d", resp.StatusCode)
	}

	var body anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Response{}, fmt.Errorf("parsing anthropic response: %w", err)
	}

	var text string
	for _, block := range body.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return Response{Content: text}, nil
}
