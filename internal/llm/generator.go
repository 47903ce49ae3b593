// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm defines the injected language-model collaborator interface
// and one concrete Anthropic-backed implementation.
package llm

import "context"

// Response is what a Generator call returns.
type Response struct {
	Content string
}

// Generator is the single injected LM capability the orchestrator
// depends on: generate(prompt, provider, model) → {content}.
// provider and model let one Generator implementation route to several
// backends/models; a single-backend implementation may ignore provider.
type Generator interface {
	Generate(ctx context.Context, prompt, provider, model string) (Response, error)
}
