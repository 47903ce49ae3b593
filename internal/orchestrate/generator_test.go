// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"context"
	"errors"

	"github.com/pdiddy/deep-research/internal/llm"
)

// scriptedGenerator returns one queued response per call, in order. If the
// queue is exhausted it returns failErr (or a generic error if unset).
type scriptedGenerator struct {
	responses []string
	failErr   error
	calls     int
}

func (g *scriptedGenerator) Generate(_ context.Context, _, _, _ string) (llm.Response, error) {
	if g.calls >= len(g.responses) {
		if g.failErr != nil {
			return llm.Response{}, g.failErr
		}
		return llm.Response{}, errors.New("scriptedGenerator: no more responses")
	}
	resp := g.responses[g.calls]
	g.calls++
	return llm.Response{Content: resp}, nil
}

// failingGenerator always errors; used to exercise degradation paths.
type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, string, string, string) (llm.Response, error) {
	return llm.Response{}, errors.New("generator unavailable")
}
