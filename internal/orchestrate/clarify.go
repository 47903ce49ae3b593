// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/pkg/types"
)

const clarifySystemPrompt = `You are the clarification gate for a research assistant. Given the user's query, decide whether it is specific enough to research without further input.

Respond with ONLY a JSON object of the form:
{"need_clarification": true|false, "question": "<question to ask the user, if any>", "verification": "<one-line restatement of the query, if no clarification is needed>"}

Err toward need_clarification=false unless the query is genuinely ambiguous (e.g. a bare topic name with no angle, scope, or intent).`

type clarifyResponse struct {
	NeedClarification bool `json:"need_clarification"`
	Question string `json:"question"`
	Verification string `json:"verification"`
}

// clarifyResult is the outcome of phase 1.
type clarifyResult struct {
	NeedsClarification bool
	Question string
}

// clarify runs phase 1. Any JSON parse failure is
// treated as "no clarification needed" — the degradation policy is to
// proceed rather than block the invocation on a flaky LM response.
func clarify(ctx context.Context, gen llm.Generator, cfg types.DeepResearchConfig, query string) clarifyResult {
	prompt := fmt.Sprintf("%s\n\nUser query: %q", clarifySystemPrompt, query)

	resp, err := llm.GenerateWithRetry(ctx, gen, prompt, cfg.Provider, cfg.Model, 0)
	if err != nil {
		return clarifyResult{}
	}

	var parsed clarifyResponse
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &parsed); err != nil {
		return clarifyResult{}
	}

	if parsed.NeedClarification {
		return clarifyResult{NeedsClarification: true, Question: parsed.Question}
	}
	return clarifyResult{}
}
