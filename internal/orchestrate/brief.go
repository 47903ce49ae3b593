// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/pkg/types"
)

const briefSystemPrompt = `You are the planning stage of a research assistant. Given the user's query, produce a research brief.

Respond with ONLY a JSON object of the form:
{"research_brief": "<one paragraph framing what to research>", "key_questions": ["<question 1>", "..."], "research_scope": "<narrow|standard|broad>"}`

const defaultResearchScope = "standard"

// maxKeyQuestions bounds both the LM's own key_questions array and the
// salvage-path extraction.
const maxKeyQuestions = 5

type briefResponse struct {
	ResearchBrief string `json:"research_brief"`
	KeyQuestions []string `json:"key_questions"`
	ResearchScope string `json:"research_scope"`
}

// briefResult is the outcome of phase 2.
type briefResult struct {
	ResearchBrief string
	KeyQuestions []string
	ResearchScope string
}

// brief runs phase 2. On JSON failure it salvages a
// brief from the raw response text rather than failing the invocation.
func brief(ctx context.Context, gen llm.Generator, cfg types.DeepResearchConfig, query string) briefResult {
	prompt := fmt.Sprintf("%s\n\nUser query: %q", briefSystemPrompt, query)

	resp, err := llm.GenerateWithRetry(ctx, gen, prompt, cfg.Provider, cfg.Model, 0)
	if err != nil {
		// No response text at all to salvage from: fall back to the
		// query itself as the raw material for the brief.
		return salvageBrief(query)
	}

	var parsed briefResponse
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &parsed); err != nil || parsed.ResearchBrief == "" {
		return salvageBrief(resp.Content)
	}

	scope := parsed.ResearchScope
	if scope == "" {
		scope = defaultResearchScope
	}
	questions := parsed.KeyQuestions
	if len(questions) > maxKeyQuestions {
		questions = questions[:maxKeyQuestions]
	}

	return briefResult{
		ResearchBrief: parsed.ResearchBrief,
		KeyQuestions: questions,
		ResearchScope: scope,
	}
}

// keyQuestionStarters lists the interrogatives the salvage path treats as
// marking a line as a candidate key question.
var keyQuestionStarters = []string{"what", "how", "why", "when", "where"}

// salvageBrief degrades gracefully when the LM's phase-2 response isn't
// parseable JSON: the raw text becomes the brief itself, and any
// question-shaped lines become key_questions.
func salvageBrief(raw string) briefResult {
	raw = strings.TrimSpace(raw)

	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasSuffix(line, "?") {
			continue
		}
		lower := strings.ToLower(line)
		for _, starter := range keyQuestionStarters {
			if strings.HasPrefix(lower, starter) {
				questions = append(questions, line)
				break
			}
		}
		if len(questions) == maxKeyQuestions {
			break
		}
	}

	return briefResult{
		ResearchBrief: raw,
		KeyQuestions: questions,
		ResearchScope: defaultResearchScope,
	}
}
