// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/internal/aggregate"
	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/internal/toolcall"
	"github.com/pdiddy/deep-research/pkg/types"
)

// maxSubAgentIterations bounds the inner loop.
const maxSubAgentIterations = 5

const subAgentSystemPromptTemplate = `You are a focused research sub-agent. Investigate the following topic thoroughly using the available tools, then summarize your findings in prose.

Topic: %s

Use web_search and/or scholar_search to ground your summary in real sources before answering.`

const subAgentCoverageNudge = "You haven't used both web_search and scholar_search yet. Use whichever is missing before summarizing."

// runSubAgent executes the bounded inner loop for one topic. It returns a prose summary, never an empty string on
// the happy path: every exit returns either an accepted LM summary or a
// compression-pass/fallback summary.
func runSubAgent(ctx context.Context, gen llm.Generator, log logrus.FieldLogger, cfg types.DeepResearchConfig, agg *aggregate.Aggregator, topic string) (string, error) {
	dispatcher := toolcall.NewDispatcher(agg, nil)

	conversation := []types.ResearchMessage{
		types.SystemMessage(toolcall.AppendToolBlock(fmt.Sprintf(subAgentSystemPromptTemplate, topic))),
	}

	var webSearched, scholarSearched bool

	for iteration := 0; iteration < maxSubAgentIterations; iteration++ {
		resp, err := llm.GenerateWithRetry(ctx, gen, renderConversation(conversation), cfg.Provider, cfg.Model, 0)
		if err != nil {
			log.WithError(err).WithField("topic", topic).Warn("sub-agent LM call failed")
			resp = llm.Response{}
		}

		conversation = append(conversation, types.ResearchMessage{Role: types.RoleAssistant, Content: resp.Content})
		calls := toolcall.Parse(resp.Content)
		// Once a search has run, a lone web_search synthesized by Parse's
		// forced-progress guard (the text never names the tool) is prose,
		// so it is treated as the summary rather than another search.
		if (webSearched || scholarSearched) && len(calls) == 1 && calls[0].Name == types.ToolWebSearch && !strings.Contains(resp.Content, types.ToolWebSearch) {
			calls = nil
		}

		if len(calls) == 0 {
			if webSearched || scholarSearched || iteration >= 1 {
				return resp.Content, nil
			}
			conversation = append(conversation, forcedWebSearchMessage(ctx, agg, topic)...)
			webSearched = true
			continue
		}

		for _, call := range calls {
			conversation[len(conversation)-1].ToolCalls = append(conversation[len(conversation)-1].ToolCalls, call)
			if call.Name == types.ToolWebSearch {
				webSearched = true
			}
			if call.Name == types.ToolScholarSearch {
				scholarSearched = true
			}

			result := dispatcher.Dispatch(ctx, call)
			conversation = append(conversation, result.Message)
		}

		if iteration >= 1 && !webSearched && !scholarSearched {
			conversation = append(conversation, types.UserMessage(subAgentCoverageNudge))
		}
	}

	return compressSubAgentConversation(ctx, gen, cfg, topic, conversation)
}

// forcedWebSearchMessage runs a keyless DuckDuckGo-only web_search
// directly against the aggregator and wraps the formatted results as a
// tool-role message, used when the sub-agent stalls without calling any
// search tool.
func forcedWebSearchMessage(ctx context.Context, agg *aggregate.Aggregator, topic string) []types.ResearchMessage {
	opts := types.DefaultUnifiedSearchOptions()
	opts.Sources = []string{"duckduckgo"}

	results, err := agg.Search(ctx, topic, opts)
	var content string
	if err != nil {
		content = fmt.Sprintf("Web search failed: %v", err)
	} else {
		content = toolcall.FormatSearchResults("Web", results)
	}

	call := types.ToolCall{ID: types.NewToolCallID(), Name: types.ToolWebSearch, Arguments: map[string]interface{}{"query": topic}}
	return []types.ResearchMessage{
		types.UserMessage("No tool calls detected; forcing a web search so the summary is grounded."),
		types.ToolMessage(call, content),
	}
}

const compressionPromptTemplate = `Distill the research conversation below into a structured summary for the topic %q. Cover what was found, citing sources where available.

Conversation:
%s`

// compressSubAgentConversation runs the compression pass when the
// iteration cap is exceeded without an accepted summary. On LM failure it falls back to a deterministic
// summary built from the raw conversation so the supervisor always gets a
// non-empty string back.
func compressSubAgentConversation(ctx context.Context, gen llm.Generator, cfg types.DeepResearchConfig, topic string, conversation []types.ResearchMessage) (string, error) {
	prompt := fmt.Sprintf(compressionPromptTemplate, topic, renderConversation(conversation))
	resp, err := llm.GenerateWithRetry(ctx, gen, prompt, cfg.Provider, cfg.Model, 0)
	if err != nil {
		return fmt.Sprintf("Research on %s (iteration cap reached; summary unavailable): %v", topic, err), nil
	}
	return resp.Content, nil
}
