// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/internal/toolcall"
	"github.com/pdiddy/deep-research/pkg/types"
)

const supervisorSystemPromptTemplate = `You are the lead research coordinator. Your job is to decompose the research brief below into focused sub-topics and delegate each to a research sub-agent via conduct_research, then call research_complete when the brief is satisfied.

Research brief:
%s

Key questions:
%s

You may run up to %d sub-agents at once and have at most %d planning iterations.`

// runSupervisor drives the supervisor loop.
// subAgentRunner recurses into the sub-agent loop for one topic; it's
// injected so this file doesn't need to know how sub-agents are built.
func runSupervisor(ctx context.Context, gen llm.Generator, log logrus.FieldLogger, cfg types.DeepResearchConfig, query string, b briefResult, dispatchBase *toolcall.Dispatcher, subAgentRunner func(ctx context.Context, topic string) (string, error)) (notes, rawNotes []string) {
	dispatcher := toolcall.NewDispatcher(dispatchBase.Aggregator, subAgentRunner)

	systemPrompt := fmt.Sprintf(supervisorSystemPromptTemplate, b.ResearchBrief, formatKeyQuestions(b.KeyQuestions), cfg.MaxConcurrentAgents, cfg.MaxIterations)
	conversation := []types.ResearchMessage{types.SystemMessage(toolcall.AppendToolBlock(systemPrompt))}

	for iteration := 0; iteration < cfg.MaxIterations; iteration++ {
		resp, err := llm.GenerateWithRetry(ctx, gen, renderConversation(conversation), cfg.Provider, cfg.Model, 0)
		if err != nil {
			log.WithError(err).Warn("supervisor LM call failed; treating as no tool calls")
			resp = llm.Response{}
		}

		conversation = append(conversation, types.ResearchMessage{Role: types.RoleAssistant, Content: resp.Content})
		calls := toolcall.Parse(resp.Content)

		if len(calls) == 0 {
			if iteration == 0 && len(notes) == 0 {
				forcedNotes, forcedRaw := runForcedResearch(ctx, query, subAgentRunner, log)
				return append(notes, forcedNotes...), append(rawNotes, forcedRaw...)
			}
			continue
		}

		for _, call := range calls {
			conversation[len(conversation)-1].ToolCalls = append(conversation[len(conversation)-1].ToolCalls, call)
		}

		researchCalls, otherCalls := splitConductResearch(calls)

		for _, call := range otherCalls {
			result := dispatcher.Dispatch(ctx, call)
			conversation = append(conversation, result.Message)
			if result.Completed {
				return notes, rawNotes
			}
		}

		if len(researchCalls) > 0 {
			topicNotes, topicRaw := runConductResearchCalls(ctx, researchCalls, subAgentRunner, cfg.MaxConcurrentAgents, log)
			for i, call := range researchCalls {
				conversation = append(conversation, types.ToolMessage(call, topicRaw[i]))
			}
			notes = append(notes, topicNotes...)
			rawNotes = append(rawNotes, topicRaw...)
		}
	}

	return notes, rawNotes
}

// splitConductResearch separates conduct_research calls (handled with
// bounded concurrency below) from everything else (dispatched serially,
// in parsed order).
func splitConductResearch(calls []types.ToolCall) (research, other []types.ToolCall) {
	for _, call := range calls {
		if call.Name == types.ToolConductResearch {
			research = append(research, call)
		} else {
			other = append(other, call)
		}
	}
	return research, other
}

// runConductResearchCalls executes conduct_research calls with up to
// maxConcurrent running at once, but always appends to notes/raw_notes in
// the order the calls appeared in the supervisor's output — not
// completion order.
func runConductResearchCalls(ctx context.Context, calls []types.ToolCall, runner func(ctx context.Context, topic string) (string, error), maxConcurrent int, log logrus.FieldLogger) (notes, rawNotes []string) {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	summaries := make([]string, len(calls))
	topics := make([]string, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, call := range calls {
		i, call := i, call
		topics[i] = stringArgument(call.Arguments, "research_topic")
		g.Go(func() error {
			summary, err := runner(gctx, topics[i])
			if err != nil {
				log.WithError(err).WithField("topic", topics[i]).Warn("sub-agent research failed")
				summary = fmt.Sprintf("No findings: %v", err)
			}
			summaries[i] = summary
			return nil
		})
	}
	_ = g.Wait()

	for i, summary := range summaries {
		notes = append(notes, summary)
		rawNotes = append(rawNotes, "Research on: "+topics[i]+"\n"+summary)
	}
	return notes, rawNotes
}

// runForcedResearch implements the forced-research fallback:
// synthesizes topics from the query and runs each through the sub-agent
// loop, tagging the lineage strings "Forced research on:...".
func runForcedResearch(ctx context.Context, query string, runner func(ctx context.Context, topic string) (string, error), log logrus.FieldLogger) (notes, rawNotes []string) {
	topics := forcedResearchTopics(query)
	for _, topic := range topics {
		summary, err := runner(ctx, topic)
		if err != nil {
			log.WithError(err).WithField("topic", topic).Warn("forced research sub-agent failed")
			summary = fmt.Sprintf("No findings: %v", err)
		}
		notes = append(notes, summary)
		rawNotes = append(rawNotes, "Forced research on: "+topic+"\n"+summary)
	}
	return notes, rawNotes
}

func formatKeyQuestions(questions []string) string {
	if len(questions) == 0 {
		return "(none provided)"
	}
	var b strings.Builder
	for _, q := range questions {
		b.WriteString("- ")
		b.WriteString(q)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderConversation flattens the running conversation into a single
// prompt string for Generator implementations that take one text blob
// rather than a structured message list.
func renderConversation(conversation []types.ResearchMessage) string {
	var b strings.Builder
	for _, m := range conversation {
		fmt.Fprintf(&b, "[%s] %s\n", m.Role, m.Content)
	}
	return b.String()
}

func stringArgument(args map[string]interface{}, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
