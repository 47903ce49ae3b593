// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/internal/toolcall"
	"github.com/pdiddy/deep-research/pkg/types"
)

func noopSubAgentRunner(calls *[]string) func(context.Context, string) (string, error) {
	return func(_ context.Context, topic string) (string, error) {
		*calls = append(*calls, topic)
		return "Findings about " + topic, nil
	}
}

func TestRunSupervisorTerminatesOnResearchComplete(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`USE_TOOL: research_complete("All key questions answered.")`,
	}}
	var subAgentCalls []string
	cfg := types.DeepResearchConfig{MaxIterations: 3, MaxConcurrentAgents: 2}
	base := toolcall.NewDispatcher(testAggregator(), nil)

	notes, _ := runSupervisor(context.Background(), gen, logrus.New(), cfg, "test query", briefResult{ResearchBrief: "brief"}, base, noopSubAgentRunner(&subAgentCalls))
	if len(subAgentCalls) != 0 {
		t.Errorf("expected no sub-agent runs, got %v", subAgentCalls)
	}
	if notes != nil {
		t.Errorf("expected nil notes on immediate completion, got %v", notes)
	}
}

func TestRunSupervisorDispatchesConductResearch(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`USE_TOOL: conduct_research("sub-topic A")`,
		`USE_TOOL: research_complete("done")`,
	}}
	var subAgentCalls []string
	cfg := types.DeepResearchConfig{MaxIterations: 3, MaxConcurrentAgents: 2}
	base := toolcall.NewDispatcher(testAggregator(), nil)

	notes, rawNotes := runSupervisor(context.Background(), gen, logrus.New(), cfg, "test query", briefResult{ResearchBrief: "brief"}, base, noopSubAgentRunner(&subAgentCalls))
	if len(subAgentCalls) != 1 || subAgentCalls[0] != "sub-topic A" {
		t.Fatalf("expected exactly one sub-agent run for 'sub-topic A', got %v", subAgentCalls)
	}
	if len(notes) != 1 || !strings.Contains(notes[0], "sub-topic A") {
		t.Errorf("notes = %v", notes)
	}
	if len(rawNotes) != 1 || !strings.HasPrefix(rawNotes[0], "Research on: sub-topic A") {
		t.Errorf("rawNotes = %v", rawNotes)
	}
}

func TestRunSupervisorForcedResearchWhenNoCallsOnFirstIteration(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		"I'm thinking about how to approach this.",
	}}
	var subAgentCalls []string
	cfg := types.DeepResearchConfig{MaxIterations: 3, MaxConcurrentAgents: 2}
	base := toolcall.NewDispatcher(testAggregator(), nil)

	notes, rawNotes := runSupervisor(context.Background(), gen, logrus.New(), cfg, "AI agent coordination methods", briefResult{ResearchBrief: "brief"}, base, noopSubAgentRunner(&subAgentCalls))
	if len(subAgentCalls) < 2 {
		t.Fatalf("expected forced research to run at least 2 sub-agents, got %v", subAgentCalls)
	}
	if len(notes) < 2 {
		t.Errorf("expected at least 2 notes from forced research, got %v", notes)
	}
	for _, raw := range rawNotes {
		if !strings.HasPrefix(raw, "Forced research on:") {
			t.Errorf("raw note %q missing forced-research prefix", raw)
		}
	}
}

func TestRunSupervisorExitsAtIterationCap(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`USE_TOOL: conduct_research("topic one")`,
		`USE_TOOL: conduct_research("topic two")`,
	}}
	var subAgentCalls []string
	cfg := types.DeepResearchConfig{MaxIterations: 2, MaxConcurrentAgents: 2}
	base := toolcall.NewDispatcher(testAggregator(), nil)

	notes, _ := runSupervisor(context.Background(), gen, logrus.New(), cfg, "test query", briefResult{ResearchBrief: "brief"}, base, noopSubAgentRunner(&subAgentCalls))
	if len(notes) != 2 {
		t.Errorf("expected notes from both iterations, got %v", notes)
	}
}
