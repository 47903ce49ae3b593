// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/pkg/types"
)

var errReportPhaseUnavailable = errors.New("report phase LM unavailable")

func TestConductDeepResearchRejectsShortQuery(t *testing.T) {
	result := ConductDeepResearch(context.Background(), "ai", types.DeepResearchConfig{}, &scriptedGenerator{}, testAggregator(), logrus.New())
	if result.Success {
		t.Fatalf("expected failure for short query")
	}
	if result.Error != "Query must be ≥3 chars" {
		t.Errorf("error = %q", result.Error)
	}
}

func TestConductDeepResearchAcceptsThreeCharQuery(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"need_clarification": false}`,
		`{"research_brief": "Investigate cat.", "key_questions": [], "research_scope": "narrow"}`,
		`USE_TOOL: research_complete("n/a")`,
		"# Executive Summary\n...\n# Conclusion\n...",
	}}
	cfg := types.DeepResearchConfig{Provider: "anthropic", Model: "claude", MaxIterations: 2, MaxConcurrentAgents: 2, TimeoutMS: 5000}
	result := ConductDeepResearch(context.Background(), "cat", cfg, gen, testAggregator(), logrus.New())
	if !result.Success {
		t.Fatalf("expected success for a 3-char query, got error=%q", result.Error)
	}
}

func TestConductDeepResearchSurfacesClarificationRequest(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"need_clarification": true, "question": "Which area of AI?"}`,
	}}
	cfg := types.DeepResearchConfig{Provider: "anthropic", Model: "claude", MaxIterations: 2, MaxConcurrentAgents: 2, TimeoutMS: 5000}
	result := ConductDeepResearch(context.Background(), "tell me about AI", cfg, gen, testAggregator(), logrus.New())
	if result.Success {
		t.Fatalf("expected failure due to clarification")
	}
	if result.Error != "Clarification needed" {
		t.Errorf("error = %q", result.Error)
	}
	if result.Details != "Which area of AI?" {
		t.Errorf("details = %q", result.Details)
	}
}

func TestConductDeepResearchFullHappyPath(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`{"need_clarification": false}`,
		`{"research_brief": "Investigate few-shot text-to-SQL techniques.", "key_questions": ["What works best?"], "research_scope": "standard"}`,
		`USE_TOOL: conduct_research("few-shot text-to-SQL techniques")`,
		`USE_TOOL: web_search("few-shot text-to-SQL")`,
		"Summary of few-shot findings.",
		`USE_TOOL: research_complete("All key questions answered.")`,
		"# Executive Summary\n...\n# Detailed Analysis\n...\n# Key Insights\n...\n# Practical Recommendations\n...\n# Conclusion\n...",
	}}
	cfg := types.DeepResearchConfig{Provider: "anthropic", Model: "claude", MaxIterations: 3, MaxConcurrentAgents: 2, TimeoutMS: 10000}
	result := ConductDeepResearch(context.Background(), "techniques for few-shot text-to-SQL with practical recommendations", cfg, gen, testAggregator(), logrus.New())
	if !result.Success {
		t.Fatalf("expected success, got error=%q details=%q", result.Error, result.Details)
	}
	if !strings.Contains(result.ResearchBrief, "few-shot") {
		t.Errorf("research_brief = %q", result.ResearchBrief)
	}
	if len(result.Notes) < 1 {
		t.Errorf("expected at least one note, got %v", result.Notes)
	}
	if !strings.Contains(result.FinalReport, "Executive Summary") || !strings.Contains(result.FinalReport, "Conclusion") {
		t.Errorf("final_report = %q", result.FinalReport)
	}
}

func TestConductDeepResearchFallsBackToDeterministicReportOnPhase4Failure(t *testing.T) {
	gen := &scriptedGenerator{
		responses: []string{
			`{"need_clarification": false}`,
			`{"research_brief": "Investigate quantum computing for cryptography.", "key_questions": [], "research_scope": "standard"}`,
			`USE_TOOL: research_complete("nothing to research")`,
		},
		failErr: errReportPhaseUnavailable,
	}
	cfg := types.DeepResearchConfig{Provider: "anthropic", Model: "claude", MaxIterations: 2, MaxConcurrentAgents: 2, TimeoutMS: 10000}
	result := ConductDeepResearch(context.Background(), "quantum computing for cryptography", cfg, gen, testAggregator(), logrus.New())
	if !result.Success {
		t.Fatalf("expected success even with phase-4 fallback, got error=%q", result.Error)
	}
	if !strings.HasPrefix(result.FinalReport, "# Research Report") {
		t.Errorf("final_report = %q", result.FinalReport)
	}
	if !strings.Contains(result.FinalReport, "## Findings Summary") {
		t.Errorf("expected Findings Summary section, got %q", result.FinalReport)
	}
}
