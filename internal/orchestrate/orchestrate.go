// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrate implements the four-phase Deep Research pipeline:
// clarify, plan a brief, run the supervisor/sub-agent research loops, and
// generate a final report.
package orchestrate

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/deep-research/internal/aggregate"
	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/internal/toolcall"
	"github.com/pdiddy/deep-research/pkg/types"
)

// minQueryLength is the precondition on conductDeepResearch's input.
const minQueryLength = 3

// ConductDeepResearch runs the full pipeline for one query. It never panics on a malformed or failing
// collaborator: every phase has a documented degradation path, and the
// only ways to fail the whole invocation are an invalid query, a
// clarification request, or the overall timeout.
func ConductDeepResearch(ctx context.Context, query string, cfg types.DeepResearchConfig, gen llm.Generator, agg *aggregate.Aggregator, log logrus.FieldLogger) types.DeepResearchResult {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return types.DeepResearchResult{Success: false, Error: "Query must be ≥3 chars"}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = time.Duration(types.DefaultDeepResearchConfig().TimeoutMS) * time.Millisecond
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultCh := make(chan types.DeepResearchResult, 1)
	go func() {
		resultCh <- runPipeline(runCtx, query, cfg, gen, agg, log)
	}()

	select {
	case result := <-resultCh:
		return result
	case <-runCtx.Done():
		// No partial result on the top-level timeout.
		return types.DeepResearchResult{Success: false, Error: runCtx.Err().Error()}
	}
}

func runPipeline(ctx context.Context, query string, cfg types.DeepResearchConfig, gen llm.Generator, agg *aggregate.Aggregator, log logrus.FieldLogger) types.DeepResearchResult {
	clarification := clarify(ctx, gen, cfg, query)
	if clarification.NeedsClarification {
		return types.DeepResearchResult{
			Success: false,
			Error: "Clarification needed",
			Details: clarification.Question,
		}
	}

	b := brief(ctx, gen, cfg, query)

	baseDispatcher := toolcall.NewDispatcher(agg, nil)
	subAgentRunner := func(ctx context.Context, topic string) (string, error) {
		return runSubAgent(ctx, gen, log, cfg, agg, topic)
	}

	notes, rawNotes := runSupervisor(ctx, gen, log, cfg, query, b, baseDispatcher, subAgentRunner)

	report := generateReport(ctx, gen, cfg, b.ResearchBrief, notes, rawNotes)

	return types.DeepResearchResult{
		Success: true,
		ResearchBrief: b.ResearchBrief,
		FinalReport: report,
		Notes: notes,
		RawNotes: rawNotes,
	}
}
