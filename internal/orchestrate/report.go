// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/deep-research/internal/llm"
	"github.com/pdiddy/deep-research/pkg/types"
)

const reportPromptTemplate = `Write a research report from the brief and findings below. Use exactly these five section headings, in order: "Executive Summary", "Detailed Analysis", "Key Insights", "Practical Recommendations", "Conclusion".

Research brief:
%s

Findings:
%s`

// generateReport runs phase 4. On LM failure it
// emits a deterministic fallback report built from the raw notes so the
// invocation still succeeds with a non-empty final_report.
func generateReport(ctx context.Context, gen llm.Generator, cfg types.DeepResearchConfig, researchBrief string, notes, rawNotes []string) string {
	prompt := fmt.Sprintf(reportPromptTemplate, researchBrief, strings.Join(notes, "\n\n"))

	resp, err := llm.GenerateWithRetry(ctx, gen, prompt, cfg.Provider, cfg.Model, 0)
	if err != nil {
		return fallbackReport(rawNotes)
	}
	return resp.Content
}

// fallbackReport is the deterministic report emitted when the phase-4 LM
// call fails.
func fallbackReport(rawNotes []string) string {
	var b strings.Builder
	b.WriteString("# Research Report\n\n")
	b.WriteString("## Findings Summary\n\n")
	if len(rawNotes) == 0 {
		b.WriteString("No findings were gathered.\n")
	} else {
		b.WriteString(strings.Join(rawNotes, "\n\n"))
		b.WriteString("\n")
	}
	return b.String()
}
