// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolcall

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/deep-research/internal/aggregate"
	"github.com/pdiddy/deep-research/pkg/types"
)

// ConductResearchFunc recurses into the sub-agent loop for one topic. It's
// injected rather than imported directly so this package never depends on
// internal/orchestrate (which depends on this package).
type ConductResearchFunc func(ctx context.Context, topic string) (summary string, err error)

// Dispatcher routes each parsed ToolCall to the aggregator or back into
// the orchestrator, producing one formatted tool-role reply per call.
type Dispatcher struct {
	Aggregator *aggregate.Aggregator
	ConductResearch ConductResearchFunc
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(agg *aggregate.Aggregator, conduct ConductResearchFunc) *Dispatcher {
	return &Dispatcher{Aggregator: agg, ConductResearch: conduct}
}

// Result is the outcome of dispatching a single ToolCall.
type Result struct {
	// Message is the tool-role ResearchMessage that answers the call.
	Message types.ResearchMessage

	// Completed is set when the call was research_complete; the
	// supervisor loop uses this to terminate.
	Completed bool

	// CompletionSummary carries the research_complete argument when
	// Completed is true.
	CompletionSummary string
}

// Dispatch executes one ToolCall and returns its Result. No call is ever
// silently dropped: every branch, including unknown tools and missing
// arguments, produces a tool-role message.
func (d *Dispatcher) Dispatch(ctx context.Context, call types.ToolCall) Result {
	spec, known := Lookup(call.Name)
	if !known {
		return Result{Message: types.ToolMessage(call, "Unknown tool: "+call.Name)}
	}

	if missing := MissingRequired(spec, call.Arguments); len(missing) > 0 {
		msg := fmt.Sprintf("Tool call rejected: missing required argument(s): %s", strings.Join(missing, ", "))
		return Result{Message: types.ToolMessage(call, msg)}
	}

	switch call.Name {
	case types.ToolWebSearch:
		return d.dispatchSearch(ctx, call, "Web", func(query string) ([]types.SearchResult, error) {
				opts := types.DefaultUnifiedSearchOptions()
				opts.Sources = []string{"google", "duckduckgo", "tavily", "langsearch"}
				return d.Aggregator.Search(ctx, query, opts)
			})
	case types.ToolScholarSearch:
		return d.dispatchSearch(ctx, call, "Scholar", func(query string) ([]types.SearchResult, error) {
				return d.Aggregator.SearchScholar(ctx, query, types.DefaultUnifiedSearchOptions())
			})
	case types.ToolNewsSearch:
		return d.dispatchSearch(ctx, call, "News", func(query string) ([]types.SearchResult, error) {
				return d.Aggregator.SearchNews(ctx, query, types.DefaultUnifiedSearchOptions())
			})
	case types.ToolDocSearch:
		return d.dispatchSearch(ctx, call, "Documentation", func(query string) ([]types.SearchResult, error) {
				library, _ := call.Arguments["library"].(string)
				return d.Aggregator.SearchDocumentation(ctx, query, library, types.DefaultUnifiedSearchOptions())
			})
	case types.ToolThink:
		thoughts := stringArg(call.Arguments, "thoughts")
		return Result{Message: types.ToolMessage(call, "Thinking: "+thoughts)}
	case types.ToolConductResearch:
		return d.dispatchConductResearch(ctx, call)
	case types.ToolResearchComplete:
		summary := stringArg(call.Arguments, "summary")
		return Result{
			Message: types.ToolMessage(call, "Research complete: "+summary),
			Completed: true,
			CompletionSummary: summary,
		}
	default:
		return Result{Message: types.ToolMessage(call, "Unknown tool: "+call.Name)}
	}
}

func (d *Dispatcher) dispatchSearch(ctx context.Context, call types.ToolCall, label string, search func(query string) ([]types.SearchResult, error)) Result {
	query := stringArg(call.Arguments, "query")
	results, err := search(query)
	if err != nil {
		return Result{Message: types.ToolMessage(call, fmt.Sprintf("%s search failed: %v", label, err))}
	}
	return Result{Message: types.ToolMessage(call, FormatSearchResults(label, results))}
}

func (d *Dispatcher) dispatchConductResearch(ctx context.Context, call types.ToolCall) Result {
	topic := stringArg(call.Arguments, "research_topic")
	if d.ConductResearch == nil {
		return Result{Message: types.ToolMessage(call, "conduct_research is unavailable in this context")}
	}
	summary, err := d.ConductResearch(ctx, topic)
	if err != nil {
		return Result{Message: types.ToolMessage(call, fmt.Sprintf("Sub-agent research failed: %v", err))}
	}
	return Result{Message: types.ToolMessage(call, summary)}
}

// stringArg reads a string argument, tolerating numeric/bool JSON values
// by falling back to fmt.Sprint so a malformed-but-present argument never
// crashes dispatch.
func stringArg(args map[string]interface{}, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
