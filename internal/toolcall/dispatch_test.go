// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolcall

import (
	"context"
	"errors"
	"testing"

	"github.com/pdiddy/deep-research/internal/aggregate"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/pkg/types"
)

type fakeAdapter struct {
	name    string
	results []types.SearchResult
}

func (f *fakeAdapter) Name() string      { return f.name }
func (f *fakeAdapter) IsAvailable() bool { return true }
func (f *fakeAdapter) Search(_ context.Context, _ string, _ types.SearchOptions) ([]types.SearchResult, error) {
	return f.results, nil
}

func newTestDispatcher() *Dispatcher {
	agg := aggregate.New([]search.Adapter{
		&fakeAdapter{name: "duckduckgo", results: []types.SearchResult{
			{Title: "result", URL: "https://example.com/a", Snippet: "snippet", RelevanceScore: 0.7},
		}},
	}, nil, nil)
	return NewDispatcher(agg, nil)
}

func TestDispatchUnknownTool(t *testing.T) {
	d := newTestDispatcher()
	result := d.Dispatch(context.Background(), types.ToolCall{ID: "1", Name: "bogus_tool", Arguments: map[string]interface{}{}})
	if result.Completed {
		t.Fatalf("unknown tool should never complete the loop")
	}
	if result.Message.ToolCallID != "1" {
		t.Errorf("tool_call_id not preserved: %+v", result.Message)
	}
	if result.Message.Content != "Unknown tool: bogus_tool" {
		t.Errorf("content = %q", result.Message.Content)
	}
}

func TestDispatchMissingRequiredArgument(t *testing.T) {
	d := newTestDispatcher()
	result := d.Dispatch(context.Background(), types.ToolCall{ID: "2", Name: types.ToolThink, Arguments: map[string]interface{}{}})
	if result.Completed {
		t.Fatalf("rejected call must not complete the loop")
	}
	if result.Message.Content == "" {
		t.Errorf("expected a rejection message")
	}
}

func TestDispatchThink(t *testing.T) {
	d := newTestDispatcher()
	result := d.Dispatch(context.Background(), types.ToolCall{
		ID: "3", Name: types.ToolThink, Arguments: map[string]interface{}{"thoughts": "consider both angles"},
	})
	if result.Message.Content != "Thinking: consider both angles" {
		t.Errorf("content = %q", result.Message.Content)
	}
}

func TestDispatchWebSearchFormatsResults(t *testing.T) {
	d := newTestDispatcher()
	result := d.Dispatch(context.Background(), types.ToolCall{
		ID: "4", Name: types.ToolWebSearch, Arguments: map[string]interface{}{"query": "test"},
	})
	if result.Message.Content == "" {
		t.Fatalf("expected formatted content")
	}
}

func TestDispatchResearchComplete(t *testing.T) {
	d := newTestDispatcher()
	result := d.Dispatch(context.Background(), types.ToolCall{
		ID: "5", Name: types.ToolResearchComplete, Arguments: map[string]interface{}{"summary": "done"},
	})
	if !result.Completed {
		t.Fatalf("expected Completed=true")
	}
	if result.CompletionSummary != "done" {
		t.Errorf("summary = %q", result.CompletionSummary)
	}
}

func TestDispatchConductResearchPropagatesError(t *testing.T) {
	agg := aggregate.New(nil, nil, nil)
	d := NewDispatcher(agg, func(_ context.Context, _ string) (string, error) {
		return "", errors.New("sub-agent exploded")
	})
	result := d.Dispatch(context.Background(), types.ToolCall{
		ID: "6", Name: types.ToolConductResearch, Arguments: map[string]interface{}{"research_topic": "x"},
	})
	if result.Completed {
		t.Fatalf("a failed sub-agent must not complete the supervisor loop")
	}
	if result.Message.Content == "" {
		t.Errorf("expected an error message surfaced as tool content")
	}
}
