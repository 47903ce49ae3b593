// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"context"
	"testing"

	"github.com/pdiddy/deep-research/pkg/types"
)

func TestClarifyFlagsNeedClarification(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`{"need_clarification": true, "question": "Which area of AI?"}`}}
	result := clarify(context.Background(), gen, types.DeepResearchConfig{}, "tell me about AI")
	if !result.NeedsClarification {
		t.Fatalf("expected clarification needed")
	}
	if result.Question != "Which area of AI?" {
		t.Errorf("question = %q", result.Question)
	}
}

func TestClarifyProceedsWhenNotNeeded(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`{"need_clarification": false}`}}
	result := clarify(context.Background(), gen, types.DeepResearchConfig{}, "few-shot text-to-SQL methods")
	if result.NeedsClarification {
		t.Fatalf("did not expect clarification")
	}
}

func TestClarifyDegradesOnParseFailure(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"not json at all"}}
	result := clarify(context.Background(), gen, types.DeepResearchConfig{}, "some query")
	if result.NeedsClarification {
		t.Fatalf("parse failure should degrade to no-clarification-needed")
	}
}

func TestClarifyDegradesOnLMFailure(t *testing.T) {
	result := clarify(context.Background(), failingGenerator{}, types.DeepResearchConfig{}, "some query")
	if result.NeedsClarification {
		t.Fatalf("LM failure should degrade to no-clarification-needed")
	}
}
