// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolcall

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/deep-research/pkg/types"
)

// useToolPattern matches explicit "USE_TOOL: name(args)" markers (
// §4.3 pattern a).
var useToolPattern = regexp.MustCompile(`(?m)USE_TOOL:\s*(\w+)\((.*)\)`)

// bareCallPattern matches a bare "name(args)" line;
// candidates are filtered against the catalog after matching.
var bareCallPattern = regexp.MustCompile(`(?m)^\s*(\w+)\((.*)\)\s*$`)

// colonArgPattern matches "name: argument_line".
var colonArgPattern = regexp.MustCompile(`(?m)^\s*(\w+):\s*(.+)$`)

type span struct {
	start, end int
	call types.ToolCall
}

// Parse scans assistant output for tool invocations using the three
// complementary patterns, in order, and returns the calls in the order
// they appear in text. If no calls are found, the
// forced-progress guard may synthesize one web_search call.
func Parse(text string) []types.ToolCall {
	var claimed []span

	for _, m := range useToolPattern.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		if spec, ok := Lookup(name); ok {
			args := text[m[4]:m[5]]
			claimed = append(claimed, span{m[0], m[1], buildCall(spec, args)})
		}
	}

	for _, m := range bareCallPattern.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(claimed, m[0], m[1]) {
			continue
		}
		name := text[m[2]:m[3]]
		if spec, ok := Lookup(name); ok {
			args := text[m[4]:m[5]]
			claimed = append(claimed, span{m[0], m[1], buildCall(spec, args)})
		}
	}

	for _, m := range colonArgPattern.FindAllStringSubmatchIndex(text, -1) {
		if overlaps(claimed, m[0], m[1]) {
			continue
		}
		name := text[m[2]:m[3]]
		if spec, ok := Lookup(name); ok {
			args := text[m[4]:m[5]]
			claimed = append(claimed, span{m[0], m[1], buildCall(spec, args)})
		}
	}

	sort.Slice(claimed, func(i, j int) bool { return claimed[i].start < claimed[j].start })

	calls := make([]types.ToolCall, 0, len(claimed))
	for _, s := range claimed {
		calls = append(calls, s.call)
	}

	if len(calls) == 0 {
		if forced, ok := forcedProgressCall(text); ok {
			return []types.ToolCall{forced}
		}
	}

	return calls
}

func overlaps(claimed []span, start, end int) bool {
	for _, s := range claimed {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// buildCall interprets argsRaw (i)-(iii): a single quoted
// string binds to the tool's conventional argument name; otherwise attempt
// JSON-object parsing; on failure, treat the raw text as that bare string.
func buildCall(spec ToolSpec, argsRaw string) types.ToolCall {
	argsRaw = strings.TrimSpace(argsRaw)

	call := types.ToolCall{
		ID: types.NewToolCallID(),
		Name: spec.Name,
		Arguments: map[string]interface{}{},
	}

	if quoted, ok := unquote(argsRaw); ok {
		call.Arguments[spec.ArgName] = quoted
		return call
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(argsRaw), &obj); err == nil && obj != nil {
		call.Arguments = obj
		return call
	}

	call.Arguments[spec.ArgName] = argsRaw
	return call
}

// unquote strips a single layer of matching single or double quotes.
func unquote(s string) (string, bool) {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1: len(s)-1], true
		}
	}
	return s, false
}

// forcedProgressStopwords is filtered out when extracting a query from the
// triggering line.
var forcedProgressStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "to": true, "of": true, "and": true,
	"in": true, "on": true, "for": true, "with": true, "is": true, "are": true,
	"will": true, "i": true, "i'll": true, "you": true, "we": true, "this": true,
	"that": true, "about": true, "going": true, "let": true, "let's": true,
	"me": true, "now": true, "need": true, "should": true,
}

// forcedProgressCall synthesizes a web_search call when the LM describes
// an intent to search/research instead of invoking a tool.
func forcedProgressCall(text string) (types.ToolCall, bool) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "research") && !strings.Contains(lower, "search") {
		return types.ToolCall{}, false
	}

	for _, line := range strings.Split(text, "\n") {
		lowerLine := strings.ToLower(line)
		if !strings.Contains(lowerLine, "research") && !strings.Contains(lowerLine, "search") {
			continue
		}

		var kept []string
		for _, word := range strings.Fields(line) {
			clean := strings.ToLower(strings.Trim(word, ".,!?:;\"'()"))
			if clean == "" || forcedProgressStopwords[clean] {
				continue
			}
			kept = append(kept, strings.Trim(word, ".,!?:;\"'()"))
			if len(kept) == 3 {
				break
			}
		}

		query := strings.Join(kept, " ")
		if query == "" {
			query = strings.TrimSpace(line)
		}

		spec, _ := Lookup(types.ToolWebSearch)
		return types.ToolCall{
			ID: types.NewToolCallID(),
			Name: types.ToolWebSearch,
			Arguments: map[string]interface{}{spec.ArgName: query},
		}, true
	}

	return types.ToolCall{}, false
}
