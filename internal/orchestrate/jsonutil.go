// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrate

import (
	"regexp"
	"strings"
)

// codeBlockPattern matches a fenced ```json ... ``` or ``` ... ``` block.
var codeBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\n(.*?)\n```")

// extractJSON pulls a JSON object or array out of an LM response that may
// wrap it in markdown fencing or surround it with prose: first it looks for
// a fenced code block, then falls back to scanning for the outermost
// brace/bracket pair.
func extractJSON(raw string) string {
	if m := codeBlockPattern.FindStringSubmatch(raw); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}

	start := -1
	var opener, closer byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == '{' || raw[i] == '[' {
			start = i
			opener = raw[i]
			if opener == '{' {
				closer = '}'
			} else {
				closer = ']'
			}
			break
		}
	}
	if start < 0 {
		return raw
	}

	end := -1
	for i := len(raw) - 1; i >= start; i-- {
		if raw[i] == closer {
			end = i + 1
			break
		}
	}
	if end < 0 {
		return raw
	}
	return raw[start:end]
}
