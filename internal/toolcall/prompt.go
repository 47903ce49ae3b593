// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolcall

import "strings"

// ToolBlock renders the deterministic tool description block appended to
// every orchestrator call to the LM.
func ToolBlock() string {
	var b strings.Builder
	b.WriteString("Available tools:\n\n")
	for _, t := range Catalog {
		b.WriteString("- ")
		b.WriteString(t.Name)
		b.WriteString("(")
		b.WriteString(t.ArgName)
		b.WriteString("): ")
		b.WriteString(t.Description)
		b.WriteString("\n")
	}
	b.WriteString("\nTo invoke a tool, write a line of the form:\n")
	b.WriteString("USE_TOOL: tool_name(argument)\n\n")
	b.WriteString("The argument may be a quoted string or a JSON object. Invoke at most one tool per line.\n")
	return b.String()
}

// AppendToolBlock returns prompt with the tool block appended, separated by
// a blank line.
func AppendToolBlock(prompt string) string {
	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\n")
	b.WriteString(ToolBlock())
	return b.String()
}
