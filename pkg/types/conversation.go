package types

import "github.com/google/uuid"

// Role identifies who produced a ResearchMessage.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ToolCall is a single structured invocation extracted from assistant text
// by the tool-call parser. Created by the parser, consumed by the
// dispatcher, and answered by exactly one tool-role ResearchMessage that
// references it by ID.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// NewToolCallID generates a fresh, unique tool-call id.
func NewToolCallID() string {
	return "call_" + uuid.NewString()
}

// ResearchMessage is one turn of a supervisor or sub-agent conversation.
type ResearchMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set only when Role == RoleAssistant and the LM's text
	// parsed into one or more tool invocations.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID and Name are set only when Role == RoleTool, linking this
	// message back to the invocation it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// UserMessage is a small constructor convenience matching the style used
// throughout the orchestrator for seeding conversations.
func UserMessage(content string) ResearchMessage {
	return ResearchMessage{Role: RoleUser, Content: content}
}

// SystemMessage is a small constructor convenience.
func SystemMessage(content string) ResearchMessage {
	return ResearchMessage{Role: RoleSystem, Content: content}
}

// ToolMessage builds the tool-role reply for a given call.
func ToolMessage(call ToolCall, content string) ResearchMessage {
	return ResearchMessage{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: call.ID,
		Name:       call.Name,
	}
}
