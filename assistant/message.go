// Copyright (c) ConvoFlow. All rights reserved.

package assistant

import "encoding/json"

// Role identifies the author of a [Message].
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message represents a single turn in a conversation. Assistant messages may
// carry tool-call requests instead of (or alongside) text; tool messages
// carry the result of exactly one such request, correlated by ToolCallID.
type Message struct {
	Role      Role              `json:"role"`
	Content   string            `json:"content,omitempty"`
	ToolCalls []ToolCallRequest `json:"toolCalls,omitempty"`

	// ToolCallID and ToolName are set only on tool-role messages.
	ToolCallID string `json:"toolCallId,omitempty"`
	ToolName   string `json:"toolName,omitempty"`
}

// ToolCallRequest is a structured request from the model to invoke a named
// capability. ID is unique within the response that produced it.
type ToolCallRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// NewSystemMessage creates a system-role [Message].
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// NewUserMessage creates a user-role [Message].
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage creates an assistant-role [Message] from a text string.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// NewToolMessage creates a tool-role [Message] carrying the result of the
// tool call identified by callID.
func NewToolMessage(callID, toolName, result string) Message {
	return Message{
		Role:       RoleTool,
		Content:    result,
		ToolCallID: callID,
		ToolName:   toolName,
	}
}

// PrependSystem inserts a system message at the beginning of the message list
// if instructions are non-empty and no system message already exists.
func PrependSystem(messages []Message, instructions string) []Message {
	if instructions == "" {
		return messages
	}
	for _, m := range messages {
		if m.Role == RoleSystem {
			return messages
		}
	}
	return append([]Message{NewSystemMessage(instructions)}, messages...)
}

// CloneMessages returns a deep-enough copy of messages for safe retention
// across goroutines. Tool-call argument payloads are duplicated so a caller
// mutating its slice cannot alias stored state.
func CloneMessages(messages []Message) []Message {
	if messages == nil {
		return nil
	}
	cp := make([]Message, len(messages))
	copy(cp, messages)
	for i := range cp {
		if len(cp[i].ToolCalls) == 0 {
			continue
		}
		calls := make([]ToolCallRequest, len(cp[i].ToolCalls))
		copy(calls, cp[i].ToolCalls)
		for j := range calls {
			if calls[j].Arguments != nil {
				args := make(json.RawMessage, len(calls[j].Arguments))
				copy(args, calls[j].Arguments)
				calls[j].Arguments = args
			}
		}
		cp[i].ToolCalls = calls
	}
	return cp
}
