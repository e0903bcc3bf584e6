// Copyright (c) ConvoFlow. All rights reserved.

package groq

import (
	"encoding/json"
	"fmt"

	"github.com/convoflow/convoflow/assistant"
)

// chatCompletionResponse is the chat completions response body.
type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Index        int         `json:"index"`
	Message      respMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type respMessage struct {
	Role      string     `json:"role"`
	Content   *string    `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

// parseCompletion converts the wire response into an [assistant.Completion].
// The first choice is authoritative; an assistant message with no tool calls
// is a final answer by contract.
func parseCompletion(data []byte) (*assistant.Completion, error) {
	var raw chatCompletionResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &assistant.ProviderError{
			Message: "parse response: " + err.Error(),
			Err:     assistant.ErrProvider,
		}
	}
	if len(raw.Choices) == 0 {
		return nil, &assistant.ProviderError{
			Message: "response contains no choices",
			Err:     assistant.ErrProvider,
		}
	}

	c := raw.Choices[0]
	msg := assistant.Message{Role: assistant.RoleAssistant}
	if c.Message.Content != nil {
		msg.Content = *c.Message.Content
	}
	for _, tc := range c.Message.ToolCalls {
		if tc.Type != "" && tc.Type != "function" {
			return nil, &assistant.ProviderError{
				Message: fmt.Sprintf("unsupported tool call type %q", tc.Type),
				Err:     assistant.ErrProvider,
			}
		}
		msg.ToolCalls = append(msg.ToolCalls, assistant.ToolCallRequest{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}

	return &assistant.Completion{
		Assistant:  msg,
		ModelID:    raw.Model,
		ResponseID: raw.ID,
	}, nil
}
