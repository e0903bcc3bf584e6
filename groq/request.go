// Copyright (c) ConvoFlow. All rights reserved.

package groq

import (
	"github.com/convoflow/convoflow/assistant"
)

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model          string                    `json:"model"`
	Messages       []chatMessage             `json:"messages"`
	Temperature    *float64                  `json:"temperature,omitempty"`
	TopP           *float64                  `json:"top_p,omitempty"`
	MaxTokens      *int                      `json:"max_completion_tokens,omitempty"`
	Stop           []string                  `json:"stop,omitempty"`
	Seed           *int                      `json:"seed,omitempty"`
	Tools          []toolSpec                `json:"tools,omitempty"`
	ToolChoice     string                    `json:"tool_choice,omitempty"`
	ResponseFormat *assistant.ResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function functionCall `json:"function"`
}

type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type toolSpec struct {
	Type     string       `json:"type"`
	Function functionSpec `json:"function"`
}

type functionSpec struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Parameters  *assistant.Schema `json:"parameters,omitempty"`
}

// buildRequest converts assistant types into a chat completions request.
func buildRequest(messages []assistant.Message, opts *assistant.CompleteOptions, defaultModel string) *chatRequest {
	req := &chatRequest{Model: defaultModel}

	if opts != nil {
		if opts.ModelID != "" {
			req.Model = opts.ModelID
		}
		req.Temperature = opts.Temperature
		req.TopP = opts.TopP
		req.MaxTokens = opts.MaxTokens
		req.Stop = opts.Stop
		req.Seed = opts.Seed
		req.ResponseFormat = opts.ResponseFormat

		for _, t := range opts.Tools {
			req.Tools = append(req.Tools, toolSpec{
				Type: "function",
				Function: functionSpec{
					Name:        t.Name(),
					Description: t.Description(),
					Parameters:  t.Parameters(),
				},
			})
		}

		switch {
		case opts.ToolChoice != "":
			req.ToolChoice = opts.ToolChoice
		case len(req.Tools) > 0:
			req.ToolChoice = "auto"
		}
	}

	req.Messages = convertMessages(messages)
	return req
}

// convertMessages translates assistant Messages into wire messages.
func convertMessages(messages []assistant.Message) []chatMessage {
	result := make([]chatMessage, 0, len(messages))
	for _, msg := range messages {
		cm := chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
		switch msg.Role {
		case assistant.RoleTool:
			cm.ToolCallID = msg.ToolCallID
			cm.Name = msg.ToolName
		case assistant.RoleAssistant:
			for _, call := range msg.ToolCalls {
				cm.ToolCalls = append(cm.ToolCalls, toolCall{
					ID:   call.ID,
					Type: "function",
					Function: functionCall{
						Name:      call.Name,
						Arguments: string(call.Arguments),
					},
				})
			}
		}
		result = append(result, cm)
	}
	return result
}
