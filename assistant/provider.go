// Copyright (c) ConvoFlow. All rights reserved.

package assistant

import "context"

// CompletionProvider is the interface a model backend must satisfy.
// Provider packages (e.g. groq) implement this interface.
type CompletionProvider interface {
	// Complete sends the message sequence plus tool declarations from
	// opts and returns the model's next assistant message. Transport,
	// auth, and quota failures are reported as [ErrProvider] errors with
	// a [ProviderError] in the chain.
	Complete(ctx context.Context, messages []Message, opts *CompleteOptions) (*Completion, error)
}

// Completion is the provider's answer for one round: either a final answer
// or a set of requested tool invocations, distinguished by the tool-call
// list on the assistant message. An empty or absent list is always a final
// answer.
type Completion struct {
	// Assistant is the message to append to the conversation.
	Assistant Message

	// ModelID and ResponseID identify the completion for logging.
	ModelID    string
	ResponseID string
}

// ToolCalls returns the requested tool invocations, in request order.
func (c *Completion) ToolCalls() []ToolCallRequest {
	return c.Assistant.ToolCalls
}

// FinalAnswer reports whether this completion is a plain answer, and if so
// returns its text.
func (c *Completion) FinalAnswer() (string, bool) {
	if len(c.Assistant.ToolCalls) > 0 {
		return "", false
	}
	return c.Assistant.Content, true
}

// CompleteOptions configures a single completion request.
// Pointer fields use nil to represent "use provider default".
type CompleteOptions struct {
	ModelID     string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	Stop        []string
	Seed        *int

	// Tools are advertised to the model as callable functions.
	Tools []Tool

	// ToolChoice controls tool selection ("auto", "none", "required").
	// Empty defaults to "auto" when tools are present.
	ToolChoice string

	// ResponseFormat constrains the output shape (structured extraction).
	ResponseFormat *ResponseFormat
}

// ResponseFormat is the wire-level output constraint for structured
// extraction mode.
type ResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *JSONSchemaFormat `json:"json_schema,omitempty"`
}

// JSONSchemaFormat names a strict schema the model must emit exactly.
type JSONSchemaFormat struct {
	Name   string  `json:"name"`
	Strict bool    `json:"strict"`
	Schema *Schema `json:"schema"`
}

// JSONSchemaResponse builds a strict json_schema [ResponseFormat].
func JSONSchemaResponse(name string, schema *Schema) *ResponseFormat {
	return &ResponseFormat{
		Type: "json_schema",
		JSONSchema: &JSONSchemaFormat{
			Name:   name,
			Strict: true,
			Schema: schema,
		},
	}
}

// Float64 returns a pointer to v, for optional option fields.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional option fields.
func Int(v int) *int { return &v }
