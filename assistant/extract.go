// Copyright (c) ConvoFlow. All rights reserved.

package assistant

import (
	"context"
	"encoding/json"
	"fmt"
)

// ExtractOption configures an [Extract] call.
type ExtractOption func(*CompleteOptions)

// WithExtractModel overrides the model used for extraction.
func WithExtractModel(modelID string) ExtractOption {
	return func(o *CompleteOptions) { o.ModelID = modelID }
}

// WithExtractTemperature overrides the sampling temperature.
func WithExtractTemperature(t float64) ExtractOption {
	return func(o *CompleteOptions) { o.Temperature = &t }
}

// Extract performs single-shot structured extraction: the provider is
// constrained to emit exactly the JSON shape of T (all fields required, no
// additional properties) and the result is parsed into a T. No loop, no
// tools.
func Extract[T any](ctx context.Context, provider CompletionProvider, instructions, input string, opts ...ExtractOption) (T, error) {
	var out T

	completeOpts := &CompleteOptions{
		ResponseFormat: JSONSchemaResponse("result", StrictSchemaFor[T]()),
	}
	for _, opt := range opts {
		opt(completeOpts)
	}

	messages := []Message{
		NewSystemMessage(instructions),
		NewUserMessage(input),
	}

	completion, err := provider.Complete(ctx, messages, completeOpts)
	if err != nil {
		return out, err
	}

	text, ok := completion.FinalAnswer()
	if !ok {
		return out, fmt.Errorf("%w: tool calls in structured extraction response", ErrProvider)
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, fmt.Errorf("%w: response is not the requested shape: %v", ErrProvider, err)
	}
	return out, nil
}
