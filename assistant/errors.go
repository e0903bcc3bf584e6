// Copyright (c) ConvoFlow. All rights reserved.

package assistant

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrTool is the base error for tool-related failures.
	ErrTool = errors.New("tool error")

	// ErrDuplicateTool is returned when registering a tool whose name is
	// already taken.
	ErrDuplicateTool = fmt.Errorf("%w: duplicate registration", ErrTool)

	// ErrUnknownTool indicates the model requested a tool that is not
	// registered.
	ErrUnknownTool = fmt.Errorf("%w: unknown tool", ErrTool)

	// ErrInvalidArguments indicates tool arguments failed schema validation.
	ErrInvalidArguments = fmt.Errorf("%w: invalid arguments", ErrTool)

	// ErrToolExecution indicates the tool handler failed during invocation.
	ErrToolExecution = fmt.Errorf("%w: execution", ErrTool)

	// ErrProvider is the base error for completion provider failures.
	// The agent loop never retries these; retrying is a caller policy.
	ErrProvider = errors.New("provider error")

	// ErrProviderTimeout indicates the provider call timed out.
	ErrProviderTimeout = fmt.Errorf("%w: timeout", ErrProvider)

	// ErrAuth indicates an authentication or authorization failure.
	ErrAuth = fmt.Errorf("%w: authentication", ErrProvider)

	// ErrRateLimited indicates the provider rejected the request for quota.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrProvider)

	// ErrInvalidRequest indicates the provider rejected a malformed request.
	ErrInvalidRequest = fmt.Errorf("%w: invalid request", ErrProvider)

	// ErrRetrieval indicates the retrieval augmenter failed. The turn is
	// aborted before the loop starts.
	ErrRetrieval = errors.New("retrieval error")
)

// ProviderError provides rich context for completion provider failures.
// Use errors.As to extract it from a wrapped error chain.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ToolError provides context for tool dispatch failures.
type ToolError struct {
	ToolName string
	Message  string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q: %s", e.ToolName, e.Message)
}

func (e *ToolError) Unwrap() error { return e.Err }
