// Copyright (c) ConvoFlow. All rights reserved.

package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Registry maps tool names to capabilities and dispatches validated tool
// calls to them. Tools are registered once at startup; dispatch is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates a Registry with the given tools.
// It fails with [ErrDuplicateTool] if two tools share a name.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool keyed by its name.
func (r *Registry) Register(t Tool) error {
	if t == nil || t.Name() == "" {
		return fmt.Errorf("%w: tool name is empty", ErrTool)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, t.Name())
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
	return nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Dispatch looks up the named tool, validates rawArgs against its declared
// schema, invokes it, and returns the textual result. Non-string results are
// JSON-encoded. Failures are reported as [ErrUnknownTool],
// [ErrInvalidArguments], or [ErrToolExecution].
func (r *Registry) Dispatch(ctx context.Context, name string, rawArgs json.RawMessage) (string, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	args := map[string]any{}
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return "", &ToolError{
				ToolName: name,
				Message:  "arguments are not a JSON object: " + err.Error(),
				Err:      ErrInvalidArguments,
			}
		}
	}
	if err := tool.Parameters().Validate(args); err != nil {
		return "", &ToolError{
			ToolName: name,
			Message:  err.Error(),
			Err:      ErrInvalidArguments,
		}
	}

	result, err := tool.Invoke(ctx, rawArgs)
	if err != nil {
		return "", &ToolError{
			ToolName: name,
			Message:  err.Error(),
			Err:      ErrToolExecution,
		}
	}
	return stringifyResult(result)
}

func stringifyResult(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: encode result: %v", ErrToolExecution, err)
	}
	return string(b), nil
}
