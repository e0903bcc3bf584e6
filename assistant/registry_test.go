// Copyright (c) ConvoFlow. All rights reserved.

package assistant_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/convoflow/convoflow/assistant"
)

func TestRegistry_DuplicateName(t *testing.T) {
	_, err := assistant.NewRegistry(echoTool("echo"), echoTool("echo"))
	if !errors.Is(err, assistant.ErrDuplicateTool) {
		t.Fatalf("err = %v, want ErrDuplicateTool", err)
	}
}

func TestRegistry_ToolsKeepRegistrationOrder(t *testing.T) {
	registry, err := assistant.NewRegistry(echoTool("c"), echoTool("a"), echoTool("b"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	tools := registry.Tools()
	want := []string{"c", "a", "b"}
	if len(tools) != len(want) {
		t.Fatalf("tools len = %d, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Name() != name {
			t.Errorf("tools[%d] = %q, want %q", i, tools[i].Name(), name)
		}
	}
}

func TestRegistry_DispatchUnknownTool(t *testing.T) {
	registry, _ := assistant.NewRegistry(echoTool("echo"))
	_, err := registry.Dispatch(context.Background(), "nosuch", json.RawMessage(`{}`))
	if !errors.Is(err, assistant.ErrUnknownTool) {
		t.Fatalf("err = %v, want ErrUnknownTool", err)
	}
}

func TestRegistry_DispatchInvalidArguments(t *testing.T) {
	registry, _ := assistant.NewRegistry(echoTool("echo"))

	tests := []struct {
		name string
		args string
	}{
		{"missing required field", `{}`},
		{"wrong type", `{"text":42}`},
		{"not an object", `["text"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.Dispatch(context.Background(), "echo", json.RawMessage(tt.args))
			if !errors.Is(err, assistant.ErrInvalidArguments) {
				t.Errorf("err = %v, want ErrInvalidArguments", err)
			}
		})
	}
}

func TestRegistry_DispatchExecutionError(t *testing.T) {
	failing := assistant.NewTool("boom", "always fails",
		assistant.ObjectSchema(nil),
		func(_ context.Context, _ json.RawMessage) (any, error) {
			return nil, errors.New("backend down")
		},
	)
	registry, _ := assistant.NewRegistry(failing)

	_, err := registry.Dispatch(context.Background(), "boom", json.RawMessage(`{}`))
	if !errors.Is(err, assistant.ErrToolExecution) {
		t.Fatalf("err = %v, want ErrToolExecution", err)
	}
	var toolErr *assistant.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("err = %T, want *ToolError", err)
	}
	if toolErr.ToolName != "boom" {
		t.Errorf("ToolName = %q", toolErr.ToolName)
	}
}

func TestRegistry_DispatchStringifiesResults(t *testing.T) {
	structured := assistant.NewTool("lookup", "returns structured data",
		assistant.ObjectSchema(nil),
		func(_ context.Context, _ json.RawMessage) (any, error) {
			return map[string]any{"temp": 18}, nil
		},
	)
	plain := assistant.NewTool("plain", "returns a string",
		assistant.ObjectSchema(nil),
		func(_ context.Context, _ json.RawMessage) (any, error) {
			return "as is", nil
		},
	)
	registry, _ := assistant.NewRegistry(structured, plain)

	got, err := registry.Dispatch(context.Background(), "lookup", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got != `{"temp":18}` {
		t.Errorf("structured result = %q", got)
	}

	got, err = registry.Dispatch(context.Background(), "plain", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got != "as is" {
		t.Errorf("string result = %q, want it passed through unquoted", got)
	}
}

func TestRegistry_DispatchEmptyArguments(t *testing.T) {
	optional := assistant.NewTool("ping", "no arguments",
		assistant.ObjectSchema(nil),
		func(_ context.Context, _ json.RawMessage) (any, error) {
			return "pong", nil
		},
	)
	registry, _ := assistant.NewRegistry(optional)

	got, err := registry.Dispatch(context.Background(), "ping", nil)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got != "pong" {
		t.Errorf("result = %q", got)
	}
}
