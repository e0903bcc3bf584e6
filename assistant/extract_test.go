// Copyright (c) ConvoFlow. All rights reserved.

package assistant_test

import (
	"context"
	"errors"
	"testing"

	"github.com/convoflow/convoflow/assistant"
)

type ticket struct {
	Intent             string  `json:"intent" jsonschema:"enum=billing|technical|account|other"`
	Urgency            string  `json:"urgency" jsonschema:"enum=low|medium|high"`
	Sentiment          string  `json:"sentiment" jsonschema:"enum=positive|neutral|negative"`
	Summary            string  `json:"summary"`
	RequiresHumanAgent bool    `json:"requires_human_agent"`
	ConfidenceScore    float64 `json:"confidence_score"`
}

func TestExtract_ParsesStructuredResponse(t *testing.T) {
	var gotOpts *assistant.CompleteOptions
	provider := providerFunc(func(_ context.Context, messages []assistant.Message, opts *assistant.CompleteOptions) (*assistant.Completion, error) {
		gotOpts = opts
		if len(messages) != 2 || messages[0].Role != assistant.RoleSystem || messages[1].Role != assistant.RoleUser {
			t.Errorf("messages = %+v, want [system, user]", messages)
		}
		return &assistant.Completion{
			Assistant: assistant.NewAssistantMessage(`{
				"intent": "billing",
				"urgency": "high",
				"sentiment": "negative",
				"summary": "Customer was double charged.",
				"requires_human_agent": true,
				"confidence_score": 0.92
			}`),
		}, nil
	})

	got, err := assistant.Extract[ticket](context.Background(), provider,
		"Classify the support ticket.",
		"I was charged twice this month, fix this now!",
		assistant.WithExtractTemperature(0.2),
	)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got.Intent != "billing" || got.Urgency != "high" || !got.RequiresHumanAgent {
		t.Errorf("got %+v", got)
	}
	if got.ConfidenceScore != 0.92 {
		t.Errorf("ConfidenceScore = %v", got.ConfidenceScore)
	}

	if gotOpts == nil || gotOpts.ResponseFormat == nil {
		t.Fatal("no response format sent to provider")
	}
	if gotOpts.ResponseFormat.Type != "json_schema" {
		t.Errorf("ResponseFormat.Type = %q", gotOpts.ResponseFormat.Type)
	}
	if gotOpts.ResponseFormat.JSONSchema == nil || gotOpts.ResponseFormat.JSONSchema.Name != "result" {
		t.Errorf("ResponseFormat.JSONSchema = %+v", gotOpts.ResponseFormat.JSONSchema)
	}
	schema := gotOpts.ResponseFormat.JSONSchema.Schema
	if schema == nil || len(schema.Required) != 6 {
		t.Errorf("schema required = %v, want all six fields", schema.Required)
	}
	if schema.AdditionalProperties == nil || *schema.AdditionalProperties {
		t.Error("schema should forbid additional properties")
	}
	if gotOpts.Temperature == nil || *gotOpts.Temperature != 0.2 {
		t.Errorf("Temperature = %v", gotOpts.Temperature)
	}

	// Tools never go out on extraction calls.
	if len(gotOpts.Tools) != 0 {
		t.Errorf("Tools = %d, want none", len(gotOpts.Tools))
	}
}

func TestExtract_RejectsMalformedResponse(t *testing.T) {
	provider := providerFunc(func(_ context.Context, _ []assistant.Message, _ *assistant.CompleteOptions) (*assistant.Completion, error) {
		return &assistant.Completion{
			Assistant: assistant.NewAssistantMessage("sorry, no JSON today"),
		}, nil
	})

	_, err := assistant.Extract[ticket](context.Background(), provider, "classify", "input")
	if !errors.Is(err, assistant.ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
}

func TestExtract_RejectsToolCallResponse(t *testing.T) {
	provider := providerFunc(func(_ context.Context, _ []assistant.Message, _ *assistant.CompleteOptions) (*assistant.Completion, error) {
		return &assistant.Completion{
			Assistant: assistant.Message{
				Role:      assistant.RoleAssistant,
				ToolCalls: []assistant.ToolCallRequest{{ID: "c1", Name: "x"}},
			},
		}, nil
	})

	_, err := assistant.Extract[ticket](context.Background(), provider, "classify", "input")
	if !errors.Is(err, assistant.ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
}
