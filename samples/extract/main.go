// Copyright (c) ConvoFlow. All rights reserved.

// Command extract classifies a support message into a fixed JSON shape using
// structured extraction: the model is constrained to the schema derived from
// the Ticket struct, no loop and no tools involved.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/convoflow/convoflow/assistant"
	"github.com/convoflow/convoflow/groq"
)

const instructions = `You are an AI assistant that extracts structured data from user messages.

Rules:
- You MUST return output in valid JSON only.
- Do NOT include explanations, markdown, or extra text.
- Do NOT add or remove fields.
- If a value is unknown, use null.
- Follow the output schema strictly.`

// Ticket is the extraction target shape.
type Ticket struct {
	Intent             string  `json:"intent" jsonschema:"enum=cancel_subscription|refund_request|technical_issue|billing_issue|account_update|general_query"`
	Urgency            string  `json:"urgency" jsonschema:"enum=low|medium|high"`
	Sentiment          string  `json:"sentiment" jsonschema:"enum=positive|neutral|negative"`
	Summary            string  `json:"summary" jsonschema:"description=One sentence summary of the message"`
	RequiresHumanAgent bool    `json:"requires_human_agent"`
	ConfidenceScore    float64 `json:"confidence_score"`
}

func main() {
	_ = godotenv.Load()

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		log.Fatal("Set GROQ_API_KEY")
	}
	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = "meta-llama/llama-4-maverick-17b-128e-instruct"
	}

	provider := groq.New(apiKey, groq.WithModel(model))

	input := "Your app keeps crashing every time I try to upload a file. I can't use it at all."

	ticket, err := assistant.Extract[Ticket](context.Background(), provider, instructions, input,
		assistant.WithExtractTemperature(0.2),
	)
	if err != nil {
		log.Fatalf("extract: %v", err)
	}

	out, _ := json.MarshalIndent(ticket, "", "  ")
	fmt.Println(string(out))
}
