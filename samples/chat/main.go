// Copyright (c) ConvoFlow. All rights reserved.

// Command chat is an interactive tool-calling assistant: each question runs
// through the agent loop with a webSearch tool, so the model can pull in
// realtime information before answering.
//
// Usage with Groq:
//
//	export GROQ_API_KEY=gsk-...
//	export TAVILY_API_KEY=tvly-...
//	go run .
//
// Usage with Azure OpenAI (OpenAI-compatible endpoint):
//
//	export AZURE_OPENAI_ENDPOINT=https://<resource>.openai.azure.com/openai/deployments/<deployment>
//	export AZURE_OPENAI_KEY=<key>      # omit to use Azure AD (DefaultAzureCredential)
//	export AZURE_OPENAI_MODEL=gpt-4o   # optional
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/joho/godotenv"

	"github.com/convoflow/convoflow/assistant"
	"github.com/convoflow/convoflow/groq"
	"github.com/convoflow/convoflow/tavily"
)

func main() {
	// Load .env file if present (ignored if missing).
	_ = godotenv.Load()

	if os.Getenv("DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	provider := newProvider()

	search := tavily.New(os.Getenv("TAVILY_API_KEY"))
	registry, err := assistant.NewRegistry(tavily.NewSearchTool(search))
	if err != nil {
		log.Fatalf("register tools: %v", err)
	}

	instructions := fmt.Sprintf(`You are a smart assistant who answers the asked questions
You have access to following tools:
1. webSearch({query}:{query: string}) // Search the latest information and realtime data on the internet

Here's the current date & time: %s`, time.Now().UTC().Format(time.RFC1123))

	loop := assistant.NewLoop(provider, registry, assistant.NewMemoryStore(0),
		assistant.WithInstructions(instructions),
		assistant.WithCompleteOptions(assistant.CompleteOptions{
			Temperature: assistant.Float64(0),
		}),
	)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" {
			break
		}

		answer, err := loop.Turn(context.Background(), "default", input)
		if err != nil {
			log.Printf("Error: %v", err)
			continue
		}
		fmt.Printf("Assistant: %s\n", answer)
	}
}

// newProvider creates an OpenAI-compatible completion provider, choosing
// between Azure OpenAI and Groq based on which environment variables are set.
func newProvider() *groq.Client {
	if endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT"); endpoint != "" {
		key := os.Getenv("AZURE_OPENAI_KEY")
		model := os.Getenv("AZURE_OPENAI_MODEL")
		if model == "" {
			model = "gpt-4o"
		}

		// No key: fall back to Azure AD authentication.
		if key == "" {
			cred, err := azidentity.NewDefaultAzureCredential(nil)
			if err != nil {
				log.Fatalf("create Azure credential: %v", err)
			}
			return groq.New("",
				groq.WithBaseURL(endpoint),
				groq.WithModel(model),
				groq.WithAzureCredential(cred),
			)
		}

		return groq.New(key,
			groq.WithBaseURL(endpoint),
			groq.WithModel(model),
			groq.WithHeaders(map[string]string{
				// Azure expects api-key instead of a bearer token.
				"api-key": key,
			}),
		)
	}

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		log.Fatal("Set GROQ_API_KEY or AZURE_OPENAI_ENDPOINT")
	}
	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return groq.New(apiKey, groq.WithModel(model))
}
