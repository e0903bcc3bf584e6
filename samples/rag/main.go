// Copyright (c) ConvoFlow. All rights reserved.

// Command rag is a retrieval-augmented chatbot: each query is first answered
// from passages fetched from an external retrieval service (document
// ingestion and vector search live there, not here), then sent to the model
// in a single completion with instructions to stay within the provided
// context.
//
//	export GROQ_API_KEY=gsk-...
//	export RETRIEVAL_URL=http://localhost:8000
//	go run .
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/convoflow/convoflow/assistant"
	"github.com/convoflow/convoflow/groq"
)

func main() {
	_ = godotenv.Load()

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		log.Fatal("Set GROQ_API_KEY")
	}
	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	retrievalURL := os.Getenv("RETRIEVAL_URL")
	if retrievalURL == "" {
		log.Fatal("Set RETRIEVAL_URL")
	}

	provider := groq.New(apiKey, groq.WithModel(model))
	retriever := newHTTPRetriever(retrievalURL)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" {
			break
		}

		answer, err := answerWithContext(context.Background(), provider, retriever, query)
		if err != nil {
			log.Printf("Error: %v", err)
			continue
		}
		fmt.Printf("Assistant: %s\n", answer)
	}
}

// answerWithContext runs the single-pass retrieval augmentation: fetch
// passages, build the augmented prompt, one completion. A retrieval failure
// aborts the turn before any provider call.
func answerWithContext(ctx context.Context, provider assistant.CompletionProvider, retriever assistant.Retriever, query string) (string, error) {
	passages, err := retriever.Search(ctx, query)
	if err != nil {
		return "", err
	}

	messages := []assistant.Message{
		assistant.NewSystemMessage(assistant.RetrievalInstructions),
		assistant.NewUserMessage(assistant.AugmentQuery(query, passages)),
	}

	completion, err := provider.Complete(ctx, messages, &assistant.CompleteOptions{})
	if err != nil {
		return "", err
	}
	text, _ := completion.FinalAnswer()
	return text, nil
}
