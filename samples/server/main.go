// Copyright (c) ConvoFlow. All rights reserved.

// Command server exposes the assistant over HTTP: POST /chat with a JSON
// body {"userMessage": "...", "threadId": "..."} returns {"result": "..."}.
// Conversations are kept in memory per thread id with a 24h sliding expiry.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/joho/godotenv"

	"github.com/convoflow/convoflow/assistant"
	"github.com/convoflow/convoflow/groq"
	"github.com/convoflow/convoflow/tavily"
)

const instructionsFormat = `You are a smart assistant.
If you answer to a question, answer it directly in plain english.
If the answer requires real-time, local, or up-to-date information, or if you dont know the answer, use the available tools to find it.

You have access to following tools:
1. webSearch({query}:{query: string}): use this to search the internet for current or unknown information.

Decide when to use your own knowledge and when to use the tool.
Do not mention the tool unless needed.

Examples:
Q: What is the capital of France?
A: The capital of France is Paris.

Q: What's the weather in Mumbai?
A: (use the search tool to get the latest weather)

Here's the current date & time: %s`

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := newLogger(os.Stderr, os.Getenv("DEBUG") != "")

	provider, err := newProvider(cfg)
	if err != nil {
		log.Fatalf("create provider: %v", err)
	}

	search := tavily.New(cfg.TavilyAPIKey)
	registry, err := assistant.NewRegistry(tavily.NewSearchTool(search))
	if err != nil {
		log.Fatalf("register tools: %v", err)
	}

	store := assistant.NewMemoryStore(cfg.ConversationTTL)

	loop := assistant.NewLoop(provider, registry, store,
		assistant.WithInstructions(fmt.Sprintf(instructionsFormat, time.Now().UTC().Format(time.RFC1123))),
		assistant.WithCompleteOptions(assistant.CompleteOptions{
			Temperature: assistant.Float64(0),
		}),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newAssistantServer(loop, cfg.CORSOrigin, logger),
	}

	// Evict expired conversations in the background.
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := store.Sweep(); n > 0 {
					logger.Debug("evicted expired conversations", "count", n)
				}
			case <-sweepDone:
				return
			}
		}
	}()

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("server is running", "addr", "http://localhost:"+cfg.Port)
		serverErrCh <- srv.ListenAndServe()
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrCh:
		log.Fatalf("server exited: %v", err)
	case <-sigCtx.Done():
	}

	close(sweepDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	logger.Info("server stopped")
}

func newProvider(cfg *config) (*groq.Client, error) {
	if cfg.AzureEndpoint != "" {
		model := cfg.AzureModel
		if model == "" {
			model = "gpt-4o"
		}
		if cfg.AzureKey == "" {
			cred, err := azidentity.NewDefaultAzureCredential(nil)
			if err != nil {
				return nil, fmt.Errorf("create Azure credential: %w", err)
			}
			return groq.New("",
				groq.WithBaseURL(cfg.AzureEndpoint),
				groq.WithModel(model),
				groq.WithAzureCredential(cred),
			), nil
		}
		return groq.New(cfg.AzureKey,
			groq.WithBaseURL(cfg.AzureEndpoint),
			groq.WithModel(model),
			groq.WithHeaders(map[string]string{"api-key": cfg.AzureKey}),
		), nil
	}
	return groq.New(cfg.GroqAPIKey, groq.WithModel(cfg.GroqModel)), nil
}
