// Copyright (c) ConvoFlow. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"
)

// config is the server's environment-derived configuration.
type config struct {
	Port            string
	CORSOrigin      string
	GroqAPIKey      string
	GroqModel       string
	TavilyAPIKey    string
	AzureEndpoint   string
	AzureKey        string
	AzureModel      string
	ConversationTTL time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() (*config, error) {
	cfg := &config{
		Port:            os.Getenv("PORT"),
		CORSOrigin:      os.Getenv("CORS_ORIGIN"),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GroqModel:       os.Getenv("GROQ_MODEL"),
		TavilyAPIKey:    os.Getenv("TAVILY_API_KEY"),
		AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureKey:        os.Getenv("AZURE_OPENAI_KEY"),
		AzureModel:      os.Getenv("AZURE_OPENAI_MODEL"),
		ConversationTTL: 24 * time.Hour,
		ShutdownTimeout: 10 * time.Second,
	}
	if cfg.Port == "" {
		cfg.Port = "3001"
	}
	if cfg.GroqModel == "" {
		cfg.GroqModel = "llama-3.3-70b-versatile"
	}
	if cfg.GroqAPIKey == "" && cfg.AzureEndpoint == "" {
		return nil, fmt.Errorf("set GROQ_API_KEY or AZURE_OPENAI_ENDPOINT")
	}
	if cfg.TavilyAPIKey == "" {
		return nil, fmt.Errorf("set TAVILY_API_KEY")
	}
	return cfg, nil
}
