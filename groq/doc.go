// Copyright (c) ConvoFlow. All rights reserved.

// Package groq provides an [assistant.CompletionProvider] backed by the Groq
// Chat Completions API. The API is OpenAI-compatible, so the client also
// works against OpenAI or Azure OpenAI endpoints via [WithBaseURL] and
// [WithAzureCredential].
//
// Create a client with [New] and pass it to [assistant.NewLoop]:
//
//	client := groq.New(apiKey, groq.WithModel("llama-3.3-70b-versatile"))
//	loop   := assistant.NewLoop(client, registry, store)
package groq
