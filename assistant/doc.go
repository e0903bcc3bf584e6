// Copyright (c) ConvoFlow. All rights reserved.

// Package assistant provides the core building blocks for a tool-calling
// conversational assistant: the message model, a validated tool registry, a
// TTL-bounded conversation store, and the agent loop that drives the
// request/response/tool-execution cycle against a completion provider.
//
// # Quick start
//
// Create a provider (e.g. from the groq package), register tools, and run
// turns through a [Loop]:
//
//	provider := groq.New(os.Getenv("GROQ_API_KEY"), groq.WithModel("llama-3.3-70b-versatile"))
//
//	registry, _ := assistant.NewRegistry(searchTool)
//	store := assistant.NewMemoryStore(24 * time.Hour)
//
//	loop := assistant.NewLoop(provider, registry, store,
//	    assistant.WithInstructions("You are a smart assistant."),
//	)
//
//	answer, err := loop.Turn(ctx, threadID, "What's the weather in Paris right now?")
//
// Each turn loads the conversation for the given id (seeding a fresh one
// with the system instructions when absent or expired), asks the provider
// for a completion, dispatches any requested tool calls through the
// [Registry], and feeds the results back until the model answers in plain
// text or the round budget ([DefaultMaxRounds]) runs out, at which point the
// fixed fallback answer is returned.
//
// # Tools
//
// Use [NewTypedTool] for type-safe tools with schema generation from struct
// tags:
//
//	tool := assistant.NewTypedTool("webSearch",
//	    "Search the latest information and realtime data on the internet",
//	    func(ctx context.Context, args struct {
//	        Query string `json:"query" jsonschema:"description=The search query to perform search on,required"`
//	    }) (any, error) {
//	        return search(ctx, args.Query)
//	    },
//	)
//
// Arguments are validated against the declared schema before the handler
// runs; validation and execution failures are surfaced to the model as tool
// results so it can self-correct on the next round.
//
// # Structured extraction
//
// [Extract] is the non-agentic single-shot mode: the provider is constrained
// to emit exactly the JSON shape of a Go struct, which is parsed directly.
package assistant
