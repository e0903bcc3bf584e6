// Copyright (c) ConvoFlow. All rights reserved.

package groq

import (
	"context"
	"fmt"
	"io"

	"github.com/convoflow/convoflow/assistant"
)

// Client implements [assistant.CompletionProvider] using the Groq Chat
// Completions API. Use [New] to create one.
type Client struct {
	tp    transport
	model string
}

// Verify interface compliance at compile time.
var _ assistant.CompletionProvider = (*Client)(nil)

// New creates a groq [Client] with the given API key and options.
//
//	client := groq.New(os.Getenv("GROQ_API_KEY"),
//	    groq.WithModel("llama-3.3-70b-versatile"),
//	)
func New(apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return &Client{
		tp:    newHTTPTransport(apiKey, cfg),
		model: cfg.model,
	}
}

// newWithTransport creates a Client with a custom transport (for testing).
func newWithTransport(tp transport, model string) *Client {
	return &Client{tp: tp, model: model}
}

// Complete sends a chat completion request and returns the model's next
// assistant message.
func (c *Client) Complete(ctx context.Context, messages []assistant.Message, opts *assistant.CompleteOptions) (*assistant.Completion, error) {
	req := buildRequest(messages, opts, c.model)

	resp, err := c.tp.do(ctx, "POST", "/chat/completions", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &assistant.ProviderError{
			Message: fmt.Sprintf("read response body: %v", err),
			Err:     assistant.ErrProvider,
		}
	}

	return parseCompletion(body)
}
