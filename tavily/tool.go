// Copyright (c) ConvoFlow. All rights reserved.

package tavily

import (
	"context"

	"github.com/convoflow/convoflow/assistant"
)

// NewSearchTool exposes the client as the assistant's webSearch tool.
func NewSearchTool(client *Client) *assistant.FunctionTool {
	return assistant.NewTypedTool("webSearch",
		"Search the latest information and realtime data on the internet",
		func(ctx context.Context, args struct {
			Query string `json:"query" jsonschema:"description=The search query to perform search on,required"`
		}) (any, error) {
			resp, err := client.Search(ctx, args.Query)
			if err != nil {
				return nil, err
			}
			return resp.Joined(), nil
		},
	)
}

// Retriever adapts a [Client] to the [assistant.Retriever] interface.
type Retriever struct {
	client *Client
}

// NewRetriever wraps client for use as a retrieval augmenter.
func NewRetriever(client *Client) *Retriever {
	return &Retriever{client: client}
}

// Search implements [assistant.Retriever].
func (r *Retriever) Search(ctx context.Context, query string) ([]assistant.Passage, error) {
	return r.client.Passages(ctx, query)
}
