// Copyright (c) ConvoFlow. All rights reserved.

package assistant

import (
	"context"
	"strings"
)

// Passage is one retrieved text chunk.
type Passage struct {
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// Retriever returns a bounded set of passages relevant to a query. It runs
// once, before the agent loop starts; it is not part of the iterative cycle
// and carries no retry logic. Failures wrap [ErrRetrieval].
type Retriever interface {
	Search(ctx context.Context, query string) ([]Passage, error)
}

// RetrievalInstructions is the system prompt for retrieval-augmented
// answering: the model must answer strictly from the supplied passages.
const RetrievalInstructions = `You are a smart retrieval agent, you will answer any user query based on the relevant information provided with the user query. If you do not know the answer or if the query cannot be answered with the provided information then simply say so, do not use any other knowledge base.`

// AugmentQuery builds the user prompt combining the query with the retrieved
// passages.
func AugmentQuery(query string, passages []Passage) string {
	var b strings.Builder
	b.WriteString("Query: ")
	b.WriteString(query)
	b.WriteString("\n\nRelevant Information:\n")
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(p.Content)
	}
	return b.String()
}
