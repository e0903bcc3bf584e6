// Copyright (c) ConvoFlow. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/convoflow/convoflow/assistant"
)

// httpRetriever queries an external passage-search service:
// POST {base}/query with {"query": "...", "topK": n} returning
// {"passages": [{"content": "...", "source": "...", "score": 0.9}, ...]}.
type httpRetriever struct {
	client *http.Client
	base   string
	topK   int
}

func newHTTPRetriever(base string) *httpRetriever {
	return &httpRetriever{
		client: http.DefaultClient,
		base:   base,
		topK:   4,
	}
}

func (r *httpRetriever) Search(ctx context.Context, query string) ([]assistant.Passage, error) {
	body, err := json.Marshal(map[string]any{
		"query": query,
		"topK":  r.topK,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal query: %v", assistant.ErrRetrieval, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.base+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", assistant.ErrRetrieval, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", assistant.ErrRetrieval, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search returned status %d", assistant.ErrRetrieval, resp.StatusCode)
	}

	var out struct {
		Passages []assistant.Passage `json:"passages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", assistant.ErrRetrieval, err)
	}
	return out.Passages, nil
}
