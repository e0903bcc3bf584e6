// Copyright (c) ConvoFlow. All rights reserved.

// Package tavily provides a client for the Tavily web search API, the
// capability behind the assistant's webSearch tool and the web-backed
// [assistant.Retriever].
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/convoflow/convoflow/assistant"
)

const defaultBaseURL = "https://api.tavily.com"

// Client calls the Tavily search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxResults int
	topic      string
	rawContent bool
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient provides a custom http.Client for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithMaxResults caps the number of results per search. Default 5.
func WithMaxResults(n int) Option {
	return func(c *Client) { c.maxResults = n }
}

// WithTopic sets the search topic category ("general", "news", "finance").
func WithTopic(topic string) Option {
	return func(c *Client) { c.topic = topic }
}

// WithRawContent includes the raw page content in results.
func WithRawContent() Option {
	return func(c *Client) { c.rawContent = true }
}

// New creates a Client with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		maxResults: 5,
		topic:      "general",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is one search hit.
type Result struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	RawContent string  `json:"raw_content,omitempty"`
	Score      float64 `json:"score"`
}

// Response is a complete search response.
type Response struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer,omitempty"`
	Results []Result `json:"results"`
}

// Joined concatenates the result contents with blank lines, the form the
// assistant feeds back to the model as a tool result.
func (r *Response) Joined() string {
	parts := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		parts = append(parts, res.Content)
	}
	return strings.Join(parts, "\n\n")
}

type searchRequest struct {
	Query             string `json:"query"`
	MaxResults        int    `json:"max_results,omitempty"`
	Topic             string `json:"topic,omitempty"`
	IncludeRawContent bool   `json:"include_raw_content,omitempty"`
}

// Search runs a web search for query.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	body, err := json.Marshal(searchRequest{
		Query:             query,
		MaxResults:        c.maxResults,
		Topic:             c.topic,
		IncludeRawContent: c.rawContent,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// Passages runs a search and adapts the results to retrieval passages.
// Failures wrap [assistant.ErrRetrieval]. See [NewRetriever] for the
// [assistant.Retriever] adapter.
func (c *Client) Passages(ctx context.Context, query string) ([]assistant.Passage, error) {
	resp, err := c.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", assistant.ErrRetrieval, err)
	}
	passages := make([]assistant.Passage, 0, len(resp.Results))
	for _, res := range resp.Results {
		passages = append(passages, assistant.Passage{
			Content: res.Content,
			Source:  res.URL,
			Score:   res.Score,
		})
	}
	return passages, nil
}
