// Copyright (c) ConvoFlow. All rights reserved.

package tavily_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/convoflow/convoflow/assistant"
	"github.com/convoflow/convoflow/tavily"
)

const searchResponse = `{
	"query": "weather in Paris",
	"results": [
		{"title": "Weather", "url": "https://a.example", "content": "Paris: 18C, light rain.", "score": 0.9},
		{"title": "Forecast", "url": "https://b.example", "content": "Rain through the evening.", "score": 0.7}
	]
}`

func TestSearch_RequestShape(t *testing.T) {
	var (
		gotAuth string
		gotPath string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, searchResponse)
	}))
	defer srv.Close()

	client := tavily.New("tvly-key",
		tavily.WithBaseURL(srv.URL),
		tavily.WithMaxResults(3),
		tavily.WithTopic("news"),
	)
	resp, err := client.Search(context.Background(), "weather in Paris")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if gotAuth != "Bearer tvly-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/search" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["query"] != "weather in Paris" {
		t.Errorf("query = %v", gotBody["query"])
	}
	if gotBody["max_results"] != float64(3) {
		t.Errorf("max_results = %v", gotBody["max_results"])
	}
	if gotBody["topic"] != "news" {
		t.Errorf("topic = %v", gotBody["topic"])
	}

	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
	want := "Paris: 18C, light rain.\n\nRain through the evening."
	if resp.Joined() != want {
		t.Errorf("Joined = %q, want %q", resp.Joined(), want)
	}
}

func TestSearch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"detail":"rate limit"}`)
	}))
	defer srv.Close()

	client := tavily.New("k", tavily.WithBaseURL(srv.URL))
	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Fatal("want error on 429")
	}
}

func TestPassages_WrapsRetrievalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := tavily.New("k", tavily.WithBaseURL(srv.URL))
	_, err := client.Passages(context.Background(), "q")
	if !errors.Is(err, assistant.ErrRetrieval) {
		t.Fatalf("err = %v, want ErrRetrieval", err)
	}
}

func TestRetriever_AdaptsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, searchResponse)
	}))
	defer srv.Close()

	client := tavily.New("k", tavily.WithBaseURL(srv.URL))
	var retriever assistant.Retriever = tavily.NewRetriever(client)

	passages, err := retriever.Search(context.Background(), "weather in Paris")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("passages = %d, want 2", len(passages))
	}
	if passages[0].Source != "https://a.example" || passages[0].Score != 0.9 {
		t.Errorf("passage = %+v", passages[0])
	}
	if passages[0].Content != "Paris: 18C, light rain." {
		t.Errorf("content = %q", passages[0].Content)
	}
}

func TestSearchTool_ReturnsJoinedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, searchResponse)
	}))
	defer srv.Close()

	client := tavily.New("k", tavily.WithBaseURL(srv.URL))
	tool := tavily.NewSearchTool(client)
	if tool.Name() != "webSearch" {
		t.Errorf("Name = %q", tool.Name())
	}

	registry, err := assistant.NewRegistry(tool)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	got, err := registry.Dispatch(context.Background(), "webSearch",
		json.RawMessage(`{"query":"weather in Paris"}`))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	want := "Paris: 18C, light rain.\n\nRain through the evening."
	if got != want {
		t.Errorf("result = %q, want %q", got, want)
	}
}
