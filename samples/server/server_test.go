// Copyright (c) ConvoFlow. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/convoflow/convoflow/assistant"
)

type stubProvider struct {
	answer string
	err    error
}

func (p *stubProvider) Complete(_ context.Context, _ []assistant.Message, _ *assistant.CompleteOptions) (*assistant.Completion, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &assistant.Completion{Assistant: assistant.NewAssistantMessage(p.answer)}, nil
}

func newTestServer(t *testing.T, provider assistant.CompletionProvider, corsOrigin string) *assistantServer {
	t.Helper()
	registry, err := assistant.NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	loop := assistant.NewLoop(provider, registry, assistant.NewMemoryStore(time.Hour),
		assistant.WithInstructions("You are a smart assistant."),
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newAssistantServer(loop, corsOrigin, logger)
}

func TestHandleChat(t *testing.T) {
	srv := newTestServer(t, &stubProvider{answer: "Paris."}, "")

	body := `{"userMessage": "Capital of France?", "threadId": "t1"}`
	req := httptest.NewRequest("POST", "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Result != "Paris." {
		t.Errorf("result = %q", resp.Result)
	}
}

func TestHandleChat_MissingFields(t *testing.T) {
	srv := newTestServer(t, &stubProvider{answer: "x"}, "")

	tests := []struct {
		name string
		body string
	}{
		{"not json", `nope`},
		{"missing message", `{"threadId": "t1"}`},
		{"missing thread", `{"userMessage": "hi"}`},
		{"blank fields", `{"userMessage": "  ", "threadId": " "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/chat", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleChat_ProviderFailureHidesDetails(t *testing.T) {
	srv := newTestServer(t, &stubProvider{err: &assistant.ProviderError{
		StatusCode: 500,
		Message:    "internal secret detail",
		Err:        assistant.ErrProvider,
	}}, "")

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"userMessage": "hi", "threadId": "t1"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Errorf("raw error leaked: %s", rec.Body)
	}
}

func TestHandleChat_TimeoutMapsTo504(t *testing.T) {
	srv := newTestServer(t, &stubProvider{err: &assistant.ProviderError{
		Message: "deadline exceeded",
		Err:     assistant.ErrProviderTimeout,
	}}, "")

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"userMessage": "hi", "threadId": "t1"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubProvider{answer: "x"}, "")

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, &stubProvider{answer: "x"}, "https://app.example")

	req := httptest.NewRequest("OPTIONS", "/chat", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("allow-origin = %q", got)
	}

	// Unlisted origins get no CORS headers.
	req = httptest.NewRequest("OPTIONS", "/chat", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("allow-origin = %q, want empty", got)
	}
}
