// Copyright (c) ConvoFlow. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/convoflow/convoflow/assistant"
)

// chatRequest is the JSON body for POST /chat.
type chatRequest struct {
	UserMessage string `json:"userMessage"`
	ThreadID    string `json:"threadId"`
}

// chatResponse is the JSON body returned from POST /chat.
type chatResponse struct {
	Result string `json:"result"`
}

// errorResponse is returned on failures. Message is always a safe generic
// string, never a raw error.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// assistantServer is the HTTP handler around the agent loop.
type assistantServer struct {
	loop       *assistant.Loop
	corsOrigin string
	logger     *slog.Logger
	mux        *http.ServeMux
}

func newAssistantServer(loop *assistant.Loop, corsOrigin string, logger *slog.Logger) *assistantServer {
	s := &assistantServer{
		loop:       loop,
		corsOrigin: corsOrigin,
		logger:     logger,
		mux:        http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /chat", s.handleChat)
	return s
}

func (s *assistantServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
	s.cors(w, r)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// cors restricts cross-origin access to the configured origin.
func (s *assistantServer) cors(w http.ResponseWriter, r *http.Request) {
	if s.corsOrigin == "" {
		return
	}
	origin := r.Header.Get("Origin")
	if origin != s.corsOrigin {
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Vary", "Origin")
}

func (s *assistantServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *assistantServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: "request body must be JSON with userMessage and threadId",
		})
		return
	}
	req.UserMessage = strings.TrimSpace(req.UserMessage)
	req.ThreadID = strings.TrimSpace(req.ThreadID)
	if req.UserMessage == "" || req.ThreadID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: "userMessage and threadId are required",
		})
		return
	}

	answer, err := s.loop.Turn(r.Context(), req.ThreadID, req.UserMessage)
	if err != nil {
		s.logger.Error("turn failed", "thread_id", req.ThreadID, "error", err)
		// The caller never sees raw provider or tool errors.
		status := http.StatusBadGateway
		if errors.Is(err, assistant.ErrProviderTimeout) {
			status = http.StatusGatewayTimeout
		}
		writeJSON(w, status, errorResponse{
			Error:   "assistant_failed",
			Message: "Something went wrong, please try again later.",
		})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Result: answer})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
