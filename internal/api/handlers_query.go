package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

type parseQueryRequest struct {
	Query string `json:"query"`
}

// handleParseQuery classifies a user question into a structured retrieval
// query. Answers 503 when no Anthropic key is configured.
func (s *Server) handleParseQuery(w http.ResponseWriter, r *http.Request) {
	if s.parser == nil {
		jsonError(w, "query parsing is not configured", http.StatusServiceUnavailable)
		return
	}

	var req parseQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	parsed, err := s.parser.ParseQuery(r.Context(), req.Query)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(parsed)
}

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.parser == nil {
		jsonError(w, "llm stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"model": s.cfg.AnthropicModel,
		"stats": s.parser.Stats().Snapshot(),
	})
}
