package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dgallion1/docslice/internal/convert"
	"github.com/dgallion1/docslice/internal/fetch"
	"github.com/dgallion1/docslice/internal/markdown"
	"github.com/dgallion1/docslice/internal/pipeline"
	"github.com/dgallion1/docslice/internal/splitter"
	"github.com/go-chi/chi/v5"
)

type documentRequest struct {
	URL          string `json:"url"`
	ChunkSize    int    `json:"chunk_size"`
	ChunkOverlap int    `json:"chunk_overlap"`
}

// splitConfig applies per-request overrides on top of the configured
// defaults. Zero values mean "use the default".
func (s *Server) splitConfig(req documentRequest) splitter.Config {
	cfg := splitter.Config{
		ChunkSize:    s.cfg.DefaultChunkSize,
		ChunkOverlap: s.cfg.DefaultChunkOverlap,
	}
	if req.ChunkSize > 0 {
		cfg.ChunkSize = req.ChunkSize
	}
	if req.ChunkOverlap > 0 {
		cfg.ChunkOverlap = req.ChunkOverlap
	}
	return cfg
}

func decodeDocumentRequest(w http.ResponseWriter, r *http.Request) (documentRequest, bool) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		jsonError(w, "url must be an absolute http(s) URL", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// handleChunk runs the pipeline synchronously and returns the chunks.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDocumentRequest(w, r)
	if !ok {
		return
	}

	splitCfg := s.splitConfig(req)
	if err := splitCfg.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	chunks, err := s.processor.LoadAndChunkWith(r.Context(), req.URL, splitCfg)
	if err != nil {
		jsonError(w, err.Error(), pipelineErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"url":         req.URL,
		"chunk_count": len(chunks),
		"chunks":      chunks,
	})
}

// handleSubmitDocument queues the pipeline as a background job.
func (s *Server) handleSubmitDocument(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDocumentRequest(w, r)
	if !ok {
		return
	}

	splitCfg := s.splitConfig(req)
	if err := splitCfg.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(req.URL, splitCfg)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/documents/%s", job.ID),
	})
}

func (s *Server) handleDocumentStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handleOutline returns the document's heading tree without chunking it.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeDocumentRequest(w, r)
	if !ok {
		return
	}

	text, err := s.processor.LoadMarkdown(r.Context(), req.URL)
	if err != nil {
		jsonError(w, err.Error(), pipelineErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"url":     req.URL,
		"outline": markdown.Outline([]byte(text)),
	})
}

// pipelineErrorStatus maps pipeline failures onto HTTP codes: upstream
// download failures are a gateway problem, conversion failures blame the
// document, anything else is a plain server error.
func pipelineErrorStatus(err error) int {
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		return http.StatusBadGateway
	}
	var convErr *convert.ConversionError
	if errors.As(err, &convErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
