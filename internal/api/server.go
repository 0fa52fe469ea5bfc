package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docslice/internal/config"
	"github.com/dgallion1/docslice/internal/pipeline"
	"github.com/dgallion1/docslice/internal/queryparse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docslice.
type Server struct {
	router       chi.Router
	processor    *pipeline.Processor
	orchestrator *pipeline.Orchestrator
	parser       *queryparse.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. parser may be nil when
// no Anthropic key is configured; query endpoints then answer 503.
func NewServer(proc *pipeline.Processor, orch *pipeline.Orchestrator, parser *queryparse.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		processor:    proc,
		orchestrator: orch,
		parser:       parser,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// API endpoints; bearer auth only when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.DocsliceAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.DocsliceAPIKey, s.log))
		}

		r.Post("/api/chunk", s.handleChunk)
		r.Post("/api/documents", s.handleSubmitDocument)
		r.Get("/api/documents/{jobID}", s.handleDocumentStatus)
		r.Post("/api/outline", s.handleOutline)

		r.Post("/api/query/parse", s.handleParseQuery)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
