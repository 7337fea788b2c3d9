package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/config"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/indexclient"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/pipeline"
)

// Server is the HTTP API for the document processing service.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	index        *indexclient.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. index may be nil when
// the service runs without a downstream index (reports only).
func NewServer(orch *pipeline.Orchestrator, index *indexclient.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		index:        index,
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

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/process", s.handleProcess)
		r.Get("/api/process/{jobID}/status", s.handleProcessStatus)
		r.Post("/api/process/batch", s.handleBatchProcess)
		r.Get("/api/stats/chunks", s.handleChunkStats)

		r.Get("/api/documents", s.handleListDocuments)
		r.Delete("/api/documents/{docName}", s.handleDeleteDocument)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
