// Package api exposes the ingest pipeline, vector search, and chat
// sessions over HTTP for operators and UI frontends.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lumen/internal/agent"
	"lumen/internal/ingest"
	"lumen/internal/vectorstore"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	pipeline *ingest.Pipeline
	gateway  *vectorstore.Gateway
	chat     *agent.Service
}

// NewServer creates and configures the HTTP server. The chat service
// may be nil when no model is configured; chat endpoints then return
// 503.
func NewServer(pipeline *ingest.Pipeline, gateway *vectorstore.Gateway, chat *agent.Service) *Server {
	s := &Server{
		pipeline: pipeline,
		gateway:  gateway,
		chat:     chat,
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
	r.Use(RequestLogger())

	r.Get("/health", s.handleHealth)

	r.Get("/api/collection", s.handleCollection)
	r.Post("/api/search", s.handleSearch)
	r.Post("/api/ingest", s.handleIngest)
	r.Post("/api/chat", s.handleChat)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
