package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docparse/internal/config"
	"github.com/dgallion1/docparse/internal/engine"
	"github.com/dgallion1/docparse/internal/extract"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for docparse. It exposes the engine's
// operations and holds no parsing logic of its own.
type Server struct {
	router chi.Router
	engine *engine.Engine
	stats  *extract.ParseStats
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(eng *engine.Engine, stats *extract.ParseStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		engine: eng,
		stats:  stats,
		log:    log,
		cfg:    cfg,
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

	r.Group(func(r chi.Router) {
		if s.cfg.DocparseAPIKey != "" {
			r.Use(AuthMiddleware(s.cfg.DocparseAPIKey, s.log))
		}

		r.Post("/api/parse", s.handleParse)
		r.Get("/api/formats", s.handleFormats)
		r.Get("/api/stats/parse", s.handleParseStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
