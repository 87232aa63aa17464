package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"landscout/services"
	"landscout/utils"
)

// Options configures the HTTP server.
type Options struct {
	SnapshotDir    string
	SheetName      string
	AllowedOrigins []string
}

// Server exposes the current dataset snapshot to the dashboard renderers and
// lets the dashboard switch snapshots.
type Server struct {
	router   chi.Router
	pipeline *services.Pipeline
	boot     *services.Bootstrapper
	logger   *utils.Logger
	opts     Options
}

// New builds a Server with its routes.
func New(p *services.Pipeline, boot *services.Bootstrapper, logger *utils.Logger, opts Options) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		pipeline: p,
		boot:     boot,
		logger:   logger,
		opts:     opts,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer returns an *http.Server listening on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) setupMiddleware() {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/dataset", s.handleDataset)
		r.Get("/dataset.csv", s.handleDatasetCSV)
		r.Get("/summary", s.handleSummary)
		r.Get("/snapshots", s.handleListSnapshots)
		r.Post("/snapshots/{name}/load", s.handleLoadSnapshot)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
