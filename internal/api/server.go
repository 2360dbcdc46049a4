package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/QTest-hq/qskel/internal/config"
	"github.com/QTest-hq/qskel/internal/generator"
)

// Server represents the API server
type Server struct {
	cfg     *config.Config
	project *config.ProjectConfig
	gen     *generator.Generator
	router  *chi.Mux
}

// NewServer creates a new API server. project supplies the default run
// options; request parameters override it.
func NewServer(cfg *config.Config, project *config.ProjectConfig, gen *generator.Generator) (*Server, error) {
	if project == nil {
		project = config.DefaultProjectConfig()
	}
	if gen == nil {
		gen = generator.NewGenerator()
	}

	s := &Server{
		cfg:     cfg,
		project: project,
		gen:     gen,
		router:  chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate", s.generate)
		r.Get("/emitters", s.listEmitters)
	})
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
