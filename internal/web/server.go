// Package web serves the HTML job listing pages.
package web

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hishmat-dev/job-listing-app/internal/logger"
)

// Version is reported by /health.
var Version = "dev"

// Config holds server configuration
type Config struct {
	Port      int
	StaticDir string // overrides the embedded assets when set
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *Config
	listener   net.Listener
	hub        *Hub
	templates  *TemplateEngine
	log        *logger.Logger
}

// NewServer creates a new HTTP server. templates and hub may be nil.
func NewServer(cfg *Config, templates *TemplateEngine, hub *Hub) *Server {
	srv := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		hub:       hub,
		templates: templates,
		log:       logger.Get().Component("web"),
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	return srv
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.Middleware(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	var static fs.FS = StaticFS()
	if s.config.StaticDir != "" {
		static = os.DirFS(s.config.StaticDir)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	if s.hub != nil {
		s.router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(s.hub, w, r)
		})
	}

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","version":%q}`, Version)
	})
}

// PageHandlers renders the HTML pages.
type PageHandlers interface {
	List(w http.ResponseWriter, r *http.Request)
	NewJob(w http.ResponseWriter, r *http.Request)
	EditJob(w http.ResponseWriter, r *http.Request)
	ConfirmDelete(w http.ResponseWriter, r *http.Request)
}

// FormHandlers accepts form posts.
type FormHandlers interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Retry(w http.ResponseWriter, r *http.Request)
	DismissError(w http.ResponseWriter, r *http.Request)
	DismissToast(w http.ResponseWriter, r *http.Request)
}

// RegisterPages mounts the pages and form endpoints behind the error
// boundary.
func (s *Server) RegisterPages(pages PageHandlers, forms FormHandlers) {
	s.router.Group(func(r chi.Router) {
		r.Use(ErrorBoundary(s.templates, s.log))

		r.Get("/", pages.List)
		r.Get("/jobs/new", pages.NewJob)
		r.Get("/jobs/{id}/edit", pages.EditJob)
		r.Get("/jobs/{id}/delete", pages.ConfirmDelete)

		r.Post("/jobs", forms.Create)
		r.Post("/jobs/{id}", forms.Update)
		r.Post("/jobs/{id}/delete", forms.Delete)
		r.Post("/retry", forms.Retry)
		r.Post("/dismiss-error", forms.DismissError)
		r.Post("/toasts/{id}/dismiss", forms.DismissToast)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s.httpServer.Serve(listener)
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// BaseURL returns the server's base URL
func (s *Server) BaseURL() string {
	if s.listener != nil {
		return fmt.Sprintf("http://%s", s.listener.Addr().String())
	}
	return fmt.Sprintf("http://localhost:%d", s.config.Port)
}

// Router returns the underlying Chi router for external route mounting.
func (s *Server) Router() *chi.Mux {
	return s.router
}
