// Package api serves the job list as JSON with OpenAPI documentation.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-fuego/fuego"
	"github.com/go-fuego/fuego/option"

	"github.com/hishmat-dev/job-listing-app/internal/logger"
)

// Server represents the Fuego API server.
type Server struct {
	fuego      *fuego.Server
	deps       *Dependencies
	config     *Config
	handler    http.Handler
	httpServer *http.Server
	listener   net.Listener
	log        *logger.Logger
}

// Dependencies contains all service dependencies. Presets may be nil.
type Dependencies struct {
	Jobs    JobsService
	Presets PresetSource
}

// Config holds API server configuration.
type Config struct {
	Port        int
	Title       string
	Description string
	Version     string
	CORSOrigins []string
	DocsTheme   string // Scalar theme name, DefaultDocsTheme when empty
}

// NewServer creates a new Fuego API server.
func NewServer(cfg *Config, deps *Dependencies) *Server {
	s := fuego.NewServer(
		fuego.WithAddr(fmt.Sprintf(":%d", cfg.Port)),
		fuego.WithEngineOptions(
			fuego.WithOpenAPIConfig(fuego.OpenAPIConfig{
				PrettyFormatJSON: true,
				SwaggerURL:       "/docs",
				SpecURL:          "/openapi.json",
				UIHandler: func(specURL string) http.Handler {
					return ScalarHandler(specURL, cfg)
				},
			}),
		),
	)

	s.OpenAPI.Description().Info.Title = cfg.Title
	s.OpenAPI.Description().Info.Description = cfg.Description
	s.OpenAPI.Description().Info.Version = cfg.Version

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	srv := &Server{
		fuego:  s,
		deps:   deps,
		config: cfg,
		log:    logger.Get().Component("api"),
	}

	// Chi middleware works as is: fuego is net/http compatible
	fuego.Use(s, middleware.RequestID)
	fuego.Use(s, middleware.RealIP)
	fuego.Use(s, logger.Middleware(srv.log))
	fuego.Use(s, middleware.Recoverer)

	srv.registerRoutes()
	srv.mountDocs()

	// CORS wraps the mux so preflight requests never reach method routing
	srv.handler = cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	})(s.Mux)

	return srv
}

func (s *Server) registerRoutes() {
	fuego.Get(s.fuego, "/health", s.healthCheck,
		option.Summary("Health Check"),
		option.Description("Returns the health status of the API"),
		option.Tags("System"),
	)

	jobsGroup := fuego.Group(s.fuego, "/api/v1/jobs",
		option.Tags("Jobs"),
	)

	fuego.Get(jobsGroup, "/", s.listJobs,
		option.Summary("List Jobs"),
		option.Description("Returns the loaded jobs filtered and sorted by the given criteria"),
		option.Query("search", "Case-insensitive match on title, company or location"),
		option.Query("job_type", "Exact job type (Full-Time, Part-Time, Contract, Internship)"),
		option.Query("location", "Case-insensitive match on location"),
		option.Query("city", "Exact city"),
		option.Query("country", "Exact country"),
		option.Query("tag", "Exact tag"),
		option.Query("date_range", "today, week, month or 3months"),
		option.Query("sort", "posting_date_desc (default), posting_date_asc, title_asc, title_desc, company_asc, company_desc"),
	)

	fuego.Get(jobsGroup, "/facets", s.getFacets,
		option.Summary("Get Facets"),
		option.Description("Returns the distinct cities, countries and tags of the loaded jobs"),
	)

	fuego.Get(jobsGroup, "/stats", s.getStats,
		option.Summary("Get Statistics"),
		option.Description("Returns the job market overview of the loaded jobs"),
	)

	fuego.Post(jobsGroup, "/reload", s.reloadJobs,
		option.Summary("Reload Jobs"),
		option.Description("Fetches the job list from the backend again"),
	)

	fuego.Post(jobsGroup, "/", s.createJob,
		option.Summary("Create Job"),
		option.Description("Validates and creates a job listing"),
	)

	fuego.Get(jobsGroup, "/{id}", s.getJob,
		option.Summary("Get Job"),
		option.Description("Returns a single job by ID"),
	)

	fuego.Put(jobsGroup, "/{id}", s.updateJob,
		option.Summary("Update Job"),
		option.Description("Validates and replaces a job listing"),
	)

	fuego.Delete(jobsGroup, "/{id}", s.deleteJob,
		option.Summary("Delete Job"),
		option.Description("Deletes a job listing"),
	)

	presetsGroup := fuego.Group(s.fuego, "/api/v1/presets",
		option.Tags("Presets"),
	)

	fuego.Get(presetsGroup, "/", s.listPresets,
		option.Summary("List Presets"),
		option.Description("Returns the saved searches"),
	)

	fuego.Get(presetsGroup, "/{name}/jobs", s.presetJobs,
		option.Summary("List Preset Jobs"),
		option.Description("Returns the loaded jobs matching a saved search"),
	)
}

// mountDocs serves the Scalar UI at /docs and the generated schema at
// /openapi.json.
func (s *Server) mountDocs() {
	scalar := ScalarHandler("/openapi.json", s.config)
	s.fuego.Mux.Handle("GET /docs", scalar)

	s.fuego.Mux.HandleFunc("GET /openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.fuego.OpenAPI.Description()); err != nil {
			http.Error(w, "Failed to encode OpenAPI spec", http.StatusInternalServerError)
		}
	})
}

// Handler returns the API as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the API server.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpServer.Serve(listener)
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// BaseURL returns the server's base URL.
func (s *Server) BaseURL() string {
	if s.listener != nil {
		return fmt.Sprintf("http://%s", s.listener.Addr().String())
	}
	return fmt.Sprintf("http://localhost:%d", s.config.Port)
}
