package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/api"
	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/config"
	"github.com/hishmat-dev/job-listing-app/internal/logger"
	"github.com/hishmat-dev/job-listing-app/internal/nats"
	"github.com/hishmat-dev/job-listing-app/internal/presets"
	"github.com/hishmat-dev/job-listing-app/internal/publisher"
	"github.com/hishmat-dev/job-listing-app/internal/repository"
	"github.com/hishmat-dev/job-listing-app/internal/web"
	"github.com/hishmat-dev/job-listing-app/internal/web/handlers"
)

var version = "dev"

func main() {
	// 1. Load config
	if err := config.LoadDotEnv(); err != nil {
		panic("failed to read .env: " + err.Error())
	}
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Initialize logger
	if err := logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, JSON: cfg.LogJSON}); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Str("version", version).Str("backend", cfg.JobsAPIURL).Msg("starting job listings")

	web.Version = version
	api.Version = version

	// 3. Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	// 4. Backend client
	repo := repository.NewJobsRepository(cfg.JobsAPIURL,
		repository.WithRateLimit(cfg.JobsAPIRPS, cfg.JobsAPIBurst),
		repository.WithLogger(log.Component("repository")),
	)

	// 5. Event fan-out: browsers always, NATS when configured
	hub := web.NewHub()
	go hub.Run()

	publishers := app.MultiPublisher{hub}
	if cfg.NatsURL != "" {
		nc, err := nats.New(ctx, cfg.NatsURL, "joblistings", log.Component("nats"))
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to nats, publishing disabled")
		} else {
			defer nc.Close()
			if err := nc.EnsureJobsStream(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to create jobs stream")
			}
			publishers = append(publishers, publisher.NewNATSPublisher(nc))
		}
	}

	// 6. Application state
	svc := app.New(repo,
		app.WithPublisher(publishers),
		app.WithLogger(log.Component("app")),
		app.WithPerPage(cfg.JobsPerPage),
	)
	if err := svc.Load(ctx); err != nil {
		// the list page shows the error banner with a retry button
		log.Error().Err(err).Msg("initial load failed")
	}

	// 7. Presets
	presetSet := presets.Defaults()
	if cfg.PresetsFile != "" {
		presetSet, err = presets.LoadFile(cfg.PresetsFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.PresetsFile).Msg("failed to load presets")
		}
	}
	log.Info().Int("count", presetSet.Len()).Msg("presets loaded")

	// 8. Templates
	tmpl := web.NewTemplateEngineFromDir(cfg.TemplatesDir)
	if err := tmpl.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load templates")
	}

	// 9. Web UI
	server := web.NewServer(&web.Config{Port: cfg.HTTPPort, StaticDir: cfg.StaticDir}, tmpl, hub)
	pagesHandler := handlers.NewPagesHandler(tmpl, svc, presetSet)
	server.RegisterPages(pagesHandler, handlers.NewJobsHandler(pagesHandler, svc))

	log.Info().Int("port", cfg.HTTPPort).Msg("starting web server")
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("web server error")
		}
	}()

	// 10. JSON API, disabled with API_PORT=0
	var apiServer *api.Server
	if cfg.APIPort != 0 {
		apiServer = api.NewServer(&api.Config{
			Port:        cfg.APIPort,
			Title:       "Job Listings API",
			Description: "Filter, summarize and edit actuarial job listings",
			Version:     version,
			CORSOrigins: cfg.CORSOrigins,
			DocsTheme:   cfg.APIDocsTheme,
		}, &api.Dependencies{Jobs: svc, Presets: presetSet})

		log.Info().Int("port", cfg.APIPort).Msg("starting api server")
		go func() {
			if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("api server error")
			}
		}()
	}

	// 11. Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("web server shutdown")
	}
	if apiServer != nil {
		if err := apiServer.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("api server shutdown")
		}
	}
	hub.Close()

	log.Info().Msg("shutdown complete")
}
