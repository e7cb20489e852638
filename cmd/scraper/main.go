// scraper imports jobs from actuarylist.com into the jobs backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/config"
	"github.com/hishmat-dev/job-listing-app/internal/logger"
	"github.com/hishmat-dev/job-listing-app/internal/repository"
	"github.com/hishmat-dev/job-listing-app/internal/scraper"
)

func main() {
	url := flag.String("url", scraper.DefaultURL, "listing page to scrape")
	maxJobs := flag.Int("max", scraper.DefaultMaxJobs, "maximum number of job cards to import")
	jsonOut := flag.String("json", "", `write scraped jobs to this file ("auto" for a timestamped name)`)
	dryRun := flag.Bool("dry-run", false, "parse and validate without creating jobs")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, JSON: cfg.LogJSON}); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	log := logger.Get()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	repo := repository.NewJobsRepository(cfg.JobsAPIURL,
		repository.WithRateLimit(cfg.JobsAPIRPS, cfg.JobsAPIBurst),
		repository.WithLogger(log.Component("repository")),
	)
	s := scraper.New(scraper.NewBrowserFetcher(), repo, scraper.Config{
		URL:     *url,
		MaxJobs: *maxJobs,
		DryRun:  *dryRun,
	}, scraper.WithLogger(log.Component("scraper")))

	res, err := s.Run(ctx)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	if *jsonOut != "" {
		path := *jsonOut
		if path == "auto" {
			path = fmt.Sprintf("actuary_jobs_%s.json", time.Now().Format("20060102_150405"))
		}
		if err := writeFile(path, res); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Saved %d jobs to %s\n", len(res.Scraped), path)
	}

	if res.Found == 0 {
		fmt.Println("❌ No jobs found.")
		os.Exit(1)
	}
	fmt.Printf("📊 Found %d job cards\n", res.Found)
	fmt.Printf("✓ Created %d jobs (%d already listed, %d invalid, %d failed)\n",
		len(res.Created), res.Duplicates, res.Invalid, res.Failed)
	if res.Failed > 0 {
		os.Exit(1)
	}
}

func writeFile(path string, res *scraper.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := scraper.WriteJSON(f, res.Scraped); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
