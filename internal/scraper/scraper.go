// Package scraper imports jobs from the ActuaryList site into the jobs
// backend.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/logger"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/repository"
	"github.com/hishmat-dev/job-listing-app/internal/validation"
)

const (
	// DefaultURL is the listing page that is scraped.
	DefaultURL = "https://www.actuarylist.com"
	// DefaultMaxJobs caps the cards taken from one page.
	DefaultMaxJobs = 50

	existingPageSize = 100
)

// Repository is the part of the jobs backend the scraper writes to.
// *repository.JobsRepository implements it.
type Repository interface {
	List(ctx context.Context, q repository.ListQuery) (*repository.ListResult, error)
	Create(ctx context.Context, in models.JobInput) (*models.Job, error)
}

// Config selects what is scraped.
type Config struct {
	URL     string
	MaxJobs int  // <= 0 means DefaultMaxJobs
	DryRun  bool // parse and validate without creating jobs
}

// Result summarizes one run.
type Result struct {
	Found      int               `json:"found"`
	Created    []models.Job      `json:"created"`
	Duplicates int               `json:"duplicates"`
	Invalid    int               `json:"invalid"`
	Failed     int               `json:"failed"`
	Scraped    []models.JobInput `json:"scraped"`
}

// Scraper fetches the listing page and submits new jobs.
type Scraper struct {
	fetcher   Fetcher
	repo      Repository
	validator *validation.Validator
	now       func() time.Time
	cfg       Config
	log       *logger.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithClock sets the time used for relative dates and validation.
func WithClock(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l }
}

// New creates a Scraper.
func New(fetcher Fetcher, repo Repository, cfg Config, opts ...Option) *Scraper {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.MaxJobs <= 0 {
		cfg.MaxJobs = DefaultMaxJobs
	}
	s := &Scraper{
		fetcher: fetcher,
		repo:    repo,
		now:     time.Now,
		cfg:     cfg,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = validation.New(s.now)
	return s
}

// Run scrapes one page. Jobs whose title and company already exist in the
// backend are skipped, as are cards that fail validation. A failed create
// is counted and logged; the run goes on with the next job.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	now := s.now()

	html, err := s.fetcher.Fetch(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	forms, err := ParseCards(strings.NewReader(html), now)
	if err != nil {
		return nil, err
	}
	if len(forms) > s.cfg.MaxJobs {
		forms = forms[:s.cfg.MaxJobs]
	}
	s.log.Info().Int("cards", len(forms)).Str("url", s.cfg.URL).Msg("parsed listing page")

	existing, err := s.existingKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing jobs: %w", err)
	}

	res := &Result{Found: len(forms), Created: []models.Job{}, Scraped: make([]models.JobInput, 0, len(forms))}
	for _, f := range forms {
		res.Scraped = append(res.Scraped, f.Input())

		key := jobKey(f.Title, f.Company)
		if existing[key] {
			res.Duplicates++
			continue
		}

		if v := s.validator.Validate(f); !v.Valid {
			res.Invalid++
			s.log.Warn().Str("title", f.Title).Str("company", f.Company).Err(v.Err()).Msg("skipping invalid job")
			continue
		}
		existing[key] = true

		if s.cfg.DryRun {
			continue
		}

		job, err := s.repo.Create(ctx, f.Input())
		if err != nil {
			res.Failed++
			s.log.Error().Err(err).Str("title", f.Title).Str("company", f.Company).Msg("create job failed")
			continue
		}
		res.Created = append(res.Created, *job)
	}

	s.log.Info().
		Int("found", res.Found).
		Int("created", len(res.Created)).
		Int("duplicates", res.Duplicates).
		Int("invalid", res.Invalid).
		Int("failed", res.Failed).
		Msg("scrape finished")

	return res, nil
}

// existingKeys pages through the backend list.
func (s *Scraper) existingKeys(ctx context.Context) (map[string]bool, error) {
	keys := make(map[string]bool)
	for page := 1; ; page++ {
		list, err := s.repo.List(ctx, repository.ListQuery{Page: page, PerPage: existingPageSize})
		if err != nil {
			return nil, err
		}
		for _, j := range list.Jobs {
			keys[jobKey(j.Title, j.Company)] = true
		}
		if !list.HasNext || len(list.Jobs) == 0 {
			return keys, nil
		}
	}
}

func jobKey(title, company string) string {
	return strings.TrimSpace(title) + "\x00" + strings.TrimSpace(company)
}

// WriteJSON writes the scraped jobs as indented JSON.
func WriteJSON(w io.Writer, jobs []models.JobInput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(jobs)
}
