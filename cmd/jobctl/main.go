// jobctl reads and edits the job list from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/config"
	"github.com/hishmat-dev/job-listing-app/internal/logger"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/nats"
	"github.com/hishmat-dev/job-listing-app/internal/presets"
	"github.com/hishmat-dev/job-listing-app/internal/repository"
	"github.com/hishmat-dev/job-listing-app/internal/watcher"
)

const usage = `usage: jobctl <command> [args]

commands:
  list [key=value...]   filtered job list; keys: search, job_type, location,
                        city, country, tag, date_range, sort, preset
  stats                 job market overview
  delete <id>           delete a job
  watch                 print job events from NATS (needs NATS_URL)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Options{Level: "warn", File: cfg.LogFile}); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "watch":
		return watch(ctx, cfg, out)
	case "list", "stats", "delete":
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}

	repo := repository.NewJobsRepository(cfg.JobsAPIURL,
		repository.WithRateLimit(cfg.JobsAPIRPS, cfg.JobsAPIBurst),
		repository.WithLogger(logger.Get().Component("repository")),
	)
	svc := app.New(repo, app.WithPerPage(cfg.JobsPerPage), app.WithLogger(logger.Get().Component("app")))

	switch cmd {
	case "delete":
		if len(args) != 1 {
			return errors.New("delete takes exactly one job id")
		}
		if err := svc.Delete(ctx, models.JobID(args[0])); err != nil {
			return err
		}
		fmt.Fprintln(out, app.MsgDeleted)
		return nil
	}

	if err := svc.Load(ctx); err != nil {
		return err
	}

	if cmd == "stats" {
		printStats(out, svc.Stats())
		return nil
	}

	criteria, err := parseCriteria(args, cfg.PresetsFile)
	if err != nil {
		return err
	}
	printJobs(out, svc.View(criteria))
	return nil
}

var criteriaKeys = map[string]bool{
	"search": true, "job_type": true, "location": true, "city": true,
	"country": true, "tag": true, "date_range": true, "sort": true, "preset": true,
}

// parseCriteria reads key=value arguments. A preset replaces all other
// criteria.
func parseCriteria(args []string, presetsFile string) (models.FilterCriteria, error) {
	q := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return models.FilterCriteria{}, fmt.Errorf("invalid argument %q, want key=value", arg)
		}
		if !criteriaKeys[key] {
			return models.FilterCriteria{}, fmt.Errorf("unknown key %q in %q", key, arg)
		}
		q.Set(key, value)
	}

	name := q.Get("preset")
	if name == "" {
		return models.CriteriaFromQuery(q), nil
	}

	set := presets.Defaults()
	if presetsFile != "" {
		var err error
		if set, err = presets.LoadFile(presetsFile); err != nil {
			return models.FilterCriteria{}, err
		}
	}
	p, ok := set.Get(name)
	if !ok {
		return models.FilterCriteria{}, fmt.Errorf("unknown preset %q (have: %s)", name, strings.Join(set.Names(), ", "))
	}
	return p.Criteria, nil
}

func printJobs(out io.Writer, v app.View) {
	if v.Count == 0 {
		fmt.Fprintln(out, "No jobs found")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tTYPE\tPOSTED")
	for _, j := range v.Jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", j.ID, j.Title, j.Company, j.Location, j.JobType, j.PostingDate)
	}
	_ = tw.Flush()

	filtered := ""
	if v.HasActiveFilters {
		filtered = " (filtered)"
	}
	fmt.Fprintf(out, "\nShowing %d of %d jobs%s\n", v.Count, v.Total, filtered)
}

func printStats(out io.Writer, s models.Stats) {
	fmt.Fprintf(out, "Total Jobs:        %d\n", s.TotalJobs)
	fmt.Fprintf(out, "Posted This Month: %d\n", s.RecentJobs)

	fmt.Fprintln(out, "\nJob Types")
	for _, t := range s.JobTypes {
		fmt.Fprintf(out, "  %-12s %d\n", t.Type, t.Count)
	}
	fmt.Fprintln(out, "\nTop Companies")
	for i, c := range s.TopCompanies {
		fmt.Fprintf(out, "  %d. %s (%d)\n", i+1, c.Company, c.Count)
	}
	fmt.Fprintln(out, "\nTop Locations")
	for i, c := range s.TopLocations {
		fmt.Fprintf(out, "  %d. %s (%d)\n", i+1, c.City, c.Count)
	}
}

func watch(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if cfg.NatsURL == "" {
		return errors.New("NATS_URL is not set")
	}

	nc, err := nats.New(ctx, cfg.NatsURL, "jobctl", logger.Get().Component("nats"))
	if err != nil {
		return err
	}
	defer nc.Close()

	if err := nc.EnsureJobsStream(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", nats.SubjectAll)
	consumer := watcher.NewConsumer(nc, "", func(e watcher.Event) error {
		fmt.Fprintln(out, e.String())
		return nil
	}, logger.Get().Component("watcher"))
	return consumer.Start(ctx)
}
