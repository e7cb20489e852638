package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/repository"
	"github.com/hishmat-dev/job-listing-app/internal/repository/repotest"
)

func staticPage(html string) Fetcher {
	return FetcherFunc(func(context.Context, string) (string, error) {
		return html, nil
	})
}

func clock() time.Time { return testNow }

func seededBackend(t *testing.T) *repotest.Backend {
	t.Helper()
	backend := repotest.NewBackend(models.Job{
		Title: "Actuary", Company: "Aon", Location: "New York", PostingDate: "2024-01-10", JobType: models.JobTypeFullTime,
	})
	t.Cleanup(backend.Close)
	return backend
}

func TestScraper_Run(t *testing.T) {
	backend := seededBackend(t)
	s := New(staticPage(listingHTML(t)), repository.NewJobsRepository(backend.URL()), Config{}, WithClock(clock))

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, res.Found)
	// Aon/Actuary exists already, the second Swiss Re card repeats the first
	assert.Equal(t, 2, res.Duplicates)
	// the WTW card has no location
	assert.Equal(t, 1, res.Invalid)
	assert.Zero(t, res.Failed)
	require.Len(t, res.Created, 2)
	assert.Equal(t, "Pricing Actuary", res.Created[0].Title)
	assert.Equal(t, "Remote Analyst", res.Created[1].Title)
	assert.Equal(t, []string{"Remote"}, res.Created[1].Tags)
	assert.Len(t, res.Scraped, 5)

	assert.Len(t, backend.Jobs(), 3)
}

func TestScraper_SecondRunCreatesNothing(t *testing.T) {
	backend := seededBackend(t)
	s := New(staticPage(listingHTML(t)), repository.NewJobsRepository(backend.URL()), Config{}, WithClock(clock))

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Created)
	assert.Equal(t, 4, res.Duplicates)
	assert.Len(t, backend.Jobs(), 3)
}

func TestScraper_MaxJobs(t *testing.T) {
	backend := seededBackend(t)
	s := New(staticPage(listingHTML(t)), repository.NewJobsRepository(backend.URL()), Config{MaxJobs: 2}, WithClock(clock))

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Found)
	assert.Len(t, res.Created, 1)
}

func TestScraper_DryRun(t *testing.T) {
	backend := seededBackend(t)
	s := New(staticPage(listingHTML(t)), repository.NewJobsRepository(backend.URL()), Config{DryRun: true}, WithClock(clock))

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Created)
	assert.Len(t, res.Scraped, 5)
	assert.Len(t, backend.Jobs(), 1)
}

func TestScraper_FetchError(t *testing.T) {
	var gotURL string
	fetcher := FetcherFunc(func(_ context.Context, url string) (string, error) {
		gotURL = url
		return "", errors.New("chrome not found")
	})
	s := New(fetcher, &stubRepo{}, Config{})

	_, err := s.Run(context.Background())

	assert.ErrorContains(t, err, "chrome not found")
	assert.Equal(t, DefaultURL, gotURL)
}

func TestScraper_BackendListFailure(t *testing.T) {
	backend := seededBackend(t)
	backend.Fail(http.StatusServiceUnavailable, `{"error":"maintenance"}`)
	s := New(staticPage(listingHTML(t)), repository.NewJobsRepository(backend.URL()), Config{}, WithClock(clock))

	_, err := s.Run(context.Background())

	assert.ErrorContains(t, err, "maintenance")
}

type stubRepo struct {
	createErr error
	created   []models.JobInput
}

func (r *stubRepo) List(context.Context, repository.ListQuery) (*repository.ListResult, error) {
	return &repository.ListResult{Jobs: []models.Job{}}, nil
}

func (r *stubRepo) Create(_ context.Context, in models.JobInput) (*models.Job, error) {
	r.created = append(r.created, in)
	if r.createErr != nil {
		return nil, r.createErr
	}
	return &models.Job{ID: "9", Title: in.Title, Company: in.Company}, nil
}

func TestScraper_CreateFailureContinues(t *testing.T) {
	repo := &stubRepo{createErr: &repository.RequestError{StatusCode: http.StatusInternalServerError, Message: "boom"}}
	s := New(staticPage(listingHTML(t)), repo, Config{}, WithClock(clock))

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	// Aon, Swiss Re and Milliman are attempted; the repeated Swiss Re card is not
	assert.Equal(t, 3, res.Failed)
	assert.Len(t, repo.created, 3)
	assert.Equal(t, 1, res.Duplicates)
	assert.Empty(t, res.Created)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []models.JobInput{{Title: "R&D Actuary", PostingDate: "2024-03-13", Tags: []string{}}}))

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "2024-03-13", out[0]["posting_date"])
	assert.Contains(t, buf.String(), "R&D Actuary")
}
