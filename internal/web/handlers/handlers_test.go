package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/presets"
	"github.com/hishmat-dev/job-listing-app/internal/repository"
	"github.com/hishmat-dev/job-listing-app/internal/repository/repotest"
	"github.com/hishmat-dev/job-listing-app/internal/web"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func seed() []models.Job {
	return []models.Job{
		{ID: "1", Title: "Actuary", Company: "Aon", Location: "New York", JobType: models.JobTypeFullTime, City: "NYC", PostingDate: "2024-01-10", Tags: []string{"Pricing"}},
		{ID: "2", Title: "Analyst", Company: "Aon", Location: "Boston", JobType: models.JobTypeContract, City: "Boston", PostingDate: "2024-02-01", Tags: []string{}},
	}
}

type fixture struct {
	app     *app.App
	backend *repotest.Backend
	server  *httptest.Server
	client  *http.Client
}

func setup(t *testing.T, load bool) *fixture {
	t.Helper()

	backend := repotest.NewBackend(seed()...)
	t.Cleanup(backend.Close)

	a := app.New(repository.NewJobsRepository(backend.URL()), app.WithClock(func() time.Time { return testNow }))
	if load {
		require.NoError(t, a.Load(context.Background()))
	}

	tmpl := web.NewTemplateEngine(web.EmbeddedTemplates(), false)
	require.NoError(t, tmpl.Load())

	srv := web.NewServer(&web.Config{}, tmpl, nil)
	pages := NewPagesHandler(tmpl, a, presets.Defaults())
	srv.RegisterPages(pages, NewJobsHandler(pages, a))

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &fixture{
		app:     a,
		backend: backend,
		server:  ts,
		client: &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}},
	}
}

func (f *fixture) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := f.client.Get(f.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (f *fixture) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := f.client.PostForm(f.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func validValues() url.Values {
	return url.Values{
		"title":        {"Pricing Actuary"},
		"company":      {"Swiss Re"},
		"location":     {"Zurich"},
		"posting_date": {"2024-03-01"},
		"job_type":     {"Part-Time"},
		"tags":         {"Reinsurance, Pricing"},
		"return":       {"/?search=swiss"},
	}
}

func TestList_RendersJobs(t *testing.T) {
	f := setup(t, true)

	status, html := f.get(t, "/")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, html, "Actuarial Job Listings")
	assert.Contains(t, html, `id="job-1"`)
	assert.Contains(t, html, `id="job-2"`)
	assert.Contains(t, html, "Showing 2 of 2 jobs")
	assert.Contains(t, html, "Posted Jan 10, 2024")
	// newest first
	assert.Less(t, strings.Index(html, `id="job-2"`), strings.Index(html, `id="job-1"`))
}

func TestList_Filters(t *testing.T) {
	f := setup(t, true)

	_, html := f.get(t, "/?job_type=Full-Time")

	assert.Contains(t, html, `id="job-1"`)
	assert.NotContains(t, html, `id="job-2"`)
	assert.Contains(t, html, "Active Filters:")
	assert.Contains(t, html, "(filtered)")
}

func TestList_Preset(t *testing.T) {
	f := setup(t, true)

	_, html := f.get(t, "/?preset=contracts-a-z")

	assert.Contains(t, html, `id="job-2"`)
	assert.NotContains(t, html, `id="job-1"`)
}

func TestList_EmptyAndStats(t *testing.T) {
	f := setup(t, true)

	_, html := f.get(t, "/?search=nothing-matches&stats=1")

	assert.Contains(t, html, "No jobs found")
	assert.Contains(t, html, "Job Market Overview")
	assert.Contains(t, html, "Hide Stats")
}

func TestList_NotLoaded(t *testing.T) {
	f := setup(t, false)

	_, html := f.get(t, "/")

	assert.Contains(t, html, "Loading job listings...")
}

func TestList_HTMXRendersContentOnly(t *testing.T) {
	f := setup(t, true)

	req, err := http.NewRequest(http.MethodGet, f.server.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.NotContains(t, string(body), "<!DOCTYPE html>")
	assert.Contains(t, string(body), `id="job-1"`)
}

func TestCreate_Valid(t *testing.T) {
	f := setup(t, true)

	resp, _ := f.post(t, "/jobs", validValues())

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?search=swiss", resp.Header.Get("Location"))
	assert.Len(t, f.backend.Jobs(), 3)
	assert.Equal(t, "Pricing Actuary", f.app.Jobs()[0].Title)

	// the success toast is shown once
	_, html := f.get(t, "/")
	assert.Contains(t, html, app.MsgCreated)
	_, html = f.get(t, "/")
	assert.NotContains(t, html, app.MsgCreated)
}

func TestCreate_InvalidRerendersForm(t *testing.T) {
	f := setup(t, true)
	v := validValues()
	v.Set("title", " ")
	v.Set("posting_date", "2099-01-01")

	resp, html := f.post(t, "/jobs", v)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, html, "Job title is required")
	assert.Contains(t, html, "Posting date cannot be in the future")
	assert.Contains(t, html, `value="Swiss Re"`)
	assert.Len(t, f.backend.Jobs(), 2)
}

func TestCreate_BackendFailure(t *testing.T) {
	f := setup(t, true)
	f.backend.Fail(http.StatusInternalServerError, `{"error":"database is locked"}`)

	resp, html := f.post(t, "/jobs", validValues())

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, html, "database is locked")
	assert.Contains(t, html, `action="/retry"`)
}

func TestEdit_And_Update(t *testing.T) {
	f := setup(t, true)

	status, html := f.get(t, "/jobs/2/edit")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, html, "Edit Job")
	assert.Contains(t, html, `value="Analyst"`)
	assert.Contains(t, html, `action="/jobs/2"`)

	v := validValues()
	v.Set("title", "Senior Analyst")
	resp, _ := f.post(t, "/jobs/2", v)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	j, err := f.app.Job(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Senior Analyst", j.Title)
}

func TestEdit_NotFound(t *testing.T) {
	f := setup(t, true)

	status, _ := f.get(t, "/jobs/404/edit")

	assert.Equal(t, http.StatusNotFound, status)
}

func TestDelete_ConfirmAndDelete(t *testing.T) {
	f := setup(t, true)

	status, html := f.get(t, "/jobs/1/delete")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, html, "Are you sure you want to delete the job listing for")
	assert.Contains(t, html, "This action cannot be undone.")

	resp, _ := f.post(t, "/jobs/1/delete", url.Values{"return": {"https://evil.example"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Len(t, f.app.Jobs(), 1)
}

func TestRetryAndDismiss(t *testing.T) {
	f := setup(t, false)
	f.backend.Fail(http.StatusServiceUnavailable, `{}`)

	resp, _ := f.post(t, "/retry", url.Values{"return": {"/?stats=1"}})
	assert.Equal(t, "/?stats=1", resp.Header.Get("Location"))
	assert.Equal(t, app.MsgLoadFailed, f.app.LastError())

	_, html := f.get(t, "/")
	assert.Contains(t, html, app.MsgLoadFailed)

	f.post(t, "/dismiss-error", nil)
	assert.Empty(t, f.app.LastError())

	f.backend.Recover()
	f.post(t, "/retry", nil)
	assert.Len(t, f.app.Jobs(), 2)
}

func TestDismissToast(t *testing.T) {
	f := setup(t, true)
	toast := f.app.Toasts().Push(app.ToastInfo, "hello", testNow)

	resp, _ := f.post(t, "/toasts/"+toast.ID+"/dismiss", nil)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, f.app.Toasts().Pending(testNow))
}

func TestSafeLocal(t *testing.T) {
	assert.Equal(t, "/?a=1", safeLocal("/?a=1"))
	assert.Equal(t, "/", safeLocal("//evil.example"))
	assert.Equal(t, "/", safeLocal("/\\evil.example"))
	assert.Equal(t, "/", safeLocal("http://evil.example"))
	assert.Equal(t, "/", safeLocal(""))
}

func TestStatsToggleURL(t *testing.T) {
	c := models.FilterCriteria{Search: "aon", Sort: models.DefaultSort}

	assert.Equal(t, "/?search=aon&stats=1", statsToggleURL(c, false))
	assert.Equal(t, "/?search=aon", statsToggleURL(c, true))
	assert.Equal(t, "/", statsToggleURL(models.DefaultCriteria(), true))
}
