// Package repository talks to the jobs REST backend.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hishmat-dev/job-listing-app/internal/logger"
	"github.com/hishmat-dev/job-listing-app/internal/models"
)

// ListQuery holds the server-side filters understood by GET /jobs.
// Zero values are omitted from the query string.
type ListQuery struct {
	Search   string
	JobType  string
	Location string
	City     string
	Country  string
	Tag      string
	Sort     string
	Page     int
	PerPage  int
}

// Values encodes the non-empty fields.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("search", q.Search)
	set("job_type", q.JobType)
	set("location", q.Location)
	set("city", q.City)
	set("country", q.Country)
	set("tag", q.Tag)
	set("sort", q.Sort)
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return v
}

// ListResult is the body of GET /jobs.
type ListResult struct {
	Jobs        []models.Job `json:"jobs"`
	Total       int          `json:"total"`
	Pages       int          `json:"pages"`
	CurrentPage int          `json:"current_page"`
	PerPage     int          `json:"per_page"`
	HasNext     bool         `json:"has_next"`
	HasPrev     bool         `json:"has_prev"`
}

// JobsRepository is a client for the /jobs resource.
type JobsRepository struct {
	baseURL    string
	httpClient *http.Client
	limiter    *RateLimiter
	log        *logger.Logger
	userAgent  string
}

// Option configures a JobsRepository.
type Option func(*JobsRepository)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *JobsRepository) { r.httpClient = c }
}

// WithRateLimit paces requests; rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(r *JobsRepository) { r.limiter = NewRateLimiter(rps, burst) }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logger.Logger) Option {
	return func(r *JobsRepository) { r.log = l }
}

// NewJobsRepository creates a client for the backend rooted at baseURL,
// e.g. http://localhost:5000/api.
func NewJobsRepository(baseURL string, opts ...Option) *JobsRepository {
	r := &JobsRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        logger.Nop(),
		userAgent:  "job-listing-app/1.0",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseURL returns the backend root.
func (r *JobsRepository) BaseURL() string {
	return r.baseURL
}

// List fetches jobs matching q.
func (r *JobsRepository) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	var res ListResult
	if err := r.do(ctx, http.MethodGet, "/jobs", q.Values(), nil, &res); err != nil {
		return nil, err
	}
	if res.Jobs == nil {
		res.Jobs = []models.Job{}
	}
	return &res, nil
}

// GetByID fetches a single job.
func (r *JobsRepository) GetByID(ctx context.Context, id models.JobID) (*models.Job, error) {
	var job models.Job
	if err := r.do(ctx, http.MethodGet, jobPath(id), nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Create submits a new job and returns the persisted entity.
func (r *JobsRepository) Create(ctx context.Context, in models.JobInput) (*models.Job, error) {
	var job models.Job
	if err := r.do(ctx, http.MethodPost, "/jobs", nil, in, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Update replaces the fields of job id.
func (r *JobsRepository) Update(ctx context.Context, id models.JobID, in models.JobInput) (*models.Job, error) {
	var job models.Job
	if err := r.do(ctx, http.MethodPut, jobPath(id), nil, in, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Delete removes job id. The response body, if any, is ignored.
func (r *JobsRepository) Delete(ctx context.Context, id models.JobID) error {
	return r.do(ctx, http.MethodDelete, jobPath(id), nil, nil, nil)
}

// ServerStats fetches the backend's own aggregate. It has no recent_jobs
// figure, so RecentJobs is always zero.
func (r *JobsRepository) ServerStats(ctx context.Context) (*models.Stats, error) {
	var s models.Stats
	if err := r.do(ctx, http.MethodGet, "/jobs/stats", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func jobPath(id models.JobID) string {
	return "/jobs/" + url.PathEscape(id.String())
}

// do performs one request. There are no retries: a failure is returned to
// the caller as a *RequestError.
func (r *JobsRepository) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	fullURL := r.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	fail := func(code int, msg string, err error) *RequestError {
		return &RequestError{Method: method, Path: path, StatusCode: code, Message: msg, Err: err}
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fail(0, err.Error(), err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("X-Request-ID", reqID)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Error().Err(err).Str("method", method).Str("url", fullURL).Msg("jobs API request failed")
		return fail(0, err.Error(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, "read response body: "+err.Error(), err)
	}

	r.log.Debug().
		Str("method", method).
		Str("url", fullURL).
		Int("status", resp.StatusCode).
		Str("request_id", reqID).
		Msg("jobs API request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := fail(resp.StatusCode, statusMessage(resp.StatusCode), nil)
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			if eb.Error != "" {
				reqErr.Message = eb.Error
			}
			reqErr.Details = eb.Details
		}
		r.log.Warn().
			Str("method", method).
			Str("url", fullURL).
			Int("status", resp.StatusCode).
			Str("error", reqErr.Message).
			Msg("jobs API error")
		return reqErr
	}

	if dest == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fail(resp.StatusCode, "invalid response body", fmt.Errorf("unmarshal response: %w", err))
	}
	return nil
}
