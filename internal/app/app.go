// Package app is the composition root of the job listing client. It owns
// the job cache and user-facing state, and turns user actions into
// repository calls.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/listing"
	"github.com/hishmat-dev/job-listing-app/internal/logger"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/repository"
	"github.com/hishmat-dev/job-listing-app/internal/stats"
	"github.com/hishmat-dev/job-listing-app/internal/store"
	"github.com/hishmat-dev/job-listing-app/internal/validation"
)

// User-facing messages.
const (
	MsgLoadFailed   = "Failed to load jobs. Please check your connection and try again."
	MsgCreateFailed = "Failed to create job. Please check your input and try again."
	MsgUpdateFailed = "Failed to update job. Please check your input and try again."
	MsgDeleteFailed = "Failed to delete job. Please try again."

	MsgCreated = "Job created successfully!"
	MsgUpdated = "Job updated successfully!"
	MsgDeleted = "Job deleted successfully!"
)

// Repository is the backend used by App.
type Repository interface {
	List(ctx context.Context, q repository.ListQuery) (*repository.ListResult, error)
	GetByID(ctx context.Context, id models.JobID) (*models.Job, error)
	Create(ctx context.Context, in models.JobInput) (*models.Job, error)
	Update(ctx context.Context, id models.JobID, in models.JobInput) (*models.Job, error)
	Delete(ctx context.Context, id models.JobID) error
}

// ValidationError carries field errors of a rejected form. The form never
// reached the backend.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

// Unwrap exposes the field map to errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Fields
}

// App holds the client state.
type App struct {
	repo      Repository
	cache     *store.JobCache
	validator *validation.Validator
	toasts    *ToastQueue
	publisher Publisher
	now       func() time.Time
	log       *logger.Logger
	perPage   int

	mu      sync.RWMutex
	lastErr string
}

// Option configures an App.
type Option func(*App)

// WithPublisher sets where events go.
func WithPublisher(p Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// WithClock injects the time source used for filtering, stats, validation
// and toasts.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithPerPage asks the backend for n jobs per load; 0 keeps the backend
// default.
func WithPerPage(n int) Option {
	return func(a *App) { a.perPage = n }
}

// New creates an App backed by repo.
func New(repo Repository, opts ...Option) *App {
	a := &App{
		repo:      repo,
		cache:     store.NewJobCache(),
		toasts:    NewToastQueue(5),
		publisher: nopPublisher{},
		now:       time.Now,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.validator = validation.New(a.now)
	return a
}

// Now returns the current time from the injected clock.
func (a *App) Now() time.Time {
	return a.now()
}

// Toasts returns the toast queue.
func (a *App) Toasts() *ToastQueue {
	return a.toasts
}

// LastError returns the message of the last failed action, if any.
func (a *App) LastError() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

// DismissError clears the last error.
func (a *App) DismissError() {
	a.setError("")
}

// Loaded reports whether a list was fetched successfully at least once.
func (a *App) Loaded() bool {
	_, ok := a.cache.LoadedAt()
	return ok
}

// Load replaces the cache with the backend's list.
func (a *App) Load(ctx context.Context) error {
	a.setError("")

	res, err := a.repo.List(ctx, repository.ListQuery{PerPage: a.perPage})
	if err != nil {
		a.log.Error().Err(err).Msg("load jobs")
		a.fail(ctx, MsgLoadFailed)
		return err
	}

	a.cache.Replace(res.Jobs, a.now())
	a.log.Info().Int("count", len(res.Jobs)).Int("total", res.Total).Msg("jobs loaded")
	a.publish(ctx, EventJobsLoaded, JobsLoadedPayload{Count: len(res.Jobs)})
	return nil
}

// Retry clears the error and loads again.
func (a *App) Retry(ctx context.Context) error {
	a.DismissError()
	return a.Load(ctx)
}

// Validate checks a form without submitting it.
func (a *App) Validate(f validation.Form) validation.Result {
	return a.validator.Validate(f)
}

// Create validates f and submits it. The created job goes to the front of
// the cache.
func (a *App) Create(ctx context.Context, f validation.Form) (*models.Job, error) {
	if res := a.validator.Validate(f); !res.Valid {
		return nil, &ValidationError{Fields: res.Errors}
	}
	a.setError("")

	job, err := a.repo.Create(ctx, f.Input())
	if err != nil {
		a.log.Error().Err(err).Msg("create job")
		a.fail(ctx, failureMessage(err, MsgCreateFailed))
		return nil, err
	}

	a.cache.Prepend(*job)
	a.succeed(ctx, MsgCreated)
	a.publish(ctx, EventJobCreated, job)
	return job, nil
}

// Update validates f and replaces job id with the backend's answer.
func (a *App) Update(ctx context.Context, id models.JobID, f validation.Form) (*models.Job, error) {
	if res := a.validator.Validate(f); !res.Valid {
		return nil, &ValidationError{Fields: res.Errors}
	}
	a.setError("")

	job, err := a.repo.Update(ctx, id, f.Input())
	if err != nil {
		a.log.Error().Err(err).Str("job_id", id.String()).Msg("update job")
		a.fail(ctx, failureMessage(err, MsgUpdateFailed))
		return nil, err
	}

	if job.ID == "" {
		job.ID = id
	}
	a.cache.ReplaceByID(*job)
	a.succeed(ctx, MsgUpdated)
	a.publish(ctx, EventJobUpdated, job)
	return job, nil
}

// Delete removes job id from the backend and the cache.
func (a *App) Delete(ctx context.Context, id models.JobID) error {
	a.setError("")

	if err := a.repo.Delete(ctx, id); err != nil {
		a.log.Error().Err(err).Str("job_id", id.String()).Msg("delete job")
		a.fail(ctx, failureMessage(err, MsgDeleteFailed))
		return err
	}

	a.cache.RemoveByID(id)
	a.succeed(ctx, MsgDeleted)
	a.publish(ctx, EventJobDeleted, JobDeletedPayload{ID: id})
	return nil
}

// Job returns a job from the cache, asking the backend when it is not
// cached.
func (a *App) Job(ctx context.Context, id models.JobID) (*models.Job, error) {
	if j, ok := a.cache.Get(id); ok {
		return &j, nil
	}
	return a.repo.GetByID(ctx, id)
}

// Jobs returns a copy of the cached list in backend order.
func (a *App) Jobs() []models.Job {
	return a.cache.Snapshot()
}

// View is everything the list page renders.
type View struct {
	Jobs             []models.Job          `json:"jobs"`
	Count            int                   `json:"count"`
	Total            int                   `json:"total"`
	Criteria         models.FilterCriteria `json:"criteria"`
	HasActiveFilters bool                  `json:"has_active_filters"`
	Facets           models.Facets         `json:"facets"`
	Stats            models.Stats          `json:"stats"`
	Error            string                `json:"error,omitempty"`
	Loaded           bool                  `json:"loaded"`
}

// View filters and sorts the cached list. Stats and facets always cover
// the full list.
func (a *App) View(c models.FilterCriteria) View {
	all := a.cache.Snapshot()
	now := a.now()
	jobs := listing.Apply(all, c, now)

	return View{
		Jobs:             jobs,
		Count:            len(jobs),
		Total:            len(all),
		Criteria:         c,
		HasActiveFilters: c.HasActiveFilters(),
		Facets:           listing.BuildFacets(all),
		Stats:            stats.Summarize(all, now),
		Error:            a.LastError(),
		Loaded:           a.Loaded(),
	}
}

// Stats summarizes the cached list.
func (a *App) Stats() models.Stats {
	return stats.Summarize(a.cache.Snapshot(), a.now())
}

func (a *App) setError(msg string) {
	a.mu.Lock()
	a.lastErr = msg
	a.mu.Unlock()
}

func (a *App) fail(ctx context.Context, msg string) {
	a.setError(msg)
	t := a.toasts.Push(ToastError, msg, a.now())
	a.publish(ctx, EventToast, t)
}

func (a *App) succeed(ctx context.Context, msg string) {
	t := a.toasts.Push(ToastSuccess, msg, a.now())
	a.publish(ctx, EventToast, t)
}

func (a *App) publish(ctx context.Context, typ string, payload interface{}) {
	evt := Event{Type: typ, Payload: payload, At: a.now()}
	if err := a.publisher.Publish(ctx, evt); err != nil {
		a.log.Warn().Err(err).Str("event", typ).Msg("publish event")
	}
}

// failureMessage prefers the backend's message. Transport failures carry
// no useful text for users, so they fall back too.
func failureMessage(err error, fallback string) string {
	var reqErr *repository.RequestError
	if errors.As(err, &reqErr) && !reqErr.Transport() && reqErr.Message != "" {
		return reqErr.Message
	}
	return fallback
}
