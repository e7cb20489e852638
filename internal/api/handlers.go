package api

import (
	"errors"
	"net/http"
	"net/url"
	"sort"

	"github.com/go-fuego/fuego"

	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/repository"
)

// Version is reported by /health.
var Version = "dev"

var criteriaParams = []string{"search", "job_type", "location", "city", "country", "tag", "date_range", "sort"}

// ============================================================================
// Health
// ============================================================================

func (s *Server) healthCheck(c fuego.ContextNoBody) (HealthResponse, error) {
	return HealthResponse{
		Status:  "ok",
		Version: Version,
	}, nil
}

// ============================================================================
// Jobs Handlers
// ============================================================================

func (s *Server) listJobs(c fuego.ContextNoBody) (JobsListResponse, error) {
	q := url.Values{}
	for _, name := range criteriaParams {
		if v := c.QueryParam(name); v != "" {
			q.Set(name, v)
		}
	}

	return listFromView(s.deps.Jobs.View(models.CriteriaFromQuery(q))), nil
}

func (s *Server) getFacets(c fuego.ContextNoBody) (models.Facets, error) {
	return s.deps.Jobs.View(models.DefaultCriteria()).Facets, nil
}

func (s *Server) getStats(c fuego.ContextNoBody) (models.Stats, error) {
	return s.deps.Jobs.Stats(), nil
}

func (s *Server) reloadJobs(c fuego.ContextNoBody) (ReloadResponse, error) {
	if err := s.deps.Jobs.Load(c.Context()); err != nil {
		return ReloadResponse{}, requestFailed(err)
	}
	return ReloadResponse{Count: len(s.deps.Jobs.Jobs())}, nil
}

func (s *Server) getJob(c fuego.ContextNoBody) (models.Job, error) {
	id := models.JobID(c.PathParam("id"))

	job, err := s.deps.Jobs.Job(c.Context(), id)
	if err != nil {
		return models.Job{}, requestFailed(err)
	}
	return *job, nil
}

func (s *Server) createJob(c fuego.ContextWithBody[JobRequest]) (models.Job, error) {
	body, err := c.Body()
	if err != nil {
		return models.Job{}, fuego.BadRequestError{Detail: err.Error()}
	}

	job, err := s.deps.Jobs.Create(c.Context(), body.Form())
	if err != nil {
		return models.Job{}, requestFailed(err)
	}
	return *job, nil
}

func (s *Server) updateJob(c fuego.ContextWithBody[JobRequest]) (models.Job, error) {
	id := models.JobID(c.PathParam("id"))

	body, err := c.Body()
	if err != nil {
		return models.Job{}, fuego.BadRequestError{Detail: err.Error()}
	}

	job, err := s.deps.Jobs.Update(c.Context(), id, body.Form())
	if err != nil {
		return models.Job{}, requestFailed(err)
	}
	return *job, nil
}

func (s *Server) deleteJob(c fuego.ContextNoBody) (MessageResponse, error) {
	id := models.JobID(c.PathParam("id"))

	if err := s.deps.Jobs.Delete(c.Context(), id); err != nil {
		return MessageResponse{}, requestFailed(err)
	}
	return MessageResponse{Message: app.MsgDeleted}, nil
}

// ============================================================================
// Presets Handlers
// ============================================================================

func (s *Server) listPresets(c fuego.ContextNoBody) (PresetsListResponse, error) {
	resp := PresetsListResponse{Presets: []PresetResponse{}}
	if s.deps.Presets == nil {
		return resp, nil
	}
	for _, p := range s.deps.Presets.List() {
		resp.Presets = append(resp.Presets, PresetFromModel(p))
	}
	resp.Total = len(resp.Presets)
	return resp, nil
}

func (s *Server) presetJobs(c fuego.ContextNoBody) (JobsListResponse, error) {
	name := c.PathParam("name")
	if s.deps.Presets == nil {
		return JobsListResponse{}, fuego.NotFoundError{Detail: "Preset not found"}
	}
	p, ok := s.deps.Presets.Get(name)
	if !ok {
		return JobsListResponse{}, fuego.NotFoundError{Detail: "Preset not found"}
	}
	return listFromView(s.deps.Jobs.View(p.Criteria)), nil
}

// requestFailed maps app and repository errors to HTTP errors: field errors
// become 400, a missing job 404 and any other backend failure 502.
func requestFailed(err error) error {
	var verr *app.ValidationError
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		items := make([]fuego.ErrorItem, 0, len(fields))
		for _, f := range fields {
			items = append(items, fuego.ErrorItem{Name: f, Reason: verr.Fields[f]})
		}
		return fuego.BadRequestError{
			Title:  "Validation failed",
			Detail: verr.Error(),
			Errors: items,
		}
	}

	if errors.Is(err, repository.ErrNotFound) {
		return fuego.NotFoundError{Detail: "Job not found"}
	}

	detail := err.Error()
	var reqErr *repository.RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		detail = reqErr.Message
	}
	return fuego.HTTPError{
		Title:  "Bad Gateway",
		Status: http.StatusBadGateway,
		Detail: detail,
	}
}
