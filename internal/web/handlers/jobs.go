package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/logger"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/validation"
)

// JobsHandler handles form posts that change jobs.
type JobsHandler struct {
	pages *PagesHandler
	svc   JobsService
	log   *logger.Logger
}

// NewJobsHandler creates a new JobsHandler. Invalid submissions are
// re-rendered through pages.
func NewJobsHandler(pages *PagesHandler, svc JobsService) *JobsHandler {
	return &JobsHandler{
		pages: pages,
		svc:   svc,
		log:   logger.Get().Component("forms"),
	}
}

// Create submits the new-job form.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	f := validation.FormFromValues(r.PostForm)

	_, err := h.svc.Create(r.Context(), f)
	h.afterSubmit(w, r, f, "", err)
}

// Update submits the edit form of job {id}.
func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	id := models.JobID(chi.URLParam(r, "id"))
	f := validation.FormFromValues(r.PostForm)

	_, err := h.svc.Update(r.Context(), id, f)
	h.afterSubmit(w, r, f, id, err)
}

// afterSubmit redirects on success. On failure the form stays open:
// field errors are shown inline, request failures in the error banner.
func (h *JobsHandler) afterSubmit(w http.ResponseWriter, r *http.Request, f validation.Form, id models.JobID, err error) {
	if err == nil {
		http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
		return
	}

	var verr *app.ValidationError
	if errors.As(err, &verr) {
		h.pages.render(w, r, http.StatusUnprocessableEntity, "job_form", h.pages.formPage(r, f, verr.Fields, id))
		return
	}

	h.log.Warn().Err(err).Str("job_id", id.String()).Msg("job form submission failed")
	h.pages.render(w, r, http.StatusBadGateway, "job_form", h.pages.formPage(r, f, nil, id))
}

// Delete removes job {id} and goes back to the list. A failure shows up
// in the list's error banner.
func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := models.JobID(chi.URLParam(r, "id"))
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.log.Warn().Err(err).Str("job_id", id.String()).Msg("delete failed")
	}
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

// Retry reloads the list from the backend.
func (h *JobsHandler) Retry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Retry(r.Context()); err != nil {
		h.log.Warn().Err(err).Msg("retry failed")
	}
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

// DismissError hides the error banner.
func (h *JobsHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	h.svc.DismissError()
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

// DismissToast closes one toast and returns to the referring page.
func (h *JobsHandler) DismissToast(w http.ResponseWriter, r *http.Request) {
	h.svc.Toasts().Dismiss(chi.URLParam(r, "id"))

	back := "/"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Host == r.Host {
		back = safeLocal(ref.RequestURI())
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
