package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/presets"
	"github.com/hishmat-dev/job-listing-app/internal/repository"
	"github.com/hishmat-dev/job-listing-app/internal/validation"
	"github.com/hishmat-dev/job-listing-app/internal/web"
)

// ListPage is the data of the job list.
type ListPage struct {
	web.Layout
	View             app.View
	ShowStats        bool
	AdvancedOpen     bool
	StatsToggleURL   string
	ClearURL         string
	JobTypes         []models.JobType
	SortOptions      []models.Option
	DateRangeOptions []models.Option
	Presets          []presets.Preset
}

// FormPage is the data of the create and edit form.
type FormPage struct {
	web.Layout
	Form      validation.Form
	Errors    validation.Errors
	Editing   bool
	JobID     models.JobID
	Action    string
	CancelURL string
	Today     string
	JobTypes  []models.JobType
	Countries []string
}

// DeletePage is the data of the delete confirmation.
type DeletePage struct {
	web.Layout
	Job       models.Job
	CancelURL string
}

// PagesHandler handles HTML page requests
type PagesHandler struct {
	templates *web.TemplateEngine
	svc       JobsService
	presets   PresetSource
}

// NewPagesHandler creates a new pages handler. presets may be nil.
func NewPagesHandler(templates *web.TemplateEngine, svc JobsService, presets PresetSource) *PagesHandler {
	return &PagesHandler{
		templates: templates,
		svc:       svc,
		presets:   presets,
	}
}

// List renders the filtered job list.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := models.CriteriaFromQuery(q)
	if name := q.Get("preset"); name != "" && h.presets != nil {
		if p, ok := h.presets.Get(name); ok {
			criteria = p.Criteria
		}
	}
	showStats := q.Get("stats") == "1"

	data := ListPage{
		Layout:           h.layout(r, "Jobs"),
		View:             h.svc.View(criteria),
		ShowStats:        showStats,
		AdvancedOpen:     criteria.Location != "" || criteria.City != "" || criteria.Country != "" || criteria.Tag != "" || criteria.DateRange != "",
		StatsToggleURL:   statsToggleURL(criteria, showStats),
		ClearURL:         clearURL(showStats),
		JobTypes:         models.JobTypes(),
		SortOptions:      models.SortOptions(),
		DateRangeOptions: models.DateRangeOptions(),
	}
	if h.presets != nil {
		data.Presets = h.presets.List()
	}

	h.render(w, r, http.StatusOK, "jobs", data)
}

// NewJob renders an empty form.
func (h *PagesHandler) NewJob(w http.ResponseWriter, r *http.Request) {
	data := h.formPage(r, validation.NewForm(), nil, "")
	h.render(w, r, http.StatusOK, "job_form", data)
}

// EditJob renders the form pre-filled with job {id}.
func (h *PagesHandler) EditJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(w, r)
	if !ok {
		return
	}
	data := h.formPage(r, validation.FormFromJob(*job), nil, job.ID)
	h.render(w, r, http.StatusOK, "job_form", data)
}

// ConfirmDelete asks before deleting job {id}.
func (h *PagesHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(w, r)
	if !ok {
		return
	}
	data := DeletePage{
		Layout:    h.layout(r, "Delete Job"),
		Job:       *job,
		CancelURL: returnTo(r),
	}
	data.ReturnTo = returnTo(r)
	h.render(w, r, http.StatusOK, "delete_job", data)
}

func (h *PagesHandler) lookup(w http.ResponseWriter, r *http.Request) (*models.Job, bool) {
	id := models.JobID(chi.URLParam(r, "id"))
	job, err := h.svc.Job(r.Context(), id)
	switch {
	case err == nil:
		return job, true
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Job not found", http.StatusNotFound)
	default:
		http.Error(w, "Failed to load job: "+err.Error(), http.StatusBadGateway)
	}
	return nil, false
}

func (h *PagesHandler) layout(r *http.Request, title string) web.Layout {
	return web.Layout{
		Title:    title,
		Toasts:   h.svc.Toasts().Drain(h.svc.Now()),
		Error:    h.svc.LastError(),
		ReturnTo: r.URL.RequestURI(),
	}
}

func (h *PagesHandler) formPage(r *http.Request, f validation.Form, errs validation.Errors, id models.JobID) FormPage {
	title, action := "Add New Job", "/jobs"
	if id != "" {
		title, action = "Edit Job", "/jobs/"+url.PathEscape(id.String())
	}
	page := FormPage{
		Layout:    h.layout(r, title),
		Form:      f,
		Errors:    errs,
		Editing:   id != "",
		JobID:     id,
		Action:    action,
		CancelURL: returnTo(r),
		Today:     h.svc.Now().Format(models.PostingDateLayout),
		JobTypes:  models.JobTypes(),
		Countries: models.DefaultCountries(),
	}
	page.ReturnTo = returnTo(r)
	return page
}

// render buffers the page so a template error never leaves a half-written
// response. HTMX requests get the content block only.
func (h *PagesHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	var err error
	if r.Header.Get("HX-Request") == "true" {
		err = h.templates.RenderContent(&buf, name, data)
	} else {
		err = h.templates.Render(&buf, name, data)
	}
	if err != nil {
		panic(err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// returnTo reads the page to go back to from the "return" parameter. Only
// local paths are accepted.
func returnTo(r *http.Request) string {
	ret := r.FormValue("return")
	if ret == "" {
		ret = r.URL.Query().Get("return")
	}
	return safeLocal(ret)
}

func safeLocal(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

func statsToggleURL(c models.FilterCriteria, showing bool) string {
	q := c.Query()
	if !showing {
		q.Set("stats", "1")
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func clearURL(showStats bool) string {
	if showStats {
		return "/?stats=1"
	}
	return "/"
}
