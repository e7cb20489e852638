// Package repotest provides an in-memory jobs backend for tests.
package repotest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

// Backend mimics the jobs REST service under /api.
type Backend struct {
	Server *httptest.Server

	mu      sync.Mutex
	jobs    []models.Job
	nextID  int
	failure *failure
	calls   []string
	headers []http.Header
}

type failure struct {
	status int
	body   string
}

// NewBackend starts a backend seeded with jobs. Seeded jobs without an id
// get one assigned. The server is closed by Close.
func NewBackend(seed ...models.Job) *Backend {
	b := &Backend{nextID: 1}
	for _, j := range seed {
		b.insert(j)
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Route("/api/jobs", func(r chi.Router) {
		r.Get("/", b.list)
		r.Post("/", b.create)
		r.Get("/stats", b.stats)
		r.Get("/{id}", b.get)
		r.Put("/{id}", b.update)
		r.Delete("/{id}", b.remove)
	})

	b.Server = httptest.NewServer(r)
	return b
}

// URL is the API root to hand to a repository.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// Close shuts the server down.
func (b *Backend) Close() {
	b.Server.Close()
}

// Fail makes every following request answer with status and a raw body
// until Recover is called.
func (b *Backend) Fail(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failure = &failure{status: status, body: body}
}

// Recover clears a failure set by Fail.
func (b *Backend) Recover() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failure = nil
}

// Jobs returns a copy of the stored jobs.
func (b *Backend) Jobs() []models.Job {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Job, len(b.jobs))
	copy(out, b.jobs)
	return out
}

// Calls returns "METHOD /path?query" for each request received.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// LastHeader returns the headers of the most recent request.
func (b *Backend) LastHeader() http.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.headers) == 0 {
		return nil
	}
	return b.headers[len(b.headers)-1]
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		call := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			call += "?" + r.URL.RawQuery
		}
		b.calls = append(b.calls, call)
		b.headers = append(b.headers, r.Header.Clone())
		f := b.failure
		b.mu.Unlock()

		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) insert(j models.Job) models.Job {
	if j.ID == "" {
		j.ID = models.JobID(strconv.Itoa(b.nextID))
		b.nextID++
	} else if n, err := strconv.Atoi(j.ID.String()); err == nil && n >= b.nextID {
		b.nextID = n + 1
	}
	if j.Tags == nil {
		j.Tags = []string{}
	}
	b.jobs = append(b.jobs, j)
	return j
}

func (b *Backend) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage <= 0 {
		perPage = 50
	}
	page, _ := strconv.Atoi(q.Get("page"))
	if page <= 0 {
		page = 1
	}

	b.mu.Lock()
	var matched []models.Job
	for _, j := range b.jobs {
		if jt := q.Get("job_type"); jt != "" && string(j.JobType) != jt {
			continue
		}
		if s := strings.ToLower(q.Get("search")); s != "" &&
			!strings.Contains(strings.ToLower(j.Title), s) &&
			!strings.Contains(strings.ToLower(j.Company), s) &&
			!strings.Contains(strings.ToLower(j.Location), s) {
			continue
		}
		matched = append(matched, j)
	}
	b.mu.Unlock()

	total := len(matched)
	pages := (total + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	items := matched[start:end]
	if items == nil {
		items = []models.Job{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":         items,
		"total":        total,
		"pages":        pages,
		"current_page": page,
		"per_page":     perPage,
		"has_next":     page < pages,
		"has_prev":     page > 1,
	})
}

func (b *Backend) find(id string) int {
	for i, j := range b.jobs {
		if j.ID.String() == id {
			return i
		}
	}
	return -1
}

func (b *Backend) get(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.find(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Job not found"})
		return
	}
	writeJSON(w, http.StatusOK, b.jobs[i])
}

func validate(in models.JobInput) []string {
	var errs []string
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, "Title is required")
	}
	if strings.TrimSpace(in.Company) == "" {
		errs = append(errs, "Company is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		errs = append(errs, "Location is required")
	}
	if !in.JobType.IsValid() {
		errs = append(errs, "Invalid job type")
	}
	return errs
}

func decodeInput(w http.ResponseWriter, r *http.Request) (models.JobInput, bool) {
	var in models.JobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No data provided"})
		return in, false
	}
	if errs := validate(in); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Validation failed", "details": errs})
		return in, false
	}
	return in, true
}

func fromInput(id models.JobID, in models.JobInput) models.Job {
	return models.Job{
		ID:          id,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		City:        in.City,
		Country:     in.Country,
		PostingDate: in.PostingDate,
		JobType:     in.JobType,
		Tags:        in.Tags,
		Salary:      in.Salary,
	}
}

func (b *Backend) create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	b.mu.Lock()
	job := b.insert(fromInput("", in))
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, job)
}

func (b *Backend) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	exists := b.find(id) >= 0
	b.mu.Unlock()
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Job not found"})
		return
	}

	in, ok := decodeInput(w, r)
	if !ok {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.find(id)
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Job not found"})
		return
	}
	job := fromInput(b.jobs[i].ID, in)
	if job.Tags == nil {
		job.Tags = []string{}
	}
	b.jobs[i] = job
	writeJSON(w, http.StatusOK, job)
}

func (b *Backend) remove(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.find(chi.URLParam(r, "id"))
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Job not found"})
		return
	}
	b.jobs = append(b.jobs[:i], b.jobs[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Job deleted successfully"})
}

func (b *Backend) stats(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	types := map[models.JobType]int{}
	companies := map[string]int{}
	for _, j := range b.jobs {
		types[j.JobType]++
		companies[j.Company]++
	}

	s := models.Stats{
		TotalJobs:    len(b.jobs),
		JobTypes:     []models.TypeCount{},
		TopCompanies: []models.CompanyCount{},
		TopLocations: []models.CityCount{},
	}
	for t, n := range types {
		s.JobTypes = append(s.JobTypes, models.TypeCount{Type: t, Count: n})
	}
	for c, n := range companies {
		s.TopCompanies = append(s.TopCompanies, models.CompanyCount{Company: c, Count: n})
	}
	sort.Slice(s.JobTypes, func(i, j int) bool { return s.JobTypes[i].Type < s.JobTypes[j].Type })
	sort.Slice(s.TopCompanies, func(i, j int) bool {
		if s.TopCompanies[i].Count != s.TopCompanies[j].Count {
			return s.TopCompanies[i].Count > s.TopCompanies[j].Count
		}
		return s.TopCompanies[i].Company < s.TopCompanies[j].Company
	})
	writeJSON(w, http.StatusOK, s)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
