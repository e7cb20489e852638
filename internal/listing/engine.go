// Package listing filters and orders the in-memory job list.
//
// Every function here is pure: inputs are never modified and the result is a
// freshly allocated slice. Wall-clock time is always passed in by the caller.
package listing

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

// Apply returns the jobs that satisfy every non-empty field of c, ordered by
// c.Sort. Date ranges are evaluated relative to now, in now's location.
func Apply(jobs []models.Job, c models.FilterCriteria, now time.Time) []models.Job {
	p := compile(c, now)

	out := make([]models.Job, 0, len(jobs))
	for i := range jobs {
		if p.match(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}

	Sort(out, c.Sort)
	return out
}

// Matches reports whether a single job satisfies c.
func Matches(job models.Job, c models.FilterCriteria, now time.Time) bool {
	return compile(c, now).match(&job)
}

// predicate is FilterCriteria normalized for repeated evaluation.
type predicate struct {
	search   string
	jobType  models.JobType
	location string
	city     string
	country  string
	tag      string

	since    time.Time
	hasSince bool
	loc      *time.Location
}

func compile(c models.FilterCriteria, now time.Time) predicate {
	p := predicate{
		search:   strings.ToLower(strings.TrimSpace(c.Search)),
		jobType:  c.JobType,
		location: strings.ToLower(c.Location),
		city:     c.City,
		country:  c.Country,
		tag:      c.Tag,
		loc:      now.Location(),
	}
	p.since, p.hasSince = WindowStart(c.DateRange, now)
	return p
}

func (p predicate) match(j *models.Job) bool {
	if p.search != "" && !matchesSearch(j, p.search) {
		return false
	}
	if p.jobType != "" && j.JobType != p.jobType {
		return false
	}
	if p.location != "" && !strings.Contains(strings.ToLower(j.Location), p.location) {
		return false
	}
	if p.city != "" && j.City != p.city {
		return false
	}
	if p.country != "" && j.Country != p.country {
		return false
	}
	if p.tag != "" && !j.HasTag(p.tag) {
		return false
	}
	if p.hasSince && j.PostingTime(p.loc).Before(p.since) {
		return false
	}
	return true
}

// matchesSearch checks title, company, location and every tag.
// term must already be lower case.
func matchesSearch(j *models.Job, term string) bool {
	if strings.Contains(strings.ToLower(j.Title), term) ||
		strings.Contains(strings.ToLower(j.Company), term) ||
		strings.Contains(strings.ToLower(j.Location), term) {
		return true
	}
	for _, tag := range j.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WindowStart returns the inclusive lower bound for a date range.
// Month windows use calendar arithmetic, not fixed day counts.
func WindowStart(r models.DateRange, now time.Time) (time.Time, bool) {
	today := StartOfDay(now)
	switch r {
	case models.DateRangeToday:
		return today, true
	case models.DateRangeWeek:
		return today.AddDate(0, 0, -7), true
	case models.DateRangeMonth:
		return today.AddDate(0, -1, 0), true
	case models.DateRangeThreeMonths:
		return today.AddDate(0, -3, 0), true
	}
	return time.Time{}, false
}

type keyed struct {
	job  models.Job
	date time.Time
}

// Sort orders jobs in place by mode. Ties keep their input order.
// Unrecognized modes sort newest first.
func Sort(jobs []models.Job, mode models.SortMode) {
	if len(jobs) < 2 {
		return
	}

	switch mode {
	case models.SortTitleAsc, models.SortTitleDesc, models.SortCompanyAsc, models.SortCompanyDesc:
		sortByText(jobs, mode)
	default:
		sortByDate(jobs, mode == models.SortPostingDateAsc)
	}
}

func sortByDate(jobs []models.Job, asc bool) {
	entries := make([]keyed, len(jobs))
	for i := range jobs {
		entries[i] = keyed{job: jobs[i], date: jobs[i].PostingTime(time.UTC)}
	}

	slices.SortStableFunc(entries, func(a, b keyed) int {
		if asc {
			return a.date.Compare(b.date)
		}
		return b.date.Compare(a.date)
	})

	for i := range entries {
		jobs[i] = entries[i].job
	}
}

func sortByText(jobs []models.Job, mode models.SortMode) {
	// collators keep internal buffers, so one per call
	col := collate.New(language.English)

	field := func(j models.Job) string { return j.Title }
	if mode == models.SortCompanyAsc || mode == models.SortCompanyDesc {
		field = func(j models.Job) string { return j.Company }
	}
	desc := mode == models.SortTitleDesc || mode == models.SortCompanyDesc

	slices.SortStableFunc(jobs, func(a, b models.Job) int {
		if desc {
			return col.CompareString(field(b), field(a))
		}
		return col.CompareString(field(a), field(b))
	})
}
