// Package validation checks job forms before they are submitted to the backend.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

// Form is the job form as entered by the user. Tags is a comma-separated
// string.
type Form struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location" validate:"required"`
	City        string `json:"city"`
	Country     string `json:"country"`
	PostingDate string `json:"posting_date" validate:"required,datetime=2006-01-02,notfuture"`
	JobType     string `json:"job_type" validate:"oneof=Full-Time Part-Time Contract Internship"`
	Tags        string `json:"tags"`
	Salary      string `json:"salary"`
}

// NewForm returns an empty form with the default job type selected.
func NewForm() Form {
	return Form{JobType: string(models.JobTypeFullTime)}
}

// FormFromJob pre-fills a form for editing an existing job.
func FormFromJob(j models.Job) Form {
	jobType := string(j.JobType)
	if jobType == "" {
		jobType = string(models.JobTypeFullTime)
	}
	return Form{
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		City:        j.City,
		Country:     j.Country,
		PostingDate: j.PostingDate,
		JobType:     jobType,
		Tags:        strings.Join(j.Tags, ", "),
		Salary:      j.Salary,
	}
}

// FormFromValues reads a submitted HTML form.
func FormFromValues(v url.Values) Form {
	return Form{
		Title:       v.Get("title"),
		Company:     v.Get("company"),
		Location:    v.Get("location"),
		City:        v.Get("city"),
		Country:     v.Get("country"),
		PostingDate: v.Get("posting_date"),
		JobType:     v.Get("job_type"),
		Tags:        v.Get("tags"),
		Salary:      v.Get("salary"),
	}
}

// trimmed returns a copy with surrounding whitespace removed.
func (f Form) trimmed() Form {
	return Form{
		Title:       strings.TrimSpace(f.Title),
		Company:     strings.TrimSpace(f.Company),
		Location:    strings.TrimSpace(f.Location),
		City:        strings.TrimSpace(f.City),
		Country:     strings.TrimSpace(f.Country),
		PostingDate: strings.TrimSpace(f.PostingDate),
		JobType:     strings.TrimSpace(f.JobType),
		Tags:        f.Tags,
		Salary:      strings.TrimSpace(f.Salary),
	}
}

// Input converts the form to a request body. Call it only after Validate
// reported the form valid.
func (f Form) Input() models.JobInput {
	t := f.trimmed()
	return models.JobInput{
		Title:       t.Title,
		Company:     t.Company,
		Location:    t.Location,
		City:        t.City,
		Country:     t.Country,
		PostingDate: t.PostingDate,
		JobType:     models.JobType(t.JobType),
		Tags:        SplitTags(t.Tags),
		Salary:      t.Salary,
	}
}

// SplitTags splits a comma-separated string, trims each tag and drops
// empty ones. Duplicates are kept.
func SplitTags(s string) []string {
	tags := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Errors maps form field names to messages.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Result is the outcome of validating a form.
type Result struct {
	Valid  bool   `json:"valid"`
	Errors Errors `json:"errors"`
}

// Err returns the field errors as an error, or nil when the form is valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r.Errors
}

var messages = map[string]map[string]string{
	"title":    {"required": "Job title is required"},
	"company":  {"required": "Company name is required"},
	"location": {"required": "Location is required"},
	"posting_date": {
		"required":  "Posting date is required",
		"datetime":  "Posting date must be a valid date (YYYY-MM-DD)",
		"notfuture": "Posting date cannot be in the future",
	},
	"job_type": {"oneof": "Please select a valid job type"},
}

// Validator checks forms against the job rules.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// New creates a Validator. now supplies the reference time for the
// posting date check; nil means time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	val := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), now: now}

	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := val.v.RegisterValidation("notfuture", val.notFuture); err != nil {
		panic(fmt.Sprintf("register notfuture validation: %v", err))
	}

	return val
}

// notFuture passes dates that are not after the current instant; the same
// calendar day is allowed.
func (val *Validator) notFuture(fl validator.FieldLevel) bool {
	now := val.now()
	d, err := time.ParseInLocation(models.PostingDateLayout, fl.Field().String(), now.Location())
	if err != nil {
		return false
	}
	return !d.After(now)
}

// Validate checks f. It never touches the network.
func (val *Validator) Validate(f Form) Result {
	errs := Errors{}

	err := val.v.Struct(f.trimmed())
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			field := fe.Field()
			msg, ok := messages[field][fe.Tag()]
			if !ok {
				msg = fmt.Sprintf("%s is invalid", field)
			}
			if _, seen := errs[field]; !seen {
				errs[field] = msg
			}
		}
	default:
		errs["form"] = err.Error()
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
