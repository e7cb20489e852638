package api

import (
	"strings"

	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/presets"
	"github.com/hishmat-dev/job-listing-app/internal/validation"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status" example:"ok" description:"Health status"`
	Version string `json:"version" example:"dev" description:"Application version"`
}

// MessageResponse carries a human readable outcome.
type MessageResponse struct {
	Message string `json:"message" description:"Outcome message"`
}

// JobsListResponse is the filtered and sorted job list.
type JobsListResponse struct {
	Jobs             []models.Job          `json:"jobs" description:"Matching jobs in display order"`
	Count            int                   `json:"count" description:"Number of matching jobs"`
	Total            int                   `json:"total" description:"Number of loaded jobs"`
	Criteria         models.FilterCriteria `json:"criteria" description:"Criteria that were applied"`
	HasActiveFilters bool                  `json:"has_active_filters" description:"Whether any field filter is set"`
}

func listFromView(v app.View) JobsListResponse {
	jobs := v.Jobs
	if jobs == nil {
		jobs = []models.Job{}
	}
	return JobsListResponse{
		Jobs:             jobs,
		Count:            v.Count,
		Total:            v.Total,
		Criteria:         v.Criteria,
		HasActiveFilters: v.HasActiveFilters,
	}
}

// JobRequest is the body of create and update requests.
type JobRequest struct {
	Title       string   `json:"title" description:"Job title" example:"Pricing Actuary"`
	Company     string   `json:"company" description:"Company name"`
	Location    string   `json:"location" description:"Free-text location"`
	City        string   `json:"city,omitempty" description:"City facet"`
	Country     string   `json:"country,omitempty" description:"Country facet"`
	PostingDate string   `json:"posting_date" description:"Posting date, YYYY-MM-DD" example:"2024-03-01"`
	JobType     string   `json:"job_type,omitempty" description:"Full-Time, Part-Time, Contract or Internship; defaults to Full-Time"`
	Tags        []string `json:"tags,omitempty" description:"Tags"`
	Salary      string   `json:"salary,omitempty" description:"Salary text"`
}

// Form converts the request into the form the validator checks.
func (r JobRequest) Form() validation.Form {
	jobType := r.JobType
	if jobType == "" {
		jobType = string(models.JobTypeFullTime)
	}
	return validation.Form{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		City:        r.City,
		Country:     r.Country,
		PostingDate: r.PostingDate,
		JobType:     jobType,
		Tags:        strings.Join(r.Tags, ", "),
		Salary:      r.Salary,
	}
}

// ReloadResponse reports the size of the freshly loaded list.
type ReloadResponse struct {
	Count int `json:"count" description:"Number of jobs loaded"`
}

// PresetResponse represents a saved search.
type PresetResponse struct {
	Name        string                `json:"name" description:"Preset name"`
	Description string                `json:"description,omitempty" description:"What the preset shows"`
	Criteria    models.FilterCriteria `json:"criteria" description:"Filter and sort criteria"`
}

// PresetsListResponse lists all presets.
type PresetsListResponse struct {
	Presets []PresetResponse `json:"presets" description:"Presets in file order"`
	Total   int              `json:"total" description:"Number of presets"`
}

// PresetFromModel converts a preset into its API representation.
func PresetFromModel(p presets.Preset) PresetResponse {
	return PresetResponse{
		Name:        p.Name,
		Description: p.Description,
		Criteria:    p.Criteria,
	}
}
