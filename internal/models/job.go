package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JobType is the employment type of a posting.
type JobType string

// JobType constants define the closed set accepted by the backend.
const (
	JobTypeFullTime   JobType = "Full-Time"
	JobTypePartTime   JobType = "Part-Time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

// JobTypes returns the accepted job types in display order.
func JobTypes() []JobType {
	return []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship}
}

// IsValid reports whether t belongs to the closed set.
func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// PostingDateLayout is the wire format of posting_date.
const PostingDateLayout = "2006-01-02"

// JobID is the backend-assigned identifier.
// The backend sends integers; the client treats the value as opaque text.
type JobID string

// UnmarshalJSON accepts both numeric and string ids.
func (id *JobID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("job id: %w", err)
		}
		*id = JobID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("job id: %w", err)
	}
	*id = JobID(n.String())
	return nil
}

// MarshalJSON writes integer ids back as JSON numbers.
func (id JobID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if isInteger(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id JobID) String() string {
	return string(id)
}

func isInteger(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Job represents a job posting as served by the backend.
type Job struct {
	ID       JobID  `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`

	// facets
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`

	PostingDate string   `json:"posting_date"`
	JobType     JobType  `json:"job_type"`
	Tags        []string `json:"tags"`
	Salary      string   `json:"salary,omitempty"`

	// server metadata, never interpreted by the client
	ScrapedAt string `json:"scraped_at,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// PostingTime parses the posting date in loc.
// An unparseable date yields the zero time.
func (j *Job) PostingTime(loc *time.Location) time.Time {
	return ParsePostingDate(j.PostingDate, loc)
}

// HasTag reports whether the job carries exactly tag.
func (j *Job) HasTag(tag string) bool {
	for _, t := range j.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Input returns the writable part of the job.
func (j *Job) Input() JobInput {
	tags := make([]string, len(j.Tags))
	copy(tags, j.Tags)
	return JobInput{
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		City:        j.City,
		Country:     j.Country,
		PostingDate: j.PostingDate,
		JobType:     j.JobType,
		Tags:        tags,
		Salary:      j.Salary,
	}
}

// JobInput is the body of create and update requests: a job minus its id.
type JobInput struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	PostingDate string   `json:"posting_date"`
	JobType     JobType  `json:"job_type"`
	Tags        []string `json:"tags"`
	Salary      string   `json:"salary"`
}

// ParsePostingDate parses a YYYY-MM-DD date at midnight in loc, falling back
// to RFC 3339 timestamps. Unparseable input yields the zero time.
func ParsePostingDate(s string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(PostingDateLayout, s, loc); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
