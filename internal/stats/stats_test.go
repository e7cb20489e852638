package stats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

var testNow = time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC)

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, testNow)

	assert.Equal(t, 0, s.TotalJobs)
	assert.Equal(t, 0, s.RecentJobs)
	assert.Empty(t, s.JobTypes)
	assert.Empty(t, s.TopCompanies)
	assert.Empty(t, s.TopLocations)

	// empty aggregates encode as arrays, not null
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_jobs":0,"job_types":[],"top_companies":[],"top_locations":[],"recent_jobs":0}`, string(b))
}

func TestSummarize_Scenario(t *testing.T) {
	jobs := []models.Job{
		{ID: "1", Title: "Actuary", Company: "Aon", JobType: models.JobTypeFullTime, City: "NYC", PostingDate: "2024-01-10", Tags: []string{"Pricing"}},
		{ID: "2", Title: "Analyst", Company: "Aon", JobType: models.JobTypeContract, City: "Boston", PostingDate: "2024-02-01", Tags: []string{}},
	}

	s := Summarize(jobs, testNow)

	assert.Equal(t, 2, s.TotalJobs)
	assert.Equal(t, []models.CompanyCount{{Company: "Aon", Count: 2}}, s.TopCompanies)
	assert.Equal(t, []models.TypeCount{
		{Type: models.JobTypeFullTime, Count: 1},
		{Type: models.JobTypeContract, Count: 1},
	}, s.JobTypes)
	assert.Equal(t, []models.CityCount{{City: "NYC", Count: 1}, {City: "Boston", Count: 1}}, s.TopLocations)
}

func TestSummarize_TopFiveWithFirstSeenTieBreak(t *testing.T) {
	companies := []string{"F", "A", "B", "C", "B", "D", "E", "G", "C", "E"}
	jobs := make([]models.Job, len(companies))
	for i, c := range companies {
		jobs[i] = models.Job{Company: c, JobType: models.JobTypeFullTime, PostingDate: "2024-03-01"}
	}

	s := Summarize(jobs, testNow)

	// B, C, E have two each in first-seen order; then F, A lead the singles
	assert.Equal(t, []models.CompanyCount{
		{Company: "B", Count: 2},
		{Company: "C", Count: 2},
		{Company: "E", Count: 2},
		{Company: "F", Count: 1},
		{Company: "A", Count: 1},
	}, s.TopCompanies)
	assert.Equal(t, []models.TypeCount{{Type: models.JobTypeFullTime, Count: 10}}, s.JobTypes)
}

func TestSummarize_TopLocationsSkipMissingCity(t *testing.T) {
	jobs := []models.Job{
		{Company: "A", City: ""},
		{Company: "A", City: "Hartford"},
		{Company: "A"},
		{Company: "A", City: "Hartford"},
	}

	s := Summarize(jobs, testNow)

	assert.Equal(t, []models.CityCount{{City: "Hartford", Count: 2}}, s.TopLocations)
}

func TestSummarize_RecentJobs(t *testing.T) {
	jobs := []models.Job{
		{PostingDate: "2024-03-15"}, // today
		{PostingDate: "2024-02-14"}, // exactly 30 days ago
		{PostingDate: "2024-02-13"}, // 31 days ago
		{PostingDate: "garbage"},    // unparseable
		{PostingDate: "2023-12-25"}, // old
	}

	s := Summarize(jobs, testNow)

	assert.Equal(t, 5, s.TotalJobs)
	assert.Equal(t, 2, s.RecentJobs)
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	jobs := []models.Job{
		{ID: "1", Company: "B", City: "X"},
		{ID: "2", Company: "A", City: "Y"},
		{ID: "3", Company: "A", City: "Y"},
	}
	before := make([]models.Job, len(jobs))
	copy(before, jobs)

	_ = Summarize(jobs, testNow)

	assert.Equal(t, before, jobs)
}
