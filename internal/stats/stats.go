// Package stats computes summary counts over the full job list.
package stats

import (
	"slices"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/listing"
	"github.com/hishmat-dev/job-listing-app/internal/models"
)

// TopN is the number of companies and cities reported.
const TopN = 5

// RecentDays is the look-back window for Stats.RecentJobs.
const RecentDays = 30

// Summarize aggregates jobs. The result never contains nil slices.
func Summarize(jobs []models.Job, now time.Time) models.Stats {
	types := newCounter[models.JobType]()
	companies := newCounter[string]()
	cities := newCounter[string]()

	recentSince := listing.StartOfDay(now).AddDate(0, 0, -RecentDays)
	recent := 0

	for i := range jobs {
		j := &jobs[i]
		types.add(j.JobType)
		companies.add(j.Company)
		if j.City != "" {
			cities.add(j.City)
		}
		if !j.PostingTime(now.Location()).Before(recentSince) {
			recent++
		}
	}

	s := models.Stats{
		TotalJobs:    len(jobs),
		JobTypes:     make([]models.TypeCount, 0, len(types.order)),
		TopCompanies: make([]models.CompanyCount, 0, TopN),
		TopLocations: make([]models.CityCount, 0, TopN),
		RecentJobs:   recent,
	}
	for _, e := range types.entries() {
		s.JobTypes = append(s.JobTypes, models.TypeCount{Type: e.key, Count: e.count})
	}
	for _, e := range companies.top(TopN) {
		s.TopCompanies = append(s.TopCompanies, models.CompanyCount{Company: e.key, Count: e.count})
	}
	for _, e := range cities.top(TopN) {
		s.TopLocations = append(s.TopLocations, models.CityCount{City: e.key, Count: e.count})
	}
	return s
}

type entry[K comparable] struct {
	key   K
	count int
}

// counter is a frequency map that remembers first-seen key order.
type counter[K comparable] struct {
	counts map[K]int
	order  []K
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: make(map[K]int)}
}

func (c *counter[K]) add(k K) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

func (c *counter[K]) entries() []entry[K] {
	out := make([]entry[K], len(c.order))
	for i, k := range c.order {
		out[i] = entry[K]{key: k, count: c.counts[k]}
	}
	return out
}

// top returns the n most frequent keys; ties keep first-seen order.
func (c *counter[K]) top(n int) []entry[K] {
	out := c.entries()
	slices.SortStableFunc(out, func(a, b entry[K]) int {
		return b.count - a.count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
