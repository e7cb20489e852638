// Package store holds the local copy of the backend's job list.
package store

import (
	"sync"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

// JobCache is an ordered in-memory list of jobs. It is a cache of server
// state: every write replaces local data unconditionally.
type JobCache struct {
	mu       sync.RWMutex
	jobs     []models.Job
	loaded   bool
	loadedAt time.Time
}

// NewJobCache creates an empty cache.
func NewJobCache() *JobCache {
	return &JobCache{jobs: []models.Job{}}
}

// Replace swaps in a freshly fetched list.
func (c *JobCache) Replace(jobs []models.Job, at time.Time) {
	cp := make([]models.Job, len(jobs))
	copy(cp, jobs)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs = cp
	c.loaded = true
	c.loadedAt = at
}

// Prepend inserts a newly created job at the front.
func (c *JobCache) Prepend(job models.Job) {
	c.mu.Lock()
	defer c.mu.Unlock()

	jobs := make([]models.Job, 0, len(c.jobs)+1)
	jobs = append(jobs, job)
	c.jobs = append(jobs, c.jobs...)
}

// ReplaceByID swaps the job with the same id in place.
// It reports false when no such job is cached.
func (c *JobCache) ReplaceByID(job models.Job) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.jobs {
		if c.jobs[i].ID == job.ID {
			c.jobs[i] = job
			return true
		}
	}
	return false
}

// RemoveByID drops every job with the given id.
func (c *JobCache) RemoveByID(id models.JobID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]models.Job, 0, len(c.jobs))
	for _, j := range c.jobs {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	removed := len(kept) != len(c.jobs)
	c.jobs = kept
	return removed
}

// Get returns the cached job with id.
func (c *JobCache) Get(id models.JobID) (models.Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, j := range c.jobs {
		if j.ID == id {
			return j, true
		}
	}
	return models.Job{}, false
}

// Snapshot returns a copy of the list that callers may keep.
func (c *JobCache) Snapshot() []models.Job {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

// Len returns the number of cached jobs.
func (c *JobCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.jobs)
}

// LoadedAt returns when Replace last ran, and false if it never did.
func (c *JobCache) LoadedAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt, c.loaded
}
