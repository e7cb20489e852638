package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hishmat-dev/job-listing-app/internal/models"
)

func job(id, title string) models.Job {
	return models.Job{ID: models.JobID(id), Title: title}
}

func ids(jobs []models.Job) []models.JobID {
	out := make([]models.JobID, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestJobCache_Lifecycle(t *testing.T) {
	c := NewJobCache()
	_, loaded := c.LoadedAt()
	assert.False(t, loaded)
	assert.Equal(t, []models.Job{}, c.Snapshot())

	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	c.Replace([]models.Job{job("1", "A"), job("2", "B")}, at)

	got, loaded := c.LoadedAt()
	require.True(t, loaded)
	assert.Equal(t, at, got)

	c.Prepend(job("3", "C"))
	assert.Equal(t, []models.JobID{"3", "1", "2"}, ids(c.Snapshot()))

	assert.True(t, c.ReplaceByID(job("1", "A2")))
	assert.False(t, c.ReplaceByID(job("9", "missing")))
	j, ok := c.Get("1")
	require.True(t, ok)
	assert.Equal(t, "A2", j.Title)
	assert.Equal(t, []models.JobID{"3", "1", "2"}, ids(c.Snapshot()))

	assert.True(t, c.RemoveByID("3"))
	assert.False(t, c.RemoveByID("3"))
	assert.Equal(t, []models.JobID{"1", "2"}, ids(c.Snapshot()))
	assert.Equal(t, 2, c.Len())
}

func TestJobCache_SnapshotIsACopy(t *testing.T) {
	c := NewJobCache()
	src := []models.Job{job("1", "A")}
	c.Replace(src, time.Now())

	src[0].Title = "changed"
	snap := c.Snapshot()
	snap[0].Title = "changed too"

	j, _ := c.Get("1")
	assert.Equal(t, "A", j.Title)
}

func TestJobCache_ConcurrentWrites(t *testing.T) {
	c := NewJobCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Prepend(job(fmt.Sprint(i), "x"))
			_ = c.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
}
