package api

import (
	"context"

	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/presets"
	"github.com/hishmat-dev/job-listing-app/internal/validation"
)

// JobsService is the client state behind the API. *app.App implements it.
type JobsService interface {
	View(c models.FilterCriteria) app.View
	Jobs() []models.Job
	Job(ctx context.Context, id models.JobID) (*models.Job, error)
	Create(ctx context.Context, f validation.Form) (*models.Job, error)
	Update(ctx context.Context, id models.JobID, f validation.Form) (*models.Job, error)
	Delete(ctx context.Context, id models.JobID) error
	Load(ctx context.Context) error
	Stats() models.Stats
}

// PresetSource defines the interface for saved criteria lookups.
type PresetSource interface {
	List() []presets.Preset
	Get(name string) (presets.Preset, bool)
}
