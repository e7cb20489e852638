package handlers

import (
	"context"
	"time"

	"github.com/hishmat-dev/job-listing-app/internal/app"
	"github.com/hishmat-dev/job-listing-app/internal/models"
	"github.com/hishmat-dev/job-listing-app/internal/presets"
	"github.com/hishmat-dev/job-listing-app/internal/validation"
)

// JobsService is the application state the pages work against.
// *app.App implements it.
type JobsService interface {
	View(c models.FilterCriteria) app.View
	Job(ctx context.Context, id models.JobID) (*models.Job, error)
	Create(ctx context.Context, f validation.Form) (*models.Job, error)
	Update(ctx context.Context, id models.JobID, f validation.Form) (*models.Job, error)
	Delete(ctx context.Context, id models.JobID) error
	Retry(ctx context.Context) error
	DismissError()
	LastError() string
	Toasts() *app.ToastQueue
	Now() time.Time
}

// PresetSource looks up saved criteria. *presets.Set implements it.
type PresetSource interface {
	List() []presets.Preset
	Get(name string) (presets.Preset, bool)
}
