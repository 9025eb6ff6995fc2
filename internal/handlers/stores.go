// Package handlers implements the HTTP layer: request binding and
// validation, the response envelope, and translation of storage errors into
// the API's status taxonomy.
package handlers

import (
	"context"
	"time"

	"github.com/jonesrussell/gojobs/internal/events"
	"github.com/jonesrussell/gojobs/internal/models"
	"github.com/jonesrussell/gojobs/internal/query"
)

// JobStore is the job persistence surface the handlers depend on. Satisfied
// by repository.JobRepository; mocked in tests.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	CreateBatch(ctx context.Context, jobs []*models.Job) (int, error)
	GetByID(ctx context.Context, id string) (*models.Job, error)
	Count(ctx context.Context, filter query.JobFilter) (int, error)
	List(ctx context.Context, filter query.JobFilter, sort query.Sort, page query.Page) ([]models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	DeleteCascade(ctx context.Context, id string) (int, error)
	Overview(ctx context.Context) (*models.JobOverview, error)
	TypeCounts(ctx context.Context) ([]models.TypeCount, error)
	TopCompanies(ctx context.Context, limit int) ([]models.CompanyCount, error)
}

// ApplicationStore is the application persistence surface. Satisfied by
// repository.ApplicationRepository.
type ApplicationStore interface {
	CreateForJob(ctx context.Context, app *models.Application) error
	ExistsForJob(ctx context.Context, jobID, email string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Count(ctx context.Context, filter query.ApplicationFilter) (int, error)
	List(ctx context.Context, filter query.ApplicationFilter, sort query.Sort, page query.Page) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) (*models.Application, error)
	StatusCounts(ctx context.Context) ([]models.StatusCount, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// Notifier publishes lifecycle events to connected admin clients. Delivery
// is best-effort; handlers log publish failures and never fail the request.
type Notifier interface {
	Publish(ctx context.Context, event events.Event) error
}
