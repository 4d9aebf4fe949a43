// Package jobs stores job postings.
package jobs

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
)

// Table is the logical table name.
const Table = "jobs"

type Repository interface {
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context) ([]models.Job, error)
	ListByStatus(ctx context.Context, status string) ([]models.Job, error)
	Update(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error)
	// IncrementApplications atomically bumps applicationsCount by one.
	IncrementApplications(ctx context.Context, id string) (*models.Job, error)
	Delete(ctx context.Context, id string) error
}
