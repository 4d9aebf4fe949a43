// Package applications stores job applications.
package applications

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
)

// Table is the logical table name.
const Table = "job-applications"

type Repository interface {
	Create(ctx context.Context, app *models.Application) (*models.Application, error)
	List(ctx context.Context) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Application, error)
}
