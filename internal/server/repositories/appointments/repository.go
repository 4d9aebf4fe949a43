// Package appointments stores consultations booked by clients.
package appointments

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
)

// Table is the logical table name.
const Table = "appointments"

type Repository interface {
	Create(ctx context.Context, v *models.Appointment) (*models.Appointment, error)
	Get(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context) ([]models.Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error)
	Update(ctx context.Context, id string, patch models.StatusPatch) (*models.Appointment, error)
	Delete(ctx context.Context, id string) error
}
