// Package tickets stores client support tickets.
package tickets

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
)

// Table is the logical table name.
const Table = "support-tickets"

type Repository interface {
	Create(ctx context.Context, v *models.Ticket) (*models.Ticket, error)
	Get(ctx context.Context, id string) (*models.Ticket, error)
	List(ctx context.Context) ([]models.Ticket, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Ticket, error)
	Update(ctx context.Context, id string, patch models.StatusPatch) (*models.Ticket, error)
	Delete(ctx context.Context, id string) error
}
