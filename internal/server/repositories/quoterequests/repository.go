// Package quoterequests stores priced quote requests submitted by clients.
package quoterequests

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
)

// Table is the logical table name.
const Table = "quote-requests"

// Listings are ordered newest first.
type Repository interface {
	Create(ctx context.Context, req *models.QuoteRequest) (*models.QuoteRequest, error)
	Get(ctx context.Context, id string) (*models.QuoteRequest, error)
	List(ctx context.Context) ([]models.QuoteRequest, error)
	ListByClient(ctx context.Context, clientID string) ([]models.QuoteRequest, error)
	Update(ctx context.Context, id string, patch models.QuoteRequestPatch) (*models.QuoteRequest, error)
	Delete(ctx context.Context, id string) error
}
