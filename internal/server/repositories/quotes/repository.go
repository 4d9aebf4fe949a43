// Package quotes stores legacy quick quotes. New code reads quote requests;
// this table is only appended to and listed for the admin dashboard.
package quotes

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
)

// Table is the logical table name.
const Table = "quotes"

type Repository interface {
	Create(ctx context.Context, quote *models.Quote) (*models.Quote, error)
	List(ctx context.Context) ([]models.Quote, error)
}
