// Package pricing stores the single quote pricing document.
package pricing

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
)

// Table is the logical table name.
const Table = "quote-pricing-config"

type Repository interface {
	// Get returns ok=false when no pricing has been saved yet.
	Get(ctx context.Context) (p models.Pricing, ok bool, err error)
	Save(ctx context.Context, p models.Pricing) (models.Pricing, error)
	// SeedDefault stores the default pricing unless a document exists and
	// returns whatever is stored afterwards.
	SeedDefault(ctx context.Context) (models.Pricing, error)
}
