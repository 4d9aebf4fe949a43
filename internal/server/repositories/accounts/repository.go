// Package accounts stores client and administrator accounts.
package accounts

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
)

// Table is the logical table name.
const Table = "accounts"

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	Get(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Search(ctx context.Context, query string, limit int) ([]models.Account, error)
	UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.Account, error)
	SetPassword(ctx context.Context, id, hash string) error
	SetBlocked(ctx context.Context, id string, blocked bool) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}
