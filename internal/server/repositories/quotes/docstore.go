package quotes

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/doctable"
)

type DocStoreRepository struct {
	table *doctable.Table[models.Quote]
}

func NewDocStoreRepository(store docstore.Store, name string) *DocStoreRepository {
	return &DocStoreRepository{table: doctable.New[models.Quote](store, name)}
}

func (r *DocStoreRepository) Create(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	return r.table.Create(ctx, quote)
}

func (r *DocStoreRepository) List(ctx context.Context) ([]models.Quote, error) {
	return r.table.ListNewestFirst(ctx, nil)
}
