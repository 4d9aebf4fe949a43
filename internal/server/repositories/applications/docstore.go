package applications

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/doctable"
)

type DocStoreRepository struct {
	table *doctable.Table[models.Application]
}

func NewDocStoreRepository(store docstore.Store, name string) *DocStoreRepository {
	return &DocStoreRepository{table: doctable.New[models.Application](store, name)}
}

func (r *DocStoreRepository) Create(ctx context.Context, app *models.Application) (*models.Application, error) {
	return r.table.Create(ctx, app)
}

func (r *DocStoreRepository) List(ctx context.Context) ([]models.Application, error) {
	return r.table.ListNewestFirst(ctx, nil)
}

func (r *DocStoreRepository) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	return r.table.ListNewestFirst(ctx, docstore.Filter{"jobId": jobID})
}

func (r *DocStoreRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Application, error) {
	return r.table.Update(ctx, id, docstore.Changes{"status": status})
}
