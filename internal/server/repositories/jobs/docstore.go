package jobs

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/doctable"
)

type DocStoreRepository struct {
	table *doctable.Table[models.Job]
}

func NewDocStoreRepository(store docstore.Store, name string) *DocStoreRepository {
	return &DocStoreRepository{table: doctable.New[models.Job](store, name)}
}

func (r *DocStoreRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	return r.table.Create(ctx, job)
}

func (r *DocStoreRepository) Get(ctx context.Context, id string) (*models.Job, error) {
	return r.table.Get(ctx, id)
}

func (r *DocStoreRepository) List(ctx context.Context) ([]models.Job, error) {
	return r.table.ListNewestFirst(ctx, nil)
}

func (r *DocStoreRepository) ListByStatus(ctx context.Context, status string) ([]models.Job, error) {
	return r.table.ListNewestFirst(ctx, docstore.Filter{"status": status})
}

func (r *DocStoreRepository) Update(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error) {
	return r.table.Patch(ctx, id, patch)
}

func (r *DocStoreRepository) IncrementApplications(ctx context.Context, id string) (*models.Job, error) {
	return r.table.Increment(ctx, id, "applicationsCount", 1)
}

func (r *DocStoreRepository) Delete(ctx context.Context, id string) error {
	return r.table.Delete(ctx, id)
}
