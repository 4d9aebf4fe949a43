package appointments

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/doctable"
)

type DocStoreRepository struct {
	table *doctable.Table[models.Appointment]
}

func NewDocStoreRepository(store docstore.Store, name string) *DocStoreRepository {
	return &DocStoreRepository{table: doctable.New[models.Appointment](store, name)}
}

func (r *DocStoreRepository) Create(ctx context.Context, v *models.Appointment) (*models.Appointment, error) {
	return r.table.Create(ctx, v)
}

func (r *DocStoreRepository) Get(ctx context.Context, id string) (*models.Appointment, error) {
	return r.table.Get(ctx, id)
}

func (r *DocStoreRepository) List(ctx context.Context) ([]models.Appointment, error) {
	return r.table.ListNewestFirst(ctx, nil)
}

func (r *DocStoreRepository) ListByClient(ctx context.Context, clientID string) ([]models.Appointment, error) {
	return r.table.ListNewestFirst(ctx, docstore.Filter{"clientId": clientID})
}

func (r *DocStoreRepository) Update(ctx context.Context, id string, patch models.StatusPatch) (*models.Appointment, error) {
	return r.table.Patch(ctx, id, patch)
}

func (r *DocStoreRepository) Delete(ctx context.Context, id string) error {
	return r.table.Delete(ctx, id)
}
