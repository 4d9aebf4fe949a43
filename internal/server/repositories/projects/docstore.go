package projects

import (
	"context"
	"fmt"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/doctable"
)

const conflictAttempts = 5

type DocStoreRepository struct {
	table *doctable.Table[models.Project]
}

func NewDocStoreRepository(store docstore.Store, name string) *DocStoreRepository {
	return &DocStoreRepository{table: doctable.New[models.Project](store, name)}
}

func (r *DocStoreRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	return r.table.Create(ctx, project)
}

func (r *DocStoreRepository) Get(ctx context.Context, id string) (*models.Project, error) {
	return r.table.Get(ctx, id)
}

func (r *DocStoreRepository) List(ctx context.Context) ([]models.Project, error) {
	return r.table.ListNewestFirst(ctx, nil)
}

func (r *DocStoreRepository) ListByClient(ctx context.Context, clientID string) ([]models.Project, error) {
	return r.table.ListNewestFirst(ctx, docstore.Filter{"clientId": clientID})
}

func (r *DocStoreRepository) Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	changes, err := docstore.EncodeChanges(patch)
	if err != nil {
		return nil, err
	}
	if _, ok := changes["modules"]; ok {
		modules, _ := changes["modules"].([]any)
		changes["progress"] = float64(docstore.Mean(modules, "progress"))
	}
	return r.table.Update(ctx, id, changes)
}

func (r *DocStoreRepository) UpdateModule(ctx context.Context, projectID, moduleID string, patch models.ModulePatch) (*models.Project, error) {
	item, err := docstore.Encode(patch)
	if err != nil {
		return nil, err
	}
	item[docstore.AttrID] = moduleID

	var out docstore.Record
	err = docstore.RetryOnConflict(ctx, conflictAttempts, func(ctx context.Context) error {
		rec, err := docstore.UpdateNested(ctx, r.table.Store(), docstore.NestedUpsert{
			Table:     r.table.Name(),
			ParentID:  projectID,
			Field:     "modules",
			Item:      docstore.Clone(item),
			Aggregate: docstore.MeanProgress("progress"),
		})
		out = rec
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("project %q module %q: %w", projectID, moduleID, err)
	}
	return docstore.DecodeAs[models.Project](out)
}

func (r *DocStoreRepository) Delete(ctx context.Context, id string) error {
	return r.table.Delete(ctx, id)
}
