package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/doctable"
)

// conflictAttempts bounds the re-read and reapply loop of nested writes.
const conflictAttempts = 5

type DocStoreRepository struct {
	table *doctable.Table[models.ClientProgress]
}

func NewDocStoreRepository(store docstore.Store, name string) *DocStoreRepository {
	return &DocStoreRepository{table: doctable.New[models.ClientProgress](store, name)}
}

func (r *DocStoreRepository) Init(ctx context.Context, clientID string) (*models.ClientProgress, error) {
	created, err := r.table.Create(ctx, &models.ClientProgress{
		ID:       clientID,
		Projects: []map[string]any{},
		Invoices: []map[string]any{},
	})
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return r.table.Get(ctx, clientID)
	}
	return created, err
}

func (r *DocStoreRepository) Get(ctx context.Context, clientID string) (*models.ClientProgress, error) {
	return r.table.Get(ctx, clientID)
}

func (r *DocStoreRepository) upsert(ctx context.Context, clientID, field string, item map[string]any) (*models.ClientProgress, error) {
	var out docstore.Record
	err := docstore.RetryOnConflict(ctx, conflictAttempts, func(ctx context.Context) error {
		rec, err := docstore.UpsertNested(ctx, r.table.Store(), docstore.NestedUpsert{
			Table:    r.table.Name(),
			ParentID: clientID,
			Field:    field,
			Item:     docstore.Clone(item),
		})
		out = rec
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", r.table.Name(), field, err)
	}
	return docstore.DecodeAs[models.ClientProgress](out)
}

// UpsertProject replaces the project with the same id or appends it.
func (r *DocStoreRepository) UpsertProject(ctx context.Context, clientID string, project map[string]any) (*models.ClientProgress, error) {
	return r.upsert(ctx, clientID, "projects", project)
}

// AddInvoice appends the invoice with a fresh id.
func (r *DocStoreRepository) AddInvoice(ctx context.Context, clientID string, invoice map[string]any) (*models.ClientProgress, error) {
	item := docstore.Clone(invoice)
	item[docstore.AttrID] = docstore.NewID()
	return r.upsert(ctx, clientID, "invoices", item)
}
