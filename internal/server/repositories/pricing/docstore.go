package pricing

import (
	"context"
	"errors"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/doctable"
)

type DocStoreRepository struct {
	table *doctable.Table[models.PricingDocument]
}

func NewDocStoreRepository(store docstore.Store, name string) *DocStoreRepository {
	return &DocStoreRepository{table: doctable.New[models.PricingDocument](store, name)}
}

func (r *DocStoreRepository) Get(ctx context.Context) (models.Pricing, bool, error) {
	doc, ok, err := r.table.Find(ctx, models.PricingID)
	if err != nil || !ok {
		return models.Pricing{}, false, err
	}
	return doc.Pricing, true, nil
}

func (r *DocStoreRepository) Save(ctx context.Context, p models.Pricing) (models.Pricing, error) {
	doc, err := r.table.Put(ctx, &models.PricingDocument{ID: models.PricingID, Pricing: p})
	if err != nil {
		return models.Pricing{}, err
	}
	return doc.Pricing, nil
}

func (r *DocStoreRepository) SeedDefault(ctx context.Context) (models.Pricing, error) {
	doc, err := r.table.Create(ctx, &models.PricingDocument{ID: models.PricingID, Pricing: models.DefaultPricing()})
	if errors.Is(err, docstore.ErrAlreadyExists) {
		existing, err := r.table.Get(ctx, models.PricingID)
		if err != nil {
			return models.Pricing{}, err
		}
		return existing.Pricing, nil
	}
	if err != nil {
		return models.Pricing{}, err
	}
	return doc.Pricing, nil
}
