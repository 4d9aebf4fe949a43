package accounts

import (
	"context"
	"fmt"
	"strings"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/common"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/doctable"
)

type DocStoreRepository struct {
	table *doctable.Table[models.Account]
}

func NewDocStoreRepository(store docstore.Store, name string) *DocStoreRepository {
	return &DocStoreRepository{table: doctable.New[models.Account](store, name)}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new account. Email uniqueness is checked with a scan,
// so two concurrent registrations of the same email can both succeed.
func (r *DocStoreRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.Email = NormalizeEmail(account.Email)

	existing, err := r.table.List(ctx, docstore.Filter{"email": account.Email})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("email %q: %w", account.Email, common.ErrorAlreadyExists)
	}

	return r.table.Create(ctx, account)
}

func (r *DocStoreRepository) Get(ctx context.Context, id string) (*models.Account, error) {
	return r.table.Get(ctx, id)
}

// FindByEmail returns docstore.ErrNotFound when no account has the email.
func (r *DocStoreRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = NormalizeEmail(email)
	found, err := r.table.List(ctx, docstore.Filter{"email": email})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%s email %q: %w", r.table.Name(), email, docstore.ErrNotFound)
	}
	return &found[0], nil
}

func (r *DocStoreRepository) List(ctx context.Context) ([]models.Account, error) {
	return r.table.ListNewestFirst(ctx, nil)
}

// Search matches a case-insensitive name substring or a phone substring
// and returns at most limit accounts.
func (r *DocStoreRepository) Search(ctx context.Context, query string, limit int) ([]models.Account, error) {
	all, err := r.table.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Account, 0, limit)
	for _, a := range all {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(a.Name), q) || (a.Phone != "" && strings.Contains(a.Phone, q)) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *DocStoreRepository) UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.Account, error) {
	return r.table.Patch(ctx, id, patch)
}

func (r *DocStoreRepository) SetPassword(ctx context.Context, id, hash string) error {
	_, err := r.table.Update(ctx, id, docstore.Changes{"password": hash})
	return err
}

func (r *DocStoreRepository) SetBlocked(ctx context.Context, id string, blocked bool) (*models.Account, error) {
	return r.table.Update(ctx, id, docstore.Changes{"blocked": blocked})
}

func (r *DocStoreRepository) Delete(ctx context.Context, id string) error {
	return r.table.Delete(ctx, id)
}
