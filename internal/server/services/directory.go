package services

import (
	"context"
	"errors"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/repositories/accounts"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/verification"
)

// AccountDirectory lets the verification workflow resolve emails to
// accounts and store reset passwords. Credentials it receives are already
// hashed.
type AccountDirectory struct {
	repo accounts.Repository
}

var (
	_ verification.IdentityLookup   = (*AccountDirectory)(nil)
	_ verification.CredentialSetter = (*AccountDirectory)(nil)
)

func NewAccountDirectory(repo accounts.Repository) *AccountDirectory {
	return &AccountDirectory{repo: repo}
}

func (d *AccountDirectory) LookupAccount(ctx context.Context, email string) (string, bool, error) {
	a, err := d.repo.FindByEmail(ctx, email)
	if errors.Is(err, docstore.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return a.ID, true, nil
}

func (d *AccountDirectory) SetCredential(ctx context.Context, accountID, hash string) error {
	return d.repo.SetPassword(ctx, accountID, hash)
}
