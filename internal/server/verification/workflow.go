// Package verification issues single-use, time-bound numeric codes bound to
// an identity (an email address) and gates a credential change on them.
//
// An entry moves NONE -> ISSUED -> VERIFIED -> CONSUMED, or ISSUED -> EXPIRED.
// An expired entry is treated as absent and is deleted when discovered.
package verification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/cryptox"
)

var (
	// ErrUnknownIdentity is returned by Issue when no account owns the identity.
	ErrUnknownIdentity = errors.New("unknown identity")
	// ErrNoActiveRequest is returned by Verify when nothing was issued.
	ErrNoActiveRequest = errors.New("no active verification request")
	// ErrExpired is returned by Verify once the code's lifetime has passed.
	ErrExpired = errors.New("verification code expired")
	// ErrMismatch is returned by Verify for a wrong code. The entry survives.
	ErrMismatch = errors.New("verification code mismatch")
	// ErrNotVerified is returned by Consume without a live verified entry.
	ErrNotVerified = errors.New("verification not completed")
)

// DefaultTTL is how long an issued code stays valid.
const DefaultTTL = 10 * time.Minute

// IdentityLookup resolves an identity to the id of the account that owns it.
type IdentityLookup interface {
	LookupAccount(ctx context.Context, identity string) (accountID string, found bool, err error)
}

// LookupFunc adapts a function to IdentityLookup.
type LookupFunc func(ctx context.Context, identity string) (string, bool, error)

func (f LookupFunc) LookupAccount(ctx context.Context, identity string) (string, bool, error) {
	return f(ctx, identity)
}

// CredentialSetter applies a new credential to an account.
type CredentialSetter interface {
	SetCredential(ctx context.Context, accountID, credential string) error
}

// SetterFunc adapts a function to CredentialSetter.
type SetterFunc func(ctx context.Context, accountID, credential string) error

func (f SetterFunc) SetCredential(ctx context.Context, accountID, credential string) error {
	return f(ctx, accountID, credential)
}

// Workflow is safe for concurrent use as long as its Store is.
type Workflow struct {
	store    Store
	accounts IdentityLookup
	setter   CredentialSetter
	ttl      time.Duration
	now      func() time.Time
	generate func() (string, error)
}

type Option func(*Workflow)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(d time.Duration) Option {
	return func(w *Workflow) {
		if d > 0 {
			w.ttl = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// WithCodeGenerator replaces the random six-digit generator.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(w *Workflow) { w.generate = gen }
}

func New(store Store, accounts IdentityLookup, setter CredentialSetter, opts ...Option) *Workflow {
	w := &Workflow{
		store:    store,
		accounts: accounts,
		setter:   setter,
		ttl:      DefaultTTL,
		now:      time.Now,
		generate: cryptox.GenerateCode,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NormalizeIdentity is the key entries are stored under.
func NormalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// Issue creates a fresh code for identity, replacing any earlier one, and
// returns it for out-of-band delivery.
func (w *Workflow) Issue(ctx context.Context, identity string) (string, error) {
	identity = NormalizeIdentity(identity)

	accountID, found, err := w.accounts.LookupAccount(ctx, identity)
	if err != nil {
		return "", fmt.Errorf("lookup %q: %w", identity, err)
	}
	if !found {
		return "", fmt.Errorf("%q: %w", identity, ErrUnknownIdentity)
	}

	code, err := w.generate()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	entry := Entry{
		Identity:  identity,
		AccountID: accountID,
		Code:      code,
		ExpiresAt: w.now().Add(w.ttl),
	}
	if err := w.store.Save(ctx, entry); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks code against the live entry and marks it verified on a match.
// A mismatch leaves the entry untouched and there is no attempt limit. An
// entry replaced by a newer Issue while Verify runs is never marked.
func (w *Workflow) Verify(ctx context.Context, identity, code string) error {
	identity = NormalizeIdentity(identity)

	entry, ok, err := w.store.Load(ctx, identity)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoActiveRequest
	}
	if w.expired(entry) {
		if err := w.store.Remove(ctx, identity); err != nil {
			return err
		}
		return ErrExpired
	}
	if entry.Code != strings.TrimSpace(code) {
		return ErrMismatch
	}

	marked, err := w.store.MarkVerified(ctx, identity, entry.Code, entry.ExpiresAt)
	if err != nil {
		return err
	}
	if !marked {
		return ErrMismatch
	}
	return nil
}

// Consume deletes the verified entry and then applies credential to the
// owning account. It succeeds at most once per verified entry; if the setter
// fails the code is spent and the user has to verify again.
func (w *Workflow) Consume(ctx context.Context, identity, credential string) error {
	identity = NormalizeIdentity(identity)

	entry, ok, err := w.store.Load(ctx, identity)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotVerified
	}
	if w.expired(entry) {
		if err := w.store.Remove(ctx, identity); err != nil {
			return err
		}
		return ErrNotVerified
	}
	if !entry.Verified {
		return ErrNotVerified
	}

	claimed, err := w.store.Claim(ctx, identity, entry.Code, entry.ExpiresAt)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrNotVerified
	}

	if err := w.setter.SetCredential(ctx, entry.AccountID, credential); err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}

func (w *Workflow) expired(e Entry) bool {
	return w.now().After(e.ExpiresAt)
}
