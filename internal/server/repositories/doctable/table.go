// Package doctable binds a typed entity to one document-store table so the
// entity repositories only spell out what is specific to them.
package doctable

import (
	"context"
	"fmt"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
)

// Table converts between T and docstore records on a single table.
// T must be a struct whose json tags name the stored attributes.
type Table[T any] struct {
	store docstore.Store
	name  string
}

func New[T any](store docstore.Store, name string) *Table[T] {
	return &Table[T]{store: store, name: name}
}

// Name is the physical table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Store exposes the underlying store for nested-collection updates.
func (t *Table[T]) Store() docstore.Store {
	return t.store
}

func (t *Table[T]) decode(rec docstore.Record) (*T, error) {
	v, err := docstore.DecodeAs[T](rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}
	return v, nil
}

// Find returns the row with id, or ok=false when there is none.
func (t *Table[T]) Find(ctx context.Context, id string) (*T, bool, error) {
	rec, ok, err := t.store.Get(ctx, t.name, id)
	if err != nil || !ok {
		return nil, false, err
	}
	v, err := t.decode(rec)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Get is Find with a missing row reported as docstore.ErrNotFound.
func (t *Table[T]) Get(ctx context.Context, id string) (*T, error) {
	v, ok, err := t.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", t.name, id, docstore.ErrNotFound)
	}
	return v, nil
}

// List scans the table with filter.
func (t *Table[T]) List(ctx context.Context, filter docstore.Filter) ([]T, error) {
	recs, err := t.store.Scan(ctx, t.name, filter)
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[T](recs)
}

// ListNewestFirst scans the table and orders rows by createdAt, newest first.
func (t *Table[T]) ListNewestFirst(ctx context.Context, filter docstore.Filter) ([]T, error) {
	recs, err := t.store.Scan(ctx, t.name, filter)
	if err != nil {
		return nil, err
	}
	docstore.SortByCreatedAtDesc(recs)
	return docstore.DecodeAll[T](recs)
}

// Create stamps id, createdAt and updatedAt on v and inserts it. An id
// collision surfaces as docstore.ErrAlreadyExists.
func (t *Table[T]) Create(ctx context.Context, v *T) (*T, error) {
	rec, err := docstore.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}
	out, err := t.store.InsertIfAbsent(ctx, t.name, docstore.Stamp(rec))
	if err != nil {
		return nil, err
	}
	return t.decode(out)
}

// Put overwrites the full row, honouring its version when present.
func (t *Table[T]) Put(ctx context.Context, v *T) (*T, error) {
	rec, err := docstore.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}
	rec[docstore.AttrUpdatedAt] = docstore.Timestamp()
	out, err := t.store.Put(ctx, t.name, rec)
	if err != nil {
		return nil, err
	}
	return t.decode(out)
}

// Update applies changes to the row with id.
func (t *Table[T]) Update(ctx context.Context, id string, changes docstore.Changes) (*T, error) {
	out, err := t.store.PartialUpdate(ctx, t.name, id, changes)
	if err != nil {
		return nil, err
	}
	return t.decode(out)
}

// Patch applies the non-nil fields of a patch struct to the row with id.
// An empty patch only refreshes updatedAt.
func (t *Table[T]) Patch(ctx context.Context, id string, patch any) (*T, error) {
	changes, err := docstore.EncodeChanges(patch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.name, err)
	}
	return t.Update(ctx, id, changes)
}

// Increment atomically adds delta to field of the row with id.
func (t *Table[T]) Increment(ctx context.Context, id, field string, delta float64) (*T, error) {
	out, err := t.store.Increment(ctx, t.name, id, field, delta)
	if err != nil {
		return nil, err
	}
	return t.decode(out)
}

// Delete removes the row with id; deleting a missing row is not an error.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	return t.store.Delete(ctx, t.name, id)
}
