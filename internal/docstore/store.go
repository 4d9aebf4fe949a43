// Package docstore is the single access layer for the schemaless document
// tables. Every entity repository talks to a Store and nothing else; the
// backends (DynamoDB, Postgres JSONB, in-memory) live in subpackages.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Record is one schemaless row. Values are strings, float64 numbers, bools,
// nil, nested Records (map[string]any) or []any.
type Record = map[string]any

// Filter is a conjunction of attribute-equality tests evaluated by Scan.
// An empty Filter matches every row.
type Filter map[string]any

// Changes is the set of attributes a PartialUpdate writes.
type Changes map[string]any

// Well-known attribute names.
const (
	AttrID        = "id"
	AttrCreatedAt = "createdAt"
	AttrUpdatedAt = "updatedAt"
	AttrVersion   = "version"
)

var (
	// ErrNotFound is returned when no row exists for the requested id.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by InsertIfAbsent when the id is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidUpdate is returned when a change set touches an immutable attribute.
	ErrInvalidUpdate = errors.New("invalid update")
	// ErrConflict is returned by Put when the row's version moved on.
	ErrConflict = errors.New("version conflict")
	// ErrStoreUnavailable marks transient backend failures (throttling, transport).
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrStore marks any other backend failure.
	ErrStore = errors.New("store error")
	// ErrTimeout is returned when a call exceeds its deadline.
	ErrTimeout = errors.New("store timeout")
)

// Store is the document store gateway.
//
// Implementations own no state beyond their connection and must honour:
//   - Get never errors on a missing row;
//   - InsertIfAbsent never overwrites;
//   - Increment is a true atomic counter, not a read-modify-write;
//   - Delete is idempotent.
type Store interface {
	// Get returns the row with the given id; ok is false when it does not exist.
	Get(ctx context.Context, table, id string) (rec Record, ok bool, err error)

	// Scan evaluates filter against every row of the table.
	Scan(ctx context.Context, table string, filter Filter) ([]Record, error)

	// InsertIfAbsent writes rec unless a row with the same id exists.
	InsertIfAbsent(ctx context.Context, table string, rec Record) (Record, error)

	// Put overwrites the full row. When rec carries a numeric version the
	// write only succeeds if the stored version equals it; the stored row
	// then holds version+1.
	Put(ctx context.Context, table string, rec Record) (Record, error)

	// PartialUpdate applies changes, stamps updatedAt and returns the full row.
	PartialUpdate(ctx context.Context, table, id string, changes Changes) (Record, error)

	// Increment atomically adds delta to field, treating a missing field as 0.
	Increment(ctx context.Context, table, id, field string, delta float64) (Record, error)

	// Delete removes the row if present.
	Delete(ctx context.Context, table, id string) error
}

// IsRetryable reports whether err is worth retrying with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrTimeout)
}

// RequireID fails when rec has no string id.
func RequireID(rec Record) error {
	if ID(rec) == "" {
		return fmt.Errorf("%w: record has no id", ErrInvalidUpdate)
	}
	return nil
}

// ValidateAttr rejects attribute names that are not plain top-level keys.
// DynamoDB would read "a.b" or "a[0]" as a document path.
func ValidateAttr(name string) error {
	if name == "" || strings.ContainsAny(name, ".[]") {
		return fmt.Errorf("%w: attribute name %q is not a plain name", ErrInvalidUpdate, name)
	}
	return nil
}

// ValidateChanges rejects change sets that touch immutable attributes or
// use names ValidateAttr refuses.
func ValidateChanges(changes Changes) error {
	for k := range changes {
		if err := ValidateAttr(k); err != nil {
			return err
		}
	}
	for _, k := range []string{AttrID, AttrCreatedAt} {
		if _, ok := changes[k]; ok {
			return fmt.Errorf("%w: attribute %q is immutable", ErrInvalidUpdate, k)
		}
	}
	return nil
}

// ValidateCounter rejects fields Increment may not touch. The timestamps and
// the id are never counters.
func ValidateCounter(field string) error {
	if err := ValidateAttr(field); err != nil {
		return err
	}
	switch field {
	case AttrID, AttrCreatedAt, AttrUpdatedAt:
		return fmt.Errorf("%w: attribute %q cannot be incremented", ErrInvalidUpdate, field)
	}
	return nil
}
