// Package memory is an in-process docstore.Store used by tests, local runs
// and the "memory" storage backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
)

var _ docstore.Store = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]docstore.Record
}

func New() *Store {
	return &Store{tables: map[string]map[string]docstore.Record{}}
}

func (s *Store) table(name string) map[string]docstore.Record {
	t, ok := s.tables[name]
	if !ok {
		t = map[string]docstore.Record{}
		s.tables[name] = t
	}
	return t
}

func (s *Store) Get(ctx context.Context, table, id string) (docstore.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tables[table][id]
	if !ok {
		return nil, false, nil
	}
	return docstore.Clone(rec), true, nil
}

func (s *Store) Scan(ctx context.Context, table string, filter docstore.Filter) ([]docstore.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := docstore.NormalizeFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docstore.ErrStore, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]docstore.Record, 0)
	for _, rec := range s.tables[table] {
		if docstore.Matches(rec, f) {
			out = append(out, docstore.Clone(rec))
		}
	}
	return out, nil
}

func (s *Store) InsertIfAbsent(ctx context.Context, table string, rec docstore.Record) (docstore.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := docstore.RequireID(rec); err != nil {
		return nil, err
	}

	row, err := docstore.NormalizeRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docstore.ErrStore, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(table)
	id := docstore.ID(row)
	if _, ok := t[id]; ok {
		return nil, fmt.Errorf("%s %q: %w", table, id, docstore.ErrAlreadyExists)
	}
	t[id] = row
	return docstore.Clone(row), nil
}

func (s *Store) Put(ctx context.Context, table string, rec docstore.Record) (docstore.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := docstore.RequireID(rec); err != nil {
		return nil, err
	}

	row, err := docstore.NormalizeRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docstore.ErrStore, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.table(table)
	id := docstore.ID(row)

	if want, versioned := docstore.Version(row); versioned {
		cur, exists := t[id]
		var have int64
		if exists {
			have, _ = docstore.Version(cur)
		}
		if (!exists && want != 0) || (exists && have != want) {
			return nil, fmt.Errorf("%s %q: %w", table, id, docstore.ErrConflict)
		}
		row[docstore.AttrVersion] = float64(want + 1)
	}

	t[id] = row
	return docstore.Clone(row), nil
}

func (s *Store) PartialUpdate(ctx context.Context, table, id string, changes docstore.Changes) (docstore.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := docstore.ValidateChanges(changes); err != nil {
		return nil, err
	}

	norm, err := docstore.NormalizeRecord(docstore.Record(changes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", docstore.ErrStore, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.tables[table][id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", table, id, docstore.ErrNotFound)
	}
	for k, v := range norm {
		row[k] = v
	}
	row[docstore.AttrUpdatedAt] = docstore.Timestamp()
	return docstore.Clone(row), nil
}

func (s *Store) Increment(ctx context.Context, table, id, field string, delta float64) (docstore.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := docstore.ValidateCounter(field); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.tables[table][id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", table, id, docstore.ErrNotFound)
	}

	var cur float64
	if v, present := row[field]; present && v != nil {
		f, isNum := docstore.ToFloat(v)
		if !isNum {
			return nil, fmt.Errorf("%w: attribute %q is not a number", docstore.ErrInvalidUpdate, field)
		}
		cur = f
	}
	row[field] = cur + delta
	row[docstore.AttrUpdatedAt] = docstore.Timestamp()
	return docstore.Clone(row), nil
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tables[table], id)
	return nil
}
