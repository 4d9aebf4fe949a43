package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type timeoutStore struct {
	next    Store
	timeout time.Duration
}

// WithTimeout bounds every call on next by d. A call that runs out of time
// fails with ErrTimeout. A non-positive d returns next unchanged.
func WithTimeout(next Store, d time.Duration) Store {
	if d <= 0 {
		return next
	}
	return &timeoutStore{next: next, timeout: d}
}

func (s *timeoutStore) wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

func (s *timeoutStore) Get(ctx context.Context, table, id string) (Record, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rec, ok, err := s.next.Get(ctx, table, id)
	return rec, ok, s.wrap(ctx, err)
}

func (s *timeoutStore) Scan(ctx context.Context, table string, filter Filter) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	recs, err := s.next.Scan(ctx, table, filter)
	return recs, s.wrap(ctx, err)
}

func (s *timeoutStore) InsertIfAbsent(ctx context.Context, table string, rec Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	out, err := s.next.InsertIfAbsent(ctx, table, rec)
	return out, s.wrap(ctx, err)
}

func (s *timeoutStore) Put(ctx context.Context, table string, rec Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	out, err := s.next.Put(ctx, table, rec)
	return out, s.wrap(ctx, err)
}

func (s *timeoutStore) PartialUpdate(ctx context.Context, table, id string, changes Changes) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	out, err := s.next.PartialUpdate(ctx, table, id, changes)
	return out, s.wrap(ctx, err)
}

func (s *timeoutStore) Increment(ctx context.Context, table, id, field string, delta float64) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	out, err := s.next.Increment(ctx, table, id, field, delta)
	return out, s.wrap(ctx, err)
}

func (s *timeoutStore) Delete(ctx context.Context, table, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.wrap(ctx, s.next.Delete(ctx, table, id))
}
