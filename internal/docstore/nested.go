package docstore

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// AggregateFunc derives parent attributes from the updated nested list.
// The returned attributes are written in the same Put as the list.
type AggregateFunc func(items []any) map[string]any

// NestedUpsert describes one merge of Item into the list held by Field on
// the parent row ParentID.
type NestedUpsert struct {
	Table     string
	ParentID  string
	Field     string
	Item      Record
	Aggregate AggregateFunc
}

// UpsertNested merges req.Item into the parent's nested list by id: an
// existing sub-record is shallow-merged in place, anything else is appended
// with a fresh id when it has none. The whole parent is written back with a
// single Put, so the write is optimistic when the parent carries a version
// and last-write-wins otherwise.
func UpsertNested(ctx context.Context, store Store, req NestedUpsert) (Record, error) {
	return mergeNested(ctx, store, req, false)
}

// UpdateNested is UpsertNested without the append branch: an unknown
// sub-record id fails with ErrNotFound.
func UpdateNested(ctx context.Context, store Store, req NestedUpsert) (Record, error) {
	return mergeNested(ctx, store, req, true)
}

func mergeNested(ctx context.Context, store Store, req NestedUpsert, strict bool) (Record, error) {
	parent, ok, err := store.Get(ctx, req.Table, req.ParentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", req.Table, req.ParentID, ErrNotFound)
	}

	items, err := nestedList(parent, req.Field)
	if err != nil {
		return nil, err
	}

	item, err := NormalizeRecord(req.Item)
	if err != nil {
		return nil, err
	}

	ts := Timestamp()
	itemID := ID(item)

	pos := -1
	if itemID != "" {
		for i, x := range items {
			if m, ok := x.(map[string]any); ok && ID(m) == itemID {
				pos = i
				break
			}
		}
	}

	switch {
	case pos >= 0:
		merged := items[pos].(map[string]any)
		for k, v := range item {
			if k == AttrID || k == AttrCreatedAt {
				continue
			}
			merged[k] = v
		}
		merged[AttrUpdatedAt] = ts
		items[pos] = merged
	case strict:
		return nil, fmt.Errorf("%s %q: %s item %q: %w", req.Table, req.ParentID, req.Field, itemID, ErrNotFound)
	default:
		if itemID == "" {
			item[AttrID] = NewID()
		}
		if _, ok := item[AttrCreatedAt]; !ok {
			item[AttrCreatedAt] = ts
		}
		item[AttrUpdatedAt] = ts
		items = append(items, item)
	}

	parent[req.Field] = items
	if req.Aggregate != nil {
		for k, v := range req.Aggregate(items) {
			parent[k] = v
		}
	}
	parent[AttrUpdatedAt] = ts

	return store.Put(ctx, req.Table, parent)
}

func nestedList(parent Record, field string) ([]any, error) {
	switch v := parent[field].(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: attribute %q is not a list", ErrInvalidUpdate, field)
	}
}

// MeanProgress returns an AggregateFunc writing the rounded mean of every
// item's "progress" into the parent's attr. Missing or non-numeric progress
// counts as 0; an empty list yields 0. Rounding is half away from zero.
func MeanProgress(attr string) AggregateFunc {
	return func(items []any) map[string]any {
		return map[string]any{attr: float64(Mean(items, "progress"))}
	}
}

// Mean is the rounded arithmetic mean of field across items.
func Mean(items []any, field string) int {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, x := range items {
		if m, ok := x.(map[string]any); ok {
			if f, ok := ToFloat(m[field]); ok {
				sum += f
			}
		}
	}
	return int(math.Round(sum / float64(len(items))))
}

// RetryOnConflict runs fn until it stops failing with ErrConflict or the
// attempts are used up. fn must re-read whatever it writes.
func RetryOnConflict(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); !errors.Is(err, ErrConflict) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
