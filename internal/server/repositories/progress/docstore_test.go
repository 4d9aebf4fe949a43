package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	r := NewDocStoreRepository(memory.New(), "test-progress")
	ctx := context.Background()

	first, err := r.Init(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", first.ID)
	assert.Empty(t, first.Projects)
	assert.Empty(t, first.Invoices)

	_, err = r.AddInvoice(ctx, "u1", map[string]any{"amount": 100})
	require.NoError(t, err)

	again, err := r.Init(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, again.Invoices, 1, "init must not reset an existing document")
}

func TestUpsertProjectReplacesInPlace(t *testing.T) {
	r := NewDocStoreRepository(memory.New(), "test-progress")
	ctx := context.Background()

	_, err := r.Init(ctx, "u1")
	require.NoError(t, err)

	_, err = r.UpsertProject(ctx, "u1", map[string]any{"id": "p1", "name": "App", "progress": 10})
	require.NoError(t, err)
	_, err = r.UpsertProject(ctx, "u1", map[string]any{"id": "p2", "name": "Site"})
	require.NoError(t, err)
	got, err := r.UpsertProject(ctx, "u1", map[string]any{"id": "p1", "progress": 60})
	require.NoError(t, err)

	require.Len(t, got.Projects, 2)
	assert.Equal(t, "p1", got.Projects[0]["id"])
	assert.Equal(t, "App", got.Projects[0]["name"])
	assert.Equal(t, float64(60), got.Projects[0]["progress"])
	assert.Equal(t, int64(3), got.Version)
}

func TestAddInvoiceAssignsIDs(t *testing.T) {
	r := NewDocStoreRepository(memory.New(), "test-progress")
	ctx := context.Background()

	_, err := r.Init(ctx, "u1")
	require.NoError(t, err)

	_, err = r.AddInvoice(ctx, "u1", map[string]any{"id": "client-chosen", "amount": 1})
	require.NoError(t, err)
	got, err := r.AddInvoice(ctx, "u1", map[string]any{"id": "client-chosen", "amount": 2})
	require.NoError(t, err)

	require.Len(t, got.Invoices, 2)
	assert.NotEqual(t, got.Invoices[0]["id"], got.Invoices[1]["id"])
	assert.NotEmpty(t, got.Invoices[1]["createdAt"])
}

func TestUpsertWithoutDocument(t *testing.T) {
	r := NewDocStoreRepository(memory.New(), "test-progress")
	_, err := r.UpsertProject(context.Background(), "nobody", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestConcurrentInvoicesAreNotLost(t *testing.T) {
	r := NewDocStoreRepository(memory.New(), "test-progress")
	ctx := context.Background()
	_, err := r.Init(ctx, "u1")
	require.NoError(t, err)

	const n = 4
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.AddInvoice(ctx, "u1", map[string]any{"n": i})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := r.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got.Invoices, n)
}
