package repomanager

import (
	"context"
	"testing"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore/memory"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerImplementsInterface(t *testing.T) {
	var _ RepositoryManager = NewDocStoreRepositoryManager(memory.New(), "")
}

func TestTableName(t *testing.T) {
	m := NewDocStoreRepositoryManager(memory.New(), "exceptionz-")
	assert.Equal(t, "exceptionz-jobs", m.TableName("jobs"))
	assert.Equal(t, "exceptionz-support-tickets", m.TableName("support-tickets"))
}

func TestRepositoriesUsePrefixedTables(t *testing.T) {
	store := memory.New()
	m := NewDocStoreRepositoryManager(store, "exceptionz-")
	ctx := context.Background()

	job, err := m.Jobs().Create(ctx, &models.Job{Title: "Go Developer", Status: models.JobActive})
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, "exceptionz-jobs", job.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = store.Get(ctx, "jobs", job.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositoriesShareStore(t *testing.T) {
	m := NewDocStoreRepositoryManager(memory.New(), "p-")
	ctx := context.Background()

	a, err := m.Accounts().Create(ctx, &models.Account{Name: "A", Email: "a@b.c", Role: "user"})
	require.NoError(t, err)

	got, err := m.Accounts().Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", got.Email)

	for name, repo := range map[string]any{
		"progress":       m.Progress(),
		"projects":       m.Projects(),
		"appointments":   m.Appointments(),
		"tickets":        m.Tickets(),
		"applications":   m.Applications(),
		"quotes":         m.Quotes(),
		"quote requests": m.QuoteRequests(),
		"pricing":        m.Pricing(),
	} {
		assert.NotNil(t, repo, name)
	}
}
