package tickets

import (
	"context"
	"testing"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/docstore/memory"
	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketUpdateKeepsOtherFields(t *testing.T) {
	r := NewDocStoreRepository(memory.New(), "test-tickets")
	ctx := context.Background()

	tk, err := r.Create(ctx, &models.Ticket{ClientID: "c1", Subject: "Login broken", Priority: models.TicketMedium, Status: models.TicketActive})
	require.NoError(t, err)

	closed, urgent := "Closed", "High"
	got, err := r.Update(ctx, tk.ID, models.StatusPatch{Status: &closed, Priority: &urgent})
	require.NoError(t, err)
	assert.Equal(t, "Closed", got.Status)
	assert.Equal(t, "High", got.Priority)
	assert.Equal(t, "Login broken", got.Subject)

	byClient, err := r.ListByClient(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, byClient, 1)

	none, err := r.ListByClient(ctx, "c9")
	require.NoError(t, err)
	assert.Empty(t, none)
}
