// Package progress stores each client's legacy progress document: project
// summaries and invoices held as nested lists on one row per client.
package progress

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
)

// Table is the logical table name.
const Table = "client-progress"

type Repository interface {
	// Init creates the client's empty document unless it already exists and
	// returns the stored document either way.
	Init(ctx context.Context, clientID string) (*models.ClientProgress, error)
	// Get returns docstore.ErrNotFound when the client has no document yet.
	Get(ctx context.Context, clientID string) (*models.ClientProgress, error)
	UpsertProject(ctx context.Context, clientID string, project map[string]any) (*models.ClientProgress, error)
	AddInvoice(ctx context.Context, clientID string, invoice map[string]any) (*models.ClientProgress, error)
}
