// Package projects stores client projects and their modules.
package projects

import (
	"context"

	"github.com/exceptionzofficial/exceptionz-mobile-backend/internal/server/models"
)

// Table is the logical table name.
const Table = "projects"

type Repository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	ListByClient(ctx context.Context, clientID string) ([]models.Project, error)
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
	// UpdateModule merges patch into one module and recomputes the
	// project's progress. An unknown project or module is docstore.ErrNotFound.
	UpdateModule(ctx context.Context, projectID, moduleID string, patch models.ModulePatch) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}
