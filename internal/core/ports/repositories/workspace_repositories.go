package repositories

import (
	"context"
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
)

// WorkspaceReader defines read operations for workspace data.
type WorkspaceReader interface {
	// FindWorkspaceByID retrieves a workspace by its unique identifier.
	FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error)
}

// WorkspaceWriter defines write operations for workspace data.
type WorkspaceWriter interface {
	// SaveWorkspace persists a new workspace together with its full milestone
	// plan in a single database transaction.
	SaveWorkspace(ctx context.Context, workspace domain.Workspace, milestones []domain.Milestone) error

	// UpdateWorkspaceProgress stores the derived progress fields computed by
	// the aggregator. Nothing else writes these columns.
	UpdateWorkspaceProgress(ctx context.Context, workspaceID string, overallProgress, currentPhase int, status domain.WorkspaceStatus, updatedBy string, updatedAt time.Time) error
}

// WorkspaceRepositoryFacade combines all workspace repository interfaces.
type WorkspaceRepositoryFacade interface {
	WorkspaceReader
	WorkspaceWriter
}
