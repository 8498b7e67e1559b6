package services

import (
	"context"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
)

// WorkspaceSvcFacade manages collaboration workspaces and derives their
// progress from the milestone set.
type WorkspaceSvcFacade interface {
	// CreateWorkspace establishes a workspace and its milestone plan once a
	// contract is accepted. The creator becomes the client.
	CreateWorkspace(ctx context.Context, actor domain.ActorContext, req dto.CreateWorkspaceRequest) (*domain.Workspace, error)

	// GetWorkspace returns a workspace with freshly derived progress together
	// with its milestones. Only the workspace's parties (or an admin) may read it.
	GetWorkspace(ctx context.Context, actor domain.ActorContext, workspaceID string) (*domain.Workspace, []domain.Milestone, error)

	// RecomputeProgress re-derives overallProgress and currentPhase from the
	// milestone set and persists them. Idempotent.
	RecomputeProgress(ctx context.Context, workspaceID string) (*domain.Workspace, error)

	// AuthorizeActor verifies the actor holds the required role on the
	// workspace. Returns ErrNotFound for unknown workspaces, ErrForbidden for
	// role mismatches, and the workspace on success.
	AuthorizeActor(ctx context.Context, actor domain.ActorContext, workspaceID string, required domain.MarketplaceRole) (*domain.Workspace, error)
}

// EventPublisher relays domain events to an external dispatcher. Publishing is
// best effort; callers never fail an operation on publish errors.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event)
}
