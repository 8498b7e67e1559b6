package repositories

import (
	"context"
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
)

// MilestoneReader defines read operations for milestone data.
type MilestoneReader interface {
	// FindMilestoneByID retrieves a specific milestone by its unique identifier.
	FindMilestoneByID(ctx context.Context, milestoneID string) (*domain.Milestone, error)

	// ListMilestonesByWorkspace retrieves all milestones of a workspace ordered by phase number.
	ListMilestonesByWorkspace(ctx context.Context, workspaceID string) ([]domain.Milestone, error)
}

// MilestoneWriter defines write operations for milestone data.
type MilestoneWriter interface {
	// UpdateMilestone persists status/progress changes of a milestone.
	// Payment fields are NOT written here; they only change through
	// LedgerWriter.ReleaseMilestonePayment.
	UpdateMilestone(ctx context.Context, milestone domain.Milestone) error

	// UpdateMilestoneStatus updates only the status plus audit fields, used by
	// the terminal cancel/dispute transitions.
	UpdateMilestoneStatus(ctx context.Context, milestoneID string, status domain.MilestoneStatus, updatedBy string, updatedAt time.Time) error
}

// MilestoneRepositoryFacade combines all milestone repository interfaces.
type MilestoneRepositoryFacade interface {
	MilestoneReader
	MilestoneWriter
}
