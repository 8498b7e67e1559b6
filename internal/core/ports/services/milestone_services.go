package services

import (
	"context"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
)

// MilestoneSvcFacade exposes the milestone state machine. Every operation
// takes the acting identity explicitly and enforces both the role guard and
// the transition guard before any mutation.
type MilestoneSvcFacade interface {
	// StartMilestone moves a NOT_STARTED milestone to IN_PROGRESS. Freelancer only.
	StartMilestone(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error)

	// SubmitWork appends a submission and moves IN_PROGRESS to AWAITING_APPROVAL. Freelancer only.
	SubmitWork(ctx context.Context, actor domain.ActorContext, milestoneID string, req dto.SubmitWorkRequest) (*domain.Milestone, error)

	// ApproveMilestone accepts submitted work and triggers escrow release. Client only.
	ApproveMilestone(ctx context.Context, actor domain.ActorContext, milestoneID string, feedback string) (*domain.Milestone, error)

	// RequestRevision sends AWAITING_APPROVAL work back to IN_PROGRESS. Client only.
	RequestRevision(ctx context.Context, actor domain.ActorContext, milestoneID string, reason string) (*domain.Milestone, error)

	// MarkDisputed freezes a non-terminal milestone pending out-of-band resolution.
	MarkDisputed(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error)

	// MarkCancelled terminally cancels a non-terminal milestone without payment.
	MarkCancelled(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error)

	// GetMilestone retrieves a milestone the actor is a party to.
	GetMilestone(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error)
}
