package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/apperrors"
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	portsrepo "github.com/gigbridge/gigbridge_backend/internal/core/ports/repositories"
	portssvc "github.com/gigbridge/gigbridge_backend/internal/core/ports/services"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
	"github.com/gigbridge/gigbridge_backend/internal/middleware"
)

// milestoneService implements the milestone state machine. Every operation
// validates the role guard and the transition guard before any mutation; the
// milestone write always precedes any ledger write.
type milestoneService struct {
	milestoneRepo portsrepo.MilestoneRepositoryFacade
	workspaceSvc  portssvc.WorkspaceSvcFacade
	paymentSvc    portssvc.PaymentSvcFacade
	publisher     portssvc.EventPublisher
	maxRevisions  int
}

// NewMilestoneService creates a new milestone service. maxRevisions caps how
// many revision requests a client may make per milestone before having to
// escalate to a dispute.
func NewMilestoneService(
	milestoneRepo portsrepo.MilestoneRepositoryFacade,
	workspaceSvc portssvc.WorkspaceSvcFacade,
	paymentSvc portssvc.PaymentSvcFacade,
	publisher portssvc.EventPublisher,
	maxRevisions int,
) portssvc.MilestoneSvcFacade {
	return &milestoneService{
		milestoneRepo: milestoneRepo,
		workspaceSvc:  workspaceSvc,
		paymentSvc:    paymentSvc,
		publisher:     publisher,
		maxRevisions:  maxRevisions,
	}
}

var _ portssvc.MilestoneSvcFacade = (*milestoneService)(nil)

// loadAuthorized fetches a milestone and checks the actor holds the required
// role on its workspace.
func (s *milestoneService) loadAuthorized(ctx context.Context, actor domain.ActorContext, milestoneID string, required domain.MarketplaceRole) (*domain.Milestone, *domain.Workspace, error) {
	milestone, err := s.milestoneRepo.FindMilestoneByID(ctx, milestoneID)
	if err != nil {
		return nil, nil, err
	}

	workspace, err := s.workspaceSvc.AuthorizeActor(ctx, actor, milestone.WorkspaceID, required)
	if err != nil {
		return nil, nil, err
	}

	return milestone, workspace, nil
}

// invalidTransition builds the InvalidTransition error with enough detail for
// the caller to act on.
func invalidTransition(m *domain.Milestone, action string) error {
	return fmt.Errorf("%w: cannot %s milestone %s in status %s", apperrors.ErrInvalidTransition, action, m.MilestoneID, m.Status)
}

// StartMilestone moves a NOT_STARTED milestone to IN_PROGRESS.
func (s *milestoneService) StartMilestone(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	milestone, _, err := s.loadAuthorized(ctx, actor, milestoneID, domain.RoleFreelancer)
	if err != nil {
		return nil, err
	}

	if milestone.Status != domain.MilestoneNotStarted || !milestone.Status.CanTransitionTo(domain.MilestoneInProgress) {
		return nil, invalidTransition(milestone, "start")
	}

	now := time.Now().UTC()
	milestone.Status = domain.MilestoneInProgress
	milestone.StartedAt = &now
	milestone.LastUpdatedAt = now
	milestone.LastUpdatedBy = actor.UserID

	if err := s.milestoneRepo.UpdateMilestone(ctx, *milestone); err != nil {
		logger.Error("Failed to persist milestone start", slog.String("error", err.Error()), slog.String("milestone_id", milestoneID))
		return nil, fmt.Errorf("failed to start milestone: %w", err)
	}

	s.publisher.Publish(ctx, domain.Event{
		Kind:        domain.EventMilestoneStarted,
		WorkspaceID: milestone.WorkspaceID,
		MilestoneID: milestoneID,
		ActorID:     actor.UserID,
		OccurredAt:  now,
	})

	logger.Info("Milestone started", slog.String("milestone_id", milestoneID), slog.Int("phase", milestone.PhaseNumber))
	return milestone, nil
}

// SubmitWork appends the freelancer's submission and hands the milestone to
// the client for review.
func (s *milestoneService) SubmitWork(ctx context.Context, actor domain.ActorContext, milestoneID string, req dto.SubmitWorkRequest) (*domain.Milestone, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	milestone, _, err := s.loadAuthorized(ctx, actor, milestoneID, domain.RoleFreelancer)
	if err != nil {
		return nil, err
	}

	if milestone.Status != domain.MilestoneInProgress {
		return nil, invalidTransition(milestone, "submit work for")
	}

	now := time.Now().UTC()
	milestone.Progress.Submissions = append(milestone.Progress.Submissions, domain.SubmissionEntry{
		Artifacts:   req.Artifacts,
		Notes:       req.Notes,
		SubmittedAt: now,
	})
	milestone.Progress.ClientApproved = false
	milestone.Status = domain.MilestoneAwaitingApproval
	milestone.LastUpdatedAt = now
	milestone.LastUpdatedBy = actor.UserID

	if err := s.milestoneRepo.UpdateMilestone(ctx, *milestone); err != nil {
		logger.Error("Failed to persist work submission", slog.String("error", err.Error()), slog.String("milestone_id", milestoneID))
		return nil, fmt.Errorf("failed to submit work: %w", err)
	}

	s.publisher.Publish(ctx, domain.Event{
		Kind:        domain.EventWorkSubmitted,
		WorkspaceID: milestone.WorkspaceID,
		MilestoneID: milestoneID,
		ActorID:     actor.UserID,
		OccurredAt:  now,
	})

	logger.Info("Work submitted", slog.String("milestone_id", milestoneID), slog.Int("artifacts", len(req.Artifacts)))
	return milestone, nil
}

// ApproveMilestone accepts submitted work and releases escrow. The milestone
// write happens before the ledger write, so a failure between the two leaves
// the milestone APPROVED-but-unpaid; re-approving such a milestone simply
// re-triggers the release, and re-approving a PAID one is an AlreadyPaid no-op.
func (s *milestoneService) ApproveMilestone(ctx context.Context, actor domain.ActorContext, milestoneID string, feedback string) (*domain.Milestone, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	milestone, _, err := s.loadAuthorized(ctx, actor, milestoneID, domain.RoleClient)
	if err != nil {
		return nil, err
	}

	switch milestone.Status {
	case domain.MilestoneAwaitingApproval:
		now := time.Now().UTC()
		milestone.Progress.ClientApproved = true
		milestone.Progress.ApprovedAt = &now
		if feedback != "" {
			milestone.Progress.ClientFeedback = feedback
		}
		milestone.Status = domain.MilestoneApproved
		milestone.LastUpdatedAt = now
		milestone.LastUpdatedBy = actor.UserID

		if err := s.milestoneRepo.UpdateMilestone(ctx, *milestone); err != nil {
			logger.Error("Failed to persist milestone approval", slog.String("error", err.Error()), slog.String("milestone_id", milestoneID))
			return nil, fmt.Errorf("failed to approve milestone: %w", err)
		}

		s.publisher.Publish(ctx, domain.Event{
			Kind:        domain.EventMilestoneApproved,
			WorkspaceID: milestone.WorkspaceID,
			MilestoneID: milestoneID,
			ActorID:     actor.UserID,
			OccurredAt:  now,
		})

	case domain.MilestoneApproved, domain.MilestonePaid:
		// Recovery/idempotency path: fall through to the release below.

	default:
		return nil, invalidTransition(milestone, "approve")
	}

	entry, err := s.paymentSvc.ReleasePayment(ctx, milestoneID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPaid) {
			logger.Info("Milestone already paid, approval is a no-op", slog.String("milestone_id", milestoneID))
			return s.milestoneRepo.FindMilestoneByID(ctx, milestoneID)
		}
		// The milestone stays APPROVED; release can be retried safely.
		logger.Error("Payment release failed after approval", slog.String("error", err.Error()), slog.String("milestone_id", milestoneID))
		return milestone, fmt.Errorf("milestone approved but payment release failed: %w", err)
	}

	logger.Info("Milestone approved and paid", slog.String("milestone_id", milestoneID), slog.String("entry_id", entry.EntryID))
	return s.milestoneRepo.FindMilestoneByID(ctx, milestoneID)
}

// RequestRevision sends submitted work back for another iteration. Once the
// configured maximum is exhausted the request is rejected and the client must
// escalate to a dispute instead.
func (s *milestoneService) RequestRevision(ctx context.Context, actor domain.ActorContext, milestoneID string, reason string) (*domain.Milestone, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	milestone, _, err := s.loadAuthorized(ctx, actor, milestoneID, domain.RoleClient)
	if err != nil {
		return nil, err
	}

	if milestone.Status != domain.MilestoneAwaitingApproval {
		return nil, invalidTransition(milestone, "request revision for")
	}

	if milestone.Progress.RevisionCount >= s.maxRevisions {
		logger.Warn("Revision limit reached", slog.String("milestone_id", milestoneID), slog.Int("count", milestone.Progress.RevisionCount))
		return nil, fmt.Errorf("%w: milestone %s already had %d revisions", apperrors.ErrRevisionLimitExceeded, milestoneID, milestone.Progress.RevisionCount)
	}

	now := time.Now().UTC()
	milestone.Progress.RevisionCount++
	milestone.Progress.Revisions = append(milestone.Progress.Revisions, domain.RevisionEntry{
		RequestedBy: actor.UserID,
		Reason:      reason,
		RequestedAt: now,
	})
	milestone.Progress.ClientApproved = false
	milestone.Status = domain.MilestoneInProgress
	milestone.LastUpdatedAt = now
	milestone.LastUpdatedBy = actor.UserID

	if err := s.milestoneRepo.UpdateMilestone(ctx, *milestone); err != nil {
		logger.Error("Failed to persist revision request", slog.String("error", err.Error()), slog.String("milestone_id", milestoneID))
		return nil, fmt.Errorf("failed to request revision: %w", err)
	}

	s.publisher.Publish(ctx, domain.Event{
		Kind:        domain.EventRevisionRequested,
		WorkspaceID: milestone.WorkspaceID,
		MilestoneID: milestoneID,
		ActorID:     actor.UserID,
		OccurredAt:  now,
	})

	logger.Info("Revision requested", slog.String("milestone_id", milestoneID), slog.Int("revision_count", milestone.Progress.RevisionCount))
	return milestone, nil
}

// MarkDisputed freezes a non-terminal milestone. No payment is released;
// money already moved is only ever reversed by a new dispute_refund entry.
func (s *milestoneService) MarkDisputed(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
	return s.terminate(ctx, actor, milestoneID, domain.MilestoneDisputed, domain.EventMilestoneDisputed)
}

// MarkCancelled terminally cancels a non-terminal milestone without payment.
func (s *milestoneService) MarkCancelled(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
	return s.terminate(ctx, actor, milestoneID, domain.MilestoneCancelled, domain.EventMilestoneCancelled)
}

func (s *milestoneService) terminate(ctx context.Context, actor domain.ActorContext, milestoneID string, target domain.MilestoneStatus, kind domain.EventKind) (*domain.Milestone, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Either party may cancel or dispute.
	milestone, _, err := s.loadAuthorized(ctx, actor, milestoneID, "")
	if err != nil {
		return nil, err
	}

	if !milestone.Status.CanTransitionTo(target) {
		return nil, invalidTransition(milestone, "terminate")
	}

	now := time.Now().UTC()
	if err := s.milestoneRepo.UpdateMilestoneStatus(ctx, milestoneID, target, actor.UserID, now); err != nil {
		logger.Error("Failed to persist terminal milestone status", slog.String("error", err.Error()), slog.String("milestone_id", milestoneID))
		return nil, fmt.Errorf("failed to update milestone status: %w", err)
	}
	milestone.Status = target
	milestone.LastUpdatedAt = now
	milestone.LastUpdatedBy = actor.UserID

	s.publisher.Publish(ctx, domain.Event{
		Kind:        kind,
		WorkspaceID: milestone.WorkspaceID,
		MilestoneID: milestoneID,
		ActorID:     actor.UserID,
		OccurredAt:  now,
	})

	logger.Info("Milestone moved to terminal status", slog.String("milestone_id", milestoneID), slog.String("status", string(target)))
	return milestone, nil
}

// GetMilestone retrieves a milestone the actor is a party to.
func (s *milestoneService) GetMilestone(ctx context.Context, actor domain.ActorContext, milestoneID string) (*domain.Milestone, error) {
	milestone, _, err := s.loadAuthorized(ctx, actor, milestoneID, "")
	if err != nil {
		return nil, err
	}
	return milestone, nil
}
