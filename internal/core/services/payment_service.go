package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gigbridge/gigbridge_backend/internal/apperrors"
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	portsrepo "github.com/gigbridge/gigbridge_backend/internal/core/ports/repositories"
	portssvc "github.com/gigbridge/gigbridge_backend/internal/core/ports/services"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
	"github.com/gigbridge/gigbridge_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// paymentService is the orchestrator: the single path by which escrow is
// released for milestone work and by which balances leave the platform.
type paymentService struct {
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	milestoneRepo portsrepo.MilestoneReader
	workspaceRepo portsrepo.WorkspaceReader
	workspaceSvc  portssvc.WorkspaceSvcFacade
	publisher     portssvc.EventPublisher
	feeRate       decimal.Decimal
}

// NewPaymentService creates a new payment orchestrator. feeRate is the
// fraction of each milestone payment retained by the platform (e.g. 0.10).
func NewPaymentService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	milestoneRepo portsrepo.MilestoneReader,
	workspaceRepo portsrepo.WorkspaceReader,
	workspaceSvc portssvc.WorkspaceSvcFacade,
	publisher portssvc.EventPublisher,
	feeRate decimal.Decimal,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		ledgerRepo:    ledgerRepo,
		milestoneRepo: milestoneRepo,
		workspaceRepo: workspaceRepo,
		workspaceSvc:  workspaceSvc,
		publisher:     publisher,
		feeRate:       feeRate,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// ReleasePayment releases escrow for an APPROVED milestone at most once. The
// released flag flips false->true with a conditional update inside the same
// database transaction as the ledger append; losing callers get the existing
// entry together with ErrAlreadyPaid.
func (s *paymentService) ReleasePayment(ctx context.Context, milestoneID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	milestone, err := s.milestoneRepo.FindMilestoneByID(ctx, milestoneID)
	if err != nil {
		return nil, err
	}

	if milestone.Payment.Released {
		return s.existingPayment(ctx, milestoneID)
	}

	if milestone.Status != domain.MilestoneApproved {
		return nil, fmt.Errorf("%w: cannot release payment for milestone %s in status %s", apperrors.ErrInvalidTransition, milestoneID, milestone.Status)
	}

	workspace, err := s.workspaceRepo.FindWorkspaceByID(ctx, milestone.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace for payment release: %w", err)
	}

	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		EntryID:      uuid.NewString(),
		Type:         domain.EntryMilestonePayment,
		FromUserID:   workspace.ClientID,
		FromRole:     domain.RoleClient,
		ToUserID:     workspace.FreelancerID,
		ToRole:       domain.RoleFreelancer,
		Amount:       milestone.Amount,
		PlatformFee:  milestone.Amount.Mul(s.feeRate).Round(2),
		CurrencyCode: workspace.CurrencyCode,
		Status:       domain.EntryCompleted,
		ProjectID:    &workspace.ProjectID,
		WorkspaceID:  &workspace.WorkspaceID,
		MilestoneID:  &milestone.MilestoneID,
		Method:       domain.MethodPlatformBalance,
		Description:  fmt.Sprintf("Escrow release for phase %d: %s", milestone.PhaseNumber, milestone.Title),
		CompletedAt:  &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     workspace.ClientID,
			LastUpdatedAt: now,
			LastUpdatedBy: workspace.ClientID,
		},
	}
	entry.RecomputeNet()

	if err := s.ledgerRepo.ReleaseMilestonePayment(ctx, *milestone, entry); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyPaid) || errors.Is(err, apperrors.ErrDuplicate) {
			// Lost the compare-and-swap against a concurrent release.
			logger.Info("Concurrent release detected, returning existing entry", slog.String("milestone_id", milestoneID))
			return s.existingPayment(ctx, milestoneID)
		}
		logger.Error("Failed to release milestone payment", slog.String("error", err.Error()), slog.String("milestone_id", milestoneID))
		return nil, fmt.Errorf("failed to release payment for milestone %s: %w", milestoneID, err)
	}

	if _, err := s.workspaceSvc.RecomputeProgress(ctx, workspace.WorkspaceID); err != nil {
		// Progress is derived state; a failed recompute is repaired by the
		// next read or mutation, so the release still succeeds.
		logger.Warn("Failed to recompute workspace progress after release", slog.String("error", err.Error()), slog.String("workspace_id", workspace.WorkspaceID))
	}

	s.publisher.Publish(ctx, domain.Event{
		Kind:        domain.EventPaymentReleased,
		WorkspaceID: workspace.WorkspaceID,
		MilestoneID: milestoneID,
		EntryID:     entry.EntryID,
		ActorID:     workspace.ClientID,
		OccurredAt:  now,
	})

	logger.Info("Milestone payment released",
		slog.String("milestone_id", milestoneID),
		slog.String("entry_id", entry.EntryID),
		slog.String("gross", entry.Amount.String()),
		slog.String("fee", entry.PlatformFee.String()),
		slog.String("net", entry.NetAmount.String()),
	)
	return &entry, nil
}

// existingPayment fetches the completed payment entry for an already-paid
// milestone and reports the idempotent AlreadyPaid outcome.
func (s *paymentService) existingPayment(ctx context.Context, milestoneID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindCompletedMilestonePayment(ctx, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("milestone %s is marked paid but its ledger entry could not be loaded: %w", milestoneID, err)
	}
	return entry, fmt.Errorf("%w: milestone %s", apperrors.ErrAlreadyPaid, milestoneID)
}

// InitiateWithdrawal appends a pending withdrawal for the actor. The balance
// check and the append run inside a per-user critical section in the store so
// two simultaneous requests cannot both pass the check.
func (s *paymentService) InitiateWithdrawal(ctx context.Context, actor domain.ActorContext, req dto.WithdrawalRequest) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", apperrors.ErrValidation)
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		EntryID:    uuid.NewString(),
		Type:       domain.EntryWithdrawal,
		FromUserID: actor.UserID,
		FromRole:   actor.Role,
		ToUserID:   actor.UserID,
		ToRole:     actor.Role,
		// Withdrawals are stored with a negative gross amount by convention.
		Amount:       req.Amount.Neg(),
		PlatformFee:  decimal.Zero,
		CurrencyCode: currency,
		Status:       domain.EntryPending,
		Method:       domain.PaymentMethod(req.Method),
		Description:  "Balance withdrawal",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	entry.RecomputeNet()

	if err := s.ledgerRepo.InitiateWithdrawal(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			logger.Warn("Withdrawal rejected: insufficient balance", slog.String("amount", req.Amount.String()))
			return nil, fmt.Errorf("%w: requested %s", apperrors.ErrInsufficientBalance, req.Amount.String())
		}
		logger.Error("Failed to initiate withdrawal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to initiate withdrawal: %w", err)
	}

	s.publisher.Publish(ctx, domain.Event{
		Kind:       domain.EventWithdrawalInitiated,
		EntryID:    entry.EntryID,
		ActorID:    actor.UserID,
		OccurredAt: now,
	})

	logger.Info("Withdrawal initiated", slog.String("entry_id", entry.EntryID), slog.String("amount", req.Amount.String()))
	return &entry, nil
}
