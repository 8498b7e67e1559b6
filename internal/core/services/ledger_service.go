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

var ErrUnknownEntryType = errors.New("unknown ledger entry type")

var knownEntryTypes = map[domain.EntryType]struct{}{
	domain.EntryMilestonePayment: {},
	domain.EntryWithdrawal:       {},
	domain.EntryRefund:           {},
	domain.EntryCommission:       {},
	domain.EntryBonus:            {},
	domain.EntryDisputeRefund:    {},
}

// ledgerService implements the ledger entry store surface and the balance
// calculator on top of the repository.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// AppendEntry validates and persists a new immutable ledger entry (refunds,
// commissions, bonuses, dispute refunds). Admin only; milestone payments and
// withdrawals are never appended directly, they go through the release and
// withdrawal flows with their own concurrency guards. The id, net amount,
// author and audit timestamps are always assigned here; whatever the caller
// put in those fields is discarded.
func (s *ledgerService) AppendEntry(ctx context.Context, actor domain.ActorContext, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	if _, ok := knownEntryTypes[entry.Type]; !ok {
		return nil, fmt.Errorf("%w: %w %q", apperrors.ErrValidation, ErrUnknownEntryType, entry.Type)
	}
	if entry.Type == domain.EntryMilestonePayment || entry.Type == domain.EntryWithdrawal {
		return nil, fmt.Errorf("%w: %s entries are created by their own flow, not appended directly", apperrors.ErrValidation, entry.Type)
	}
	if entry.Amount.Abs().LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: entry amount magnitude must be positive", apperrors.ErrValidation)
	}
	if entry.PlatformFee.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: platform fee must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entry.EntryID = uuid.NewString()
	entry.RecomputeNet()
	if entry.Status == "" {
		entry.Status = domain.EntryPending
	}
	if entry.Status == domain.EntryCompleted && entry.CompletedAt == nil {
		entry.CompletedAt = &now
	}
	entry.CreatedAt = now
	entry.CreatedBy = actor.UserID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actor.UserID

	if err := s.ledgerRepo.AppendEntry(ctx, entry); err != nil {
		logger.Error("Failed to append ledger entry", slog.String("error", err.Error()), slog.String("type", string(entry.Type)))
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	logger.Info("Ledger entry appended", slog.String("entry_id", entry.EntryID), slog.String("type", string(entry.Type)), slog.String("status", string(entry.Status)))
	return &entry, nil
}

// ComputeBalance derives the user's available balance from completed entries.
// This is a pure read-time aggregation; no stored counter is consulted, so it
// cannot drift from the transaction history.
func (s *ledgerService) ComputeBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	entries, err := s.ledgerRepo.ListCompletedEntriesByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load entries for balance of user %s: %w", userID, err)
	}
	return domain.BalanceFromEntries(userID, entries), nil
}

// TransitionEntryStatus applies a provider-reported status change after
// validating it against the entry status graph. Only the provider's admin
// credential may report these; a marketplace user driving another user's (or
// their own) entry status would release the withdrawal reservation and allow
// double-spending against the provider. Completed entries are financially
// frozen; only the administrative review path may touch them.
func (s *ledgerService) TransitionEntryStatus(ctx context.Context, actor domain.ActorContext, entryID string, status domain.EntryStatus) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if !entry.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: ledger entry %s cannot move from %s to %s", apperrors.ErrInvalidTransition, entryID, entry.Status, status)
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.UpdateEntryStatus(ctx, entryID, status, now, actor.UserID); err != nil {
		logger.Error("Failed to update entry status", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update status of entry %s: %w", entryID, err)
	}

	entry.Status = status
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actor.UserID
	switch status {
	case domain.EntryProcessing:
		entry.ProcessedAt = &now
	case domain.EntryCompleted:
		entry.CompletedAt = &now
	case domain.EntryFailed:
		entry.FailedAt = &now
	}

	logger.Info("Ledger entry status updated", slog.String("entry_id", entryID), slog.String("status", string(status)))
	return entry, nil
}

// ReviewEntry updates flag/verify metadata on a completed entry. Financial
// fields stay frozen; only admins may review.
func (s *ledgerService) ReviewEntry(ctx context.Context, actor domain.ActorContext, entryID string, req dto.EntryReviewRequest) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if actor.Role != domain.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	status := entry.Status
	switch {
	case req.Verified:
		status = domain.EntryVerified
	case req.Flagged:
		status = domain.EntryUnderReview
	}
	if status != entry.Status && !entry.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: ledger entry %s cannot move from %s to %s", apperrors.ErrInvalidTransition, entryID, entry.Status, status)
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.SetEntryReviewMetadata(ctx, entryID, req.Flagged, status, actor.UserID, now); err != nil {
		logger.Error("Failed to set review metadata", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to review entry %s: %w", entryID, err)
	}

	entry.Flagged = req.Flagged
	entry.Status = status
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actor.UserID

	logger.Info("Ledger entry reviewed", slog.String("entry_id", entryID), slog.Bool("flagged", req.Flagged), slog.String("status", string(status)))
	return entry, nil
}

// ListUserEntries returns a page of the user's ledger history, newest first.
func (s *ledgerService) ListUserEntries(ctx context.Context, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByUser(ctx, userID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve ledger history: %w", err)
	}

	resp := &dto.ListEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}

	logger.Debug("Ledger entries listed", slog.Int("count", len(entries)))
	return resp, nil
}
