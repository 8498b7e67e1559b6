package services

import (
	"context"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/gigbridge/gigbridge_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// PaymentSvcFacade is the orchestrator: the single path by which money is
// released for milestone work or leaves the platform.
type PaymentSvcFacade interface {
	// ReleasePayment releases escrow for an APPROVED milestone: computes the
	// platform fee, appends the completed ledger entry and marks the milestone
	// PAID, at most once. Returns the entry plus ErrAlreadyPaid when a
	// previous release already succeeded.
	ReleasePayment(ctx context.Context, milestoneID string) (*domain.LedgerEntry, error)

	// InitiateWithdrawal appends a pending withdrawal for the actor after a
	// serialized balance check. Completion arrives later via the provider
	// callback (LedgerSvcFacade.TransitionEntryStatus).
	InitiateWithdrawal(ctx context.Context, actor domain.ActorContext, req dto.WithdrawalRequest) (*domain.LedgerEntry, error)
}

// LedgerSvcFacade exposes the ledger entry store and balance calculator.
type LedgerSvcFacade interface {
	// AppendEntry validates and persists a new immutable entry (refunds,
	// commissions, bonuses). Admin only; milestone payments and withdrawals
	// must go through the orchestrator instead. NetAmount is always
	// recomputed server-side and the actor becomes the entry's author.
	AppendEntry(ctx context.Context, actor domain.ActorContext, entry domain.LedgerEntry) (*domain.LedgerEntry, error)

	// ComputeBalance derives the user's available balance from completed
	// ledger entries. No cached balance field is ever consulted.
	ComputeBalance(ctx context.Context, userID string) (decimal.Decimal, error)

	// TransitionEntryStatus applies a provider-reported status change
	// (pending -> completed/failed/cancelled and the processing path).
	// Restricted to the provider's admin credential; regular marketplace
	// users cannot drive entry statuses.
	TransitionEntryStatus(ctx context.Context, actor domain.ActorContext, entryID string, status domain.EntryStatus) (*domain.LedgerEntry, error)

	// ReviewEntry updates flag/verify metadata on a completed entry. Admin only.
	ReviewEntry(ctx context.Context, actor domain.ActorContext, entryID string, req dto.EntryReviewRequest) (*domain.LedgerEntry, error)

	// ListUserEntries returns a page of the user's ledger history, newest first.
	ListUserEntries(ctx context.Context, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
