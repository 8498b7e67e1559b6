package repositories

import (
	"context"
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
)

// LedgerReader defines read operations for ledger entries.
type LedgerReader interface {
	// FindEntryByID retrieves a single ledger entry.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// FindCompletedMilestonePayment returns the completed MILESTONE_PAYMENT
	// entry referencing the given milestone, or ErrNotFound.
	FindCompletedMilestonePayment(ctx context.Context, milestoneID string) (*domain.LedgerEntry, error)

	// ListCompletedEntriesByUser retrieves every COMPLETED entry in which the
	// user appears as sender or receiver. Used by the balance calculator.
	ListCompletedEntriesByUser(ctx context.Context, userID string) ([]domain.LedgerEntry, error)

	// ListEntriesByUser retrieves a paginated history of a user's entries,
	// newest first, using token-based pagination.
	ListEntriesByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter defines write operations for ledger entries. Financial fields of
// stored entries are never mutated; status transitions and review metadata are
// the only permitted updates.
type LedgerWriter interface {
	// AppendEntry persists a new immutable ledger entry.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) error

	// ReleaseMilestonePayment atomically flips the milestone's released flag
	// from false to true, appends the completed payment entry and marks the
	// milestone PAID, all in one database transaction. Returns ErrAlreadyPaid
	// when the flag was already set (the compare-and-swap lost).
	ReleaseMilestonePayment(ctx context.Context, milestone domain.Milestone, entry domain.LedgerEntry) error

	// InitiateWithdrawal appends a pending withdrawal entry after checking the
	// user's available balance inside a per-user critical section. Returns
	// ErrInsufficientBalance when the balance check fails.
	InitiateWithdrawal(ctx context.Context, entry domain.LedgerEntry) error

	// UpdateEntryStatus applies a status transition with its timestamp.
	// Callers validate the transition; the store only records it.
	UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, at time.Time, updatedBy string) error

	// SetEntryReviewMetadata updates the administrative flag/verified metadata
	// of a completed entry without touching financial fields.
	SetEntryReviewMetadata(ctx context.Context, entryID string, flagged bool, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
