package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies what a ledger entry records.
type EntryType string

const (
	EntryMilestonePayment EntryType = "MILESTONE_PAYMENT"
	EntryWithdrawal       EntryType = "WITHDRAWAL"
	EntryRefund           EntryType = "REFUND"
	EntryCommission       EntryType = "COMMISSION"
	EntryBonus            EntryType = "BONUS"
	EntryDisputeRefund    EntryType = "DISPUTE_REFUND"
)

// EntryStatus indicates the processing state of a ledger entry.
type EntryStatus string

const (
	EntryPending     EntryStatus = "PENDING"
	EntryProcessing  EntryStatus = "PROCESSING"
	EntryCompleted   EntryStatus = "COMPLETED"
	EntryFailed      EntryStatus = "FAILED"
	EntryCancelled   EntryStatus = "CANCELLED"
	EntryUnderReview EntryStatus = "UNDER_REVIEW"
	EntryVerified    EntryStatus = "VERIFIED"
)

// entryStatusTransitions is the legal status graph for ledger entries.
// COMPLETED is financially terminal; UNDER_REVIEW/VERIFIED are administrative
// annotations on completed entries and never touch financial fields.
var entryStatusTransitions = map[EntryStatus][]EntryStatus{
	EntryPending:     {EntryProcessing, EntryCompleted, EntryFailed, EntryCancelled},
	EntryProcessing:  {EntryCompleted, EntryFailed},
	EntryCompleted:   {EntryUnderReview, EntryVerified},
	EntryUnderReview: {EntryVerified, EntryCompleted},
}

// CanTransitionTo reports whether the entry status graph permits s -> target.
func (s EntryStatus) CanTransitionTo(target EntryStatus) bool {
	for _, next := range entryStatusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// PaymentMethod tags how money enters or leaves the platform.
type PaymentMethod string

const (
	MethodPlatformBalance PaymentMethod = "PLATFORM_BALANCE"
	MethodBankTransfer    PaymentMethod = "BANK_TRANSFER"
	MethodCard            PaymentMethod = "CARD"
	MethodPaypal          PaymentMethod = "PAYPAL"
)

// LedgerEntry is an immutable record of value transfer between two parties
// (or a party and the platform). Once COMPLETED its financial fields are
// frozen; reversal is always a new REFUND/DISPUTE_REFUND entry.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"` // Primary Key (UUID)
	Type         EntryType       `json:"type"`
	FromUserID   string          `json:"fromUserID"`
	FromRole     MarketplaceRole `json:"fromRole"`
	ToUserID     string          `json:"toUserID"`
	ToRole       MarketplaceRole `json:"toRole"`
	Amount       decimal.Decimal `json:"amount"`      // gross; negative by convention for withdrawals
	PlatformFee  decimal.Decimal `json:"platformFee"` // >= 0, derived
	NetAmount    decimal.Decimal `json:"netAmount"`   // always amount - platformFee
	CurrencyCode string          `json:"currencyCode"`
	Status       EntryStatus     `json:"status"`
	ProjectID    *string         `json:"projectID"`
	WorkspaceID  *string         `json:"workspaceID"` // weak reference, entries outlive workspaces
	MilestoneID  *string         `json:"milestoneID"`
	Method       PaymentMethod   `json:"method"`
	Description  string          `json:"description"`
	Flagged      bool            `json:"flagged"` // administrative metadata, mutable after completion
	ProcessedAt  *time.Time      `json:"processedAt"`
	CompletedAt  *time.Time      `json:"completedAt"`
	FailedAt     *time.Time      `json:"failedAt"`
	AuditFields
}

// RecomputeNet derives NetAmount from Amount and PlatformFee. It is the only
// way NetAmount is ever set; the field is never accepted from external input.
func (e *LedgerEntry) RecomputeNet() {
	e.NetAmount = e.Amount.Sub(e.PlatformFee)
}

// BalanceFromEntries derives a user's available balance from completed ledger
// entries: net inflows where the user is the receiver, minus the magnitude of
// the user's completed withdrawals. Entries in any other status contribute
// nothing.
func BalanceFromEntries(userID string, entries []LedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		if e.Status != EntryCompleted {
			continue
		}
		if e.ToUserID == userID && e.Type != EntryWithdrawal {
			balance = balance.Add(e.NetAmount)
		}
		if e.FromUserID == userID && e.Type == EntryWithdrawal {
			balance = balance.Sub(e.Amount.Abs())
		}
	}
	return balance
}
