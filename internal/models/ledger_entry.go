package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the persisted ledger entry classification.
type EntryType string

// EntryStatus is the persisted ledger entry processing state.
type EntryStatus string

// PaymentMethod is the persisted transfer method tag.
type PaymentMethod string

// LedgerEntry represents one immutable value-transfer record.
// Note: Amount should use a precise decimal type like github.com/shopspring/decimal
type LedgerEntry struct {
	EntryID      string          `json:"entryID"` // Primary Key (e.g., UUID)
	Type         EntryType       `json:"type"`
	FromUserID   string          `json:"fromUserID"`
	FromRole     string          `json:"fromRole"`
	ToUserID     string          `json:"toUserID"`
	ToRole       string          `json:"toRole"`
	Amount       decimal.Decimal `json:"amount"`      // Gross; negative for withdrawals
	PlatformFee  decimal.Decimal `json:"platformFee"` // Non-negative
	NetAmount    decimal.Decimal `json:"netAmount"`   // amount - platformFee
	CurrencyCode string          `json:"currencyCode"`
	Status       EntryStatus     `json:"status"`
	ProjectID    *string         `json:"projectID"`   // Nullable weak reference
	WorkspaceID  *string         `json:"workspaceID"` // Nullable weak reference
	MilestoneID  *string         `json:"milestoneID"` // Nullable weak reference
	Method       PaymentMethod   `json:"method"`
	Description  string          `json:"description"`
	Flagged      bool            `json:"flagged"`
	ProcessedAt  *time.Time      `json:"processedAt"` // Nullable
	CompletedAt  *time.Time      `json:"completedAt"` // Nullable
	FailedAt     *time.Time      `json:"failedAt"`    // Nullable
	AuditFields
}
