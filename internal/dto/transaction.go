package dto

import (
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WithdrawalRequest asks the platform to pay out part of the user's balance.
// Amount is the positive magnitude requested; the ledger stores withdrawals
// with a negative gross amount by convention.
type WithdrawalRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Method       string          `json:"method" binding:"required,paymentmethod"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,len=3"`
}

// AppendEntryRequest records a manual ledger adjustment (refund, commission,
// bonus, dispute refund). Milestone payments and withdrawals are rejected
// here; those entries are only ever created by their own flows.
type AppendEntryRequest struct {
	Type         string          `json:"type" binding:"required,entrytype"`
	FromUserID   string          `json:"fromUserID" binding:"required,uuid"`
	FromRole     string          `json:"fromRole" binding:"required,oneof=CLIENT FREELANCER ADMIN"`
	ToUserID     string          `json:"toUserID" binding:"required,uuid"`
	ToRole       string          `json:"toRole" binding:"required,oneof=CLIENT FREELANCER ADMIN"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	PlatformFee  decimal.Decimal `json:"platformFee"`
	CurrencyCode string          `json:"currencyCode" binding:"omitempty,len=3"`
	Status       string          `json:"status" binding:"omitempty,entrystatus"`
	ProjectID    *string         `json:"projectID" binding:"omitempty,uuid"`
	WorkspaceID  *string         `json:"workspaceID" binding:"omitempty,uuid"`
	MilestoneID  *string         `json:"milestoneID" binding:"omitempty,uuid"`
	Method       string          `json:"method" binding:"omitempty,paymentmethod"`
	Description  string          `json:"description" binding:"max=500"`
}

// ToLedgerEntry converts the request into a domain entry for AppendEntry.
// Identifier, net amount and audit fields are assigned by the service.
func (r AppendEntryRequest) ToLedgerEntry() domain.LedgerEntry {
	method := domain.PaymentMethod(r.Method)
	if method == "" {
		method = domain.MethodPlatformBalance
	}
	currency := r.CurrencyCode
	if currency == "" {
		currency = "USD"
	}
	return domain.LedgerEntry{
		Type:         domain.EntryType(r.Type),
		FromUserID:   r.FromUserID,
		FromRole:     domain.MarketplaceRole(r.FromRole),
		ToUserID:     r.ToUserID,
		ToRole:       domain.MarketplaceRole(r.ToRole),
		Amount:       r.Amount,
		PlatformFee:  r.PlatformFee,
		CurrencyCode: currency,
		Status:       domain.EntryStatus(r.Status),
		ProjectID:    r.ProjectID,
		WorkspaceID:  r.WorkspaceID,
		MilestoneID:  r.MilestoneID,
		Method:       method,
		Description:  r.Description,
	}
}

// EntryStatusUpdateRequest is the payment-provider callback payload confirming
// or failing an asynchronous transfer.
type EntryStatusUpdateRequest struct {
	Status string `json:"status" binding:"required,entrystatus"`
}

// EntryReviewRequest updates administrative review metadata on a completed
// entry. Financial fields are never part of this request.
type EntryReviewRequest struct {
	Flagged  bool `json:"flagged"`
	Verified bool `json:"verified"`
}

// ListEntriesParams holds pagination parameters for ledger history queries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID      string          `json:"entryID"`
	Type         string          `json:"type"`
	FromUserID   string          `json:"fromUserID"`
	ToUserID     string          `json:"toUserID"`
	Amount       decimal.Decimal `json:"amount"`
	PlatformFee  decimal.Decimal `json:"platformFee"`
	NetAmount    decimal.Decimal `json:"netAmount"`
	CurrencyCode string          `json:"currencyCode"`
	Status       string          `json:"status"`
	WorkspaceID  *string         `json:"workspaceID,omitempty"`
	MilestoneID  *string         `json:"milestoneID,omitempty"`
	Method       string          `json:"method"`
	Flagged      bool            `json:"flagged"`
	CreatedAt    time.Time       `json:"createdAt"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
}

// ListEntriesResponse is a page of ledger history plus the next-page token.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// BalanceResponse reports a user's available balance derived from the ledger.
type BalanceResponse struct {
	UserID  string          `json:"userID"`
	Balance decimal.Decimal `json:"balance"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its response DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:      e.EntryID,
		Type:         string(e.Type),
		FromUserID:   e.FromUserID,
		ToUserID:     e.ToUserID,
		Amount:       e.Amount,
		PlatformFee:  e.PlatformFee,
		NetAmount:    e.NetAmount,
		CurrencyCode: e.CurrencyCode,
		Status:       string(e.Status),
		WorkspaceID:  e.WorkspaceID,
		MilestoneID:  e.MilestoneID,
		Method:       string(e.Method),
		Flagged:      e.Flagged,
		CreatedAt:    e.CreatedAt,
		CompletedAt:  e.CompletedAt,
	}
}

// ToLedgerEntryResponses converts a slice of entries to response DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses
}
