package mapping

import (
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/gigbridge/gigbridge_backend/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      d.EntryID,
		Type:         models.EntryType(d.Type),
		FromUserID:   d.FromUserID,
		FromRole:     string(d.FromRole),
		ToUserID:     d.ToUserID,
		ToRole:       string(d.ToRole),
		Amount:       d.Amount,
		PlatformFee:  d.PlatformFee,
		NetAmount:    d.NetAmount,
		CurrencyCode: d.CurrencyCode,
		Status:       models.EntryStatus(d.Status),
		ProjectID:    d.ProjectID,
		WorkspaceID:  d.WorkspaceID,
		MilestoneID:  d.MilestoneID,
		Method:       models.PaymentMethod(d.Method),
		Description:  d.Description,
		Flagged:      d.Flagged,
		ProcessedAt:  d.ProcessedAt,
		CompletedAt:  d.CompletedAt,
		FailedAt:     d.FailedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		Type:         domain.EntryType(m.Type),
		FromUserID:   m.FromUserID,
		FromRole:     domain.MarketplaceRole(m.FromRole),
		ToUserID:     m.ToUserID,
		ToRole:       domain.MarketplaceRole(m.ToRole),
		Amount:       m.Amount,
		PlatformFee:  m.PlatformFee,
		NetAmount:    m.NetAmount,
		CurrencyCode: m.CurrencyCode,
		Status:       domain.EntryStatus(m.Status),
		ProjectID:    m.ProjectID,
		WorkspaceID:  m.WorkspaceID,
		MilestoneID:  m.MilestoneID,
		Method:       domain.PaymentMethod(m.Method),
		Description:  m.Description,
		Flagged:      m.Flagged,
		ProcessedAt:  m.ProcessedAt,
		CompletedAt:  m.CompletedAt,
		FailedAt:     m.FailedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to a slice of domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
