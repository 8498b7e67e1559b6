package dto

import (
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitWorkRequest hands over work artifacts for client review.
type SubmitWorkRequest struct {
	Artifacts []string `json:"artifacts" binding:"required,min=1"`
	Notes     string   `json:"notes"`
}

// ApproveMilestoneRequest accepts submitted work, optionally with feedback.
type ApproveMilestoneRequest struct {
	Feedback string `json:"feedback"`
}

// RequestRevisionRequest sends submitted work back for another iteration.
type RequestRevisionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MilestoneResponse defines the data returned for a milestone.
type MilestoneResponse struct {
	MilestoneID     string          `json:"milestoneID"`
	WorkspaceID     string          `json:"workspaceID"`
	PhaseNumber     int             `json:"phaseNumber"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DueDate         *time.Time      `json:"dueDate"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	RevisionCount   int             `json:"revisionCount"`
	ClientApproved  bool            `json:"clientApproved"`
	ApprovedAt      *time.Time      `json:"approvedAt"`
	PaymentReleased bool            `json:"paymentReleased"`
	ReleasedAt      *time.Time      `json:"releasedAt"`
	LedgerEntryID   *string         `json:"ledgerEntryID"`
}

// ToMilestoneResponse converts a domain.Milestone to its response DTO.
func ToMilestoneResponse(m *domain.Milestone) MilestoneResponse {
	return MilestoneResponse{
		MilestoneID:     m.MilestoneID,
		WorkspaceID:     m.WorkspaceID,
		PhaseNumber:     m.PhaseNumber,
		Title:           m.Title,
		Description:     m.Description,
		DueDate:         m.DueDate,
		Amount:          m.Amount,
		Status:          string(m.Status),
		RevisionCount:   m.Progress.RevisionCount,
		ClientApproved:  m.Progress.ClientApproved,
		ApprovedAt:      m.Progress.ApprovedAt,
		PaymentReleased: m.Payment.Released,
		ReleasedAt:      m.Payment.ReleasedAt,
		LedgerEntryID:   m.Payment.LedgerEntryID,
	}
}

// ToMilestoneResponses converts a slice of milestones to response DTOs.
func ToMilestoneResponses(ms []domain.Milestone) []MilestoneResponse {
	responses := make([]MilestoneResponse, len(ms))
	for i := range ms {
		responses[i] = ToMilestoneResponse(&ms[i])
	}
	return responses
}
