package mapping

import (
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/gigbridge/gigbridge_backend/internal/models"
)

// ToModelMilestone converts a domain Milestone to a model Milestone
func ToModelMilestone(d domain.Milestone) models.Milestone {
	return models.Milestone{
		MilestoneID:    d.MilestoneID,
		WorkspaceID:    d.WorkspaceID,
		PhaseNumber:    d.PhaseNumber,
		Title:          d.Title,
		Description:    d.Description,
		DueDate:        d.DueDate,
		Amount:         d.Amount,
		Status:         models.MilestoneStatus(d.Status),
		StartedAt:      d.StartedAt,
		Submissions:    toModelSubmissions(d.Progress.Submissions),
		ClientFeedback: d.Progress.ClientFeedback,
		RevisionCount:  d.Progress.RevisionCount,
		Revisions:      toModelRevisions(d.Progress.Revisions),
		ClientApproved: d.Progress.ClientApproved,
		ApprovedAt:     d.Progress.ApprovedAt,
		PaymentRelease: d.Payment.Released,
		ReleasedAt:     d.Payment.ReleasedAt,
		LedgerEntryID:  d.Payment.LedgerEntryID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMilestone converts a model Milestone to a domain Milestone
func ToDomainMilestone(m models.Milestone) domain.Milestone {
	return domain.Milestone{
		MilestoneID: m.MilestoneID,
		WorkspaceID: m.WorkspaceID,
		PhaseNumber: m.PhaseNumber,
		Title:       m.Title,
		Description: m.Description,
		DueDate:     m.DueDate,
		Amount:      m.Amount,
		Status:      domain.MilestoneStatus(m.Status),
		StartedAt:   m.StartedAt,
		Progress: domain.MilestoneProgress{
			Submissions:    toDomainSubmissions(m.Submissions),
			ClientFeedback: m.ClientFeedback,
			RevisionCount:  m.RevisionCount,
			Revisions:      toDomainRevisions(m.Revisions),
			ClientApproved: m.ClientApproved,
			ApprovedAt:     m.ApprovedAt,
		},
		Payment: domain.MilestonePayment{
			Released:      m.PaymentRelease,
			ReleasedAt:    m.ReleasedAt,
			LedgerEntryID: m.LedgerEntryID,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMilestoneSlice converts a slice of model Milestones to a slice of domain Milestones
func ToDomainMilestoneSlice(ms []models.Milestone) []domain.Milestone {
	ds := make([]domain.Milestone, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMilestone(m)
	}
	return ds
}

func toModelSubmissions(ds []domain.SubmissionEntry) []models.SubmissionEntry {
	if ds == nil {
		return nil
	}
	ms := make([]models.SubmissionEntry, len(ds))
	for i, d := range ds {
		ms[i] = models.SubmissionEntry{
			Artifacts:   d.Artifacts,
			Notes:       d.Notes,
			SubmittedAt: d.SubmittedAt,
		}
	}
	return ms
}

func toDomainSubmissions(ms []models.SubmissionEntry) []domain.SubmissionEntry {
	if ms == nil {
		return nil
	}
	ds := make([]domain.SubmissionEntry, len(ms))
	for i, m := range ms {
		ds[i] = domain.SubmissionEntry{
			Artifacts:   m.Artifacts,
			Notes:       m.Notes,
			SubmittedAt: m.SubmittedAt,
		}
	}
	return ds
}

func toModelRevisions(ds []domain.RevisionEntry) []models.RevisionEntry {
	if ds == nil {
		return nil
	}
	ms := make([]models.RevisionEntry, len(ds))
	for i, d := range ds {
		ms[i] = models.RevisionEntry{
			RequestedBy: d.RequestedBy,
			Reason:      d.Reason,
			RequestedAt: d.RequestedAt,
		}
	}
	return ms
}

func toDomainRevisions(ms []models.RevisionEntry) []domain.RevisionEntry {
	if ms == nil {
		return nil
	}
	ds := make([]domain.RevisionEntry, len(ms))
	for i, m := range ms {
		ds[i] = domain.RevisionEntry{
			RequestedBy: m.RequestedBy,
			Reason:      m.Reason,
			RequestedAt: m.RequestedAt,
		}
	}
	return ds
}
