package mapping

import (
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/gigbridge/gigbridge_backend/internal/models"
)

// ToModelWorkspace converts a domain Workspace to a model Workspace
func ToModelWorkspace(d domain.Workspace) models.Workspace {
	return models.Workspace{
		WorkspaceID:     d.WorkspaceID,
		ProjectID:       d.ProjectID,
		ClientID:        d.ClientID,
		FreelancerID:    d.FreelancerID,
		CurrencyCode:    d.CurrencyCode,
		Status:          models.WorkspaceStatus(d.Status),
		CurrentPhase:    d.CurrentPhase,
		OverallProgress: d.OverallProgress,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWorkspace converts a model Workspace to a domain Workspace
func ToDomainWorkspace(m models.Workspace) domain.Workspace {
	return domain.Workspace{
		WorkspaceID:     m.WorkspaceID,
		ProjectID:       m.ProjectID,
		ClientID:        m.ClientID,
		FreelancerID:    m.FreelancerID,
		CurrencyCode:    m.CurrencyCode,
		Status:          domain.WorkspaceStatus(m.Status),
		CurrentPhase:    m.CurrentPhase,
		OverallProgress: m.OverallProgress,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
