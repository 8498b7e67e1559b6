package dto

import (
	"time"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMilestonePlanEntry describes one phase of the delivery plan at
// workspace creation time.
type CreateMilestonePlanEntry struct {
	PhaseNumber int             `json:"phaseNumber" binding:"required,min=1,max=5"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	DueDate     *time.Time      `json:"dueDate"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// CreateWorkspaceRequest creates the collaboration workspace for an accepted
// contract, together with its ordered milestone plan.
type CreateWorkspaceRequest struct {
	ProjectID    string                     `json:"projectID" binding:"required"`
	FreelancerID string                     `json:"freelancerID" binding:"required"`
	CurrencyCode string                     `json:"currencyCode" binding:"required,len=3"`
	Milestones   []CreateMilestonePlanEntry `json:"milestones" binding:"required,min=1,max=5,dive"`
}

// WorkspaceResponse defines the data returned for a workspace.
type WorkspaceResponse struct {
	WorkspaceID     string    `json:"workspaceID"`
	ProjectID       string    `json:"projectID"`
	ClientID        string    `json:"clientID"`
	FreelancerID    string    `json:"freelancerID"`
	CurrencyCode    string    `json:"currencyCode"`
	Status          string    `json:"status"`
	CurrentPhase    int       `json:"currentPhase"`
	OverallProgress int       `json:"overallProgress"`
	CreatedAt       time.Time `json:"createdAt"`
}

// GetWorkspaceResponse combines a workspace with its milestone plan.
type GetWorkspaceResponse struct {
	Workspace  WorkspaceResponse   `json:"workspace"`
	Milestones []MilestoneResponse `json:"milestones"`
}

// ToWorkspaceResponse converts a domain.Workspace to its response DTO.
func ToWorkspaceResponse(w *domain.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		WorkspaceID:     w.WorkspaceID,
		ProjectID:       w.ProjectID,
		ClientID:        w.ClientID,
		FreelancerID:    w.FreelancerID,
		CurrencyCode:    w.CurrencyCode,
		Status:          string(w.Status),
		CurrentPhase:    w.CurrentPhase,
		OverallProgress: w.OverallProgress,
		CreatedAt:       w.CreatedAt,
	}
}
