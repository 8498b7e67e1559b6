package domain

// WorkspaceStatus indicates the lifecycle state of a collaboration workspace.
type WorkspaceStatus string

const (
	WorkspaceActive    WorkspaceStatus = "ACTIVE"
	WorkspaceCompleted WorkspaceStatus = "COMPLETED"
	WorkspaceCancelled WorkspaceStatus = "CANCELLED"
	WorkspaceDisputed  WorkspaceStatus = "DISPUTED"
)

// Workspace binds one client, one freelancer and the ordered set of milestones
// for a project. CurrentPhase and OverallProgress are derived from the
// milestone set by the progress aggregator and never accepted as input.
type Workspace struct {
	WorkspaceID     string          `json:"workspaceID"` // Primary Key (UUID)
	ProjectID       string          `json:"projectID"`
	ClientID        string          `json:"clientID"`
	FreelancerID    string          `json:"freelancerID"`
	CurrencyCode    string          `json:"currencyCode"`
	Status          WorkspaceStatus `json:"status"`
	CurrentPhase    int             `json:"currentPhase"`    // derived, never regresses
	OverallProgress int             `json:"overallProgress"` // derived, 0..100
	AuditFields
}

// ComputeOverallProgress returns the completion percentage for a milestone
// set: round(100 * completed / total), where a milestone counts as completed
// once the client has approved it (APPROVED or PAID).
func ComputeOverallProgress(milestones []Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	completed := 0
	for _, m := range milestones {
		if m.Status == MilestoneApproved || m.Status == MilestonePaid {
			completed++
		}
	}
	// integer rounding to nearest
	return (completed*100 + len(milestones)/2) / len(milestones)
}

// ComputeCurrentPhase returns the phase the workspace is on: one past the
// highest approved or paid milestone, capped at MaxPhases.
func ComputeCurrentPhase(milestones []Milestone) int {
	highest := 0
	for _, m := range milestones {
		if (m.Status == MilestoneApproved || m.Status == MilestonePaid) && m.PhaseNumber > highest {
			highest = m.PhaseNumber
		}
	}
	phase := highest + 1
	if phase > MaxPhases {
		phase = MaxPhases
	}
	return phase
}
